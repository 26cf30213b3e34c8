// Package redact implements the credential sanitization engine: an
// immutable registry of detection rules applied to log messages and
// structured payloads immediately before emission.
package redact

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// Engine applies the detector registry to text and structured values. It is
// built once at startup, holds no mutable state, and is safe for concurrent
// use.
type Engine struct {
	detectors     []Detector
	sensitiveKeys []string
	logger        *zap.Logger
}

// New builds an engine from the given options. Caller-supplied patterns are
// compiled here; a malformed pattern fails construction rather than running
// with a partial registry.
func New(opts Options, log *zap.Logger) (*Engine, error) {
	if log == nil {
		log = zap.NewNop()
	}

	detectors, err := selectDetectors(opts.Detectors)
	if err != nil {
		return nil, err
	}

	for _, extra := range opts.ExtraPatterns {
		re, err := regexp.Compile(extra.Pattern)
		if err != nil {
			return nil, fmt.Errorf("compiling pattern %q: %w", extra.Name, err)
		}
		if re.MatchString(Mask) {
			return nil, fmt.Errorf("pattern %q matches the redaction mask", extra.Name)
		}
		detectors = append(detectors, Detector{
			Name:    extra.Name,
			Kind:    KindGenericSecret,
			Pattern: re,
		})
	}

	keys := defaultSensitiveKeys()
	for _, k := range opts.ExtraSensitiveKeys {
		keys = append(keys, strings.ToLower(strings.TrimSpace(k)))
	}

	engine := &Engine{
		detectors:     detectors,
		sensitiveKeys: keys,
		logger:        log,
	}

	log.Debug("redaction engine initialized",
		zap.Int("detectors", len(detectors)),
		zap.Int("sensitive_keys", len(keys)),
	)

	return engine, nil
}

// selectDetectors resolves detector names against the built-in set,
// preserving priority order.
func selectDetectors(names []string) ([]Detector, error) {
	all := defaultDetectors()
	if len(names) == 0 {
		return all, nil
	}

	// Every name is validated before "all" takes effect, so a typo next
	// to "all" still surfaces instead of being silently absorbed.
	enabled := make(map[string]bool, len(names))
	wantAll := false
	for _, name := range names {
		if name == "all" {
			wantAll = true
			continue
		}
		found := false
		for _, d := range all {
			if d.Name == name {
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown detector: %s", name)
		}
		enabled[name] = true
	}
	if wantAll {
		return all, nil
	}

	selected := make([]Detector, 0, len(enabled))
	for _, d := range all {
		if enabled[d.Name] {
			selected = append(selected, d)
		}
	}
	return selected, nil
}

// DetectorNames returns the names of the active detectors in priority order.
func (e *Engine) DetectorNames() []string {
	names := make([]string, len(e.detectors))
	for i, d := range e.detectors {
		names[i] = d.Name
	}
	return names
}

// Mask returns the redaction placeholder.
func (e *Engine) Mask() string { return Mask }

// IsSensitiveKey reports whether a field or key name triggers wholesale
// masking of its value. Matching is a case-insensitive substring check.
func (e *Engine) IsSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, sensitive := range e.sensitiveKeys {
		if strings.Contains(lower, sensitive) {
			return true
		}
	}
	return false
}

// claim is a matched byte range together with its replacement text.
type claim struct {
	start, end  int
	replacement string
}

// SanitizeMessage returns text with every detected secret replaced by the
// mask. Detectors run in priority order; a span claimed by an earlier
// detector is skipped by later ones, so overlapping candidates resolve to
// the more specific rule. The operation is deterministic and idempotent.
func (e *Engine) SanitizeMessage(text string) string {
	if text == "" {
		return text
	}

	var claims []claim
	for _, d := range e.detectors {
		for _, m := range d.Pattern.FindAllStringSubmatchIndex(text, -1) {
			start, end := m[0], m[1]
			if overlapsAny(claims, start, end) {
				continue
			}
			replacement := Mask
			if d.keepGroup > 0 {
				gs, ge := m[2*d.keepGroup], m[2*d.keepGroup+1]
				if gs >= 0 {
					replacement = text[gs:ge] + Mask
				}
			}
			claims = append(claims, claim{start: start, end: end, replacement: replacement})
		}
	}

	if len(claims) == 0 {
		return text
	}

	sort.Slice(claims, func(i, j int) bool { return claims[i].start < claims[j].start })

	var b strings.Builder
	b.Grow(len(text))
	prev := 0
	for _, c := range claims {
		b.WriteString(text[prev:c.start])
		b.WriteString(c.replacement)
		prev = c.end
	}
	b.WriteString(text[prev:])
	return b.String()
}

func overlapsAny(claims []claim, start, end int) bool {
	for _, c := range claims {
		if start < c.end && c.start < end {
			return true
		}
	}
	return false
}
