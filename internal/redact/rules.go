package redact

import "regexp"

// Mask replaces detected secret material. It must never itself match a
// detector, otherwise redaction would not be idempotent; the brackets keep
// it outside every detector alphabet.
const Mask = "[REDACTED]"

// UnloggableMask replaces values the engine could not traverse or
// stringify. A value we cannot inspect is never passed through as-is.
const UnloggableMask = "[UNLOGGABLE]"

// defaultDetectors returns the built-in detection rules in priority order:
// specific grammars first, generic shapes last. A span claimed by an
// earlier rule is never re-scanned by a later one.
func defaultDetectors() []Detector {
	return []Detector{
		{
			Name:    "github-token",
			Kind:    KindToken,
			Pattern: regexp.MustCompile(`(?:ghp_|gho_|ghu_|ghs_|ghr_)[A-Za-z0-9]{20,}|github_pat_[A-Za-z0-9_]{20,}`),
		},
		{
			Name: "auth-header",
			Kind: KindHeader,
			// The scheme word survives so logs stay readable
			// ("Authorization: Bearer [REDACTED]"). Short all-letter
			// values after "token" are left alone to avoid eating
			// ordinary prose.
			Pattern:   regexp.MustCompile(`(?i)\b((?:bearer|basic|token)\s+)([A-Za-z0-9\-._~+/=]{20,}|[A-Za-z]*[0-9+/=._~\-][A-Za-z0-9\-._~+/=]{3,})`),
			keepGroup: 1,
		},
		{
			Name:      "inline-secret",
			Kind:      KindGenericSecret,
			Pattern:   regexp.MustCompile(`(?i)\b((?:password|passwd|secret|token|api[_-]?key|apikey|authorization|auth[_-]token|access[_-]?key|client[_-]?secret|private[_-]?key|credentials?)\s*[=:]\s*)("[^"\s]+"|'[^'\s]+'|[^\s"'\[][^\s"']*)`),
			keepGroup: 1,
		},
		{
			Name:    "hex-string",
			Kind:    KindGenericSecret,
			Pattern: regexp.MustCompile(`\b[0-9a-fA-F]{32,}\b`),
		},
		{
			Name:    "base64-string",
			Kind:    KindGenericSecret,
			Pattern: regexp.MustCompile(`[A-Za-z0-9+/]{40,}={0,2}|[A-Za-z0-9_\-]{40,}`),
		},
	}
}

// defaultSensitiveKeys are matched case-insensitively as substrings of
// field/key names, the same way the header scrub list works.
func defaultSensitiveKeys() []string {
	return []string{
		"password",
		"passwd",
		"secret",
		"token",
		"api_key",
		"api-key",
		"apikey",
		"authorization",
		"access_key",
		"private_key",
		"credential",
		"cookie",
		"bearer",
	}
}
