package redact

import "regexp"

// Kind classifies what credential grammar a detector targets.
type Kind int

const (
	// KindToken matches provider-issued tokens with a recognizable shape.
	KindToken Kind = iota
	// KindHeader matches authorization header values after a scheme word.
	KindHeader
	// KindGenericSecret matches generic secret-shaped material.
	KindGenericSecret
)

func (k Kind) String() string {
	switch k {
	case KindToken:
		return "token"
	case KindHeader:
		return "header"
	case KindGenericSecret:
		return "generic_secret"
	default:
		return "unknown"
	}
}

// Detector is a single named detection rule. Detectors are built once at
// startup and never mutated afterwards.
type Detector struct {
	Name    string
	Kind    Kind
	Pattern *regexp.Regexp

	// keepGroup is the index of a capture group whose text is preserved
	// verbatim in front of the mask (the scheme word of an authorization
	// header, the key side of an inline key=value secret). Zero means the
	// entire match is replaced.
	keepGroup int
}

// Options configures engine construction. The zero value enables every
// built-in detector with the default sensitive key set and mask.
type Options struct {
	// Detectors selects built-in detectors by name. "all" (or an empty
	// slice) enables everything.
	Detectors []string
	// ExtraPatterns adds caller-supplied detection rules. Each pattern is
	// compiled during New; a malformed pattern fails construction.
	ExtraPatterns []ExtraPattern
	// ExtraSensitiveKeys extends the default sensitive key set.
	ExtraSensitiveKeys []string
}

// ExtraPattern is a user-supplied detection rule.
type ExtraPattern struct {
	Name    string `yaml:"name" mapstructure:"name"`
	Pattern string `yaml:"pattern" mapstructure:"pattern"`
}
