// Package safety implements the content classification pipeline: a
// deterministic rule engine scoring text for profanity, spam heuristics, and
// structurally suspicious patterns, plus the submission gate that applies it.
package safety

// Severity is the ordinal safety classification of a piece of text.
type Severity int

const (
	SeveritySafe Severity = iota
	SeverityLow
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

var severityNames = [...]string{"safe", "low", "medium", "high", "critical"}

func (s Severity) String() string {
	if s < SeveritySafe || s > SeverityCritical {
		return "unknown"
	}
	return severityNames[s]
}

// Verdict is the outcome of classifying one block of text. It is ephemeral
// and never persisted.
type Verdict struct {
	Severity Severity `json:"severity"`
	// Issues lists human-readable reasons in a fixed order: profanity
	// first, then spam signals, then suspicious patterns.
	Issues []string `json:"issues"`
	// FilteredText is the profanity-masked text when filtering was requested.
	FilteredText string `json:"filtered_text,omitempty"`
}

// IsSafe reports whether the text raised no issues at all.
func (v Verdict) IsSafe() bool {
	return v.Severity == SeveritySafe
}

// ShouldAutoFlag reports whether accepted content must be escalated to the
// moderation queue.
func (v Verdict) ShouldAutoFlag() bool {
	return v.Severity >= SeverityHigh
}

// ShouldAutoBlock reports whether the submission must be rejected outright.
func (v Verdict) ShouldAutoBlock() bool {
	return v.Severity == SeverityCritical
}
