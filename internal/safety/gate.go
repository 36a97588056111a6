package safety

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"alcove/internal/models"
	"alcove/internal/observability"
)

// Content types accepted by the gate.
const (
	ContentTypePost    = "post"
	ContentTypeComment = "comment"
)

// Submission is the gate's accepted output: sanitized text ready for
// persistence plus the verdict the caller uses to decide on auto-flagging.
type Submission struct {
	Sanitized string
	Verdict   Verdict
}

// Gate validates, sanitizes, and classifies submissions before persistence.
type Gate struct {
	classifier *Classifier
}

// NewGate creates a submission gate backed by the given classifier.
func NewGate(classifier *Classifier) *Gate {
	return &Gate{classifier: classifier}
}

// Classifier exposes the underlying classifier for callers that need to
// re-run a verdict (the auto-flagger recomputes idempotently).
func (g *Gate) Classifier() *Classifier {
	return g.classifier
}

// CheckComment validates raw comment text against the comment bounds.
func (g *Gate) CheckComment(raw string) (*Submission, error) {
	return g.check(raw, ContentTypeComment, models.CommentMinLen, models.CommentMaxLen)
}

// CheckPost validates a raw post body against the post bounds.
func (g *Gate) CheckPost(raw string) (*Submission, error) {
	return g.check(raw, ContentTypePost, models.PostBodyMinLen, models.PostBodyMaxLen)
}

func (g *Gate) check(raw, contentType string, minLen, maxLen int) (*Submission, error) {
	trimmed := strings.TrimSpace(raw)
	length := utf8.RuneCountInString(trimmed)
	if length < minLen {
		return nil, models.NewValidationError(fmt.Sprintf("Content too short (min %d characters)", minLen))
	}
	if length > maxLen {
		return nil, models.NewValidationError(fmt.Sprintf("Content too long (max %d characters)", maxLen))
	}

	// Sanitization always happens; classification sees the original text so
	// detection is not fooled by markup stripping.
	sanitized := Sanitize(trimmed)
	verdict := g.classifier.Classify(raw)

	observability.ClassifierVerdicts.WithLabelValues(verdict.Severity.String()).Inc()

	if verdict.ShouldAutoBlock() {
		observability.SubmissionsBlocked.WithLabelValues(contentType).Inc()
		return nil, models.NewContentBlockedError(verdict.Issues)
	}

	return &Submission{Sanitized: sanitized, Verdict: verdict}, nil
}
