package service

import (
	"context"
	"fmt"
	"strings"

	"alcove/internal/models"
	"alcove/internal/observability"
	"alcove/internal/repository"
	"alcove/internal/safety"
)

// FlagInput identifies freshly created content for a moderation re-check.
type FlagInput struct {
	ContentID   uint
	ContentType string // models.TargetPost or models.TargetComment
	Content     string
	AuthorID    uint
}

// FlagResult reports the auto-flag outcome for caller telemetry.
type FlagResult struct {
	Flagged bool
	Reasons []string
}

// AutoFlagger re-checks accepted content and files a pending moderation
// report when the verdict is high or worse. The report is self-referential:
// reporter and reported user are both the author, marking it as a system
// report for queue visibility rather than a user complaint.
type AutoFlagger struct {
	classifier *safety.Classifier
	reports    repository.ReportRepository
}

// NewAutoFlagger returns a new AutoFlagger.
func NewAutoFlagger(classifier *safety.Classifier, reports repository.ReportRepository) *AutoFlagger {
	return &AutoFlagger{classifier: classifier, reports: reports}
}

// Flag never returns an error: the triggering submission has already
// succeeded, so a failed report write is logged and swallowed.
func (f *AutoFlagger) Flag(ctx context.Context, in FlagInput) FlagResult {
	verdict := f.classifier.Classify(in.Content)
	if !verdict.ShouldAutoFlag() {
		return FlagResult{}
	}

	authorID := in.AuthorID
	report := &models.ModerationReport{
		ReporterID:     in.AuthorID,
		ReportedUserID: &authorID,
		TargetType:     in.ContentType,
		TargetID:       in.ContentID,
		Reason:         fmt.Sprintf("auto-flagged: %s severity content", verdict.Severity),
		Details:        strings.Join(verdict.Issues, "; "),
		Status:         models.ReportStatusPending,
	}
	if err := f.reports.Create(ctx, report); err != nil {
		observability.GlobalLogger.Warn("auto-flag report write failed",
			"content_type", in.ContentType,
			"content_id", in.ContentID,
			"severity", verdict.Severity.String(),
			"error", err,
		)
	} else {
		observability.AutoFlagReports.WithLabelValues(in.ContentType).Inc()
	}

	return FlagResult{Flagged: true, Reasons: verdict.Issues}
}
