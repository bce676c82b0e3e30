package status

import (
	"fmt"
)

// FileFormatter defines how file outcomes and the summary are rendered
type FileFormatter interface {
	// FormatFileOperation formats the progress line for one file
	FormatFileOperation(rec FileRecord) string

	// FormatSummary formats the processed/modified line
	FormatSummary(s Summary) string

	// FormatRemaining formats one verification pass line
	FormatRemaining(r Remaining) string

	// FormatRemainingTotal formats the verification pass total
	FormatRemainingTotal(marker string, total int) string
}

// DefaultFileFormatter provides a default implementation of FileFormatter
type DefaultFileFormatter struct{}

// NewDefaultFileFormatter creates a new DefaultFileFormatter
func NewDefaultFileFormatter() *DefaultFileFormatter {
	return &DefaultFileFormatter{}
}

// FormatFileOperation formats a file outcome with a leading symbol
func (f *DefaultFileFormatter) FormatFileOperation(rec FileRecord) string {
	switch rec.Status {
	case StatusModified:
		return fmt.Sprintf("✓ Modified: %s", rec.Path)
	case StatusPreview:
		return fmt.Sprintf("⟳ Would modify: %s", rec.Path)
	case StatusFailed:
		return fmt.Sprintf("❌ Error processing %s: %v", rec.Path, rec.Err)
	default:
		return fmt.Sprintf("- Unchanged: %s", rec.Path)
	}
}

// FormatSummary formats the counts of one pass
func (f *DefaultFileFormatter) FormatSummary(s Summary) string {
	if s.Failed > 0 {
		return fmt.Sprintf("Processed %d files, modified %d files, %d failed", s.Processed, s.Modified, s.Failed)
	}
	return fmt.Sprintf("Processed %d files, modified %d files", s.Processed, s.Modified)
}

// FormatRemaining formats a file that still has legacy call sites
func (f *DefaultFileFormatter) FormatRemaining(r Remaining) string {
	return fmt.Sprintf("  %s: %d remaining", r.Path, r.Count)
}

// FormatRemainingTotal formats the total count of legacy call sites left
func (f *DefaultFileFormatter) FormatRemainingTotal(marker string, total int) string {
	return fmt.Sprintf("Remaining %s calls: %d", marker, total)
}
