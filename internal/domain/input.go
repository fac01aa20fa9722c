package domain

import "time"

// Source tags where a report entered the system.
type Source string

const (
	SourceManual Source = "MANUAL"
	SourceUpload Source = "UPLOAD"
	SourceMail   Source = "MAIL"
)

// Valid reports whether the source tag is known.
func (s Source) Valid() bool {
	switch s {
	case SourceManual, SourceUpload, SourceMail:
		return true
	}
	return false
}

// CanonicalInputRecord is the normalized, source-agnostic representation of
// one reported issue. Normalizers (manual form, upload row, mail message)
// produce it; the core consumes it. It is transient and never persisted.
type CanonicalInputRecord struct {
	Customer   string
	IssueText  string
	Source     Source
	ReportedAt time.Time
	Owner      string
}
