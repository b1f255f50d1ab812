package domain

import (
	"database/sql/driver"
	"time"
)

// CVSection is one named block of the digitized CV, content in markdown.
type CVSection struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

type CVSections []CVSection

func (s CVSections) Value() (driver.Value, error) { return jsonValue(s) }
func (s *CVSections) Scan(src any) error          { return jsonScan(s, src) }

// CandidateCV is the digitized CV of a candidate, keyed by email. It is
// produced by the digitization flow and read-only to the screening pipeline.
type CandidateCV struct {
	ID    uint   `gorm:"primaryKey"`
	Email string `gorm:"size:255;uniqueIndex;not null"`

	Sections CVSections `gorm:"type:json;column:digital_cv"`

	// ErrorRemarks is set by the digitizer when the uploaded file does not
	// look like a CV.
	ErrorRemarks string `gorm:"type:text"`
	FileName     string `gorm:"size:255"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
