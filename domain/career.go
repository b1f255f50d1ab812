package domain

import "time"

// Career is a published job posting. Form rendering and the full posting
// wizard live in the web client; this service only reads the fields the
// screening pipeline needs and maintains lastActivityAt.
type Career struct {
	ID    string `gorm:"primaryKey;size:64"`
	OrgID string `gorm:"size:64;index"`

	JobTitle    string `gorm:"size:255;not null"`
	Description string `gorm:"type:text;not null"`

	Location       string `gorm:"size:255"`
	WorkSetup      string `gorm:"size:64"`
	EmploymentType string `gorm:"size:64"`
	Status         string `gorm:"size:32;default:'Active'"`

	// ScreeningSetting is the org-chosen promotion policy for this career.
	ScreeningSetting string `gorm:"size:64"`

	// CVSecretPrompt holds extra evaluation instructions appended to the
	// screening prompt. Never shown to the candidate.
	CVSecretPrompt string `gorm:"type:text"`

	PreScreeningQuestions PreScreeningQuestions `gorm:"type:json"`

	LastActivityAt time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
