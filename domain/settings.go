package domain

import "time"

// GlobalSettingsName is the well-known key of the single org settings row.
const GlobalSettingsName = "global-settings"

// OrgSettings carries org-wide configuration. CVScreeningPrompt is the opaque
// evaluation instruction blob injected into every screening prompt.
type OrgSettings struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:64;uniqueIndex;not null"`

	CVScreeningPrompt string `gorm:"type:text;column:cv_screening_prompt"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
