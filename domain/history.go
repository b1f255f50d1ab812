package domain

import "time"

// Audit actions recorded on stage-changing transitions.
const (
	ActionDropped      = "Dropped"
	ActionAutoPromoted = "Auto-Promoted"
)

// ScreeningActor is the name recorded when the pipeline itself moves an
// application, as opposed to a recruiter.
const ScreeningActor = "Jia"

// InterviewHistory is the append-only audit trail. Entries are created only
// when a screening changes the stage of an application and are never updated.
type InterviewHistory struct {
	ID           uint   `gorm:"primaryKey"`
	InterviewUID string `gorm:"size:64;index;not null"`

	FromStage string `gorm:"size:64"`
	ToStage   string `gorm:"size:64"`
	Action    string `gorm:"size:32;not null"`
	UpdatedBy string `gorm:"size:255"`

	CreatedAt time.Time
}
