package domain

import (
	"database/sql/driver"
	"time"
)

// Application lifecycle flag, orthogonal to the pipeline status.
const (
	ApplicationOngoing = "Ongoing"
	ApplicationDropped = "Dropped"
)

// Pipeline statuses covered by this service. "For AI Interview" hands off to
// the interview stage, which lives outside this repo.
const (
	StatusForPreScreening   = "For Pre-Screening"
	StatusForCVUpload       = "For CV Upload"
	StatusForCVScreening    = "For CV Screening"
	StatusForAIInterview    = "For AI Interview"
	StatusFailedCVScreening = "Failed CV Screening"
)

// Human-readable stage labels used for currentStep and statusDate keys.
const (
	StepApplied     = "Applied"
	StepCVScreening = "CV Screening"
	StepAIInterview = "AI Interview"
)

// cvSettingResult values. The column is nullable: a null means the policy has
// not been applied yet.
const (
	CVSettingPassed = "Passed"
	CVSettingFailed = "Failed"
)

// CVStatusNoCV is written when screening runs before any CV was uploaded.
const CVStatusNoCV = "No CV"

// UI state hints, derived from the verdict. Not authoritative.
const (
	StateMuted    = "state-muted"
	StateRejected = "state-rejected"
	StateGood     = "state-good"
	StateAccepted = "state-accepted"
)

// PreScreeningQuestion is configured on a career by the org.
type PreScreeningQuestion struct {
	ID       string   `json:"id"`
	Question string   `json:"question"`
	Type     string   `json:"type"`
	Options  []string `json:"options,omitempty"`
}

// PreScreeningAnswer is one submitted answer. Answer may be a scalar or a
// list, depending on the question type.
type PreScreeningAnswer struct {
	QuestionID string `json:"questionId"`
	Question   string `json:"question"`
	Answer     any    `json:"answer"`
	Type       string `json:"type"`
}

type PreScreeningQuestions []PreScreeningQuestion

func (q PreScreeningQuestions) Value() (driver.Value, error) { return jsonValue(q) }
func (q *PreScreeningQuestions) Scan(src any) error          { return jsonScan(q, src) }

type PreScreeningAnswers []PreScreeningAnswer

func (a PreScreeningAnswers) Value() (driver.Value, error) { return jsonValue(a) }
func (a *PreScreeningAnswers) Scan(src any) error          { return jsonScan(a, src) }

// StatusDates records when each stage was entered, keyed by stage label.
type StatusDates map[string]time.Time

func (d StatusDates) Value() (driver.Value, error) { return jsonValue(d) }
func (d *StatusDates) Scan(src any) error          { return jsonScan(d, src) }

// Application is one candidate applying to one career. The original product
// calls these records "interviews"; the external key keeps that name.
type Application struct {
	ID          uint   `gorm:"primaryKey"`
	InterviewID string `gorm:"size:64;uniqueIndex;not null"`
	CareerID    string `gorm:"size:64;index;not null"`
	OrgID       string `gorm:"size:64;index"`

	Email string `gorm:"size:255;index;not null"`
	Name  string `gorm:"size:255"`

	// Career snapshot taken at apply time.
	JobTitle         string `gorm:"size:255"`
	Description      string `gorm:"type:text"`
	ScreeningSetting string `gorm:"size:64"`

	ApplicationStatus string `gorm:"size:32;default:'Ongoing'"`
	CurrentStep       string `gorm:"size:64"`
	Status            string `gorm:"size:64"`

	PreScreeningQuestions PreScreeningQuestions `gorm:"type:json"`
	PreScreeningAnswers   PreScreeningAnswers   `gorm:"type:json"`

	// Screening outputs. Overwritten wholesale on every screening run.
	CVStatus          string  `gorm:"size:64"`
	CVScreeningReason string  `gorm:"type:text"`
	Confidence        float64 `gorm:"column:confidence"`
	JobFitScore       float64 `gorm:"column:job_fit_score"`
	CVSettingResult   *string `gorm:"size:16"`
	StateClass        string  `gorm:"size:32"`

	StatusDate  StatusDates `gorm:"type:json"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	CompletedAt *time.Time
}

// Dropped reports whether the application left the pipeline.
func (a *Application) Dropped() bool {
	return a.ApplicationStatus == ApplicationDropped
}
