package screening

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cyffeer/launchpad-jia/domain"
)

// Store is the persistence boundary of the orchestrator. The document-store
// access patterns behind it are ordinary integration work; the orchestrator
// only relies on single-record reads, a single-record field update and an
// append-only history insert.
type Store interface {
	ApplicationByInterviewID(ctx context.Context, interviewID string) (*domain.Application, error)
	CandidateCVByEmail(ctx context.Context, email string) (*domain.CandidateCV, error)
	CareerByID(ctx context.Context, careerID string) (*domain.Career, error)

	// ScreeningInstructions returns the org-wide evaluation blob.
	ScreeningInstructions(ctx context.Context) (string, error)

	// UpdateApplication writes the given fields on one application record.
	// Last writer wins; concurrent screenings are not coordinated.
	UpdateApplication(ctx context.Context, interviewID string, fields map[string]any) error

	AppendHistory(ctx context.Context, entry *domain.InterviewHistory) error
	TouchCareerActivity(ctx context.Context, careerID string, at time.Time) error
	SaveCandidateCV(ctx context.Context, cv *domain.CandidateCV) error
}

// Outcome reports what one screening call produced and wrote.
type Outcome struct {
	Verdict  domain.Verdict
	Decision Decision
	// Fields is the exact update applied to the application record.
	Fields map[string]any
}

// Screener is the application screening orchestrator: prompt assembly,
// provider cascade, verdict normalization, promotion policy and the state
// transition, behind one entry point per call site.
type Screener struct {
	store   Store
	cascade *Cascade
	policy  PolicyEngine

	now func() time.Time
}

func NewScreener(store Store, cascade *Cascade, policy PolicyEngine) *Screener {
	return &Screener{
		store:   store,
		cascade: cascade,
		policy:  policy,
		now:     time.Now,
	}
}

// ScreenCV runs the full pipeline: classify, apply the promotion policy and
// commit the stage transition.
func (s *Screener) ScreenCV(ctx context.Context, interviewID, email string) (*Outcome, error) {
	return s.screen(ctx, interviewID, email, true)
}

// AnalyzeCV classifies and stores the verdict fields but never advances the
// pipeline stage. Used for preview analysis and re-analysis.
func (s *Screener) AnalyzeCV(ctx context.Context, interviewID, email string) (*Outcome, error) {
	return s.screen(ctx, interviewID, email, false)
}

func (s *Screener) screen(ctx context.Context, interviewID, email string, advance bool) (*Outcome, error) {
	app, err := s.store.ApplicationByInterviewID(ctx, interviewID)
	if err != nil {
		return nil, err
	}

	cv, err := s.store.CandidateCVByEmail(ctx, email)
	if errors.Is(err, ErrCVNotFound) {
		return s.markNoCV(ctx, interviewID)
	}
	if err != nil {
		return nil, err
	}

	instructions, err := s.store.ScreeningInstructions(ctx)
	if err != nil {
		return nil, err
	}

	// The secret directive lives on the career; a missing career record only
	// costs us that directive, not the whole screening.
	var secret string
	if career, cerr := s.store.CareerByID(ctx, app.CareerID); cerr == nil {
		secret = career.CVSecretPrompt
	} else {
		logrus.Warnf("career %s not found while screening %s, skipping secret prompt", app.CareerID, interviewID)
	}

	prompt, err := BuildScreeningPrompt(PromptInput{
		JobTitle:      app.JobTitle,
		Description:   app.Description,
		CandidateName: app.Name,
		Sections:      cv.Sections,
		Answers:       app.PreScreeningAnswers,
		Instructions:  instructions,
		SecretPrompt:  secret,
	})
	if err != nil {
		return nil, err
	}

	var verdict domain.Verdict
	resp, err := s.cascade.Generate(ctx, prompt, func(raw string) error {
		v, nerr := NormalizeVerdict(raw)
		if nerr != nil {
			return nerr
		}
		verdict = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	verdict.Provider = resp.Provider
	verdict.Model = resp.Model

	decision := s.policy.Decide(verdict.Result, domain.NormalizeSetting(app.ScreeningSetting))

	now := s.now()
	fields := map[string]any{
		"cv_status":           verdict.Result,
		"cv_screening_reason": verdict.Reason,
		"confidence":          verdict.Confidence,
		"job_fit_score":       verdict.JobFitScore,
		"cv_setting_result":   decision.CVSettingResult,
		"state_class":         decision.StateClass,
		"updated_at":          now,
	}

	if advance {
		statusDate := domain.StatusDates{}
		for stage, at := range app.StatusDate {
			statusDate[stage] = at
		}
		statusDate[domain.StepCVScreening] = now

		fields["current_step"] = decision.CurrentStep
		if decision.Status != "" {
			fields["status"] = decision.Status
		}
		if decision.Promoted {
			statusDate[domain.StepAIInterview] = now
		}
		if decision.Drop {
			fields["application_status"] = domain.ApplicationDropped
		}
		fields["status_date"] = statusDate
	}

	if err := s.store.UpdateApplication(ctx, interviewID, fields); err != nil {
		// The computed verdict is wasted; the whole operation fails and must
		// be re-run.
		return nil, fmt.Errorf("failed to persist screening result: %w", err)
	}

	if advance && decision.AuditAction != "" {
		entry := &domain.InterviewHistory{
			InterviewUID: app.InterviewID,
			FromStage:    decision.FromStage,
			ToStage:      decision.ToStage,
			Action:       decision.AuditAction,
			UpdatedBy:    domain.ScreeningActor,
		}
		if err := s.store.AppendHistory(ctx, entry); err != nil {
			return nil, fmt.Errorf("failed to append interview history: %w", err)
		}
	}

	if advance {
		if err := s.store.TouchCareerActivity(ctx, app.CareerID, now); err != nil {
			logrus.Warnf("failed to touch career %s activity: %v", app.CareerID, err)
		}
	}

	logrus.Infof("screened application %s: %s (%s/%s)", interviewID, verdict.Result, verdict.Provider, verdict.Model)

	return &Outcome{Verdict: verdict, Decision: decision, Fields: fields}, nil
}

// markNoCV short-circuits the whole cascade when the applicant never uploaded
// a CV: the status fields are written directly and no provider is invoked.
func (s *Screener) markNoCV(ctx context.Context, interviewID string) (*Outcome, error) {
	fields := map[string]any{
		"cv_status":           domain.CVStatusNoCV,
		"state_class":         domain.StateMuted,
		"cv_setting_result":   nil,
		"cv_screening_reason": "Applicant has no CV uploaded.",
		"updated_at":          s.now(),
	}
	if err := s.store.UpdateApplication(ctx, interviewID, fields); err != nil {
		return nil, fmt.Errorf("failed to persist no-CV status: %w", err)
	}
	return &Outcome{Fields: fields}, ErrCVNotFound
}

// SubmitPreScreening validates and persists pre-screening answers and moves
// the application from For Pre-Screening to For CV Upload. Answers without an
// answer value are filtered out, not rejected.
func (s *Screener) SubmitPreScreening(ctx context.Context, interviewID string, answers []domain.PreScreeningAnswer) ([]domain.PreScreeningAnswer, error) {
	if _, err := s.store.ApplicationByInterviewID(ctx, interviewID); err != nil {
		return nil, err
	}

	cleaned := make(domain.PreScreeningAnswers, 0, len(answers))
	for _, answer := range answers {
		if !hasAnswer(answer.Answer) {
			continue
		}
		cleaned = append(cleaned, domain.PreScreeningAnswer{
			QuestionID: answer.QuestionID,
			Question:   answer.Question,
			Answer:     answer.Answer,
			Type:       answer.Type,
		})
	}

	fields := map[string]any{
		"pre_screening_answers": cleaned,
		"status":                domain.StatusForCVUpload,
		"updated_at":            s.now(),
	}
	if err := s.store.UpdateApplication(ctx, interviewID, fields); err != nil {
		return nil, fmt.Errorf("failed to persist pre-screening answers: %w", err)
	}

	return cleaned, nil
}

func hasAnswer(answer any) bool {
	switch val := answer.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(val) != ""
	case []string:
		return len(val) > 0
	case []any:
		return len(val) > 0
	default:
		return true
	}
}
