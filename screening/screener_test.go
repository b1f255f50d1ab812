package screening

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyffeer/launchpad-jia/domain"
)

type fakeStore struct {
	app          *domain.Application
	cv           *domain.CandidateCV
	career       *domain.Career
	instructions string

	updates  []map[string]any
	history  []*domain.InterviewHistory
	touched  []string
	savedCVs []*domain.CandidateCV

	updateErr error
}

func (s *fakeStore) ApplicationByInterviewID(_ context.Context, interviewID string) (*domain.Application, error) {
	if s.app == nil || s.app.InterviewID != interviewID {
		return nil, ErrApplicationNotFound
	}
	return s.app, nil
}

func (s *fakeStore) CandidateCVByEmail(_ context.Context, email string) (*domain.CandidateCV, error) {
	if s.cv == nil || s.cv.Email != email {
		return nil, ErrCVNotFound
	}
	return s.cv, nil
}

func (s *fakeStore) CareerByID(_ context.Context, careerID string) (*domain.Career, error) {
	if s.career == nil || s.career.ID != careerID {
		return nil, errors.New("career not found")
	}
	return s.career, nil
}

func (s *fakeStore) ScreeningInstructions(context.Context) (string, error) {
	return s.instructions, nil
}

func (s *fakeStore) UpdateApplication(_ context.Context, _ string, fields map[string]any) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.updates = append(s.updates, fields)
	return nil
}

func (s *fakeStore) AppendHistory(_ context.Context, entry *domain.InterviewHistory) error {
	s.history = append(s.history, entry)
	return nil
}

func (s *fakeStore) TouchCareerActivity(_ context.Context, careerID string, _ time.Time) error {
	s.touched = append(s.touched, careerID)
	return nil
}

func (s *fakeStore) SaveCandidateCV(_ context.Context, cv *domain.CandidateCV) error {
	s.savedCVs = append(s.savedCVs, cv)
	return nil
}

func newFakeStore(setting domain.ScreeningSetting) *fakeStore {
	return &fakeStore{
		app: &domain.Application{
			InterviewID:      "iv-1",
			CareerID:         "career-1",
			Email:            "alex@example.com",
			Name:             "Alex Reyes",
			JobTitle:         "Backend Engineer",
			Description:      "Build Go services.",
			ScreeningSetting: string(setting),
			Status:           domain.StatusForCVScreening,
			StatusDate:       domain.StatusDates{domain.StepApplied: time.Now().Add(-time.Hour)},
		},
		cv: &domain.CandidateCV{
			Email:    "alex@example.com",
			Sections: []domain.CVSection{{Name: "Experience", Content: "5 years of Go"}},
		},
		career: &domain.Career{
			ID:             "career-1",
			CVSecretPrompt: "- prioritize fintech backgrounds",
		},
		instructions: "- compare skills against requirements",
	}
}

func verdictProvider(result string) *fakeProvider {
	raw := fmt.Sprintf(`{"result": %q, "reason": "assessed", "confidence": 80, "jobFitScore": 70}`, result)
	return &fakeProvider{
		name:      "fake",
		available: true,
		models:    []string{"m1"},
		attempts:  map[string]fakeAttempt{"m1": {raw: raw}},
	}
}

func newTestScreener(store Store, provider Provider) *Screener {
	return NewScreener(store, NewCascade(provider), PolicyEngine{})
}

func TestScreenCVPromotes(t *testing.T) {
	store := newFakeStore(domain.SettingGoodFitAndAbove)
	screener := newTestScreener(store, verdictProvider(domain.ResultStrongFit))

	outcome, err := screener.ScreenCV(context.Background(), "iv-1", "alex@example.com")
	require.NoError(t, err)

	assert.Equal(t, domain.ResultStrongFit, outcome.Verdict.Result)
	assert.Equal(t, "fake", outcome.Verdict.Provider)

	require.Len(t, store.updates, 1)
	fields := store.updates[0]
	assert.Equal(t, domain.StatusForAIInterview, fields["status"])
	assert.Equal(t, domain.StepAIInterview, fields["current_step"])
	assert.Equal(t, domain.CVSettingPassed, fields["cv_setting_result"])
	assert.Equal(t, domain.StateAccepted, fields["state_class"])
	assert.NotContains(t, fields, "application_status")

	statusDate, ok := fields["status_date"].(domain.StatusDates)
	require.True(t, ok)
	assert.Contains(t, statusDate, domain.StepCVScreening)
	assert.Contains(t, statusDate, domain.StepAIInterview)
	assert.Contains(t, statusDate, domain.StepApplied, "existing stage dates are preserved")

	require.Len(t, store.history, 1)
	entry := store.history[0]
	assert.Equal(t, domain.ActionAutoPromoted, entry.Action)
	assert.Equal(t, "Pending AI Interview", entry.ToStage)
	assert.Equal(t, domain.ScreeningActor, entry.UpdatedBy)

	assert.Equal(t, []string{"career-1"}, store.touched)
}

func TestScreenCVDropAppendsHistory(t *testing.T) {
	store := newFakeStore(domain.SettingGoodFitAndAbove)
	screener := newTestScreener(store, verdictProvider(domain.ResultNoFit))

	_, err := screener.ScreenCV(context.Background(), "iv-1", "alex@example.com")
	require.NoError(t, err)

	require.Len(t, store.updates, 1)
	fields := store.updates[0]
	assert.Equal(t, domain.ApplicationDropped, fields["application_status"])
	assert.Equal(t, domain.StatusFailedCVScreening, fields["status"])
	assert.Equal(t, domain.CVSettingFailed, fields["cv_setting_result"])

	require.Len(t, store.history, 1)
	assert.Equal(t, domain.ActionDropped, store.history[0].Action)
	assert.Equal(t, domain.StepCVScreening, store.history[0].FromStage)
}

func TestAnalyzeCVDoesNotAdvance(t *testing.T) {
	store := newFakeStore(domain.SettingGoodFitAndAbove)
	screener := newTestScreener(store, verdictProvider(domain.ResultStrongFit))

	outcome, err := screener.AnalyzeCV(context.Background(), "iv-1", "alex@example.com")
	require.NoError(t, err)

	require.Len(t, store.updates, 1)
	fields := store.updates[0]

	// Verdict fields are written...
	assert.Equal(t, domain.ResultStrongFit, fields["cv_status"])
	assert.Equal(t, domain.CVSettingPassed, fields["cv_setting_result"])

	// ...but nothing that moves the pipeline.
	assert.NotContains(t, fields, "status")
	assert.NotContains(t, fields, "current_step")
	assert.NotContains(t, fields, "status_date")
	assert.NotContains(t, fields, "application_status")

	assert.Empty(t, store.history)
	assert.Empty(t, store.touched)
	assert.True(t, outcome.Decision.Promoted, "the decision itself is still computed")
}

func TestScreenCVNoCVShortCircuits(t *testing.T) {
	store := newFakeStore(domain.SettingGoodFitAndAbove)
	store.cv = nil
	provider := verdictProvider(domain.ResultStrongFit)
	screener := newTestScreener(store, provider)

	outcome, err := screener.ScreenCV(context.Background(), "iv-1", "alex@example.com")
	assert.ErrorIs(t, err, ErrCVNotFound)
	require.NotNil(t, outcome)

	require.Len(t, store.updates, 1)
	fields := store.updates[0]
	assert.Equal(t, domain.CVStatusNoCV, fields["cv_status"])
	assert.Equal(t, domain.StateMuted, fields["state_class"])
	assert.Nil(t, fields["cv_setting_result"])

	assert.Empty(t, provider.calls, "no provider is invoked without a CV")
	assert.Empty(t, store.history)
}

func TestScreenCVApplicationNotFound(t *testing.T) {
	store := newFakeStore(domain.SettingGoodFitAndAbove)
	screener := newTestScreener(store, verdictProvider(domain.ResultStrongFit))

	_, err := screener.ScreenCV(context.Background(), "missing", "alex@example.com")
	assert.ErrorIs(t, err, ErrApplicationNotFound)
	assert.Empty(t, store.updates)
}

func TestScreenCVCascadeExhaustedPersistsNothing(t *testing.T) {
	store := newFakeStore(domain.SettingGoodFitAndAbove)
	failing := &fakeProvider{
		name:      "fake",
		available: true,
		models:    []string{"m1"},
		attempts:  map[string]fakeAttempt{"m1": {err: transient("fake", "m1")}},
	}
	screener := newTestScreener(store, failing)

	_, err := screener.ScreenCV(context.Background(), "iv-1", "alex@example.com")

	var exhausted *CascadeExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Empty(t, store.updates, "no verdict may be persisted when every provider failed")
	assert.Empty(t, store.history)
}

func TestScreenCVRerunOverwrites(t *testing.T) {
	store := newFakeStore(domain.SettingOnlyStrongFit)
	screener := newTestScreener(store, verdictProvider(domain.ResultGoodFit))

	_, err := screener.ScreenCV(context.Background(), "iv-1", "alex@example.com")
	require.NoError(t, err)
	_, err = screener.ScreenCV(context.Background(), "iv-1", "alex@example.com")
	require.NoError(t, err)

	// Two independent verdicts, each written in full; the second write is the
	// authoritative one.
	require.Len(t, store.updates, 2)
	assert.Equal(t, store.updates[0]["cv_status"], store.updates[1]["cv_status"])
	assert.Equal(t, domain.StatusFailedCVScreening, store.updates[1]["status"],
		"Good Fit fails under Only Strong Fit")
	assert.Equal(t, domain.CVSettingFailed, store.updates[1]["cv_setting_result"])
}

func TestScreenCVPersistFailureFailsWholeOperation(t *testing.T) {
	store := newFakeStore(domain.SettingGoodFitAndAbove)
	store.updateErr = errors.New("connection reset")
	screener := newTestScreener(store, verdictProvider(domain.ResultStrongFit))

	_, err := screener.ScreenCV(context.Background(), "iv-1", "alex@example.com")
	require.Error(t, err)
	assert.Empty(t, store.history, "no audit entry without a persisted transition")
}

func TestSubmitPreScreeningFiltersAnswerlessEntries(t *testing.T) {
	store := newFakeStore(domain.SettingNoAutoPromotion)
	screener := newTestScreener(store, verdictProvider(domain.ResultGoodFit))

	answers := []domain.PreScreeningAnswer{
		{Question: "Q1"},
		{Question: "Q2", Answer: "yes", QuestionID: "q2", Type: "text"},
		{Question: "Q3", Answer: "  "},
		{Question: "Q4", Answer: []any{"Go", "Python"}},
	}

	cleaned, err := screener.SubmitPreScreening(context.Background(), "iv-1", answers)
	require.NoError(t, err)

	require.Len(t, cleaned, 2)
	assert.Equal(t, "Q2", cleaned[0].Question)
	assert.Equal(t, "Q4", cleaned[1].Question)

	require.Len(t, store.updates, 1)
	assert.Equal(t, domain.StatusForCVUpload, store.updates[0]["status"])
}

func TestSubmitPreScreeningUnknownApplication(t *testing.T) {
	store := newFakeStore(domain.SettingNoAutoPromotion)
	screener := newTestScreener(store, verdictProvider(domain.ResultGoodFit))

	_, err := screener.SubmitPreScreening(context.Background(), "missing", nil)
	assert.ErrorIs(t, err, ErrApplicationNotFound)
}

func TestDigitalizeCV(t *testing.T) {
	store := newFakeStore(domain.SettingNoAutoPromotion)
	provider := &fakeProvider{
		name:      "fake",
		available: true,
		models:    []string{"m1"},
		attempts: map[string]fakeAttempt{
			"m1": {raw: `{"errorRemarks": null, "digitalCV": [{"name": "Experience", "content": "5 years of Go"}]}`},
		},
	}
	screener := newTestScreener(store, provider)

	cv, err := screener.DigitalizeCV(context.Background(), "alex@example.com", "cv.pdf", []string{"raw cv text"})
	require.NoError(t, err)

	require.Len(t, store.savedCVs, 1)
	assert.Equal(t, "alex@example.com", cv.Email)
	assert.Equal(t, "cv.pdf", cv.FileName)
	require.Len(t, cv.Sections, 1)
	assert.Equal(t, "Experience", cv.Sections[0].Name)
}

func TestDigitalizeCVEmptyChunks(t *testing.T) {
	store := newFakeStore(domain.SettingNoAutoPromotion)
	screener := newTestScreener(store, verdictProvider(domain.ResultGoodFit))

	_, err := screener.DigitalizeCV(context.Background(), "alex@example.com", "cv.pdf", []string{"  "})
	assert.ErrorIs(t, err, ErrMissingInput)
}
