package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cyffeer/launchpad-jia/domain"
	"github.com/cyffeer/launchpad-jia/screening"
)

// ScreeningStore is the gorm implementation of screening.Store.
type ScreeningStore struct {
	db *gorm.DB
}

func NewScreeningStore(db *gorm.DB) *ScreeningStore {
	return &ScreeningStore{db: db}
}

func (s *ScreeningStore) ApplicationByInterviewID(ctx context.Context, interviewID string) (*domain.Application, error) {
	var app domain.Application
	err := s.db.WithContext(ctx).Where("interview_id = ?", interviewID).First(&app).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, screening.ErrApplicationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load application %s: %w", interviewID, err)
	}
	return &app, nil
}

func (s *ScreeningStore) CandidateCVByEmail(ctx context.Context, email string) (*domain.CandidateCV, error) {
	var cv domain.CandidateCV
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&cv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, screening.ErrCVNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load CV for %s: %w", email, err)
	}
	return &cv, nil
}

func (s *ScreeningStore) CareerByID(ctx context.Context, careerID string) (*domain.Career, error) {
	var career domain.Career
	err := s.db.WithContext(ctx).Where("id = ?", careerID).First(&career).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load career %s: %w", careerID, err)
	}
	return &career, nil
}

func (s *ScreeningStore) ScreeningInstructions(ctx context.Context) (string, error) {
	var settings domain.OrgSettings
	err := s.db.WithContext(ctx).Where("name = ?", domain.GlobalSettingsName).First(&settings).Error
	if err != nil {
		return "", fmt.Errorf("failed to load global settings: %w", err)
	}
	return settings.CVScreeningPrompt, nil
}

func (s *ScreeningStore) UpdateApplication(ctx context.Context, interviewID string, fields map[string]any) error {
	return s.db.WithContext(ctx).
		Model(&domain.Application{}).
		Where("interview_id = ?", interviewID).
		Updates(fields).Error
}

func (s *ScreeningStore) AppendHistory(ctx context.Context, entry *domain.InterviewHistory) error {
	return s.db.WithContext(ctx).Create(entry).Error
}

func (s *ScreeningStore) TouchCareerActivity(ctx context.Context, careerID string, at time.Time) error {
	return s.db.WithContext(ctx).
		Model(&domain.Career{}).
		Where("id = ?", careerID).
		Update("last_activity_at", at).Error
}

// SaveCandidateCV upserts on email: re-digitizing replaces the previous CV.
func (s *ScreeningStore) SaveCandidateCV(ctx context.Context, cv *domain.CandidateCV) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			DoUpdates: clause.AssignmentColumns([]string{"digital_cv", "error_remarks", "file_name", "updated_at"}),
		}).
		Create(cv).Error
}
