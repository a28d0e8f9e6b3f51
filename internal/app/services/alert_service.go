package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/tce-csbs/participation-portal/internal/app/auth"
	"github.com/tce-csbs/participation-portal/internal/app/credit"
	"github.com/tce-csbs/participation-portal/internal/app/models"
	"github.com/tce-csbs/participation-portal/internal/app/models/dto"
	"github.com/tce-csbs/participation-portal/internal/metrics"
)

// AlertService finds students below the credit threshold and warns them
type AlertService struct {
	students  StudentStore
	notifier  Notifier
	threshold float64
	logger    zerolog.Logger
}

// NewAlertService creates a new AlertService. A non-positive threshold uses credit.Threshold.
func NewAlertService(students StudentStore, notifier Notifier, threshold float64, logger zerolog.Logger) *AlertService {
	if threshold <= 0 {
		threshold = credit.Threshold
	}
	return &AlertService{
		students:  students,
		notifier:  notifier,
		threshold: threshold,
		logger:    logger,
	}
}

// Threshold returns the low-credit cutoff
func (s *AlertService) Threshold() float64 {
	return s.threshold
}

// LowCreditStudents lists students strictly below the threshold
func (s *AlertService) LowCreditStudents(ctx context.Context) ([]models.Student, error) {
	students, err := s.students.ListBelowCredits(ctx, s.threshold)
	if err != nil {
		return nil, fmt.Errorf("failed to list low credit students: %w", err)
	}
	metrics.LowCreditStudents.Set(float64(len(students)))
	return students, nil
}

// SendLowCreditAlerts notifies every low-credit student one after another. A failed send is
// counted and the sweep moves on, so Sent+Failed always equals the number of students found.
func (s *AlertService) SendLowCreditAlerts(ctx context.Context) (dto.AlertResult, error) {
	students, err := s.LowCreditStudents(ctx)
	if err != nil {
		return dto.AlertResult{}, err
	}

	result := dto.AlertResult{Message: "Alerts process completed"}
	for _, st := range students {
		if err := s.notifier.SendCreditAlert(ctx, st.Name, st.Email, st.Credits, s.threshold); err != nil {
			result.Failed++
			s.logger.Warn().Err(err).Int64("studentID", st.ID).Msg("Credit alert failed")
			continue
		}
		result.Sent++
	}

	s.logger.Info().Int("students", len(students)).Int("sent", result.Sent).Int("failed", result.Failed).
		Msg("Low credit alert sweep completed")
	return result, nil
}

// Credits returns the actor's credit standing
func (s *AlertService) Credits(ctx context.Context, actor auth.Actor) (dto.CreditsResponse, error) {
	st, err := s.students.GetByID(ctx, actor.ID)
	if err != nil {
		return dto.CreditsResponse{}, err
	}
	return dto.CreditsResponse{Credits: st.Credits, Threshold: s.threshold, Low: st.Credits < s.threshold}, nil
}

// CheckMyCredits sends the actor a credit alert when they are below the threshold
func (s *AlertService) CheckMyCredits(ctx context.Context, actor auth.Actor) (dto.CreditCheckResponse, error) {
	st, err := s.students.GetByID(ctx, actor.ID)
	if err != nil {
		return dto.CreditCheckResponse{}, err
	}

	resp := dto.CreditCheckResponse{Message: "Credit check completed", Credits: st.Credits}
	if st.Credits >= s.threshold {
		return resp, nil
	}
	if err := s.notifier.SendCreditAlert(ctx, st.Name, st.Email, st.Credits, s.threshold); err != nil {
		s.logger.Error().Err(err).Int64("studentID", st.ID).Msg("Credit alert email failed")
		return resp, nil
	}
	resp.AlertSent = true
	return resp, nil
}
