package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/tce-csbs/participation-portal/internal/app/auth"
	"github.com/tce-csbs/participation-portal/internal/app/credit"
	"github.com/tce-csbs/participation-portal/internal/app/models"
	"github.com/tce-csbs/participation-portal/internal/app/models/dto"
	"github.com/tce-csbs/participation-portal/internal/app/repositories"
	"github.com/tce-csbs/participation-portal/internal/metrics"
	"github.com/tce-csbs/participation-portal/internal/pkg/apperrors"
	"github.com/tce-csbs/participation-portal/internal/pkg/email"
	"github.com/tce-csbs/participation-portal/internal/pkg/helpers"
	"github.com/tce-csbs/participation-portal/internal/pkg/websocket"
)

// submitAttempts bounds the retry after losing a (title, year) insert race
const submitAttempts = 2

// HackathonService handles hackathon submissions and reviews
type HackathonService struct {
	stores   Stores
	uow      UnitOfWork
	assigner *ProctorAssigner
	engine   *credit.Engine
	notifier Notifier
	events   EventPublisher
	logger   zerolog.Logger
}

// NewHackathonService creates a new HackathonService
func NewHackathonService(
	stores Stores,
	uow UnitOfWork,
	assigner *ProctorAssigner,
	engine *credit.Engine,
	notifier Notifier,
	events EventPublisher,
	logger zerolog.Logger,
) *HackathonService {
	if events == nil {
		events = NoopPublisher{}
	}
	return &HackathonService{
		stores:   stores,
		uow:      uow,
		assigner: assigner,
		engine:   engine,
		notifier: notifier,
		events:   events,
		logger:   logger,
	}
}

// Submit records a hackathon participation. An existing (title, year) record is reused and its
// participant count incremented; the submitting student is not linked to it.
func (s *HackathonService) Submit(ctx context.Context, actor auth.Actor, req dto.SubmitHackathonRequest, certificate string) (*dto.HackathonSubmissionResult, error) {
	if strings.TrimSpace(certificate) == "" {
		return nil, apperrors.NewCustomError(apperrors.ErrCertificateRequired, "Certificate file is required")
	}
	title := strings.TrimSpace(req.Title)
	if title == "" || req.Year <= 0 {
		return nil, apperrors.NewValidationError("Hackathon title and year are required")
	}
	if !req.Mode.Valid() {
		return nil, apperrors.NewValidationError("Mode must be Online or Offline")
	}

	var (
		student *models.Student
		result  *dto.HackathonSubmissionResult
		err     error
	)
	for attempt := 1; attempt <= submitAttempts; attempt++ {
		err = s.uow.Do(ctx, func(ctx context.Context, stores Stores) error {
			st, err := stores.Students.GetByID(ctx, actor.ID)
			if err != nil {
				return err
			}
			student = st

			existing, err := stores.Hackathons.FindByTitleYear(ctx, title, req.Year)
			switch {
			case err == nil:
				count, err := stores.Hackathons.IncrementParticipants(ctx, existing.ID)
				if err != nil {
					return err
				}
				existing.ParticipantCount = count
				result = &dto.HackathonSubmissionResult{Hackathon: existing, Merged: true}
				return nil
			case !errors.Is(err, apperrors.ErrHackathonNotFound):
				return err
			}

			h := &models.Hackathon{
				StudentID:        student.ID,
				Title:            title,
				Organization:     strings.TrimSpace(req.Organization),
				Mode:             req.Mode,
				Date:             helpers.DateOnly(req.Date),
				Year:             req.Year,
				Description:      strings.TrimSpace(req.Description),
				Certificate:      certificate,
				Status:           models.HackathonPending,
				ParticipantCount: 1,
			}
			proctor, err := s.assigner.Assign(ctx, stores, student)
			if err != nil {
				return err
			}
			if proctor != nil {
				h.ProctorID = &proctor.ID
			}
			if err := stores.Hackathons.Create(ctx, h); err != nil {
				return err
			}
			h.Student = summarize(student)
			result = &dto.HackathonSubmissionResult{Hackathon: h}
			return nil
		})
		if !errors.Is(err, apperrors.ErrHackathonExists) {
			break
		}
		s.logger.Warn().Str("title", title).Int("year", req.Year).Int("attempt", attempt).
			Msg("Concurrent hackathon insert detected, retrying as merge")
	}
	if err != nil {
		if errors.Is(err, apperrors.ErrHackathonExists) {
			return nil, apperrors.NewCustomError(apperrors.ErrHackathonExists, "This hackathon already exists for the specified year")
		}
		return nil, err
	}

	outcome := "created"
	eventType := websocket.EventSubmissionCreated
	if result.Merged {
		outcome = "merged"
		eventType = websocket.EventSubmissionMerged
	}
	metrics.Submissions.WithLabelValues("hackathon", outcome).Inc()
	s.logger.Info().Int64("hackathonID", result.Hackathon.ID).Int64("studentID", student.ID).
		Str("outcome", outcome).Int("participantCount", result.Hackathon.ParticipantCount).Msg("Hackathon submitted")

	if err := s.notifier.SendHackathonSubmitted(ctx, student.Name, student.Email, title); err != nil {
		s.logger.Error().Err(err).Int64("studentID", student.ID).Msg("Hackathon submission confirmation email failed")
	}
	if p := result.Hackathon.ProctorID; p != nil {
		s.events.Publish(websocket.Event{
			Type:      eventType,
			Kind:      "hackathon",
			RecordID:  result.Hackathon.ID,
			Title:     result.Hackathon.Title,
			Status:    string(result.Hackathon.Status),
			Recipient: websocket.Recipient{Role: string(auth.RoleProctor), UserID: *p},
		})
	}
	return result, nil
}

// UpdateStatus applies a proctor's review. The record status and the student's credit are
// written in one transaction; the notification follows and never undoes them.
func (s *HackathonService) UpdateStatus(ctx context.Context, actor auth.Actor, id int64, req dto.StatusUpdateRequest) (*models.Hackathon, error) {
	var (
		hackathon *models.Hackathon
		student   *models.Student
		previous  models.HackathonStatus
	)
	err := s.uow.Do(ctx, func(ctx context.Context, stores Stores) error {
		h, err := stores.Hackathons.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := auth.AuthorizeReview(actor, h.ProctorID); err != nil {
			return err
		}
		out, err := credit.HackathonTransition(h.Status, models.HackathonStatus(req.Status), req.RejectionReason)
		if err != nil {
			return err
		}

		previous = h.Status
		h.Status = out.Status
		h.RejectionReason = out.Reason
		if err := stores.Hackathons.UpdateStatus(ctx, h); err != nil {
			return err
		}

		st, err := stores.Students.GetByID(ctx, h.StudentID)
		if err != nil {
			return err
		}
		credits, err := s.engine.AfterHackathonReview(ctx, creditSource{stores}, st.ID, st.Credits, out)
		if err != nil {
			return err
		}
		if credits != st.Credits {
			if err := stores.Students.UpdateCredits(ctx, st.ID, credits); err != nil {
				return err
			}
			st.Credits = credits
		}
		hackathon, student = h, st
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.StatusTransitions.WithLabelValues("hackathon", string(hackathon.Status)).Inc()
	s.logger.Info().Int64("hackathonID", hackathon.ID).Int64("proctorID", actor.ID).
		Str("from", string(previous)).Str("to", string(hackathon.Status)).
		Float64("credits", student.Credits).Msg("Hackathon status updated")

	s.notifyReview(ctx, student, "Hackathon", hackathon.Title, string(hackathon.Status), hackathon.RejectionReason,
		hackathon.Status == models.HackathonAccepted)
	credits := student.Credits
	s.events.Publish(websocket.Event{
		Type:      websocket.EventReviewUpdated,
		Kind:      "hackathon",
		RecordID:  hackathon.ID,
		Title:     hackathon.Title,
		Status:    string(hackathon.Status),
		Reason:    deref(hackathon.RejectionReason),
		Credits:   &credits,
		Recipient: websocket.Recipient{Role: string(auth.RoleStudent), UserID: student.ID},
	})
	return hackathon, nil
}

func (s *HackathonService) notifyReview(ctx context.Context, student *models.Student, kind, title, status string, reason *string, positive bool) {
	err := s.notifier.SendStatusChanged(ctx, student.Name, student.Email, email.StatusUpdate{
		Kind: kind, Title: title, Status: status, Reason: deref(reason), Positive: positive,
	})
	if err != nil {
		s.logger.Error().Err(err).Int64("studentID", student.ID).Str("kind", kind).Msg("Status update email failed")
	}
}

// ListMine returns the actor's own records
func (s *HackathonService) ListMine(ctx context.Context, actor auth.Actor) ([]models.Hackathon, error) {
	return s.stores.Hackathons.List(ctx, repositories.HackathonFilter{StudentID: actor.ID})
}

// ListAssigned returns the records assigned to the acting proctor
func (s *HackathonService) ListAssigned(ctx context.Context, actor auth.Actor) ([]models.Hackathon, error) {
	return s.stores.Hackathons.List(ctx, repositories.HackathonFilter{ProctorID: actor.ID})
}

// ListAccepted returns every accepted record
func (s *HackathonService) ListAccepted(ctx context.Context) ([]models.Hackathon, error) {
	return s.stores.Hackathons.List(ctx, repositories.HackathonFilter{Status: models.HackathonAccepted})
}

// ListAll returns every record
func (s *HackathonService) ListAll(ctx context.Context) ([]models.Hackathon, error) {
	return s.stores.Hackathons.List(ctx, repositories.HackathonFilter{})
}

// ListByYear returns the records of year, or all records when year is zero
func (s *HackathonService) ListByYear(ctx context.Context, year int) ([]models.Hackathon, error) {
	if year < 0 {
		return nil, apperrors.NewValidationError("Year must be positive")
	}
	return s.stores.Hackathons.List(ctx, repositories.HackathonFilter{Year: year})
}

// Participants returns the records for one (title, year) pair
func (s *HackathonService) Participants(ctx context.Context, title string, year int) ([]models.Hackathon, error) {
	title = strings.TrimSpace(title)
	if title == "" || year <= 0 {
		return nil, apperrors.NewValidationError("Hackathon title and year are required")
	}
	return s.stores.Hackathons.List(ctx, repositories.HackathonFilter{Title: title, Year: year})
}

// ListByStudent returns a student's records
func (s *HackathonService) ListByStudent(ctx context.Context, studentID int64) ([]models.Hackathon, error) {
	if _, err := s.stores.Students.GetByID(ctx, studentID); err != nil {
		return nil, err
	}
	return s.stores.Hackathons.List(ctx, repositories.HackathonFilter{StudentID: studentID})
}

// StatsByYear aggregates records per year
func (s *HackathonService) StatsByYear(ctx context.Context) ([]models.HackathonYearStats, error) {
	stats, err := s.stores.Hackathons.StatsByYear(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get hackathon stats: %w", err)
	}
	return stats, nil
}

func summarize(st *models.Student) *models.StudentSummary {
	return &models.StudentSummary{
		ID:         st.ID,
		Name:       st.Name,
		Email:      st.Email,
		RegisterNo: st.RegisterNo,
		Department: st.Department,
		Year:       st.Year,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
