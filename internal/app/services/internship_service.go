package services

import (
	"context"
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

// InternshipService handles internship submissions and reviews
type InternshipService struct {
	stores   Stores
	uow      UnitOfWork
	assigner *ProctorAssigner
	engine   *credit.Engine
	notifier Notifier
	events   EventPublisher
	logger   zerolog.Logger
}

// NewInternshipService creates a new InternshipService
func NewInternshipService(
	stores Stores,
	uow UnitOfWork,
	assigner *ProctorAssigner,
	engine *credit.Engine,
	notifier Notifier,
	events EventPublisher,
	logger zerolog.Logger,
) *InternshipService {
	if events == nil {
		events = NoopPublisher{}
	}
	return &InternshipService{
		stores:   stores,
		uow:      uow,
		assigner: assigner,
		engine:   engine,
		notifier: notifier,
		events:   events,
		logger:   logger,
	}
}

// Submit records an internship and assigns it to a proctor of the student's department
func (s *InternshipService) Submit(ctx context.Context, actor auth.Actor, req dto.SubmitInternshipRequest, files dto.SubmissionFiles) (*models.Internship, error) {
	if strings.TrimSpace(files.Certificate) == "" {
		return nil, apperrors.NewCustomError(apperrors.ErrCertificateRequired, "Certificate file is required")
	}
	company := strings.TrimSpace(req.CompanyName)
	if company == "" {
		return nil, apperrors.NewValidationError("Company name is required")
	}
	if !req.Mode.Valid() {
		return nil, apperrors.NewValidationError("Mode must be Online or Offline")
	}
	from, to := helpers.DateOnly(req.DurationFrom), helpers.DateOnly(req.DurationTo)
	if to.Before(from) {
		return nil, apperrors.NewValidationError("Duration end must not be before its start")
	}

	var (
		student    *models.Student
		internship *models.Internship
	)
	err := s.uow.Do(ctx, func(ctx context.Context, stores Stores) error {
		st, err := stores.Students.GetByID(ctx, actor.ID)
		if err != nil {
			return err
		}

		in := &models.Internship{
			StudentID:    st.ID,
			CompanyName:  company,
			Description:  strings.TrimSpace(req.Description),
			Mode:         req.Mode,
			DurationFrom: from,
			DurationTo:   to,
			Certificate:  files.Certificate,
			PPT:          files.PPT,
			Report:       files.Report,
			Photo:        files.Photo,
			Status:       models.InternshipPending,
		}
		proctor, err := s.assigner.Assign(ctx, stores, st)
		if err != nil {
			return err
		}
		if proctor != nil {
			in.ProctorID = &proctor.ID
		}
		if err := stores.Internships.Create(ctx, in); err != nil {
			return err
		}
		in.Student = summarize(st)
		student, internship = st, in
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.Submissions.WithLabelValues("internship", "created").Inc()
	s.logger.Info().Int64("internshipID", internship.ID).Int64("studentID", student.ID).Msg("Internship submitted")

	if err := s.notifier.SendInternshipSubmitted(ctx, student.Name, student.Email, company); err != nil {
		s.logger.Error().Err(err).Int64("studentID", student.ID).Msg("Internship submission confirmation email failed")
	}
	if p := internship.ProctorID; p != nil {
		s.events.Publish(websocket.Event{
			Type:      websocket.EventSubmissionCreated,
			Kind:      "internship",
			RecordID:  internship.ID,
			Title:     internship.CompanyName,
			Status:    string(internship.Status),
			Recipient: websocket.Recipient{Role: string(auth.RoleProctor), UserID: *p},
		})
	}
	return internship, nil
}

// UpdateStatus applies a proctor's review and recomputes the student's credit
func (s *InternshipService) UpdateStatus(ctx context.Context, actor auth.Actor, id int64, req dto.StatusUpdateRequest) (*models.Internship, error) {
	var (
		internship *models.Internship
		student    *models.Student
		previous   models.InternshipStatus
	)
	err := s.uow.Do(ctx, func(ctx context.Context, stores Stores) error {
		in, err := stores.Internships.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := auth.AuthorizeReview(actor, in.ProctorID); err != nil {
			return err
		}
		out, err := credit.InternshipTransition(models.InternshipStatus(req.Status), req.RejectionReason)
		if err != nil {
			return err
		}

		previous = in.Status
		in.Status = out.Status
		in.RejectionReason = out.Reason
		if err := stores.Internships.UpdateStatus(ctx, in); err != nil {
			return err
		}

		st, err := stores.Students.GetByID(ctx, in.StudentID)
		if err != nil {
			return err
		}
		credits, err := s.engine.AfterInternshipReview(ctx, creditSource{stores}, st.ID)
		if err != nil {
			return err
		}
		if err := stores.Students.UpdateCredits(ctx, st.ID, credits); err != nil {
			return err
		}
		st.Credits = credits
		internship, student = in, st
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.StatusTransitions.WithLabelValues("internship", string(internship.Status)).Inc()
	s.logger.Info().Int64("internshipID", internship.ID).Int64("proctorID", actor.ID).
		Str("from", string(previous)).Str("to", string(internship.Status)).
		Float64("credits", student.Credits).Msg("Internship status updated")

	err = s.notifier.SendStatusChanged(ctx, student.Name, student.Email, email.StatusUpdate{
		Kind:     "Internship",
		Title:    internship.CompanyName,
		Status:   string(internship.Status),
		Reason:   deref(internship.RejectionReason),
		Positive: internship.Status == models.InternshipApproved,
	})
	if err != nil {
		s.logger.Error().Err(err).Int64("studentID", student.ID).Msg("Status update email failed")
	}

	credits := student.Credits
	s.events.Publish(websocket.Event{
		Type:      websocket.EventReviewUpdated,
		Kind:      "internship",
		RecordID:  internship.ID,
		Title:     internship.CompanyName,
		Status:    string(internship.Status),
		Reason:    deref(internship.RejectionReason),
		Credits:   &credits,
		Recipient: websocket.Recipient{Role: string(auth.RoleStudent), UserID: student.ID},
	})
	return internship, nil
}

// ListMine returns the actor's own records
func (s *InternshipService) ListMine(ctx context.Context, actor auth.Actor) ([]models.Internship, error) {
	return s.stores.Internships.List(ctx, repositories.InternshipFilter{StudentID: actor.ID})
}

// ListAssigned returns the records assigned to the acting proctor
func (s *InternshipService) ListAssigned(ctx context.Context, actor auth.Actor) ([]models.Internship, error) {
	return s.stores.Internships.List(ctx, repositories.InternshipFilter{ProctorID: actor.ID})
}

// ListApproved returns every approved record
func (s *InternshipService) ListApproved(ctx context.Context) ([]models.Internship, error) {
	return s.stores.Internships.List(ctx, repositories.InternshipFilter{Status: models.InternshipApproved})
}
