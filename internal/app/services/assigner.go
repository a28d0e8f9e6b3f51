package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/tce-csbs/participation-portal/internal/app/models"
	"github.com/tce-csbs/participation-portal/internal/pkg/apperrors"
)

// ProctorAssigner matches new submissions to a proctor of the student's department
type ProctorAssigner struct {
	logger zerolog.Logger
}

// NewProctorAssigner creates a new ProctorAssigner
func NewProctorAssigner(logger zerolog.Logger) *ProctorAssigner {
	return &ProctorAssigner{logger: logger}
}

// Assign returns the first proctor of the student's department and adds the student to its
// assigned set. A department without a proctor yields nil and no error.
func (a *ProctorAssigner) Assign(ctx context.Context, stores Stores, student *models.Student) (*models.Proctor, error) {
	proctor, err := stores.Proctors.FirstByDepartment(ctx, student.Department)
	if err != nil {
		if errors.Is(err, apperrors.ErrProctorNotFound) {
			a.logger.Warn().Str("department", student.Department).Int64("studentID", student.ID).
				Msg("No proctor found for department, submission left unassigned")
			return nil, nil
		}
		return nil, fmt.Errorf("error finding proctor for department: %w", err)
	}

	added, err := stores.Proctors.AssignStudent(ctx, proctor.ID, student.ID)
	if err != nil {
		return nil, err
	}
	if added {
		proctor.AssignedStudents = append(proctor.AssignedStudents, student.ID)
		a.logger.Info().Int64("proctorID", proctor.ID).Int64("studentID", student.ID).Msg("Student assigned to proctor")
	}
	return proctor, nil
}
