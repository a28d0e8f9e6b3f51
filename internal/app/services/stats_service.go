package services

import (
	"context"
	"fmt"

	"github.com/tce-csbs/participation-portal/internal/app/models"
)

// StatsService builds the admin dashboard summary
type StatsService struct {
	stores    Stores
	threshold float64
}

// NewStatsService creates a new StatsService
func NewStatsService(stores Stores, threshold float64) *StatsService {
	return &StatsService{stores: stores, threshold: threshold}
}

// Dashboard aggregates participation and account counts
func (s *StatsService) Dashboard(ctx context.Context) (*models.DashboardStats, error) {
	byStatus, err := s.stores.Hackathons.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count hackathons: %w", err)
	}
	byMode, err := s.stores.Hackathons.CountByMode(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count hackathon modes: %w", err)
	}
	withAccepted, err := s.stores.Hackathons.CountStudentsWithAccepted(ctx)
	if err != nil {
		return nil, err
	}
	internships, err := s.stores.Internships.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count internships: %w", err)
	}

	stats := &models.DashboardStats{
		PendingHackathons:      byStatus[models.HackathonPending],
		AcceptedHackathons:     byStatus[models.HackathonAccepted],
		DeclinedHackathons:     byStatus[models.HackathonDeclined],
		OnlineCount:            byMode[models.ModeOnline],
		OfflineCount:           byMode[models.ModeOffline],
		StudentsWithHackathons: withAccepted,
		PendingInternships:     internships[models.InternshipPending],
		ApprovedInternships:    internships[models.InternshipApproved],
		RejectedInternships:    internships[models.InternshipRejected],
	}
	stats.TotalHackathons = stats.PendingHackathons + stats.AcceptedHackathons + stats.DeclinedHackathons
	stats.TotalInternships = stats.PendingInternships + stats.ApprovedInternships + stats.RejectedInternships

	if stats.TotalStudents, err = s.stores.Students.Count(ctx); err != nil {
		return nil, err
	}
	if stats.TotalProctors, err = s.stores.Proctors.Count(ctx); err != nil {
		return nil, err
	}
	if stats.LowCreditStudents, err = s.stores.Students.CountBelowCredits(ctx, s.threshold); err != nil {
		return nil, err
	}
	return stats, nil
}
