// Package credit decides how review status changes move a student's credit total.
package credit

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/tce-csbs/participation-portal/internal/app/models"
	"github.com/tce-csbs/participation-portal/internal/pkg/apperrors"
)

// Threshold is the credit total below which a student is alerted
const Threshold = 3.0

// DaysPerCredit is the internship length that earns one unit of credit
const DaysPerCredit = 20

// Policy selects how the stored credit total is maintained
type Policy string

const (
	// PolicySplit adjusts by one on hackathon reviews and overwrites with the
	// internship-only sum on internship reviews.
	PolicySplit Policy = "split"
	// PolicyUnified recomputes the total from every accepted hackathon and
	// approved internship on each review.
	PolicyUnified Policy = "unified"
)

// ParsePolicy validates a configured policy name. Empty means split.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicySplit:
		return PolicySplit, nil
	case PolicyUnified:
		return PolicyUnified, nil
	}
	return "", fmt.Errorf("unknown credit policy %q", s)
}

// HackathonOutcome is the persisted result of a hackathon review
type HackathonOutcome struct {
	Status models.HackathonStatus
	Reason *string
	Delta  int
}

// InternshipOutcome is the persisted result of an internship review
type InternshipOutcome struct {
	Status models.InternshipStatus
	Reason *string
}

// HackathonTransition validates a review and computes its credit delta.
// Entering Accepted is +1, leaving it is -1, anything else is 0.
func HackathonTransition(prev, next models.HackathonStatus, reason string) (HackathonOutcome, error) {
	if !next.Valid() {
		return HackathonOutcome{}, apperrors.NewCustomError(apperrors.ErrInvalidStatus,
			"Status must be one of Pending, Accepted, Declined")
	}
	declined := next == models.HackathonDeclined
	if declined && strings.TrimSpace(reason) == "" {
		return HackathonOutcome{}, apperrors.NewCustomError(apperrors.ErrReasonRequired,
			"Rejection reason is required when declining")
	}

	out := HackathonOutcome{Status: next, Reason: ResolveRejectionReason(declined, reason)}
	switch {
	case prev != models.HackathonAccepted && next == models.HackathonAccepted:
		out.Delta = 1
	case prev == models.HackathonAccepted && next != models.HackathonAccepted:
		out.Delta = -1
	}
	return out, nil
}

// InternshipTransition validates an internship review
func InternshipTransition(next models.InternshipStatus, reason string) (InternshipOutcome, error) {
	if !next.Valid() {
		return InternshipOutcome{}, apperrors.NewCustomError(apperrors.ErrInvalidStatus,
			"Status must be one of Pending, Approved, Rejected")
	}
	rejected := next == models.InternshipRejected
	if rejected && strings.TrimSpace(reason) == "" {
		return InternshipOutcome{}, apperrors.NewCustomError(apperrors.ErrReasonRequired,
			"Rejection reason is required when rejecting")
	}
	return InternshipOutcome{Status: next, Reason: ResolveRejectionReason(rejected, reason)}, nil
}

// ResolveRejectionReason keeps a reason only for the rejected terminal state
func ResolveRejectionReason(rejected bool, reason string) *string {
	if !rejected {
		return nil
	}
	r := strings.TrimSpace(reason)
	return &r
}

// ApplyHackathonCredit adds delta to current, never going below zero
func ApplyHackathonCredit(current float64, delta int) float64 {
	return math.Max(0, current+float64(delta))
}

// DurationDays is the whole number of days between from and to
func DurationDays(from, to time.Time) int {
	d := to.Sub(from)
	if d <= 0 {
		return 0
	}
	return int(d / (24 * time.Hour))
}

// InternshipCredits is floor(days/20) weighted 1 for Offline and 0.5 for Online
func InternshipCredits(from, to time.Time, mode models.Mode) float64 {
	blocks := float64(DurationDays(from, to) / DaysPerCredit)
	switch mode {
	case models.ModeOffline:
		return blocks
	case models.ModeOnline:
		return blocks * 0.5
	}
	return 0
}

// RecomputeInternshipCredits sums the credits of the approved internships
func RecomputeInternshipCredits(internships []models.Internship) float64 {
	var total float64
	for _, in := range internships {
		if in.Status != models.InternshipApproved {
			continue
		}
		total += InternshipCredits(in.DurationFrom, in.DurationTo, in.Mode)
	}
	return total
}

// RecomputeAll counts one credit per accepted hackathon plus the internship sum
func RecomputeAll(hackathons []models.Hackathon, internships []models.Internship) float64 {
	var total float64
	for _, h := range hackathons {
		if h.Status == models.HackathonAccepted {
			total++
		}
	}
	return total + RecomputeInternshipCredits(internships)
}

// Source loads the records a recomputation needs
type Source interface {
	AcceptedHackathons(ctx context.Context, studentID int64) ([]models.Hackathon, error)
	ApprovedInternships(ctx context.Context, studentID int64) ([]models.Internship, error)
}

// Engine applies a Policy
type Engine struct {
	policy Policy
}

// NewEngine creates an Engine. An unknown policy falls back to split.
func NewEngine(policy Policy) *Engine {
	if policy != PolicyUnified {
		policy = PolicySplit
	}
	return &Engine{policy: policy}
}

// Policy returns the active policy
func (e *Engine) Policy() Policy {
	return e.policy
}

// AfterHackathonReview returns the student's new credit total
func (e *Engine) AfterHackathonReview(ctx context.Context, src Source, studentID int64, current float64, out HackathonOutcome) (float64, error) {
	if e.policy == PolicyUnified {
		return e.recomputeAll(ctx, src, studentID)
	}
	return ApplyHackathonCredit(current, out.Delta), nil
}

// AfterInternshipReview returns the student's new credit total
func (e *Engine) AfterInternshipReview(ctx context.Context, src Source, studentID int64) (float64, error) {
	if e.policy == PolicyUnified {
		return e.recomputeAll(ctx, src, studentID)
	}
	approved, err := src.ApprovedInternships(ctx, studentID)
	if err != nil {
		return 0, fmt.Errorf("load approved internships: %w", err)
	}
	return RecomputeInternshipCredits(approved), nil
}

func (e *Engine) recomputeAll(ctx context.Context, src Source, studentID int64) (float64, error) {
	accepted, err := src.AcceptedHackathons(ctx, studentID)
	if err != nil {
		return 0, fmt.Errorf("load accepted hackathons: %w", err)
	}
	approved, err := src.ApprovedInternships(ctx, studentID)
	if err != nil {
		return 0, fmt.Errorf("load approved internships: %w", err)
	}
	return RecomputeAll(accepted, approved), nil
}
