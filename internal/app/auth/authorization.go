package auth

import (
	"fmt"
	"strings"

	"github.com/tce-csbs/participation-portal/internal/pkg/apperrors"
)

// Role is the closed set of account kinds
type Role string

const (
	RoleStudent Role = "student"
	RoleProctor Role = "proctor"
	RoleAdmin   Role = "admin"
)

// ParseRole maps a token or path value onto a Role
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("%w: unknown role %q", apperrors.ErrValidationFailed, s)
	}
	return r, nil
}

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleProctor, RoleAdmin:
		return true
	}
	return false
}

// Capability is an action gated at the authorization boundary
type Capability string

const (
	CapSubmit        Capability = "submit"
	CapViewOwn       Capability = "view_own"
	CapCheckCredits  Capability = "check_credits"
	CapReview        Capability = "review"
	CapViewAssigned  Capability = "view_assigned"
	CapViewAnalytics Capability = "view_analytics"
	CapViewDashboard Capability = "view_dashboard"
	CapManageUsers   Capability = "manage_users"
	CapSendAlerts    Capability = "send_alerts"
	CapExport        Capability = "export"
	CapSubscribeFeed Capability = "subscribe_feed"
)

var capabilities = map[Role]map[Capability]bool{
	RoleStudent: {
		CapSubmit:        true,
		CapViewOwn:       true,
		CapCheckCredits:  true,
		CapSubscribeFeed: true,
	},
	RoleProctor: {
		CapReview:        true,
		CapViewAssigned:  true,
		CapViewAnalytics: true,
		CapSubscribeFeed: true,
	},
	RoleAdmin: {
		CapViewAnalytics: true,
		CapViewDashboard: true,
		CapManageUsers:   true,
		CapSendAlerts:    true,
		CapExport:        true,
		CapSubscribeFeed: true,
	},
}

// Can reports whether the role holds the capability
func (r Role) Can(c Capability) bool {
	return capabilities[r][c]
}

// Actor is the authenticated caller of an operation
type Actor struct {
	ID    int64
	Role  Role
	Email string
}

// Require fails with a permission error unless the actor holds c
func (a Actor) Require(c Capability) error {
	if !a.Role.Can(c) {
		return apperrors.NewForbiddenError("You don't have sufficient permissions for this operation")
	}
	return nil
}

// AuthorizeReview permits a status update only by the record's assigned proctor.
// An unassigned record cannot be reviewed by anyone.
func AuthorizeReview(actor Actor, assignedProctor *int64) error {
	if err := actor.Require(CapReview); err != nil {
		return err
	}
	if assignedProctor == nil {
		return apperrors.NewForbiddenError("This submission has no assigned proctor")
	}
	if *assignedProctor != actor.ID {
		return apperrors.NewForbiddenError("Not authorized to update this submission")
	}
	return nil
}

// AuthorizeAdminDeletion forbids an admin from deleting their own account
func AuthorizeAdminDeletion(actor Actor, targetID int64) error {
	if err := actor.Require(CapManageUsers); err != nil {
		return err
	}
	if actor.ID == targetID {
		return apperrors.NewCustomError(apperrors.ErrSelfDeletion, "Cannot delete your own admin account")
	}
	return nil
}
