package models

// Mode is how a participation was attended
type Mode string

const (
	ModeOnline  Mode = "Online"
	ModeOffline Mode = "Offline"
)

// Valid reports whether m is a known mode
func (m Mode) Valid() bool {
	return m == ModeOnline || m == ModeOffline
}

// HackathonStatus is the review state of a hackathon record
type HackathonStatus string

const (
	HackathonPending  HackathonStatus = "Pending"
	HackathonAccepted HackathonStatus = "Accepted"
	HackathonDeclined HackathonStatus = "Declined"
)

// Valid reports whether s is a known hackathon status
func (s HackathonStatus) Valid() bool {
	switch s {
	case HackathonPending, HackathonAccepted, HackathonDeclined:
		return true
	}
	return false
}

// InternshipStatus is the review state of an internship record
type InternshipStatus string

const (
	InternshipPending  InternshipStatus = "Pending"
	InternshipApproved InternshipStatus = "Approved"
	InternshipRejected InternshipStatus = "Rejected"
)

// Valid reports whether s is a known internship status
func (s InternshipStatus) Valid() bool {
	switch s {
	case InternshipPending, InternshipApproved, InternshipRejected:
		return true
	}
	return false
}
