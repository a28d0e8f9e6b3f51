package models

import "time"

// Hackathon is a hackathon participation record. (Title, Year) is unique.
type Hackathon struct {
	ID               int64           `json:"id" db:"id"`
	StudentID        int64           `json:"studentId" db:"student_id"`
	Title            string          `json:"hackathonTitle" db:"title"`
	Organization     string          `json:"organization" db:"organization"`
	Mode             Mode            `json:"mode" db:"mode"`
	Date             time.Time       `json:"date" db:"date"`
	Year             int             `json:"year" db:"year"`
	Description      string          `json:"description" db:"description"`
	Certificate      string          `json:"certificateFilePath" db:"certificate"`
	Status           HackathonStatus `json:"status" db:"status"`
	ProctorID        *int64          `json:"proctorId,omitempty" db:"proctor_id"`
	RejectionReason  *string         `json:"rejectionReason,omitempty" db:"rejection_reason"`
	ParticipantCount int             `json:"participantCount" db:"participant_count"`
	CreatedAt        time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time       `json:"updatedAt" db:"updated_at"`
	Student          *StudentSummary `json:"student,omitempty"` // Relation, no db tag
}

// HackathonYearStats aggregates hackathon records for one year
type HackathonYearStats struct {
	Year                 int   `json:"year"`
	TotalHackathons      int64 `json:"totalHackathons"`
	UniqueHackathonCount int64 `json:"uniqueHackathonCount"`
	TotalParticipants    int64 `json:"totalParticipants"`
}
