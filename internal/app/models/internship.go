package models

import "time"

// Internship is an internship participation record
type Internship struct {
	ID              int64            `json:"id" db:"id"`
	StudentID       int64            `json:"studentId" db:"student_id"`
	CompanyName     string           `json:"companyName" db:"company_name"`
	Description     string           `json:"description" db:"description"`
	Mode            Mode             `json:"mode" db:"mode"`
	DurationFrom    time.Time        `json:"durationFrom" db:"duration_from"`
	DurationTo      time.Time        `json:"durationTo" db:"duration_to"`
	Certificate     string           `json:"certificateFilePath" db:"certificate"`
	PPT             *string          `json:"pptFilePath,omitempty" db:"ppt"`
	Report          *string          `json:"reportFilePath,omitempty" db:"report"`
	Photo           *string          `json:"photoFilePath,omitempty" db:"photo"`
	Status          InternshipStatus `json:"status" db:"status"`
	ProctorID       *int64           `json:"proctorId,omitempty" db:"proctor_id"`
	RejectionReason *string          `json:"rejectionReason,omitempty" db:"rejection_reason"`
	CreatedAt       time.Time        `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time        `json:"updatedAt" db:"updated_at"`
	Student         *StudentSummary  `json:"student,omitempty"`
}
