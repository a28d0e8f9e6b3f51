package dto

import (
	"time"

	"github.com/tce-csbs/participation-portal/internal/app/models"
)

// SubmitHackathonRequest is the multipart form of a hackathon submission. The certificate arrives as a file part.
type SubmitHackathonRequest struct {
	Title        string      `form:"hackathonTitle" binding:"required,max=200" example:"CodeFest"`
	Organization string      `form:"organization" binding:"required,max=200" example:"IIT Madras"`
	Mode         models.Mode `form:"mode" binding:"required,oneof=Online Offline" example:"Offline"`
	Date         time.Time   `form:"date" binding:"required" time_format:"2006-01-02" example:"2025-03-14"`
	Year         int         `form:"year" binding:"required,min=2000,max=2100" example:"2025"`
	Description  string      `form:"description" binding:"required" example:"48 hour fintech hackathon"`
}

// SubmitInternshipRequest is the multipart form of an internship submission
type SubmitInternshipRequest struct {
	CompanyName  string      `form:"companyName" binding:"required,max=200" example:"Zoho"`
	Description  string      `form:"description" binding:"required" example:"Backend intern"`
	Mode         models.Mode `form:"mode" binding:"required,oneof=Online Offline" example:"Online"`
	DurationFrom time.Time   `form:"durationFrom" binding:"required" time_format:"2006-01-02" example:"2025-05-01"`
	DurationTo   time.Time   `form:"durationTo" binding:"required" time_format:"2006-01-02" example:"2025-06-15"`
}

// StatusUpdateRequest is a proctor's review decision
type StatusUpdateRequest struct {
	Status          string `json:"status" binding:"required" example:"Declined"`
	RejectionReason string `json:"rejectionReason" example:"Certificate is not legible"`
}

// SubmissionFiles holds the stored references of a submission's uploads
type SubmissionFiles struct {
	Certificate string
	PPT         *string
	Report      *string
	Photo       *string
}

// HackathonSubmissionResult reports whether a submission created or merged into a record
type HackathonSubmissionResult struct {
	Hackathon *models.Hackathon `json:"hackathon"`
	Merged    bool              `json:"merged"`
}
