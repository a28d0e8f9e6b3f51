package models

import (
	"time"
)

// Student defines the student model based on the 'students' table
type Student struct {
	ID         int64     `json:"id" db:"id" example:"1"`
	Name       string    `json:"name" db:"name" example:"Asha R"`
	Email      string    `json:"email" db:"email" example:"asha@student.tce.edu"`
	Password   string    `json:"-" db:"password"` // bcrypt hash, never serialized
	RegisterNo string    `json:"registerNo" db:"register_no" example:"21CB001"`
	Department string    `json:"department" db:"department" example:"CSBS"`
	Year       string    `json:"year" db:"year" example:"3"`
	Credits    float64   `json:"credits" db:"credits" example:"2.5"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time `json:"updatedAt" db:"updated_at"`
}

// StudentSummary is the subset of a student embedded in participation listings
type StudentSummary struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email,omitempty"`
	RegisterNo string `json:"registerNo"`
	Department string `json:"department"`
	Year       string `json:"year"`
}
