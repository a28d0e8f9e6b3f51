package dto

// UpdateStudentRequest changes a student's profile. Credits and password are not editable here.
type UpdateStudentRequest struct {
	Name       *string `json:"name" binding:"omitempty,min=2,max=100"`
	Email      *string `json:"email" binding:"omitempty,email"`
	RegisterNo *string `json:"registerNo" binding:"omitempty,registerno"`
	Department *string `json:"department" binding:"omitempty,max=50"`
	Year       *string `json:"year" binding:"omitempty,max=10"`
}

// UpdateProctorRequest changes a proctor's profile
type UpdateProctorRequest struct {
	Name       *string `json:"name" binding:"omitempty,min=2,max=100"`
	Email      *string `json:"email" binding:"omitempty,email"`
	Department *string `json:"department" binding:"omitempty,max=50"`
}

// UpdateAdminRequest changes an admin's profile
type UpdateAdminRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=2,max=100"`
	Email *string `json:"email" binding:"omitempty,email"`
}

// CreateProctorRequest creates a proctor account
type CreateProctorRequest struct {
	Name       string `json:"name" binding:"required,min=2,max=100" example:"Dr. K. Meena"`
	Email      string `json:"email" binding:"required,email" example:"meena@tce.edu"`
	Password   string `json:"password" binding:"required,strongpassword"`
	Department string `json:"department" binding:"required,max=50" example:"CSBS"`
}

// CreateAdminRequest creates an admin account
type CreateAdminRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100" example:"Office Admin"`
	Email    string `json:"email" binding:"required,email" example:"admin@tce.edu"`
	Password string `json:"password" binding:"required,strongpassword"`
}
