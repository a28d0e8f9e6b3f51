package dto

// RegisterStudentRequest is the student self-registration payload
type RegisterStudentRequest struct {
	Name       string `json:"name" binding:"required,min=2,max=100" example:"Asha R"`
	Email      string `json:"email" binding:"required,email" example:"asha@student.tce.edu"`
	Password   string `json:"password" binding:"required,strongpassword" example:"Passw0rd!"`
	RegisterNo string `json:"registerNo" binding:"required,registerno" example:"21CB001"`
	Department string `json:"department" binding:"required,max=50" example:"CSBS"`
	Year       string `json:"year" binding:"required,max=10" example:"3"`
}

// LoginRequest is shared by the student, proctor and admin login endpoints
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"asha@student.tce.edu"`
	Password string `json:"password" binding:"required" example:"Passw0rd!"`
}

// LoginResponse carries the access token and the signed-in account
type LoginResponse struct {
	Token     string      `json:"token" example:"eyJhbGciOiJIUzI1NiIs..."`
	ExpiresIn int         `json:"expiresIn" example:"86400"`
	Role      string      `json:"role" example:"student" enums:"student,proctor,admin"`
	User      interface{} `json:"user"`
}
