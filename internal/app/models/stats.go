package models

// DashboardStats is the admin dashboard summary
type DashboardStats struct {
	TotalHackathons        int64 `json:"totalHackathons"`
	PendingHackathons      int64 `json:"pendingHackathons"`
	AcceptedHackathons     int64 `json:"acceptedHackathons"`
	DeclinedHackathons     int64 `json:"declinedHackathons"`
	OnlineCount            int64 `json:"onlineCount"`
	OfflineCount           int64 `json:"offlineCount"`
	StudentsWithHackathons int64 `json:"studentsWithHackathons"`
	TotalInternships       int64 `json:"totalInternships"`
	PendingInternships     int64 `json:"pendingInternships"`
	ApprovedInternships    int64 `json:"approvedInternships"`
	RejectedInternships    int64 `json:"rejectedInternships"`
	TotalStudents          int64 `json:"totalStudents"`
	TotalProctors          int64 `json:"totalProctors"`
	LowCreditStudents      int64 `json:"lowCreditStudents"`
}

// UserStats counts accounts per role
type UserStats struct {
	Students int64 `json:"students"`
	Proctors int64 `json:"proctors"`
	Admins   int64 `json:"admins"`
	Total    int64 `json:"total"`
}
