package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/tce-csbs/participation-portal/internal/app/auth"
	"github.com/tce-csbs/participation-portal/internal/app/controllers"
	"github.com/tce-csbs/participation-portal/internal/middleware"
	"github.com/tce-csbs/participation-portal/internal/pkg/websocket"
)

// Handlers bundles the controllers mounted under /api
type Handlers struct {
	Auth        *controllers.AuthController
	Hackathons  *controllers.HackathonController
	Internships *controllers.InternshipController
	Admin       *controllers.AdminController
	Student     *controllers.StudentController
	Users       *controllers.UserController
	Feed        *websocket.Handler
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, h Handlers, authMiddleware *middleware.AuthMiddleware) {
	api := router.Group("/api")
	can := authMiddleware.RequireCapability

	// --- Public Auth routes ---
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/student/register", h.Auth.RegisterStudent)
		authGroup.POST("/student/login", h.Auth.StudentLogin)
		authGroup.POST("/proctor/login", h.Auth.ProctorLogin)
		authGroup.POST("/admin/login", h.Auth.AdminLogin)
	}

	// Public listings
	api.GET("/hackathons/accepted", h.Hackathons.Accepted)
	api.GET("/internships/approved", h.Internships.Approved)

	authenticated := api.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	hackathons := authenticated.Group("/hackathons")
	{
		hackathons.POST("/submit", can(auth.CapSubmit), h.Hackathons.Submit)
		hackathons.GET("/my-hackathons", can(auth.CapViewOwn), h.Hackathons.MyHackathons)
		hackathons.GET("/assigned", can(auth.CapViewAssigned), h.Hackathons.Assigned)
		hackathons.PUT("/:id/status", can(auth.CapReview), h.Hackathons.UpdateStatus)

		analytics := hackathons.Group("")
		analytics.Use(can(auth.CapViewAnalytics))
		{
			analytics.GET("/by-year", h.Hackathons.ByYear)
			analytics.GET("/participants", h.Hackathons.Participants)
			analytics.GET("/student/:studentId", h.Hackathons.ByStudent)
			analytics.GET("/stats", h.Hackathons.Stats)
		}
	}

	internships := authenticated.Group("/internships")
	{
		internships.POST("/submit", can(auth.CapSubmit), h.Internships.Submit)
		internships.GET("/my-internships", can(auth.CapViewOwn), h.Internships.MyInternships)
		internships.GET("/assigned", can(auth.CapViewAssigned), h.Internships.Assigned)
		internships.PUT("/:id/status", can(auth.CapReview), h.Internships.UpdateStatus)
	}

	student := authenticated.Group("/student")
	{
		student.GET("/credits", can(auth.CapViewOwn), h.Student.Credits)
		student.POST("/check-credits", can(auth.CapCheckCredits), h.Student.CheckCredits)
	}

	admin := authenticated.Group("/admin")
	{
		admin.GET("/stats", can(auth.CapViewDashboard), h.Admin.Dashboard)
		admin.GET("/hackathons", can(auth.CapViewDashboard), h.Admin.Hackathons)
		admin.GET("/hackathons/export", can(auth.CapExport), h.Admin.ExportHackathons)
		admin.GET("/low-credits", can(auth.CapViewDashboard), h.Admin.LowCredits)
		admin.POST("/send-alerts", can(auth.CapSendAlerts), h.Admin.SendAlerts)
	}

	users := authenticated.Group("/users")
	users.Use(can(auth.CapManageUsers))
	{
		users.GET("/stats", h.Users.Stats)

		users.GET("/students", h.Users.ListStudents)
		users.PUT("/students/:id", h.Users.UpdateStudent)
		users.DELETE("/students/:id", h.Users.DeleteStudent)

		users.GET("/proctors", h.Users.ListProctors)
		users.POST("/proctors", h.Users.CreateProctor)
		users.PUT("/proctors/:id", h.Users.UpdateProctor)
		users.DELETE("/proctors/:id", h.Users.DeleteProctor)

		users.GET("/admins", h.Users.ListAdmins)
		users.POST("/admins", h.Users.CreateAdmin)
		users.PUT("/admins/:id", h.Users.UpdateAdmin)
		users.DELETE("/admins/:id", h.Users.DeleteAdmin)
	}

	if h.Feed != nil {
		authenticated.GET("/ws", can(auth.CapSubscribeFeed), h.Feed.HandleConnection)
	}
}
