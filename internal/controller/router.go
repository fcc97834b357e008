package controller

import (
	"github.com/clinichub/clinic-booking/internal/service"
	"github.com/gin-gonic/gin"
)

// NewRouter wires every endpoint under /api/v1.
func NewRouter(
	users *service.UserService,
	clinics *service.ClinicService,
	schedules *service.ScheduleService,
	leaves *service.LeaveService,
	bookings *service.BookingService,
	healthRecords *service.HealthRecordService,
	audit *service.AuditService,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	authHandler := NewAuthHandler(users)
	clinicHandler := NewClinicHandler(clinics, users)
	scheduleHandler := NewScheduleHandler(schedules)
	leaveHandler := NewLeaveHandler(leaves)
	consultationHandler := NewConsultationHandler(bookings)
	healthRecordHandler := NewHealthRecordHandler(healthRecords)
	userHandler := NewUserHandler(users, audit)

	v1 := router.Group("/api/v1")

	v1.POST("/auth/register", authHandler.Register)
	v1.POST("/auth/login", authHandler.Login)

	v1.GET("/clinics", clinicHandler.List)
	v1.GET("/clinics/:id", clinicHandler.Get)
	v1.GET("/clinics/:id/doctors", clinicHandler.ListDoctors)
	v1.GET("/clinics/:id/medical-services", clinicHandler.ListMedicalServices)

	authed := v1.Group("")
	authed.Use(Authenticated(users))

	authed.GET("/auth/me", authHandler.Me)

	authed.GET("/clinics/:id/schedules", scheduleHandler.ListByClinic)

	authed.GET("/consultations/availability", consultationHandler.Availability)
	authed.POST("/consultations", consultationHandler.Create)
	authed.GET("/consultations", consultationHandler.List)
	authed.GET("/consultations/:id", consultationHandler.Get)
	authed.PUT("/consultations/:id", consultationHandler.Update)
	authed.PUT("/consultations/:id/cancel", consultationHandler.Cancel)
	authed.PUT("/consultations/:id/complete", consultationHandler.Complete)

	authed.GET("/doctors/:id", userHandler.GetDoctor)
	authed.GET("/doctors/:id/working-schedules", scheduleHandler.ListWorkingSchedules)
	authed.PUT("/doctors/:id/working-schedules", scheduleHandler.ReplaceWorkingSchedules)
	authed.GET("/doctors/:id/leave-schedules", leaveHandler.ListByDoctor)

	authed.POST("/leave-schedules", leaveHandler.Create)
	authed.PUT("/leave-schedules/:id/activate", leaveHandler.Activate)
	authed.PUT("/leave-schedules/:id/deactivate", leaveHandler.Deactivate)
	authed.DELETE("/leave-schedules/:id", leaveHandler.Delete)

	authed.GET("/health-records/:id", healthRecordHandler.Get)
	authed.PUT("/health-records/:id", healthRecordHandler.Update)

	admin := authed.Group("")
	admin.Use(RequireAdmin())

	admin.POST("/clinics", clinicHandler.Create)
	admin.POST("/medical-services", clinicHandler.CreateMedicalService)

	admin.POST("/schedules", scheduleHandler.Create)
	admin.PUT("/schedules/:id", scheduleHandler.Update)
	admin.DELETE("/schedules/:id", scheduleHandler.Delete)
	admin.POST("/request-change-schedules", scheduleHandler.CreateRequestChange)
	admin.GET("/clinics/:id/request-change-schedules", scheduleHandler.ListRequestChanges)

	admin.POST("/doctors", userHandler.PromoteToDoctor)
	admin.PUT("/doctors/:id/assignment", userHandler.AssignDoctor)

	admin.DELETE("/consultations/:id", consultationHandler.Delete)

	admin.GET("/history-logs", userHandler.ListHistoryLogs)

	return router
}
