package routes

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"cesms_backend/internals/constants"
	attendanceController "cesms_backend/internals/features/events/attendance/controller"
	eventController "cesms_backend/internals/features/events/events/controller"
	feedbackController "cesms_backend/internals/features/events/feedback/controller"
	registrationController "cesms_backend/internals/features/events/registrations/controller"
	requestController "cesms_backend/internals/features/events/requests/controller"
	requirementController "cesms_backend/internals/features/events/requirements/controller"
	authRoute "cesms_backend/internals/features/users/auth/route"
	authMiddleware "cesms_backend/internals/middlewares/auth"
)

// SetupRoutes mounts the whole API surface:
//
//	/api/auth  public auth endpoints
//	/api/s     student endpoints
//	/api/d     department endpoints
//	/api/o     OSAS endpoints
func SetupRoutes(app *fiber.App, db *gorm.DB) {
	api := app.Group("/api")

	log.Println("[INFO] Setting up auth routes...")
	authRoute.AuthRoutes(api, db)

	events := eventController.NewEventController(db)
	requests := requestController.NewRequestController(db)
	registrations := registrationController.NewRegistrationController(db)
	attendance := attendanceController.NewAttendanceController(db)
	requirements := requirementController.NewRequirementController(db)
	feedback := feedbackController.NewFeedbackController(db)

	// ===================== STUDENT =====================
	log.Println("[INFO] Setting up student routes...")
	student := api.Group("/s",
		authMiddleware.AuthMiddleware(db),
		authMiddleware.OnlyRoles(constants.RoleErrorStudent("student area"), constants.RoleStudent),
	)
	student.Get("/events", events.ListUpcoming)
	student.Get("/events/:id", events.GetByID)
	student.Post("/registrations", registrations.Register)
	student.Get("/registrations", registrations.ListMine)
	student.Delete("/registrations/:id", registrations.CancelPending)
	student.Get("/registrations/:id/qr", registrations.QRCode)
	student.Get("/registrations/:registration_id/requirements", requirements.ListMine)
	student.Patch("/requirements/tracking/:id/submit", requirements.SubmitMine)
	student.Post("/feedback", feedback.Submit)
	student.Get("/feedback", feedback.ListMine)

	// ===================== DEPARTMENT =====================
	log.Println("[INFO] Setting up department routes...")
	department := api.Group("/d",
		authMiddleware.AuthMiddleware(db),
		authMiddleware.OnlyRoles(constants.RoleErrorDepartment("department area"), constants.RoleDepartment),
	)
	department.Get("/events", events.ListMine)
	department.Get("/events/:id", events.GetByID)
	department.Patch("/events/:id/cancel", events.CancelOwned)
	department.Patch("/events/:id/postpone", events.PostponeOwned)
	department.Post("/requests", requests.Submit)
	department.Get("/requests", requests.ListMine)
	department.Put("/requests/:id", requests.Edit)
	department.Patch("/requests/:id/cancel", requests.Cancel)
	department.Delete("/requests/:id", requests.Delete)
	department.Get("/events/:event_id/registrations", registrations.ListForEvent)
	department.Patch("/registrations/:id/approve", registrations.Approve)
	department.Patch("/registrations/:id/reject", registrations.Reject)
	department.Get("/events/:event_id/requirements", requirements.ListForEvent)
	department.Post("/events/:event_id/requirements", requirements.Add)
	department.Delete("/requirements/:id", requirements.Delete)
	department.Get("/registrations/:registration_id/requirements", requirements.ListForRegistration)
	department.Patch("/requirements/tracking/:id/submit", requirements.MarkSubmitted)
	department.Patch("/requirements/tracking/:id/verify", requirements.Verify)
	department.Get("/attendance/scannable", attendance.Scannable)
	department.Post("/attendance/verify", attendance.Verify)
	department.Get("/attendance/:event_id/report", attendance.Report)
	department.Get("/feedback/:event_id/summary", feedback.Summary)

	// ===================== OSAS =====================
	log.Println("[INFO] Setting up OSAS routes...")
	osas := api.Group("/o",
		authMiddleware.AuthMiddleware(db),
		authMiddleware.OnlyRoles(constants.RoleErrorOSAS("OSAS area"), constants.RoleOSAS),
	)
	osas.Get("/events", events.ListAll)
	osas.Get("/events/:id", events.GetByID)
	osas.Post("/events", events.Create)
	osas.Patch("/events/:id/cancel", events.Cancel)
	osas.Patch("/events/:id/postpone", events.Postpone)
	osas.Get("/requests", requests.ListForReview)
	osas.Patch("/requests/:id/approve", requests.Approve)
	osas.Patch("/requests/:id/reject", requests.Reject)
	osas.Get("/attendance/scannable", attendance.Scannable)
	osas.Post("/attendance/verify", attendance.Verify)
	osas.Get("/attendance/:event_id/report", attendance.Report)
	osas.Get("/feedback/:event_id/summary", feedback.Summary)
}
