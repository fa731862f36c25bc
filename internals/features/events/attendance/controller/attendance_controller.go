package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"cesms_backend/internals/constants"
	"cesms_backend/internals/features/events/attendance/service"
	eventDto "cesms_backend/internals/features/events/events/dto"
	"cesms_backend/internals/features/events/scheduling"
	helper "cesms_backend/internals/helpers"
)

type AttendanceController struct {
	DB      *gorm.DB
	Service *service.AttendanceService
}

func NewAttendanceController(db *gorm.DB) *AttendanceController {
	return &AttendanceController{DB: db, Service: service.NewAttendanceService(db)}
}

// VerifyRequest carries one scanned QR payload.
type VerifyRequest struct {
	EventID string `json:"event_id" validate:"required,uuid4"`
	Code    string `json:"code" validate:"required"`
}

// callerScope narrows queries to the department's own events; OSAS sees all.
func callerScope(c *fiber.Ctx) (*uuid.UUID, error) {
	role, err := helper.GetUserRoleFromToken(c)
	if err != nil {
		return nil, err
	}
	if role == constants.RoleOSAS {
		return nil, nil
	}
	id, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// Scannable lists the events currently accepting check-ins.
func (ctrl *AttendanceController) Scannable(c *fiber.Ctx) error {
	scope, err := callerScope(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	rows, err := ctrl.Service.ScannableEvents(scope)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch events")
	}

	out := make([]eventDto.EventResponse, 0, len(rows))
	for i := range rows {
		out = append(out, eventDto.ToEventResponse(&rows[i], scheduling.StatusOngoing, 0))
	}
	return helper.JsonOK(c, "Ongoing events fetched", out)
}

// Verify checks a scanned code and records the check-in.
func (ctrl *AttendanceController) Verify(c *fiber.Ctx) error {
	scope, err := callerScope(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req VerifyRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := helper.ValidateStruct(&req); err != nil {
		return helper.ValidationErrorResponse(c, err)
	}
	eventID, err := uuid.Parse(req.EventID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid event ID")
	}

	result, err := ctrl.Service.VerifyCode(eventID, req.Code, scope)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			return helper.JsonError(c, fiber.StatusNotFound, "Event not found")
		case errors.Is(err, service.ErrNotEventOwner):
			return helper.JsonError(c, fiber.StatusForbidden, "You can only record attendance for your own events")
		case errors.Is(err, service.ErrEventNotOngoing):
			return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrCodeNotFound):
			return helper.JsonError(c, fiber.StatusNotFound, err.Error())
		}
		var malformed *scheduling.MalformedScheduleError
		if errors.As(err, &malformed) {
			return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to verify code")
	}

	studentNumber := ""
	if result.Student.UserStudentNumber != nil {
		studentNumber = *result.Student.UserStudentNumber
	}
	payload := fiber.Map{
		"registration_id":  result.Registration.RegistrationID.String(),
		"student_name":     result.Student.UserName,
		"student_number":   studentNumber,
		"already_attended": result.AlreadyAttended,
		"attended_at":      helper.FormatAttendanceTime(result.Registration.RegistrationAttendedAt),
	}

	if result.AlreadyAttended {
		return helper.JsonOK(c, "Ticket was already scanned", payload)
	}
	return helper.JsonOK(c, "Attendance recorded", payload)
}

// Report returns the attendance summary for one event.
func (ctrl *AttendanceController) Report(c *fiber.Ctx) error {
	scope, err := callerScope(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	eventID, err := uuid.Parse(c.Params("event_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid event ID")
	}

	report, err := ctrl.Service.Report(eventID, scope)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			return helper.JsonError(c, fiber.StatusNotFound, "Event not found")
		case errors.Is(err, service.ErrNotEventOwner):
			return helper.JsonError(c, fiber.StatusForbidden, "You can only view reports for your own events")
		default:
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to build report")
		}
	}

	rate := 0.0
	if report.Approved > 0 {
		rate = float64(report.Attended) / float64(report.Approved) * 100
	}

	attendees := make([]fiber.Map, 0, len(report.Rows))
	for _, r := range report.Rows {
		attendees = append(attendees, fiber.Map{
			"registration_id": r.RegistrationID.String(),
			"student_id":      r.RegistrationStudentID.String(),
			"attended":        r.RegistrationAttended,
			"attended_at":     helper.FormatAttendanceTime(r.RegistrationAttendedAt),
		})
	}

	return helper.JsonOK(c, "Attendance report", fiber.Map{
		"event_id":        report.Event.EventID.String(),
		"event_name":      report.Event.EventName,
		"event_date":      report.Event.EventDate,
		"event_date_text": helper.FormatDateReadable(report.Event.EventDate),
		"approved_count":  report.Approved,
		"attended_count":  report.Attended,
		"attendance_rate": rate,
		"attendees":       attendees,
	})
}
