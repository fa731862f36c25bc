package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
	"gorm.io/gorm"

	eventModel "cesms_backend/internals/features/events/events/model"
	"cesms_backend/internals/features/events/registrations/dto"
	"cesms_backend/internals/features/events/registrations/service"
	"cesms_backend/internals/features/events/scheduling"
	userModel "cesms_backend/internals/features/users/user/model"
	helper "cesms_backend/internals/helpers"
)

type RegistrationController struct {
	DB      *gorm.DB
	Service *service.RegistrationService
}

func NewRegistrationController(db *gorm.DB) *RegistrationController {
	return &RegistrationController{DB: db, Service: service.NewRegistrationService(db)}
}

// Register signs the calling student up for an event.
func (ctrl *RegistrationController) Register(c *fiber.Ctx) error {
	studentID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req dto.RegisterRequest
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

	reg, err := ctrl.Service.Register(eventID, studentID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			return helper.JsonError(c, fiber.StatusNotFound, "Event not found")
		case errors.Is(err, service.ErrEventNotJoinable):
			return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrEventFull):
			return helper.JsonError(c, fiber.StatusConflict, err.Error())
		case errors.Is(err, service.ErrAlreadyRegistered):
			return helper.JsonError(c, fiber.StatusConflict, err.Error())
		}
		var malformed *scheduling.MalformedScheduleError
		if errors.As(err, &malformed) {
			return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to register")
	}

	message := "Registration submitted and awaiting approval"
	if reg.RegistrationStatus == "Approved" {
		message = "Registration confirmed"
	}
	return helper.JsonCreated(c, message, dto.ToRegistrationResponse(reg))
}

// CancelPending withdraws the calling student's pending registration.
func (ctrl *RegistrationController) CancelPending(c *fiber.Ctx) error {
	studentID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	registrationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid registration ID")
	}

	if err := ctrl.Service.CancelPending(registrationID, studentID); err != nil {
		switch {
		case errors.Is(err, service.ErrRegistrationNotFound):
			return helper.JsonError(c, fiber.StatusNotFound, "Registration not found")
		case errors.Is(err, service.ErrRegistrationNotPending):
			return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
		default:
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to cancel registration")
		}
	}
	return helper.JsonDeleted(c, "Registration cancelled", nil)
}

// ListMine returns the calling student's registrations with event details.
func (ctrl *RegistrationController) ListMine(c *fiber.Ctx) error {
	studentID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	rows, err := ctrl.Service.ListByStudent(studentID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch registrations")
	}

	out := make([]dto.RegistrationResponse, 0, len(rows))
	for i := range rows {
		resp := dto.ToRegistrationResponse(&rows[i])

		var ev eventModel.EventModel
		if err := ctrl.DB.Where("event_id = ?", rows[i].RegistrationEventID).First(&ev).Error; err == nil {
			resp.EventName = ev.EventName
			resp.EventDate = ev.EventDate
			resp.EventDateText = helper.FormatDateReadable(ev.EventDate)
			resp.EventTimeText = helper.Format12Hour(ev.EventStartTime) + " - " + helper.Format12Hour(ev.EventEndTime)
		}
		out = append(out, resp)
	}
	return helper.JsonOK(c, "Registrations fetched", out)
}

// QRCode streams the PNG ticket for the student's approved registration.
func (ctrl *RegistrationController) QRCode(c *fiber.Ctx) error {
	studentID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	registrationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid registration ID")
	}

	code, err := ctrl.Service.GetApprovedCode(registrationID, studentID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRegistrationNotFound):
			return helper.JsonError(c, fiber.StatusNotFound, "Registration not found")
		case errors.Is(err, service.ErrRegistrationNotApproved):
			return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
		default:
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load registration")
		}
	}

	png, err := qrcode.Encode(code, qrcode.Medium, 256)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to generate QR code")
	}

	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(png)
}

// ListForEvent returns the registrations of the department's own event with
// registrant details.
func (ctrl *RegistrationController) ListForEvent(c *fiber.Ctx) error {
	departmentID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	eventID, err := uuid.Parse(c.Params("event_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid event ID")
	}

	rows, err := ctrl.Service.ListForEvent(eventID, departmentID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			return helper.JsonError(c, fiber.StatusNotFound, "Event not found")
		case errors.Is(err, service.ErrNotEventOwner):
			return helper.JsonError(c, fiber.StatusForbidden, "You can only view registrations for your own events")
		default:
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch registrations")
		}
	}

	out := make([]dto.RegistrationResponse, 0, len(rows))
	for i := range rows {
		resp := dto.ToRegistrationResponse(&rows[i])

		var student userModel.UserModel
		if err := ctrl.DB.Where("user_id = ?", rows[i].RegistrationStudentID).First(&student).Error; err == nil {
			resp.StudentName = student.UserName
			if student.UserStudentNumber != nil {
				resp.StudentNumber = *student.UserStudentNumber
			}
		}
		out = append(out, resp)
	}
	return helper.JsonOK(c, "Registrations fetched", out)
}

// Approve promotes a pending registration on the department's own event.
func (ctrl *RegistrationController) Approve(c *fiber.Ctx) error {
	departmentID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	registrationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid registration ID")
	}

	reg, err := ctrl.Service.Approve(registrationID, departmentID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRegistrationNotFound):
			return helper.JsonError(c, fiber.StatusNotFound, "Registration not found")
		case errors.Is(err, service.ErrRegistrationNotPending):
			return helper.JsonError(c, fiber.StatusBadRequest, "Registration has already been decided")
		case errors.Is(err, service.ErrNotEventOwner):
			return helper.JsonError(c, fiber.StatusForbidden, "You can only manage registrations for your own events")
		case errors.Is(err, service.ErrRequirementsUnverified):
			return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrEventFull):
			return helper.JsonError(c, fiber.StatusConflict, err.Error())
		default:
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to approve registration")
		}
	}
	return helper.JsonUpdated(c, "Registration approved", dto.ToRegistrationResponse(reg))
}

// Reject declines a pending registration on the department's own event.
func (ctrl *RegistrationController) Reject(c *fiber.Ctx) error {
	departmentID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	registrationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid registration ID")
	}

	if err := ctrl.Service.Reject(registrationID, departmentID); err != nil {
		switch {
		case errors.Is(err, service.ErrRegistrationNotFound):
			return helper.JsonError(c, fiber.StatusNotFound, "Registration not found")
		case errors.Is(err, service.ErrRegistrationNotPending):
			return helper.JsonError(c, fiber.StatusBadRequest, "Registration has already been decided")
		case errors.Is(err, service.ErrNotEventOwner):
			return helper.JsonError(c, fiber.StatusForbidden, "You can only manage registrations for your own events")
		default:
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to reject registration")
		}
	}
	return helper.JsonUpdated(c, "Registration rejected", nil)
}
