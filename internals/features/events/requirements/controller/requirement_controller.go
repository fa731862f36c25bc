package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"cesms_backend/internals/features/events/requirements/service"
	helper "cesms_backend/internals/helpers"
)

type RequirementController struct {
	Service *service.RequirementService
}

func NewRequirementController(db *gorm.DB) *RequirementController {
	return &RequirementController{Service: service.NewRequirementService(db)}
}

// AddRequirementRequest attaches one requirement to an event.
type AddRequirementRequest struct {
	Name string `json:"name" validate:"required,min=1,max=150"`
}

func mapServiceError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, service.ErrEventNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, "Event not found")
	case errors.Is(err, service.ErrNotEventOwner):
		return helper.JsonError(c, fiber.StatusForbidden, "You can only manage requirements for your own events")
	case errors.Is(err, service.ErrRequirementNotFound),
		errors.Is(err, service.ErrTrackingRowNotFound),
		errors.Is(err, service.ErrRegistrationNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrRequirementNotPending),
		errors.Is(err, service.ErrRequirementNotReadable):
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	default:
		return helper.JsonError(c, fiber.StatusInternalServerError, fallback)
	}
}

// ListForEvent returns an event's requirement checklist.
func (ctrl *RequirementController) ListForEvent(c *fiber.Ctx) error {
	eventID, err := uuid.Parse(c.Params("event_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid event ID")
	}

	rows, err := ctrl.Service.ListForEvent(eventID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch requirements")
	}
	return helper.JsonOK(c, "Requirements fetched", rows)
}

// Add attaches a requirement to the department's own event.
func (ctrl *RequirementController) Add(c *fiber.Ctx) error {
	departmentID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	eventID, err := uuid.Parse(c.Params("event_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid event ID")
	}

	var req AddRequirementRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := helper.ValidateStruct(&req); err != nil {
		return helper.ValidationErrorResponse(c, err)
	}

	created, err := ctrl.Service.Add(eventID, departmentID, req.Name)
	if err != nil {
		return mapServiceError(c, err, "Failed to add requirement")
	}
	return helper.JsonCreated(c, "Requirement added", created)
}

// Delete removes a requirement from the department's own event.
func (ctrl *RequirementController) Delete(c *fiber.Ctx) error {
	departmentID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	requirementID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid requirement ID")
	}

	if err := ctrl.Service.Delete(requirementID, departmentID); err != nil {
		return mapServiceError(c, err, "Failed to delete requirement")
	}
	return helper.JsonDeleted(c, "Requirement deleted", nil)
}

// ListForRegistration returns one registrant's checklist with statuses.
func (ctrl *RequirementController) ListForRegistration(c *fiber.Ctx) error {
	registrationID, err := uuid.Parse(c.Params("registration_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid registration ID")
	}

	tracked, err := ctrl.Service.ListForRegistration(registrationID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch requirements")
	}

	out := make([]fiber.Map, 0, len(tracked))
	for _, t := range tracked {
		out = append(out, fiber.Map{
			"tracking_id":      t.Tracking.RegistrationRequirementID.String(),
			"requirement_id":   t.Requirement.EventRequirementID.String(),
			"requirement_name": t.Requirement.EventRequirementName,
			"status":           t.Tracking.RegistrationRequirementStatus,
			"verified_at":      t.Tracking.RegistrationRequirementVerifiedAt,
		})
	}

	allVerified, err := ctrl.Service.AllVerified(registrationID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch requirements")
	}

	return helper.JsonOK(c, "Requirements fetched", fiber.Map{
		"all_verified": allVerified,
		"requirements": out,
	})
}

// ListMine returns the calling student's own checklist for one registration.
func (ctrl *RequirementController) ListMine(c *fiber.Ctx) error {
	studentID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	registrationID, err := uuid.Parse(c.Params("registration_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid registration ID")
	}

	tracked, err := ctrl.Service.ListForOwnRegistration(registrationID, studentID)
	if err != nil {
		return mapServiceError(c, err, "Failed to fetch requirements")
	}

	out := make([]fiber.Map, 0, len(tracked))
	for _, t := range tracked {
		out = append(out, fiber.Map{
			"tracking_id":      t.Tracking.RegistrationRequirementID.String(),
			"requirement_name": t.Requirement.EventRequirementName,
			"status":           t.Tracking.RegistrationRequirementStatus,
		})
	}
	return helper.JsonOK(c, "Requirements fetched", out)
}

// SubmitMine lets the calling student mark their own requirement as handed in.
func (ctrl *RequirementController) SubmitMine(c *fiber.Ctx) error {
	studentID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	trackingID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid tracking ID")
	}

	if err := ctrl.Service.MarkSubmittedByStudent(trackingID, studentID); err != nil {
		return mapServiceError(c, err, "Failed to update requirement")
	}
	return helper.JsonUpdated(c, "Requirement marked as submitted", nil)
}

// MarkSubmitted records that a registrant handed in one requirement.
func (ctrl *RequirementController) MarkSubmitted(c *fiber.Ctx) error {
	departmentID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	trackingID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid tracking ID")
	}

	if err := ctrl.Service.MarkSubmitted(trackingID, departmentID); err != nil {
		return mapServiceError(c, err, "Failed to update requirement")
	}
	return helper.JsonUpdated(c, "Requirement marked as submitted", nil)
}

// Verify confirms a submitted requirement.
func (ctrl *RequirementController) Verify(c *fiber.Ctx) error {
	departmentID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	trackingID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid tracking ID")
	}

	if err := ctrl.Service.Verify(trackingID, departmentID); err != nil {
		return mapServiceError(c, err, "Failed to verify requirement")
	}
	return helper.JsonUpdated(c, "Requirement verified", nil)
}
