package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	eventDto "cesms_backend/internals/features/events/events/dto"
	"cesms_backend/internals/features/events/requests/dto"
	"cesms_backend/internals/features/events/requests/service"
	"cesms_backend/internals/features/events/scheduling"
	helper "cesms_backend/internals/helpers"
)

type RequestController struct {
	Service *service.RequestService
}

func NewRequestController(db *gorm.DB) *RequestController {
	return &RequestController{Service: service.NewRequestService(db)}
}

func conflictResponse(c *fiber.Ctx, conflicts []scheduling.Conflict) error {
	return c.Status(fiber.StatusConflict).JSON(fiber.Map{
		"success":   false,
		"message":   "Schedule conflict detected",
		"conflicts": conflicts,
	})
}

func requestInput(req *dto.SubmitRequestRequest) service.RequestInput {
	return service.RequestInput{
		Name:             req.EventName,
		Description:      req.EventDescription,
		Location:         req.EventLocation,
		Date:             req.EventDate,
		StartTime:        req.EventStartTime,
		EndTime:          req.EventEndTime,
		ParticipantLimit: req.ParticipantLimit,
		Requirements:     req.Requirements,
	}
}

// Submit files a new request for the calling department.
func (ctrl *RequestController) Submit(c *fiber.Ctx) error {
	departmentID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req dto.SubmitRequestRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := helper.ValidateStruct(&req); err != nil {
		return helper.ValidationErrorResponse(c, err)
	}

	created, conflicts, err := ctrl.Service.Submit(departmentID, requestInput(&req))
	if err != nil {
		var conflictErr *scheduling.ConflictError
		if errors.As(err, &conflictErr) {
			return conflictResponse(c, conflicts)
		}
		var malformed *scheduling.MalformedScheduleError
		if errors.As(err, &malformed) || errors.Is(err, service.ErrInvalidSlot) {
			return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to submit request")
	}

	return helper.JsonCreated(c, "Event request submitted", dto.ToRequestResponse(created, nil))
}

// Edit updates the calling department's own pending request.
func (ctrl *RequestController) Edit(c *fiber.Ctx) error {
	departmentID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	requestID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request ID")
	}

	var req dto.SubmitRequestRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := helper.ValidateStruct(&req); err != nil {
		return helper.ValidationErrorResponse(c, err)
	}

	updated, conflicts, err := ctrl.Service.Edit(requestID, departmentID, requestInput(&req))
	if err != nil {
		var conflictErr *scheduling.ConflictError
		if errors.As(err, &conflictErr) {
			return conflictResponse(c, conflicts)
		}
		switch {
		case errors.Is(err, service.ErrRequestNotFound):
			return helper.JsonError(c, fiber.StatusNotFound, "Request not found")
		case errors.Is(err, service.ErrNotOwner):
			return helper.JsonError(c, fiber.StatusForbidden, "You can only edit your own requests")
		case errors.Is(err, service.ErrNotPending):
			return helper.JsonError(c, fiber.StatusBadRequest, "Only pending requests can be edited")
		}
		var malformed *scheduling.MalformedScheduleError
		if errors.As(err, &malformed) || errors.Is(err, service.ErrInvalidSlot) {
			return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update request")
	}

	return helper.JsonUpdated(c, "Event request updated", dto.ToRequestResponse(updated, nil))
}

// Cancel withdraws the calling department's own pending request.
func (ctrl *RequestController) Cancel(c *fiber.Ctx) error {
	departmentID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	requestID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request ID")
	}

	if err := ctrl.Service.Cancel(requestID, departmentID); err != nil {
		var processed *service.AlreadyProcessedError
		switch {
		case errors.Is(err, service.ErrRequestNotFound):
			return helper.JsonError(c, fiber.StatusNotFound, "Request not found")
		case errors.Is(err, service.ErrNotOwner):
			return helper.JsonError(c, fiber.StatusForbidden, "You can only cancel your own requests")
		case errors.As(err, &processed):
			return helper.JsonError(c, fiber.StatusConflict, processed.Error())
		default:
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to cancel request")
		}
	}
	return helper.JsonUpdated(c, "Event request cancelled", nil)
}

// Delete removes the calling department's own pending request.
func (ctrl *RequestController) Delete(c *fiber.Ctx) error {
	departmentID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	requestID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request ID")
	}

	if err := ctrl.Service.Delete(requestID, departmentID); err != nil {
		switch {
		case errors.Is(err, service.ErrRequestNotFound):
			return helper.JsonError(c, fiber.StatusNotFound, "Request not found")
		case errors.Is(err, service.ErrNotOwner):
			return helper.JsonError(c, fiber.StatusForbidden, "You can only delete your own requests")
		case errors.Is(err, service.ErrNotPending):
			return helper.JsonError(c, fiber.StatusBadRequest, "Only pending requests can be deleted")
		default:
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to delete request")
		}
	}
	return helper.JsonDeleted(c, "Event request deleted", nil)
}

// ListMine returns the calling department's requests with per-status counts.
// Supports ?status= filtering.
func (ctrl *RequestController) ListMine(c *fiber.Ctx) error {
	departmentID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	rows, err := ctrl.Service.ListByDepartment(departmentID, c.Query("status"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch requests")
	}
	counts, err := ctrl.Service.CountByStatus(&departmentID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch requests")
	}

	out := make([]dto.RequestResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.ToRequestResponse(&rows[i], nil))
	}
	return helper.JsonOK(c, "Requests fetched", fiber.Map{
		"counts":   counts,
		"requests": out,
	})
}

// ListForReview returns the OSAS decision queue, pending entries annotated
// with their current conflicts. Supports ?status= filtering.
func (ctrl *RequestController) ListForReview(c *fiber.Ctx) error {
	annotated, err := ctrl.Service.ListForReview(c.Query("status"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch requests")
	}
	counts, err := ctrl.Service.CountByStatus(nil)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch requests")
	}

	out := make([]dto.RequestResponse, 0, len(annotated))
	for i := range annotated {
		out = append(out, dto.ToRequestResponse(&annotated[i].Request, annotated[i].Conflicts))
	}
	return helper.JsonOK(c, "Requests fetched", fiber.Map{
		"counts":   counts,
		"requests": out,
	})
}

// Approve decides a pending request and returns the materialized event.
func (ctrl *RequestController) Approve(c *fiber.Ctx) error {
	osasID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	requestID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request ID")
	}

	var req dto.DecisionRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
		}
	}

	ev, conflicts, err := ctrl.Service.Approve(requestID, osasID, req.Remarks)
	if err != nil {
		var conflictErr *scheduling.ConflictError
		var processed *service.AlreadyProcessedError
		switch {
		case errors.As(err, &conflictErr):
			return conflictResponse(c, conflicts)
		case errors.As(err, &processed):
			return helper.JsonError(c, fiber.StatusConflict, processed.Error())
		case errors.Is(err, service.ErrRequestNotFound):
			return helper.JsonError(c, fiber.StatusNotFound, "Request not found")
		}
		var malformed *scheduling.MalformedScheduleError
		if errors.As(err, &malformed) {
			return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to approve request")
	}

	return helper.JsonOK(c, "Request approved and event scheduled", eventDto.ToEventResponse(ev, scheduling.StatusActive, 0))
}

// Reject declines a pending request.
func (ctrl *RequestController) Reject(c *fiber.Ctx) error {
	osasID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	requestID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request ID")
	}

	var req dto.DecisionRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
		}
	}

	if err := ctrl.Service.Reject(requestID, osasID, req.Remarks); err != nil {
		var processed *service.AlreadyProcessedError
		switch {
		case errors.As(err, &processed):
			return helper.JsonError(c, fiber.StatusConflict, processed.Error())
		case errors.Is(err, service.ErrRequestNotFound):
			return helper.JsonError(c, fiber.StatusNotFound, "Request not found")
		default:
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to reject request")
		}
	}
	return helper.JsonUpdated(c, "Request rejected", nil)
}
