package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"cesms_backend/internals/features/events/events/dto"
	"cesms_backend/internals/features/events/events/service"
	"cesms_backend/internals/features/events/scheduling"
	helper "cesms_backend/internals/helpers"
)

type EventController struct {
	Service *service.EventService
}

func NewEventController(db *gorm.DB) *EventController {
	return &EventController{Service: service.NewEventService(db)}
}

func toResponses(views []service.EventView) []dto.EventResponse {
	out := make([]dto.EventResponse, 0, len(views))
	for i := range views {
		v := &views[i]
		resp := dto.ToEventResponse(&v.Event, v.DisplayStatus, v.RegisteredCount)
		resp.SeatsRemaining = v.SeatsRemaining
		resp.IsFull = v.SeatsRemaining != nil && *v.SeatsRemaining == 0
		resp.AlreadyRegistered = v.AlreadyRegistered
		out = append(out, resp)
	}
	return out
}

// ListAll returns a page of the full calendar (OSAS view).
func (ctrl *EventController) ListAll(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 100)

	views, total, err := ctrl.Service.ListAll(paging.Offset, paging.Limit)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch events")
	}

	pagination := helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage)
	return helper.JsonList(c, "Events fetched", toResponses(views), &pagination)
}

// GetByID returns a single event with its derived status.
func (ctrl *EventController) GetByID(c *fiber.Ctx) error {
	eventID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid event ID")
	}

	view, err := ctrl.Service.Get(eventID)
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Event not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch event")
	}
	return helper.JsonOK(c, "Event fetched", dto.ToEventResponse(&view.Event, view.DisplayStatus, view.RegisteredCount))
}

// Create inserts an OSAS-initiated event.
func (ctrl *EventController) Create(c *fiber.Ctx) error {
	var req dto.CreateEventRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := helper.ValidateStruct(&req); err != nil {
		return helper.ValidationErrorResponse(c, err)
	}

	ev, conflicts, err := ctrl.Service.Create(
		req.EventName, req.EventDescription, req.EventLocation,
		req.EventDate, req.EventStartTime, req.EventEndTime,
		req.ParticipantLimit, req.Requirements,
	)
	if err != nil {
		var conflictErr *scheduling.ConflictError
		if errors.As(err, &conflictErr) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"success":   false,
				"message":   "Schedule conflict detected",
				"conflicts": conflicts,
			})
		}
		var malformed *scheduling.MalformedScheduleError
		if errors.As(err, &malformed) || errors.Is(err, service.ErrInvalidSlot) {
			return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to create event")
	}

	return helper.JsonCreated(c, "Event created", dto.ToEventResponse(ev, scheduling.StatusActive, 0))
}

// Cancel marks an event Cancelled.
func (ctrl *EventController) Cancel(c *fiber.Ctx) error {
	eventID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid event ID")
	}

	if err := ctrl.Service.Cancel(eventID); err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			return helper.JsonError(c, fiber.StatusNotFound, "Event not found")
		case errors.Is(err, service.ErrEventNotActive):
			return helper.JsonError(c, fiber.StatusBadRequest, "Only active events can be cancelled")
		default:
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to cancel event")
		}
	}
	return helper.JsonUpdated(c, "Event cancelled", nil)
}

// Postpone moves an event to a new slot after a conflict re-check.
func (ctrl *EventController) Postpone(c *fiber.Ctx) error {
	eventID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid event ID")
	}

	var req dto.PostponeEventRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := helper.ValidateStruct(&req); err != nil {
		return helper.ValidationErrorResponse(c, err)
	}

	ev, conflicts, err := ctrl.Service.Postpone(eventID, req.EventDate, req.EventStartTime, req.EventEndTime)
	if err != nil {
		var conflictErr *scheduling.ConflictError
		if errors.As(err, &conflictErr) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"success":   false,
				"message":   "Schedule conflict detected",
				"conflicts": conflicts,
			})
		}
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			return helper.JsonError(c, fiber.StatusNotFound, "Event not found")
		case errors.Is(err, service.ErrEventNotActive):
			return helper.JsonError(c, fiber.StatusBadRequest, "Only active events can be postponed")
		}
		var malformed *scheduling.MalformedScheduleError
		if errors.As(err, &malformed) || errors.Is(err, service.ErrInvalidSlot) {
			return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to postpone event")
	}

	return helper.JsonUpdated(c, "Event postponed", dto.ToEventResponse(ev, scheduling.StatusActive, 0))
}

// ListMine returns the events owned by the calling department.
func (ctrl *EventController) ListMine(c *fiber.Ctx) error {
	departmentID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	views, err := ctrl.Service.ListByDepartment(departmentID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch events")
	}
	return helper.JsonOK(c, "Events fetched", toResponses(views))
}

// ListUpcoming returns joinable events for the student browse view, with
// seats remaining and the caller's registration state.
func (ctrl *EventController) ListUpcoming(c *fiber.Ctx) error {
	studentID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	views, err := ctrl.Service.ListUpcomingForStudent(studentID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch events")
	}
	return helper.JsonOK(c, "Events fetched", toResponses(views))
}

// CancelOwned cancels the department's own event.
func (ctrl *EventController) CancelOwned(c *fiber.Ctx) error {
	departmentID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	eventID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid event ID")
	}

	if err := ctrl.Service.CancelOwned(eventID, departmentID); err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			return helper.JsonError(c, fiber.StatusNotFound, "Event not found")
		case errors.Is(err, service.ErrNotEventOwner):
			return helper.JsonError(c, fiber.StatusForbidden, "You can only cancel your own events")
		case errors.Is(err, service.ErrEventNotActive):
			return helper.JsonError(c, fiber.StatusBadRequest, "Only active events can be cancelled")
		default:
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to cancel event")
		}
	}
	return helper.JsonUpdated(c, "Event cancelled", nil)
}

// PostponeOwned moves the department's own event to a new slot.
func (ctrl *EventController) PostponeOwned(c *fiber.Ctx) error {
	departmentID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	eventID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid event ID")
	}

	var req dto.PostponeEventRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := helper.ValidateStruct(&req); err != nil {
		return helper.ValidationErrorResponse(c, err)
	}

	ev, conflicts, err := ctrl.Service.PostponeOwned(eventID, departmentID, req.EventDate, req.EventStartTime, req.EventEndTime)
	if err != nil {
		var conflictErr *scheduling.ConflictError
		if errors.As(err, &conflictErr) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"success":   false,
				"message":   "Schedule conflict detected",
				"conflicts": conflicts,
			})
		}
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			return helper.JsonError(c, fiber.StatusNotFound, "Event not found")
		case errors.Is(err, service.ErrNotEventOwner):
			return helper.JsonError(c, fiber.StatusForbidden, "You can only postpone your own events")
		case errors.Is(err, service.ErrEventNotActive):
			return helper.JsonError(c, fiber.StatusBadRequest, "Only active events can be postponed")
		}
		var malformed *scheduling.MalformedScheduleError
		if errors.As(err, &malformed) || errors.Is(err, service.ErrInvalidSlot) {
			return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to postpone event")
	}

	return helper.JsonUpdated(c, "Event postponed", dto.ToEventResponse(ev, scheduling.StatusActive, 0))
}
