package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"cesms_backend/internals/features/events/feedback/service"
	"cesms_backend/internals/features/events/scheduling"
	helper "cesms_backend/internals/helpers"
)

type FeedbackController struct {
	Service *service.FeedbackService
}

func NewFeedbackController(db *gorm.DB) *FeedbackController {
	return &FeedbackController{Service: service.NewFeedbackService(db)}
}

// SubmitFeedbackRequest is one attendee's rating for a finished event.
type SubmitFeedbackRequest struct {
	EventID string `json:"event_id" validate:"required,uuid4"`
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

// Submit records the calling student's feedback.
func (ctrl *FeedbackController) Submit(c *fiber.Ctx) error {
	studentID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req SubmitFeedbackRequest
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

	fb, created, err := ctrl.Service.Submit(eventID, studentID, req.Rating, req.Comment)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			return helper.JsonError(c, fiber.StatusNotFound, "Event not found")
		case errors.Is(err, service.ErrEventNotFinished):
			return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrDidNotAttend):
			return helper.JsonError(c, fiber.StatusForbidden, err.Error())
		}
		var malformed *scheduling.MalformedScheduleError
		if errors.As(err, &malformed) {
			return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to submit feedback")
	}

	if created {
		return helper.JsonCreated(c, "Feedback submitted", fb)
	}
	return helper.JsonUpdated(c, "Feedback updated", fb)
}

// ListMine returns the calling student's feedback history.
func (ctrl *FeedbackController) ListMine(c *fiber.Ctx) error {
	studentID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	entries, err := ctrl.Service.ListByStudent(studentID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch feedback")
	}

	out := make([]fiber.Map, 0, len(entries))
	for _, e := range entries {
		out = append(out, fiber.Map{
			"event_feedback_id": e.Feedback.EventFeedbackID,
			"event_id":          e.Feedback.EventFeedbackEventID,
			"event_name":        e.EventName,
			"event_date":        helper.FormatDateReadable(e.EventDate),
			"rating":            e.Feedback.EventFeedbackRating,
			"comment":           e.Feedback.EventFeedbackComment,
			"submitted_at":      helper.FormatDateTimeManila(e.Feedback.EventFeedbackCreatedAt),
		})
	}
	return helper.JsonOK(c, "Feedback fetched", out)
}

// Summary returns the aggregated ratings for one event.
func (ctrl *FeedbackController) Summary(c *fiber.Ctx) error {
	eventID, err := uuid.Parse(c.Params("event_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid event ID")
	}

	summary, err := ctrl.Service.Summarize(eventID)
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Event not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch feedback")
	}

	return helper.JsonOK(c, "Feedback summary", fiber.Map{
		"count":        summary.Count,
		"average":      summary.Average,
		"distribution": summary.Distribution,
		"feedback":     summary.Rows,
	})
}
