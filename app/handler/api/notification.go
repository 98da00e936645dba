package handler

import (
	"log/slog"
	"strconv"

	"stock-alert-service/app/domain"
	"stock-alert-service/app/handler/api/response"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type NotificationHandler struct {
	usecase   domain.NotificationService
	validator *validator.Validate
}

func NewNotificationHandler(usecase domain.NotificationService, validator *validator.Validate) *NotificationHandler {
	return &NotificationHandler{
		usecase:   usecase,
		validator: validator,
	}
}

func (h *NotificationHandler) GetListNotification(c *fiber.Ctx) error {
	param := domain.GetListNotificationRequest{}
	if err := c.QueryParser(&param); err != nil {
		slog.WarnContext(c.Context(), "[notificationHandler] GetListNotification", "queryParser", err)
	}

	if param.Page <= 0 {
		param.Page = 1
	}
	if param.Limit <= 0 {
		param.Limit = 20
	}
	if param.Limit > 100 {
		param.Limit = 100
	}
	if param.Status != "" && param.Status != "pending" && param.Status != "sent" && param.Status != "failed" {
		slog.ErrorContext(c.Context(), "[notificationHandler] GetListNotification", "status", param.Status)
		return c.Status(fiber.StatusBadRequest).JSON(response.Error(domain.ErrBadRequest))
	}

	notifications, metadata, err := h.usecase.GetListNotification(c.Context(), param)
	if err != nil {
		slog.ErrorContext(c.Context(), "[notificationHandler] GetListNotification", "usecase", err)
		status, resp := response.FromError(err)
		return c.Status(status).JSON(resp)
	}

	return c.Status(fiber.StatusOK).JSON(response.SuccessWithMetadata(notifications, metadata))
}

func (h *NotificationHandler) GetByID(c *fiber.Ctx) error {
	idStr := c.Params("id")
	if idStr == "" {
		slog.ErrorContext(c.Context(), "[notificationHandler] GetByID", "id", "missing")
		return c.Status(fiber.StatusBadRequest).JSON(response.Error(domain.ErrBadRequest))
	}

	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		slog.ErrorContext(c.Context(), "[notificationHandler] GetByID", "parseInt:"+idStr, err)
		return c.Status(fiber.StatusBadRequest).JSON(response.Error(domain.ErrBadRequest))
	}

	notification, err := h.usecase.GetByID(c.Context(), id)
	if err != nil {
		slog.ErrorContext(c.Context(), "[notificationHandler] GetByID", "usecase", err)
		status, resp := response.FromError(err)
		return c.Status(status).JSON(resp)
	}

	return c.Status(fiber.StatusOK).JSON(response.Success(notification))
}

func (h *NotificationHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.usecase.GetSummary(c.Context())
	if err != nil {
		slog.ErrorContext(c.Context(), "[notificationHandler] GetSummary", "usecase", err)
		status, resp := response.FromError(err)
		return c.Status(status).JSON(resp)
	}

	return c.Status(fiber.StatusOK).JSON(response.Success(summary))
}

// PublishTest drops a synthetic event on the alert channel. The consumer
// picks it up like any other, so the response is accepted, not sent.
func (h *NotificationHandler) PublishTest(c *fiber.Ctx) error {
	var req domain.TestEventRequest
	if err := c.BodyParser(&req); err != nil {
		slog.ErrorContext(c.Context(), "[notificationHandler] PublishTest", "bodyParser", err)
		return c.Status(fiber.StatusBadRequest).JSON(response.Error(domain.ErrBadRequest))
	}

	if err := h.validator.Struct(req); err != nil {
		slog.ErrorContext(c.Context(), "[notificationHandler] PublishTest", "validation", err)
		return c.Status(fiber.StatusBadRequest).JSON(response.Error(domain.ErrValidation))
	}

	if err := h.usecase.PublishTestEvent(c.Context(), req); err != nil {
		slog.ErrorContext(c.Context(), "[notificationHandler] PublishTest", "usecase", err)
		status, resp := response.FromError(err)
		return c.Status(status).JSON(resp)
	}

	return c.Status(fiber.StatusAccepted).JSON(response.Success(nil))
}
