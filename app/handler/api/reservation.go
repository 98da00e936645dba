package handler

import (
	"log/slog"

	"stock-alert-service/app/domain"
	"stock-alert-service/app/handler/api/response"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type ReservationHandler struct {
	usecase   domain.ReservationUsecase
	validator *validator.Validate
}

func NewReservationHandler(usecase domain.ReservationUsecase, validator *validator.Validate) *ReservationHandler {
	return &ReservationHandler{
		usecase:   usecase,
		validator: validator,
	}
}

func (h *ReservationHandler) CreateReservation(c *fiber.Ctx) error {
	var req domain.ReservationCreateRequest
	if err := c.BodyParser(&req); err != nil {
		slog.ErrorContext(c.Context(), "[reservationHandler] CreateReservation", "bodyParser", err)
		return c.Status(fiber.StatusBadRequest).JSON(response.Error(domain.ErrBadRequest))
	}

	if err := h.validator.Struct(req); err != nil {
		slog.ErrorContext(c.Context(), "[reservationHandler] CreateReservation", "validator", err)
		return c.Status(fiber.StatusBadRequest).JSON(response.Error(domain.ErrValidation))
	}

	err := h.usecase.CreateReservation(c.Context(), req)
	if err != nil {
		slog.ErrorContext(c.Context(), "[reservationHandler] CreateReservation", "usecase", err)
		status, resp := response.FromError(err)
		return c.Status(status).JSON(resp)
	}

	return c.Status(fiber.StatusCreated).JSON(response.Success(nil))
}

func (h *ReservationHandler) UpdateReservationStatus(c *fiber.Ctx) error {
	orderID := c.Params("order_id")
	if orderID == "" {
		slog.ErrorContext(c.Context(), "[reservationHandler] UpdateReservationStatus", "orderID", "missing")
		return c.Status(fiber.StatusBadRequest).JSON(response.Error(domain.ErrBadRequest))
	}

	var req domain.ReservationUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		slog.ErrorContext(c.Context(), "[reservationHandler] UpdateReservationStatus", "bodyParser", err)
		return c.Status(fiber.StatusBadRequest).JSON(response.Error(domain.ErrBadRequest))
	}

	if err := h.validator.Struct(req); err != nil {
		slog.ErrorContext(c.Context(), "[reservationHandler] UpdateReservationStatus", "validator", err)
		return c.Status(fiber.StatusBadRequest).JSON(response.Error(domain.ErrValidation))
	}

	err := h.usecase.UpdateReservationStatusByOrderID(c.Context(), orderID, req)
	if err != nil {
		slog.ErrorContext(c.Context(), "[reservationHandler] UpdateReservationStatus", "usecase", err)
		status, resp := response.FromError(err)
		return c.Status(status).JSON(resp)
	}

	return c.Status(fiber.StatusOK).JSON(response.Success(nil))
}
