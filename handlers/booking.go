package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"avtorent/models"
	"avtorent/services/rental"
	"avtorent/utils"
)

// BookingHandler serves the reservation endpoint.
type BookingHandler struct {
	RentalSvc rental.RentalService
	Logger    *zap.Logger
}

// CreateBooking handles POST /api/bookings.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req models.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	booking, err := h.RentalSvc.CreateBooking(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, rental.ErrInvalidRequest):
			utils.JSONError(c, http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, rental.ErrCarNotFound):
			utils.JSONError(c, http.StatusNotFound, "car not found")
		case errors.Is(err, rental.ErrCarUnavailable):
			utils.JSONError(c, http.StatusConflict, "car is not available for rental")
		default:
			h.Logger.Error("CreateBooking: failed", zap.Error(err))
			utils.JSONError(c, http.StatusInternalServerError, "failed to create booking")
		}
		return
	}
	c.JSON(http.StatusCreated, booking)
}
