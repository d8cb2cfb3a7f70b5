package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	bookingRepo "washlane/database/repository/booking"
	"washlane/services/booking"
	"washlane/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler binds booking endpoints to the booking service.
type BookingHandler struct {
	Service booking.BookingService
}

func NewBookingHandler(svc booking.BookingService) *BookingHandler {
	return &BookingHandler{Service: svc}
}

func bookingError(c *gin.Context, action string, err error) {
	var ve *booking.ValidationError
	var nf *booking.NotFoundError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Message})
	case errors.As(err, &nf):
		c.JSON(http.StatusNotFound, gin.H{"error": nf.Error()})
	default:
		utils.GetLogger().Error("Booking operation failed", zap.String("action", action), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "booking operation failed"})
	}
}

// CreateBookingHandler handles POST /api/bookings.
func (h *BookingHandler) CreateBookingHandler(c *gin.Context) {
	var req struct {
		AttendantID   string `json:"attendantId" binding:"required"`
		Category      string `json:"category" binding:"required"`
		Amount        string `json:"amount" binding:"required"`
		PaymentMethod string `json:"paymentMethod" binding:"required"`
		Status        string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	amount, err := utils.ParseAmount(req.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	b, err := h.Service.CreateBooking(booking.CreateBookingRequest{
		AttendantID:   req.AttendantID,
		Category:      req.Category,
		Amount:        amount,
		PaymentMethod: req.PaymentMethod,
		Status:        req.Status,
		CreatedBy:     c.GetString("userID"),
	})
	if err != nil {
		bookingError(c, "create", err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

// GetBookingHandler handles GET /api/bookings/:id.
func (h *BookingHandler) GetBookingHandler(c *gin.Context) {
	b, err := h.Service.GetBooking(c.Param("id"))
	if err != nil {
		bookingError(c, "get", err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// listFilter builds a booking filter from query params: attendantId, status,
// unpaid (bool), from and to (YYYY-MM-DD).
func listFilter(c *gin.Context) (bookingRepo.BookingFilter, error) {
	f := bookingRepo.BookingFilter{
		AttendantID: c.Query("attendantId"),
		Status:      c.Query("status"),
	}
	if raw := c.Query("unpaid"); raw != "" {
		unpaid, err := strconv.ParseBool(raw)
		if err != nil {
			return f, err
		}
		paid := !unpaid
		f.AttendantPaid = &paid
	}
	if raw := c.Query("from"); raw != "" {
		from, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return f, err
		}
		f.From = &from
	}
	if raw := c.Query("to"); raw != "" {
		to, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return f, err
		}
		end := to.Add(24*time.Hour - time.Nanosecond)
		f.To = &end
	}
	return f, nil
}

// ListBookingsHandler handles GET /api/bookings for admins.
func (h *BookingHandler) ListBookingsHandler(c *gin.Context) {
	f, err := listFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid filter", "details": err.Error()})
		return
	}

	bookings, err := h.Service.ListBookings(f)
	if err != nil {
		bookingError(c, "list", err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// ListMyBookingsHandler handles GET /api/bookings/mine for attendants. The
// attendant id always comes from the token, never from the query.
func (h *BookingHandler) ListMyBookingsHandler(c *gin.Context) {
	f, err := listFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid filter", "details": err.Error()})
		return
	}
	f.AttendantID = c.GetString("userID")

	bookings, err := h.Service.ListBookings(f)
	if err != nil {
		bookingError(c, "listMine", err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// UpdateBookingHandler handles PATCH /api/bookings/:id.
func (h *BookingHandler) UpdateBookingHandler(c *gin.Context) {
	var req struct {
		AttendantID   *string `json:"attendantId"`
		Category      *string `json:"category"`
		Amount        *string `json:"amount"`
		PaymentMethod *string `json:"paymentMethod"`
		Status        *string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	upd := booking.UpdateBookingRequest{
		AttendantID:   req.AttendantID,
		Category:      req.Category,
		PaymentMethod: req.PaymentMethod,
		Status:        req.Status,
	}
	if req.Amount != nil {
		amount, err := utils.ParseAmount(*req.Amount)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		upd.Amount = &amount
	}

	b, err := h.Service.UpdateBooking(c.Param("id"), upd)
	if err != nil {
		bookingError(c, "update", err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// DeleteBookingHandler handles DELETE /api/bookings/:id.
func (h *BookingHandler) DeleteBookingHandler(c *gin.Context) {
	if err := h.Service.DeleteBooking(c.Param("id")); err != nil {
		bookingError(c, "delete", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "booking deleted"})
}
