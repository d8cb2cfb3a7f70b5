package booking

import (
	"time"

	bookingRepo "washlane/database/repository/booking"
	"washlane/models"
	"washlane/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateBooking validates and stores a new booking. A booking created
// directly in the completed state hits the ledger immediately.
func (s *DefaultBookingService) CreateBooking(req CreateBookingRequest) (*models.Booking, error) {
	if req.Amount <= 0 {
		return nil, NewValidationError("amount must be positive")
	}
	if !models.ValidCategory(req.Category) {
		return nil, NewValidationError("unknown category %q", req.Category)
	}
	if !models.ValidPaymentMethod(req.PaymentMethod) {
		return nil, NewValidationError("unknown payment method %q", req.PaymentMethod)
	}
	status := req.Status
	if status == "" {
		status = models.StatusPending
	}
	if !models.ValidStatus(status) {
		return nil, NewValidationError("unknown status %q", status)
	}
	if err := s.requireAttendant(req.AttendantID); err != nil {
		return nil, err
	}

	b := &models.Booking{
		ID:            uuid.New().String(),
		AttendantID:   req.AttendantID,
		Category:      req.Category,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		Status:        status,
		CreatedBy:     req.CreatedBy,
	}
	if status == models.StatusCompleted {
		now := time.Now()
		b.CompletedAt = &now
	}

	if err := s.Repo.Create(b); err != nil {
		return nil, err
	}

	if b.Status == models.StatusCompleted {
		s.applyLedger(b)
	}
	return b, nil
}

// GetBooking retrieves a booking by id.
func (s *DefaultBookingService) GetBooking(id string) (*models.Booking, error) {
	b, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, &NotFoundError{Resource: "booking", ID: id}
	}
	return b, nil
}

// ListBookings retrieves bookings matching the filter.
func (s *DefaultBookingService) ListBookings(f bookingRepo.BookingFilter) ([]models.Booking, error) {
	return s.Repo.GetByFilter(f)
}

// DeleteBooking removes a booking. Deleting a completed, unpaid booking
// reverses its ledger effect first. A settled booking deletes without any
// ledger effect: its value was already paid out and the wallet is zeroed.
func (s *DefaultBookingService) DeleteBooking(id string) error {
	b, err := s.Repo.GetByID(id)
	if err != nil {
		return err
	}
	if b == nil {
		return &NotFoundError{Resource: "booking", ID: id}
	}

	if err := s.Repo.Delete(id); err != nil {
		return err
	}
	if b.Status == models.StatusCompleted && !b.AttendantPaid {
		s.reverseLedger(b)
	}
	return nil
}

// requireAttendant verifies the id names an existing attendant account.
func (s *DefaultBookingService) requireAttendant(attendantID string) error {
	if attendantID == "" {
		return NewValidationError("attendant id is required")
	}
	u, err := s.UserRepo.GetByID(attendantID)
	if err != nil {
		return err
	}
	if u == nil {
		return &NotFoundError{Resource: "attendant", ID: attendantID}
	}
	if u.Role != models.RoleAttendant {
		return NewValidationError("user %s is not an attendant", attendantID)
	}
	return nil
}

// logLedgerFailure records a ledger write that failed after the booking
// write already landed. The aggregate is repairable via wallet rebuild.
func logLedgerFailure(op string, b *models.Booking, err error) {
	utils.GetLogger().Error("ledger update failed, wallet needs rebuild",
		zap.String("op", op),
		zap.String("bookingID", b.ID),
		zap.String("attendantID", b.AttendantID),
		zap.Error(err))
}
