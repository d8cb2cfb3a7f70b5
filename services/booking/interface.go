package booking

import (
	bookingRepo "washlane/database/repository/booking"
	userRepo "washlane/database/repository/user"
	"washlane/models"
)

// CreateBookingRequest carries a validated booking creation. Amount is in
// integer cents.
type CreateBookingRequest struct {
	AttendantID   string
	Category      string
	Amount        int64
	PaymentMethod string
	Status        string
	CreatedBy     string
}

// UpdateBookingRequest carries a partial booking update; nil fields are
// left unchanged.
type UpdateBookingRequest struct {
	AttendantID   *string
	Category      *string
	Amount        *int64
	PaymentMethod *string
	Status        *string
}

// Ledger is the slice of the wallet service the booking lifecycle drives:
// every transition into or out of the completed state issues exactly one
// wallet apply/reverse and one matched system-wallet credit/reverse.
type Ledger interface {
	ApplyBooking(attendantID string, amount int64, paymentMethod string) (*models.Wallet, error)
	ReverseBooking(attendantID string, amount int64, paymentMethod string) (*models.Wallet, error)
	CreditSystem(amount int64, source string) error
	ReverseSystem(amount int64, source string) error
}

// BookingService defines the interface for booking management.
type BookingService interface {
	CreateBooking(req CreateBookingRequest) (*models.Booking, error)
	GetBooking(id string) (*models.Booking, error)
	ListBookings(f bookingRepo.BookingFilter) ([]models.Booking, error)
	UpdateBooking(id string, req UpdateBookingRequest) (*models.Booking, error)
	DeleteBooking(id string) error
}

// DefaultBookingService implements BookingService.
type DefaultBookingService struct {
	Repo     bookingRepo.BookingRepository
	UserRepo userRepo.UserRepository
	Ledger   Ledger
}
