package bookingRepo

import (
	"errors"
	"time"

	"washlane/models"
)

// ErrVersionConflict is returned when an update loses the race against a
// concurrent writer. Callers reload the booking and retry.
var ErrVersionConflict = errors.New("booking version conflict")

// BookingFilter narrows booking queries. Zero values are ignored.
type BookingFilter struct {
	AttendantID   string
	Status        string
	AttendantPaid *bool
	From          *time.Time
	To            *time.Time
}

// BookingRepository defines methods for booking data access.
type BookingRepository interface {
	// Create inserts a new booking record.
	Create(b *models.Booking) error
	// GetByID retrieves a booking by its unique ID. Returns nil if not found.
	GetByID(id string) (*models.Booking, error)
	// GetByFilter retrieves bookings matching the filter, newest first.
	GetByFilter(f BookingFilter) ([]models.Booking, error)
	// Update replaces the mutable fields of an existing booking record,
	// guarded by the booking's version. Returns ErrVersionConflict when a
	// concurrent writer got there first.
	Update(b *models.Booking) error
	// Delete removes a booking record by its ID.
	Delete(id string) error
	// CompletedUnpaid retrieves the attendant's completed bookings that have
	// not been covered by a settlement, optionally only those completed at
	// or before the given instant. This is the ledger's ground truth.
	CompletedUnpaid(attendantID string, until *time.Time) ([]models.Booking, error)
}
