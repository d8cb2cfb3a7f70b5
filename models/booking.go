package models

import "time"

// Booking categories.
const (
	CategoryVehicle = "vehicle"
	CategoryCarpet  = "carpet"
)

// Payment methods. Who collected the money decides how the commission
// split lands on the attendant's wallet.
const (
	PaymentAttendantCash   = "attendant_cash"
	PaymentAdminCash       = "admin_cash"
	PaymentAdminElectronic = "admin_electronic"
)

// Booking statuses.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

// Booking is the unit of work and revenue. Amount is in integer cents.
type Booking struct {
	ID            string     `bson:"id" json:"id"`
	AttendantID   string     `bson:"attendantId" json:"attendantId"`
	Category      string     `bson:"category" json:"category"`
	Amount        int64      `bson:"amount" json:"amount"`
	PaymentMethod string     `bson:"paymentMethod" json:"paymentMethod"`
	Status        string     `bson:"status" json:"status"`
	AttendantPaid bool       `bson:"attendantPaid" json:"attendantPaid"`
	CreatedBy     string     `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	CreatedAt     time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time  `bson:"updatedAt" json:"updatedAt"`
	CompletedAt   *time.Time `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	// Version guards concurrent writers; every update increments it.
	Version int64 `bson:"version" json:"-"`
}

// ValidCategory reports whether c is a known booking category.
func ValidCategory(c string) bool {
	return c == CategoryVehicle || c == CategoryCarpet
}

// ValidPaymentMethod reports whether m is a known payment method.
func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentAttendantCash, PaymentAdminCash, PaymentAdminElectronic:
		return true
	}
	return false
}

// ValidStatus reports whether s is a known booking status.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// AdminCollected reports whether the payment was collected by the company
// rather than handed to the attendant in cash.
func AdminCollected(method string) bool {
	return method == PaymentAdminCash || method == PaymentAdminElectronic
}
