package models

import "time"

// SettlementReceipt is the payload queued for the receipt worker after a
// successful settlement.
type SettlementReceipt struct {
	AttendantID     string    `json:"attendantId"`
	AttendantName   string    `json:"attendantName"`
	AmountPaid      int64     `json:"amountPaid"`
	DebtCleared     int64     `json:"debtCleared"`
	BookingsCovered int64     `json:"bookingsCovered"`
	SettledAt       time.Time `json:"settledAt"`
}
