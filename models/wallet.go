package models

import "time"

// Adjustment kinds.
const (
	AdjustmentTip       = "tip"
	AdjustmentDeduction = "deduction"
)

// WalletAdjustment is an immutable manual correction layered on top of
// booking-derived earnings: a tip adds to balance, a deduction subtracts.
type WalletAdjustment struct {
	Type       string    `bson:"type" json:"type"`
	Amount     int64     `bson:"amount" json:"amount"`
	Reason     string    `bson:"reason,omitempty" json:"reason,omitempty"`
	AdjustedBy string    `bson:"adjustedBy" json:"adjustedBy"`
	AdjustedAt time.Time `bson:"adjustedAt" json:"adjustedAt"`
}

// Wallet is the per-attendant ledger aggregate. All monetary fields are
// integer cents. The stored aggregate is a cache: it must always be
// reproducible by replaying the commission split over the attendant's
// completed, not-yet-paid bookings plus the adjustments list.
type Wallet struct {
	ID          string `bson:"id" json:"id"`
	AttendantID string `bson:"attendantId" json:"attendantId"`
	// Balance is signed: negative means the attendant owes the company.
	Balance           int64              `bson:"balance" json:"balance"`
	TotalEarnings     int64              `bson:"totalEarnings" json:"totalEarnings"`
	TotalCommission   int64              `bson:"totalCommission" json:"totalCommission"`
	TotalCompanyShare int64              `bson:"totalCompanyShare" json:"totalCompanyShare"`
	CompanyDebt       int64              `bson:"companyDebt" json:"companyDebt"`
	IsPaid            bool               `bson:"isPaid" json:"isPaid"`
	LastPaymentDate   *time.Time         `bson:"lastPaymentDate,omitempty" json:"lastPaymentDate,omitempty"`
	Adjustments       []WalletAdjustment `bson:"adjustments,omitempty" json:"adjustments,omitempty"`
	// Version guards read-modify-write cycles: every update must match the
	// version it read, so concurrent mutations cannot silently overwrite
	// each other.
	Version   int64     `bson:"version" json:"-"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// ValidAdjustmentType reports whether t is a known adjustment kind.
func ValidAdjustmentType(t string) bool {
	return t == AdjustmentTip || t == AdjustmentDeduction
}
