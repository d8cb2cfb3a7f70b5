package wallet

import "washlane/models"

// commissionPercent is the attendant's share of a completed booking.
// The company keeps the remainder.
const commissionPercent = 40

// CommissionSplit is the outcome of applying the commission policy to one
// completed booking. All values are integer cents. BalanceDelta is signed;
// DebtDelta is zero unless the attendant personally collected cash.
type CommissionSplit struct {
	Commission   int64
	CompanyShare int64
	BalanceDelta int64
	DebtDelta    int64
}

// SplitCommission applies the 40/60 commission policy to a completed
// booking amount. When the company collected the payment, the attendant is
// owed their commission. When the attendant collected cash, they keep their
// commission out of the till and owe the company its share, so the balance
// goes down and company debt goes up by the same amount.
//
// Commission is truncated toward zero; the company share takes the
// remainder, so the two always sum exactly to the amount.
func SplitCommission(amount int64, paymentMethod string) CommissionSplit {
	commission := amount * commissionPercent / 100
	share := amount - commission

	split := CommissionSplit{
		Commission:   commission,
		CompanyShare: share,
	}
	if models.AdminCollected(paymentMethod) {
		split.BalanceDelta = commission
	} else {
		split.BalanceDelta = -share
		split.DebtDelta = share
	}
	return split
}

// Inverse returns the additive inverse of the split, used when a booking is
// un-completed, edited, or deleted.
func (s CommissionSplit) Inverse() CommissionSplit {
	return CommissionSplit{
		Commission:   -s.Commission,
		CompanyShare: -s.CompanyShare,
		BalanceDelta: -s.BalanceDelta,
		DebtDelta:    -s.DebtDelta,
	}
}
