package wallet

import (
	"errors"
	"fmt"
	"time"

	walletRepo "washlane/database/repository/wallet"
	"washlane/models"
	"washlane/utils"

	"go.uber.org/zap"
)

// Rebuild recomputes the wallet aggregate from scratch: it replays the
// commission split over every completed, not-yet-paid booking for the
// attendant, layers the recorded adjustments on top, and overwrites the
// cached aggregate. The repair path for drift; idempotent, and the only
// place drift is corrected; hot reads never recompute.
func (s *DefaultWalletService) Rebuild(attendantID string) (*models.Wallet, error) {
	if _, err := s.requireAttendant(attendantID); err != nil {
		return nil, err
	}

	for attempt := 0; attempt < maxCASRetries; attempt++ {
		w, err := s.getOrCreate(attendantID)
		if err != nil {
			return nil, err
		}

		bookings, err := s.BookingRepo.CompletedUnpaid(attendantID, nil)
		if err != nil {
			return nil, err
		}

		var balance, earnings, commission, companyShare, debt int64
		for _, b := range bookings {
			split := SplitCommission(b.Amount, b.PaymentMethod)
			balance += split.BalanceDelta
			earnings += b.Amount
			commission += split.Commission
			companyShare += split.CompanyShare
			debt += split.DebtDelta
		}
		for _, adj := range w.Adjustments {
			if adj.Type == models.AdjustmentTip {
				balance += adj.Amount
			} else {
				balance -= adj.Amount
			}
		}

		if balance != w.Balance {
			utils.GetLogger().Warn("wallet rebuild corrected drift",
				zap.String("attendantID", attendantID),
				zap.Int64("storedBalance", w.Balance),
				zap.Int64("recomputedBalance", balance))
		}

		w.Balance = balance
		w.TotalEarnings = earnings
		w.TotalCommission = commission
		w.TotalCompanyShare = companyShare
		w.CompanyDebt = clampNonNegative(debt)
		w.IsPaid = balance == 0

		err = s.Repo.UpdateVersioned(w)
		if err == nil {
			return w, nil
		}
		if !errors.Is(err, walletRepo.ErrVersionConflict) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("wallet rebuild for attendant %s kept conflicting after %d attempts", attendantID, maxCASRetries)
}

// balanceAt replays completed, unpaid bookings and adjustments up to the
// given instant. Read-only; never touches the stored aggregate.
func (s *DefaultWalletService) balanceAt(w *models.Wallet, at time.Time) (int64, error) {
	bookings, err := s.BookingRepo.CompletedUnpaid(w.AttendantID, &at)
	if err != nil {
		return 0, err
	}

	var balance int64
	for _, b := range bookings {
		balance += SplitCommission(b.Amount, b.PaymentMethod).BalanceDelta
	}
	for _, adj := range w.Adjustments {
		if adj.AdjustedAt.After(at) {
			continue
		}
		if adj.Type == models.AdjustmentTip {
			balance += adj.Amount
		} else {
			balance -= adj.Amount
		}
	}
	return balance, nil
}
