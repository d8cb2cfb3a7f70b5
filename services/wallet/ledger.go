package wallet

import (
	"errors"
	"fmt"
	"time"

	walletRepo "washlane/database/repository/wallet"
	"washlane/models"
	"washlane/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxCASRetries bounds the reload-and-retry loop on version conflicts.
// Conflicts only arise when two requests hit the same attendant's wallet
// at once, so a handful of retries is plenty.
const maxCASRetries = 5

func clampNonNegative(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}

// getOrCreate returns the attendant's wallet, creating it at zero balance
// on first reference. A create race with a concurrent request resolves by
// re-fetching the winner's document.
func (s *DefaultWalletService) getOrCreate(attendantID string) (*models.Wallet, error) {
	w, err := s.Repo.GetByAttendant(attendantID)
	if err != nil {
		return nil, err
	}
	if w != nil {
		return w, nil
	}

	w = &models.Wallet{
		ID:          uuid.New().String(),
		AttendantID: attendantID,
		IsPaid:      true,
	}
	if err := s.Repo.Create(w); err != nil {
		if existing, ferr := s.Repo.GetByAttendant(attendantID); ferr == nil && existing != nil {
			return existing, nil
		}
		return nil, fmt.Errorf("failed to create wallet for attendant %s: %w", attendantID, err)
	}
	return w, nil
}

// mutateWallet runs a read-modify-write cycle under the version guard,
// reloading and retrying on conflict so concurrent mutations for the same
// attendant serialize instead of losing updates.
func (s *DefaultWalletService) mutateWallet(attendantID string, mutate func(w *models.Wallet) error) (*models.Wallet, error) {
	for attempt := 0; attempt < maxCASRetries; attempt++ {
		w, err := s.getOrCreate(attendantID)
		if err != nil {
			return nil, err
		}
		if err := mutate(w); err != nil {
			return nil, err
		}
		err = s.Repo.UpdateVersioned(w)
		if err == nil {
			return w, nil
		}
		if !errors.Is(err, walletRepo.ErrVersionConflict) {
			return nil, err
		}
		utils.GetLogger().Debug("wallet version conflict, retrying",
			zap.String("attendantID", attendantID), zap.Int("attempt", attempt+1))
	}
	return nil, fmt.Errorf("wallet update for attendant %s kept conflicting after %d attempts", attendantID, maxCASRetries)
}

// requireAttendant verifies the id names an existing account with the
// attendant role before any ledger access.
func (s *DefaultWalletService) requireAttendant(attendantID string) (*models.User, error) {
	if attendantID == "" {
		return nil, NewValidationError("attendant id is required")
	}
	u, err := s.UserRepo.GetByID(attendantID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, &NotFoundError{Resource: "attendant", ID: attendantID}
	}
	if u.Role != models.RoleAttendant {
		return nil, NewValidationError("user %s is not an attendant", attendantID)
	}
	return u, nil
}

// ApplyBooking adds the commission split of a completed booking to the
// attendant's wallet.
func (s *DefaultWalletService) ApplyBooking(attendantID string, amount int64, paymentMethod string) (*models.Wallet, error) {
	if amount <= 0 {
		return nil, NewValidationError("amount must be positive")
	}
	if !models.ValidPaymentMethod(paymentMethod) {
		return nil, NewValidationError("unknown payment method %q", paymentMethod)
	}

	split := SplitCommission(amount, paymentMethod)
	return s.mutateWallet(attendantID, func(w *models.Wallet) error {
		applySplit(w, amount, split)
		return nil
	})
}

// ReverseBooking subtracts the same split a prior ApplyBooking added.
// Totals and company debt clamp at zero so out-of-order reversals cannot
// accumulate negative artifacts; the balance itself stays signed.
func (s *DefaultWalletService) ReverseBooking(attendantID string, amount int64, paymentMethod string) (*models.Wallet, error) {
	if amount <= 0 {
		return nil, NewValidationError("amount must be positive")
	}
	if !models.ValidPaymentMethod(paymentMethod) {
		return nil, NewValidationError("unknown payment method %q", paymentMethod)
	}

	split := SplitCommission(amount, paymentMethod).Inverse()
	return s.mutateWallet(attendantID, func(w *models.Wallet) error {
		applySplit(w, -amount, split)
		return nil
	})
}

// applySplit folds one (possibly inverted) commission split into the
// aggregate. earningsDelta carries the booking amount's sign.
func applySplit(w *models.Wallet, earningsDelta int64, split CommissionSplit) {
	w.Balance += split.BalanceDelta
	w.TotalEarnings = clampNonNegative(w.TotalEarnings + earningsDelta)
	w.TotalCommission = clampNonNegative(w.TotalCommission + split.Commission)
	w.TotalCompanyShare = clampNonNegative(w.TotalCompanyShare + split.CompanyShare)
	w.CompanyDebt = clampNonNegative(w.CompanyDebt + split.DebtDelta)
	w.IsPaid = w.Balance == 0
}

// Adjust records a manual tip or deduction and applies it to the balance.
// Adjustments are kept as an append-only list so Rebuild can replay them.
func (s *DefaultWalletService) Adjust(attendantID, kind string, amount int64, reason, adjustedBy string) (*models.Wallet, error) {
	if !models.ValidAdjustmentType(kind) {
		return nil, NewValidationError("unknown adjustment type %q", kind)
	}
	if amount <= 0 {
		return nil, NewValidationError("adjustment amount must be positive")
	}
	if _, err := s.requireAttendant(attendantID); err != nil {
		return nil, err
	}

	delta := amount
	if kind == models.AdjustmentDeduction {
		delta = -amount
	}

	return s.mutateWallet(attendantID, func(w *models.Wallet) error {
		w.Adjustments = append(w.Adjustments, models.WalletAdjustment{
			Type:       kind,
			Amount:     amount,
			Reason:     reason,
			AdjustedBy: adjustedBy,
			AdjustedAt: time.Now(),
		})
		w.Balance += delta
		w.IsPaid = w.Balance == 0
		return nil
	})
}

// GetMyWallet returns the attendant's wallet, creating it at zero on first
// reference. With a non-nil at, the response carries a point-in-time
// balance replayed from booking history; the stored aggregate is untouched.
func (s *DefaultWalletService) GetMyWallet(attendantID string, at *time.Time) (*WalletView, error) {
	if _, err := s.requireAttendant(attendantID); err != nil {
		return nil, err
	}
	w, err := s.getOrCreate(attendantID)
	if err != nil {
		return nil, err
	}

	view := &WalletView{Wallet: *w}
	if at != nil {
		bal, err := s.balanceAt(w, *at)
		if err != nil {
			return nil, err
		}
		view.BalanceAt = &bal
	}
	return view, nil
}

// GetAllWallets returns every wallet, each optionally with a point-in-time
// balance.
func (s *DefaultWalletService) GetAllWallets(at *time.Time) ([]WalletView, error) {
	wallets, err := s.Repo.GetAll()
	if err != nil {
		return nil, err
	}

	views := make([]WalletView, 0, len(wallets))
	for i := range wallets {
		view := WalletView{Wallet: wallets[i]}
		if at != nil {
			bal, err := s.balanceAt(&wallets[i], *at)
			if err != nil {
				return nil, err
			}
			view.BalanceAt = &bal
		}
		views = append(views, view)
	}
	return views, nil
}
