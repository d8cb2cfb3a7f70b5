package wallet

import (
	"context"
	"errors"
	"fmt"
	"time"

	walletRepo "washlane/database/repository/wallet"
	"washlane/models"
	"washlane/utils"

	"go.uber.org/zap"
)

// Settlement scope is "all completed, unpaid bookings regardless of date".
// Day-scoped settlement strands older unpaid work whenever a daily run is
// missed; all-unpaid stays correct across missed days. Product decision,
// applied consistently here and in Rebuild's ground-truth query.

// SettleMany settles a batch of attendants. Each attendant is processed
// independently: one failure lands in the errors list and never rolls back
// the others.
func (s *DefaultWalletService) SettleMany(attendantIDs []string) (*SettlementResult, error) {
	if len(attendantIDs) == 0 {
		return nil, NewValidationError("no attendant ids given")
	}

	result := &SettlementResult{
		Settled: []SettledAttendant{},
		Errors:  []SettlementError{},
	}
	for _, id := range attendantIDs {
		settled, err := s.settleOne(id)
		if err != nil {
			result.Errors = append(result.Errors, SettlementError{
				AttendantID: id,
				Reason:      err.Error(),
			})
			continue
		}
		result.Settled = append(result.Settled, *settled)
	}
	return result, nil
}

// MarkPaid settles a single attendant and returns the zeroed wallet.
func (s *DefaultWalletService) MarkPaid(attendantID string) (*models.Wallet, error) {
	if _, err := s.settleOne(attendantID); err != nil {
		return nil, err
	}
	return s.Repo.GetByAttendant(attendantID)
}

// settleOne validates the attendant, flips their completed unpaid bookings
// to attendant-paid, and zeroes the wallet. The booking flips and the
// wallet write happen inside one transaction. Retries on version conflict
// with concurrent booking activity.
func (s *DefaultWalletService) settleOne(attendantID string) (*SettledAttendant, error) {
	user, err := s.requireAttendant(attendantID)
	if err != nil {
		return nil, err
	}

	for attempt := 0; attempt < maxCASRetries; attempt++ {
		w, err := s.Repo.GetByAttendant(attendantID)
		if err != nil {
			return nil, err
		}
		if w == nil || w.IsPaid {
			return nil, ErrAlreadySettled
		}

		payout := w.Balance
		debtCleared := w.CompanyDebt
		settledAt := time.Now()

		covered, err := s.Repo.SettleAttendant(attendantID, w.Version, settledAt)
		if err != nil {
			if errors.Is(err, walletRepo.ErrVersionConflict) {
				continue
			}
			return nil, err
		}

		if err := s.applySettlementToSystem(payout); err != nil {
			// The attendant is settled; the company aggregate write is the
			// paired half and its failure must not unsettle them.
			utils.GetLogger().Error("system wallet settlement pairing failed",
				zap.String("attendantID", attendantID), zap.Error(err))
		}

		s.sendReceipt(models.SettlementReceipt{
			AttendantID:     attendantID,
			AttendantName:   user.Name,
			AmountPaid:      payout,
			DebtCleared:     debtCleared,
			BookingsCovered: covered,
			SettledAt:       settledAt,
		})

		return &SettledAttendant{
			AttendantID:     attendantID,
			AmountPaid:      payout,
			DebtCleared:     debtCleared,
			BookingsCovered: covered,
			SettledAt:       settledAt,
		}, nil
	}
	return nil, fmt.Errorf("settlement for attendant %s kept conflicting after %d attempts", attendantID, maxCASRetries)
}

// sendReceipt enqueues the settlement receipt. A queue failure is a
// secondary effect: logged and swallowed.
func (s *DefaultWalletService) sendReceipt(receipt models.SettlementReceipt) {
	if s.Receipts == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Receipts.SettlementReceipt(ctx, receipt); err != nil {
		utils.GetLogger().Error("failed to enqueue settlement receipt",
			zap.String("attendantID", receipt.AttendantID), zap.Error(err))
	}
}
