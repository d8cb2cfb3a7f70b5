package wallet

import (
	"errors"
	"fmt"

	walletRepo "washlane/database/repository/wallet"
	"washlane/models"
)

// GetSystemWallet returns the company-wide aggregate, creating it on first
// access.
func (s *DefaultWalletService) GetSystemWallet() (*models.SystemWallet, error) {
	sw, err := s.Repo.GetSystem()
	if err != nil {
		return nil, err
	}
	if sw != nil {
		return sw, nil
	}

	sw = &models.SystemWallet{ID: models.SystemWalletID}
	if err := s.Repo.CreateSystem(sw); err != nil {
		if existing, ferr := s.Repo.GetSystem(); ferr == nil && existing != nil {
			return existing, nil
		}
		return nil, err
	}
	return sw, nil
}

// mutateSystem runs a read-modify-write cycle on the singleton aggregate
// under the same version guard as attendant wallets.
func (s *DefaultWalletService) mutateSystem(mutate func(sw *models.SystemWallet)) error {
	for attempt := 0; attempt < maxCASRetries; attempt++ {
		sw, err := s.GetSystemWallet()
		if err != nil {
			return err
		}
		mutate(sw)
		err = s.Repo.UpdateSystemVersioned(sw)
		if err == nil {
			return nil
		}
		if !errors.Is(err, walletRepo.ErrVersionConflict) {
			return err
		}
	}
	return fmt.Errorf("system wallet update kept conflicting after %d attempts", maxCASRetries)
}

// CreditSystem records company revenue from a completed booking. Exactly
// one credit is issued per wallet-affecting booking event; the source says
// who physically collected the money.
func (s *DefaultWalletService) CreditSystem(amount int64, source string) error {
	if amount <= 0 {
		return NewValidationError("amount must be positive")
	}
	share := amount - amount*commissionPercent/100

	return s.mutateSystem(func(sw *models.SystemWallet) {
		sw.TotalRevenue += amount
		sw.TotalCompanyShare += share
		sw.CurrentBalance += amount
		switch source {
		case models.SourceAdminCollection:
			sw.TotalAdminCollections += amount
		case models.SourceAttendantSubmission:
			sw.TotalAttendantCollections += amount
		}
	})
}

// ReverseSystem undoes a prior credit. Every field clamps at zero so
// out-of-order reversals cannot drive the aggregate negative.
func (s *DefaultWalletService) ReverseSystem(amount int64, source string) error {
	if amount <= 0 {
		return NewValidationError("amount must be positive")
	}
	share := amount - amount*commissionPercent/100

	return s.mutateSystem(func(sw *models.SystemWallet) {
		sw.TotalRevenue = clampNonNegative(sw.TotalRevenue - amount)
		sw.TotalCompanyShare = clampNonNegative(sw.TotalCompanyShare - share)
		sw.CurrentBalance = clampNonNegative(sw.CurrentBalance - amount)
		switch source {
		case models.SourceAdminCollection:
			sw.TotalAdminCollections = clampNonNegative(sw.TotalAdminCollections - amount)
		case models.SourceAttendantSubmission:
			sw.TotalAttendantCollections = clampNonNegative(sw.TotalAttendantCollections - amount)
		}
	})
}

// applySettlementToSystem records the cash movement of a settlement: a
// positive wallet balance is paid out to the attendant. A negative balance
// means the attendant remitted cash the system already counted when the
// booking completed, so no further credit is issued.
func (s *DefaultWalletService) applySettlementToSystem(payout int64) error {
	if payout <= 0 {
		return nil
	}
	return s.mutateSystem(func(sw *models.SystemWallet) {
		sw.TotalAttendantPayments += payout
		sw.CurrentBalance = clampNonNegative(sw.CurrentBalance - payout)
	})
}
