package walletRepo

import (
	"errors"
	"time"

	"washlane/models"
)

// ErrVersionConflict is returned when a versioned update matched no
// document: the aggregate changed between read and write and the caller
// should reload and retry.
var ErrVersionConflict = errors.New("wallet version conflict")

// WalletRepository defines methods for wallet and system-wallet data access.
type WalletRepository interface {
	// GetByAttendant retrieves the attendant's wallet. Returns nil if none exists.
	GetByAttendant(attendantID string) (*models.Wallet, error)
	// Create inserts a new wallet record.
	Create(w *models.Wallet) error
	// UpdateVersioned writes the wallet aggregate if and only if the stored
	// document still carries w.Version, bumping the version on success.
	// Returns ErrVersionConflict otherwise.
	UpdateVersioned(w *models.Wallet) error
	// GetAll retrieves every wallet.
	GetAll() ([]models.Wallet, error)

	// GetSystem retrieves the company-wide aggregate. Returns nil if none exists.
	GetSystem() (*models.SystemWallet, error)
	// CreateSystem inserts the singleton company aggregate.
	CreateSystem(sw *models.SystemWallet) error
	// UpdateSystemVersioned writes the company aggregate under the same
	// version guard as UpdateVersioned.
	UpdateSystemVersioned(sw *models.SystemWallet) error

	// SettleAttendant atomically marks every completed, unpaid booking of
	// the attendant as paid and zeroes the wallet, inside one transaction.
	// The wallet write is guarded by version; returns the number of
	// bookings covered.
	SettleAttendant(attendantID string, version int64, settledAt time.Time) (int64, error)
}
