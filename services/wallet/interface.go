package wallet

import (
	"context"
	"time"

	bookingRepo "washlane/database/repository/booking"
	userRepo "washlane/database/repository/user"
	walletRepo "washlane/database/repository/wallet"
	"washlane/models"
)

// WalletView is a wallet plus an optional point-in-time balance, replayed
// from booking history up to the requested instant.
type WalletView struct {
	models.Wallet
	BalanceAt *int64 `json:"balanceAt,omitempty"`
}

// SettledAttendant describes one successful settlement in a batch.
type SettledAttendant struct {
	AttendantID     string    `json:"attendantId"`
	AmountPaid      int64     `json:"amountPaid"`
	DebtCleared     int64     `json:"debtCleared"`
	BookingsCovered int64     `json:"bookingsCovered"`
	SettledAt       time.Time `json:"settledAt"`
}

// SettlementError describes one failed settlement in a batch. A failure
// never rolls back the other attendants.
type SettlementError struct {
	AttendantID string `json:"attendantId"`
	Reason      string `json:"reason"`
}

// SettlementResult is the outcome of a batch settlement.
type SettlementResult struct {
	Settled []SettledAttendant `json:"settled"`
	Errors  []SettlementError  `json:"errors"`
}

// ReceiptNotifier enqueues settlement receipts. Failures are secondary
// effects: logged, never propagated to the caller.
type ReceiptNotifier interface {
	SettlementReceipt(ctx context.Context, receipt models.SettlementReceipt) error
}

// WalletService is the ledger core exposed to the API layer.
type WalletService interface {
	// GetMyWallet returns the attendant's wallet, creating it at zero on
	// first reference. A non-nil at adds a point-in-time balance.
	GetMyWallet(attendantID string, at *time.Time) (*WalletView, error)
	// GetAllWallets returns every wallet.
	GetAllWallets(at *time.Time) ([]WalletView, error)
	// ApplyBooking adds the commission split of a completed booking to the
	// attendant's wallet.
	ApplyBooking(attendantID string, amount int64, paymentMethod string) (*models.Wallet, error)
	// ReverseBooking subtracts the same split, clamping totals at zero.
	ReverseBooking(attendantID string, amount int64, paymentMethod string) (*models.Wallet, error)
	// Adjust records a manual tip or deduction and applies it to the balance.
	Adjust(attendantID, kind string, amount int64, reason, adjustedBy string) (*models.Wallet, error)
	// Rebuild recomputes the wallet aggregate from booking history plus
	// adjustments, overwriting the cached values. Idempotent.
	Rebuild(attendantID string) (*models.Wallet, error)
	// MarkPaid settles a single attendant and returns the zeroed wallet.
	MarkPaid(attendantID string) (*models.Wallet, error)
	// SettleMany settles a batch of attendants, isolating per-attendant
	// failures.
	SettleMany(attendantIDs []string) (*SettlementResult, error)

	// GetSystemWallet returns the company-wide aggregate, creating it on
	// first access.
	GetSystemWallet() (*models.SystemWallet, error)
	// CreditSystem records company revenue from a completed booking.
	CreditSystem(amount int64, source string) error
	// ReverseSystem undoes a prior credit, clamping every field at zero.
	ReverseSystem(amount int64, source string) error
}

// DefaultWalletService implements WalletService.
type DefaultWalletService struct {
	Repo        walletRepo.WalletRepository
	BookingRepo bookingRepo.BookingRepository
	UserRepo    userRepo.UserRepository
	Receipts    ReceiptNotifier
}
