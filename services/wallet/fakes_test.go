package wallet

import (
	"context"
	"errors"
	"time"

	bookingRepo "washlane/database/repository/booking"
	walletRepo "washlane/database/repository/wallet"
	"washlane/models"

	"go.mongodb.org/mongo-driver/bson"
)

// In-memory repository fakes. The wallet fake enforces the same version
// guard as the Mongo implementation so the retry paths are exercised for
// real, and can be told to reject a number of writes up front to simulate
// concurrent mutations.

type fakeUserRepo struct {
	users map[string]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	m := make(map[string]*models.User, len(users))
	for _, u := range users {
		m[u.ID] = u
	}
	return &fakeUserRepo{users: m}
}

func (f *fakeUserRepo) GetByID(id string) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) GetByEmail(email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetAllByRole(role string) ([]models.User, error) {
	var out []models.User
	for _, u := range f.users {
		if u.Role == role {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) Create(u *models.User) error {
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserRepo) UpdateSetDocument(id string, updateDoc bson.M) error {
	return nil
}

func (f *fakeUserRepo) Delete(id string) error {
	delete(f.users, id)
	return nil
}

type fakeBookingRepo struct {
	bookings []models.Booking
}

func (f *fakeBookingRepo) Create(b *models.Booking) error {
	f.bookings = append(f.bookings, *b)
	return nil
}

func (f *fakeBookingRepo) GetByID(id string) (*models.Booking, error) {
	for i := range f.bookings {
		if f.bookings[i].ID == id {
			cp := f.bookings[i]
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeBookingRepo) GetByFilter(filter bookingRepo.BookingFilter) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range f.bookings {
		if filter.AttendantID != "" && b.AttendantID != filter.AttendantID {
			continue
		}
		if filter.Status != "" && b.Status != filter.Status {
			continue
		}
		if filter.AttendantPaid != nil && b.AttendantPaid != *filter.AttendantPaid {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (f *fakeBookingRepo) Update(b *models.Booking) error {
	for i := range f.bookings {
		if f.bookings[i].ID == b.ID {
			f.bookings[i] = *b
			return nil
		}
	}
	return errors.New("booking not found")
}

func (f *fakeBookingRepo) Delete(id string) error {
	for i := range f.bookings {
		if f.bookings[i].ID == id {
			f.bookings = append(f.bookings[:i], f.bookings[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeBookingRepo) CompletedUnpaid(attendantID string, until *time.Time) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range f.bookings {
		if b.AttendantID != attendantID || b.Status != models.StatusCompleted || b.AttendantPaid {
			continue
		}
		if until != nil && (b.CompletedAt == nil || b.CompletedAt.After(*until)) {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

type fakeWalletRepo struct {
	wallets map[string]models.Wallet
	system  *models.SystemWallet

	// rejections forces the next N versioned writes to fail with a
	// version conflict, bumping the stored version each time as a real
	// concurrent writer would.
	rejections  int
	updateCalls int
	settleCalls int

	bookings *fakeBookingRepo
}

func newFakeWalletRepo(bookings *fakeBookingRepo) *fakeWalletRepo {
	return &fakeWalletRepo{
		wallets:  make(map[string]models.Wallet),
		bookings: bookings,
	}
}

func (f *fakeWalletRepo) GetByAttendant(attendantID string) (*models.Wallet, error) {
	w, ok := f.wallets[attendantID]
	if !ok {
		return nil, nil
	}
	cp := w
	return &cp, nil
}

func (f *fakeWalletRepo) Create(w *models.Wallet) error {
	if _, ok := f.wallets[w.AttendantID]; ok {
		return errors.New("duplicate wallet")
	}
	now := time.Now()
	w.CreatedAt = now
	w.UpdatedAt = now
	f.wallets[w.AttendantID] = *w
	return nil
}

func (f *fakeWalletRepo) UpdateVersioned(w *models.Wallet) error {
	f.updateCalls++
	stored, ok := f.wallets[w.AttendantID]
	if !ok || stored.Version != w.Version {
		return walletRepo.ErrVersionConflict
	}
	if f.rejections > 0 {
		f.rejections--
		stored.Version++
		f.wallets[w.AttendantID] = stored
		return walletRepo.ErrVersionConflict
	}
	w.Version++
	w.UpdatedAt = time.Now()
	f.wallets[w.AttendantID] = *w
	return nil
}

func (f *fakeWalletRepo) GetAll() ([]models.Wallet, error) {
	out := make([]models.Wallet, 0, len(f.wallets))
	for _, w := range f.wallets {
		out = append(out, w)
	}
	return out, nil
}

func (f *fakeWalletRepo) GetSystem() (*models.SystemWallet, error) {
	if f.system == nil {
		return nil, nil
	}
	cp := *f.system
	return &cp, nil
}

func (f *fakeWalletRepo) CreateSystem(sw *models.SystemWallet) error {
	if f.system != nil {
		return errors.New("duplicate system wallet")
	}
	sw.ID = models.SystemWalletID
	sw.UpdatedAt = time.Now()
	cp := *sw
	f.system = &cp
	return nil
}

func (f *fakeWalletRepo) UpdateSystemVersioned(sw *models.SystemWallet) error {
	if f.system == nil || f.system.Version != sw.Version {
		return walletRepo.ErrVersionConflict
	}
	sw.Version++
	sw.UpdatedAt = time.Now()
	cp := *sw
	f.system = &cp
	return nil
}

func (f *fakeWalletRepo) SettleAttendant(attendantID string, version int64, settledAt time.Time) (int64, error) {
	f.settleCalls++
	stored, ok := f.wallets[attendantID]
	if !ok || stored.Version != version {
		return 0, walletRepo.ErrVersionConflict
	}
	if f.rejections > 0 {
		f.rejections--
		stored.Version++
		f.wallets[attendantID] = stored
		return 0, walletRepo.ErrVersionConflict
	}

	var covered int64
	for i := range f.bookings.bookings {
		b := &f.bookings.bookings[i]
		if b.AttendantID == attendantID && b.Status == models.StatusCompleted && !b.AttendantPaid {
			b.AttendantPaid = true
			b.UpdatedAt = settledAt
			covered++
		}
	}

	stored.Balance = 0
	stored.TotalEarnings = 0
	stored.TotalCommission = 0
	stored.TotalCompanyShare = 0
	stored.CompanyDebt = 0
	stored.IsPaid = true
	stored.LastPaymentDate = &settledAt
	stored.Adjustments = nil
	stored.UpdatedAt = settledAt
	stored.Version++
	f.wallets[attendantID] = stored
	return covered, nil
}

type fakeNotifier struct {
	receipts []models.SettlementReceipt
	err      error
}

func (f *fakeNotifier) SettlementReceipt(ctx context.Context, receipt models.SettlementReceipt) error {
	if f.err != nil {
		return f.err
	}
	f.receipts = append(f.receipts, receipt)
	return nil
}
