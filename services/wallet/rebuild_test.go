package wallet

import (
	"testing"
	"time"

	"washlane/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRebuildReproducesAggregateFromHistory(t *testing.T) {
	svc, wallets, bookings, _ := newTestService()

	completed := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)
	bookings.bookings = []models.Booking{
		{ID: "b1", AttendantID: "att-1", Amount: 100000, PaymentMethod: models.PaymentAttendantCash, Status: models.StatusCompleted, CompletedAt: &completed},
		{ID: "b2", AttendantID: "att-1", Amount: 25000, PaymentMethod: models.PaymentAdminCash, Status: models.StatusCompleted, CompletedAt: &completed},
		// Already settled: must not be replayed.
		{ID: "b3", AttendantID: "att-1", Amount: 50000, PaymentMethod: models.PaymentAdminCash, Status: models.StatusCompleted, AttendantPaid: true, CompletedAt: &completed},
		// Someone else's booking.
		{ID: "b4", AttendantID: "att-2", Amount: 30000, PaymentMethod: models.PaymentAdminCash, Status: models.StatusCompleted, CompletedAt: &completed},
		// Not completed yet.
		{ID: "b5", AttendantID: "att-1", Amount: 70000, PaymentMethod: models.PaymentAdminCash, Status: models.StatusPending},
	}

	// Seed a drifted aggregate.
	require.NoError(t, wallets.Create(&models.Wallet{
		ID: "w1", AttendantID: "att-1", Balance: 999999, TotalEarnings: 1,
		Adjustments: []models.WalletAdjustment{
			{Type: models.AdjustmentTip, Amount: 5000, AdjustedAt: completed},
			{Type: models.AdjustmentDeduction, Amount: 2000, AdjustedAt: completed},
		},
	}))

	w, err := svc.Rebuild("att-1")
	require.NoError(t, err)

	// b1: balance -60000, debt 60000. b2: balance +10000.
	// Adjustments: +5000 -2000.
	assert.Equal(t, int64(-47000), w.Balance)
	assert.Equal(t, int64(125000), w.TotalEarnings)
	assert.Equal(t, int64(50000), w.TotalCommission)
	assert.Equal(t, int64(75000), w.TotalCompanyShare)
	assert.Equal(t, int64(60000), w.CompanyDebt)
	assert.False(t, w.IsPaid)
}

func TestRebuildIsIdempotent(t *testing.T) {
	svc, _, bookings, _ := newTestService()

	completed := time.Now()
	bookings.bookings = []models.Booking{
		{ID: "b1", AttendantID: "att-1", Amount: 33333, PaymentMethod: models.PaymentAdminElectronic, Status: models.StatusCompleted, CompletedAt: &completed},
	}

	first, err := svc.Rebuild("att-1")
	require.NoError(t, err)
	second, err := svc.Rebuild("att-1")
	require.NoError(t, err)

	assert.Equal(t, first.Balance, second.Balance)
	assert.Equal(t, first.TotalEarnings, second.TotalEarnings)
	assert.Equal(t, first.TotalCommission, second.TotalCommission)
	assert.Equal(t, first.TotalCompanyShare, second.TotalCompanyShare)
	assert.Equal(t, first.CompanyDebt, second.CompanyDebt)
}

func TestRebuildMatchesIncrementalApplication(t *testing.T) {
	svc, wallets, bookings, _ := newTestService()

	completed := time.Now()
	amounts := []struct {
		amount int64
		method string
	}{
		{100000, models.PaymentAttendantCash},
		{25000, models.PaymentAdminCash},
		{30000, models.PaymentAdminElectronic},
		{101, models.PaymentAttendantCash},
	}
	for i, a := range amounts {
		_, err := svc.ApplyBooking("att-1", a.amount, a.method)
		require.NoError(t, err)
		bookings.bookings = append(bookings.bookings, models.Booking{
			ID: string(rune('a' + i)), AttendantID: "att-1", Amount: a.amount,
			PaymentMethod: a.method, Status: models.StatusCompleted, CompletedAt: &completed,
		})
	}

	incremental, err := wallets.GetByAttendant("att-1")
	require.NoError(t, err)

	rebuilt, err := svc.Rebuild("att-1")
	require.NoError(t, err)

	assert.Equal(t, incremental.Balance, rebuilt.Balance)
	assert.Equal(t, incremental.TotalEarnings, rebuilt.TotalEarnings)
	assert.Equal(t, incremental.TotalCommission, rebuilt.TotalCommission)
	assert.Equal(t, incremental.TotalCompanyShare, rebuilt.TotalCompanyShare)
	assert.Equal(t, incremental.CompanyDebt, rebuilt.CompanyDebt)
}

func TestRebuildReplaysAdjustments(t *testing.T) {
	svc, _, bookings, _ := newTestService()

	completed := time.Now()
	bookings.bookings = []models.Booking{
		{ID: "b1", AttendantID: "att-1", Amount: 25000, PaymentMethod: models.PaymentAdminCash, Status: models.StatusCompleted, CompletedAt: &completed},
	}
	_, err := svc.ApplyBooking("att-1", 25000, models.PaymentAdminCash)
	require.NoError(t, err)

	w, err := svc.Adjust("att-1", models.AdjustmentTip, 5000, "tip", "admin-1")
	require.NoError(t, err)
	require.Equal(t, int64(15000), w.Balance)

	rebuilt, err := svc.Rebuild("att-1")
	require.NoError(t, err)
	assert.Equal(t, int64(15000), rebuilt.Balance)
}

func TestRebuildAfterSettlementIsZero(t *testing.T) {
	svc, _, bookings, _ := newTestService()

	completed := time.Now()
	bookings.bookings = []models.Booking{
		{ID: "b1", AttendantID: "att-1", Amount: 40000, PaymentMethod: models.PaymentAdminCash, Status: models.StatusCompleted, CompletedAt: &completed},
	}
	_, err := svc.ApplyBooking("att-1", 40000, models.PaymentAdminCash)
	require.NoError(t, err)

	_, err = svc.MarkPaid("att-1")
	require.NoError(t, err)

	w, err := svc.Rebuild("att-1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), w.Balance)
	assert.Equal(t, int64(0), w.TotalEarnings)
	assert.True(t, w.IsPaid)
}

func TestRebuildUnknownAttendant(t *testing.T) {
	svc, _, _, _ := newTestService()

	var nf *NotFoundError
	_, err := svc.Rebuild("ghost")
	assert.ErrorAs(t, err, &nf)
}
