package wallet

import (
	"errors"
	"testing"
	"time"

	"washlane/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedCompletedBooking(bookings *fakeBookingRepo, id, attendantID string, amount int64, method string) {
	completed := time.Now()
	bookings.bookings = append(bookings.bookings, models.Booking{
		ID: id, AttendantID: attendantID, Amount: amount,
		PaymentMethod: method, Status: models.StatusCompleted, CompletedAt: &completed,
	})
}

func TestMarkPaidZeroesWalletAndFlipsBookings(t *testing.T) {
	svc, _, bookings, _ := newTestService()

	seedCompletedBooking(bookings, "b1", "att-1", 25000, models.PaymentAdminCash)
	seedCompletedBooking(bookings, "b2", "att-1", 30000, models.PaymentAdminElectronic)
	_, err := svc.ApplyBooking("att-1", 25000, models.PaymentAdminCash)
	require.NoError(t, err)
	_, err = svc.ApplyBooking("att-1", 30000, models.PaymentAdminElectronic)
	require.NoError(t, err)

	w, err := svc.MarkPaid("att-1")
	require.NoError(t, err)

	assert.Equal(t, int64(0), w.Balance)
	assert.Equal(t, int64(0), w.CompanyDebt)
	assert.True(t, w.IsPaid)
	assert.NotNil(t, w.LastPaymentDate)
	assert.Empty(t, w.Adjustments)

	for _, b := range bookings.bookings {
		assert.True(t, b.AttendantPaid, b.ID)
	}
}

func TestMarkPaidAlreadySettled(t *testing.T) {
	svc, _, bookings, _ := newTestService()

	seedCompletedBooking(bookings, "b1", "att-1", 25000, models.PaymentAdminCash)
	_, err := svc.ApplyBooking("att-1", 25000, models.PaymentAdminCash)
	require.NoError(t, err)

	_, err = svc.MarkPaid("att-1")
	require.NoError(t, err)

	_, err = svc.MarkPaid("att-1")
	assert.ErrorIs(t, err, ErrAlreadySettled)
}

func TestMarkPaidNoWallet(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.MarkPaid("att-1")
	assert.ErrorIs(t, err, ErrAlreadySettled)
}

func TestSettleManyIsolatesFailures(t *testing.T) {
	svc, _, bookings, _ := newTestService()

	seedCompletedBooking(bookings, "b1", "att-1", 100000, models.PaymentAdminCash)
	_, err := svc.ApplyBooking("att-1", 100000, models.PaymentAdminCash)
	require.NoError(t, err)

	result, err := svc.SettleMany([]string{"att-1", "ghost", "att-2"})
	require.NoError(t, err)

	require.Len(t, result.Settled, 1)
	assert.Equal(t, "att-1", result.Settled[0].AttendantID)
	assert.Equal(t, int64(40000), result.Settled[0].AmountPaid)
	assert.Equal(t, int64(1), result.Settled[0].BookingsCovered)

	// ghost is unknown; att-2 has no wallet to settle. Both land in the
	// errors list without aborting the batch.
	require.Len(t, result.Errors, 2)
	assert.Equal(t, "ghost", result.Errors[0].AttendantID)
	assert.Equal(t, "att-2", result.Errors[1].AttendantID)
}

func TestSettleManyEmptyBatch(t *testing.T) {
	svc, _, _, _ := newTestService()

	var ve *ValidationError
	_, err := svc.SettleMany(nil)
	assert.ErrorAs(t, err, &ve)
}

func TestSettlementRecordsSystemPayout(t *testing.T) {
	svc, wallets, bookings, _ := newTestService()

	seedCompletedBooking(bookings, "b1", "att-1", 100000, models.PaymentAdminCash)
	_, err := svc.ApplyBooking("att-1", 100000, models.PaymentAdminCash)
	require.NoError(t, err)
	require.NoError(t, svc.CreditSystem(100000, models.SourceAdminCollection))

	_, err = svc.MarkPaid("att-1")
	require.NoError(t, err)

	sw := wallets.system
	require.NotNil(t, sw)
	assert.Equal(t, int64(40000), sw.TotalAttendantPayments)
	assert.Equal(t, int64(60000), sw.CurrentBalance)
}

func TestSettlementNegativeBalanceSkipsPayout(t *testing.T) {
	// An attendant who collected cash owes the company; settling them
	// records no payout because the remitted cash was already counted when
	// the booking completed.
	svc, wallets, bookings, _ := newTestService()

	seedCompletedBooking(bookings, "b1", "att-1", 100000, models.PaymentAttendantCash)
	_, err := svc.ApplyBooking("att-1", 100000, models.PaymentAttendantCash)
	require.NoError(t, err)
	require.NoError(t, svc.CreditSystem(100000, models.SourceAttendantSubmission))

	_, err = svc.MarkPaid("att-1")
	require.NoError(t, err)

	sw := wallets.system
	require.NotNil(t, sw)
	assert.Equal(t, int64(0), sw.TotalAttendantPayments)
	assert.Equal(t, int64(100000), sw.CurrentBalance)
}

func TestSettlementEnqueuesReceipt(t *testing.T) {
	svc, _, bookings, notifier := newTestService()

	seedCompletedBooking(bookings, "b1", "att-1", 25000, models.PaymentAdminCash)
	_, err := svc.ApplyBooking("att-1", 25000, models.PaymentAdminCash)
	require.NoError(t, err)

	_, err = svc.MarkPaid("att-1")
	require.NoError(t, err)

	require.Len(t, notifier.receipts, 1)
	r := notifier.receipts[0]
	assert.Equal(t, "att-1", r.AttendantID)
	assert.Equal(t, "Jane Mwangi", r.AttendantName)
	assert.Equal(t, int64(10000), r.AmountPaid)
	assert.Equal(t, int64(1), r.BookingsCovered)
}

func TestSettlementSurvivesReceiptFailure(t *testing.T) {
	svc, _, bookings, notifier := newTestService()
	notifier.err = errors.New("queue down")

	seedCompletedBooking(bookings, "b1", "att-1", 25000, models.PaymentAdminCash)
	_, err := svc.ApplyBooking("att-1", 25000, models.PaymentAdminCash)
	require.NoError(t, err)

	w, err := svc.MarkPaid("att-1")
	require.NoError(t, err)
	assert.True(t, w.IsPaid)
}

func TestSettlementRetriesOnVersionConflict(t *testing.T) {
	svc, wallets, bookings, _ := newTestService()

	seedCompletedBooking(bookings, "b1", "att-1", 25000, models.PaymentAdminCash)
	_, err := svc.ApplyBooking("att-1", 25000, models.PaymentAdminCash)
	require.NoError(t, err)

	wallets.rejections = 2
	w, err := svc.MarkPaid("att-1")
	require.NoError(t, err)
	assert.True(t, w.IsPaid)
	assert.Equal(t, 3, wallets.settleCalls)
}
