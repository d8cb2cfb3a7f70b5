package booking

import (
	"errors"
	"fmt"
	"time"

	bookingRepo "washlane/database/repository/booking"
	"washlane/models"
)

// maxUpdateRetries bounds how many times an update is replayed after losing
// a version race to a concurrent writer.
const maxUpdateRetries = 5

// UpdateBooking applies a partial update and drives the ledger through the
// resulting state transition:
//
//   - into completed: apply the new values
//   - out of completed: reverse the old values
//   - completed before and after with amount, payment method or attendant
//     changed: reverse the old values on the old attendant, apply the new
//     values on the new one
//   - anything else: no ledger effect
//
// A booking already covered by a settlement is immutable. Updates are
// version-guarded: when another writer lands first, the booking is reloaded
// and the transition recomputed against its fresh state, so two writers
// completing the same booking credit the ledger once.
func (s *DefaultBookingService) UpdateBooking(id string, req UpdateBookingRequest) (*models.Booking, error) {
	for attempt := 0; attempt < maxUpdateRetries; attempt++ {
		updated, err := s.updateBookingOnce(id, req)
		if errors.Is(err, bookingRepo.ErrVersionConflict) {
			continue
		}
		return updated, err
	}
	return nil, fmt.Errorf("update booking %s: too many concurrent updates", id)
}

func (s *DefaultBookingService) updateBookingOnce(id string, req UpdateBookingRequest) (*models.Booking, error) {
	existing, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, &NotFoundError{Resource: "booking", ID: id}
	}
	if existing.AttendantPaid {
		return nil, NewValidationError("booking %s is already settled and cannot be changed", id)
	}

	updated := *existing
	if req.AttendantID != nil {
		updated.AttendantID = *req.AttendantID
	}
	if req.Category != nil {
		updated.Category = *req.Category
	}
	if req.Amount != nil {
		updated.Amount = *req.Amount
	}
	if req.PaymentMethod != nil {
		updated.PaymentMethod = *req.PaymentMethod
	}
	if req.Status != nil {
		updated.Status = *req.Status
	}

	if updated.Amount <= 0 {
		return nil, NewValidationError("amount must be positive")
	}
	if !models.ValidCategory(updated.Category) {
		return nil, NewValidationError("unknown category %q", updated.Category)
	}
	if !models.ValidPaymentMethod(updated.PaymentMethod) {
		return nil, NewValidationError("unknown payment method %q", updated.PaymentMethod)
	}
	if !models.ValidStatus(updated.Status) {
		return nil, NewValidationError("unknown status %q", updated.Status)
	}
	if updated.AttendantID != existing.AttendantID {
		if err := s.requireAttendant(updated.AttendantID); err != nil {
			return nil, err
		}
	}

	wasCompleted := existing.Status == models.StatusCompleted
	nowCompleted := updated.Status == models.StatusCompleted

	switch {
	case !wasCompleted && nowCompleted:
		now := time.Now()
		updated.CompletedAt = &now
	case wasCompleted && !nowCompleted:
		updated.CompletedAt = nil
	}

	if err := s.Repo.Update(&updated); err != nil {
		return nil, err
	}

	ledgerChanged := updated.Amount != existing.Amount ||
		updated.PaymentMethod != existing.PaymentMethod ||
		updated.AttendantID != existing.AttendantID

	switch {
	case !wasCompleted && nowCompleted:
		s.applyLedger(&updated)
	case wasCompleted && !nowCompleted:
		s.reverseLedger(existing)
	case wasCompleted && nowCompleted && ledgerChanged:
		s.reverseLedger(existing)
		s.applyLedger(&updated)
	}

	return &updated, nil
}

// applyLedger credits the attendant wallet and the system wallet for one
// completed booking. Failures are logged; the aggregate is repairable via
// rebuild, so a booking write is never rolled back over a ledger write.
func (s *DefaultBookingService) applyLedger(b *models.Booking) {
	if _, err := s.Ledger.ApplyBooking(b.AttendantID, b.Amount, b.PaymentMethod); err != nil {
		logLedgerFailure("apply", b, err)
	}
	if err := s.Ledger.CreditSystem(b.Amount, creditSource(b.PaymentMethod)); err != nil {
		logLedgerFailure("credit", b, err)
	}
}

// reverseLedger undoes a prior applyLedger for the booking's old values.
func (s *DefaultBookingService) reverseLedger(b *models.Booking) {
	if _, err := s.Ledger.ReverseBooking(b.AttendantID, b.Amount, b.PaymentMethod); err != nil {
		logLedgerFailure("reverse", b, err)
	}
	if err := s.Ledger.ReverseSystem(b.Amount, creditSource(b.PaymentMethod)); err != nil {
		logLedgerFailure("reverse-credit", b, err)
	}
}

func creditSource(paymentMethod string) string {
	if models.AdminCollected(paymentMethod) {
		return models.SourceAdminCollection
	}
	return models.SourceAttendantSubmission
}
