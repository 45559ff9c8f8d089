package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Imanuelpalenewen/Final-Clinic/models"
)

func newPaymentService(db *gorm.DB) *PaymentService {
	s := NewPaymentService(db)
	s.Now = fixedClock(day1)
	return s
}

func visitAtCashier(t *testing.T, db *gorm.DB) models.Queue {
	t.Helper()
	paracetamol := seedMedicine(t, db, "Paracetamol 500mg", 100, 500)
	visit := examinedVisit(t, db, []PrescriptionInput{
		{MedicineID: paracetamol.ID, Quantity: 5},
	})
	result, err := newPharmacyService(db).Dispense(pharmacistActor, visit.ID)
	require.NoError(t, err)
	return result.Queue
}

func TestPayCompletesVisit(t *testing.T) {
	db := setupTestDB(t)
	visit := visitAtCashier(t, db)

	result, err := newPaymentService(db).Pay(cashierActor, PaymentInput{
		QueueID:       visit.ID,
		Amount:        visit.TotalCost,
		PaymentMethod: models.PaymentCash,
	})
	require.NoError(t, err)
	require.Equal(t, models.StatusCompleted, result.Queue.Status)
	require.Equal(t, visit.TotalCost, result.Transaction.TotalAmount)
	require.Equal(t, models.PaymentCash, result.Transaction.PaymentMethod)
}

func TestPayTwiceRejected(t *testing.T) {
	db := setupTestDB(t)
	visit := visitAtCashier(t, db)
	s := newPaymentService(db)

	_, err := s.Pay(cashierActor, PaymentInput{QueueID: visit.ID, Amount: visit.TotalCost})
	require.NoError(t, err)

	_, err = s.Pay(cashierActor, PaymentInput{QueueID: visit.ID, Amount: visit.TotalCost})
	requireKind(t, err, KindState)

	// Force the status back: the no-existing-transaction rule still holds.
	require.NoError(t, db.Model(&models.Queue{}).
		Where("id = ?", visit.ID).
		Update("status", models.StatusCashier).Error)
	_, err = s.Pay(cashierActor, PaymentInput{QueueID: visit.ID, Amount: visit.TotalCost})
	requireKind(t, err, KindConflict)
	require.Equal(t, "Antrian ini sudah dibayar", err.Error())

	var transactions int64
	require.NoError(t, db.Model(&models.Transaction{}).Count(&transactions).Error)
	require.EqualValues(t, 1, transactions)
}

func TestPayDefaultsToCash(t *testing.T) {
	db := setupTestDB(t)
	visit := visitAtCashier(t, db)

	result, err := newPaymentService(db).Pay(adminActor, PaymentInput{
		QueueID: visit.ID,
		Amount:  visit.TotalCost,
	})
	require.NoError(t, err)
	require.Equal(t, models.PaymentCash, result.Transaction.PaymentMethod)
}

func TestPayValidation(t *testing.T) {
	db := setupTestDB(t)
	visit := visitAtCashier(t, db)
	s := newPaymentService(db)

	_, err := s.Pay(cashierActor, PaymentInput{Amount: 100})
	requireKind(t, err, KindValidation)

	_, err = s.Pay(cashierActor, PaymentInput{QueueID: visit.ID})
	requireKind(t, err, KindValidation)

	_, err = s.Pay(cashierActor, PaymentInput{QueueID: visit.ID, Amount: 100, PaymentMethod: "transfer"})
	requireKind(t, err, KindValidation)
	require.Equal(t, "Metode pembayaran tidak valid", err.Error())

	_, err = s.Pay(patientActor, PaymentInput{QueueID: visit.ID, Amount: 100})
	requireKind(t, err, KindForbidden)
}

func TestPayRequiresCashierStatus(t *testing.T) {
	db := setupTestDB(t)
	visit := registerPatient(t, db, day1, "Andi Setiawan", "08111111001").Queue

	// Still waiting: recording a payment against it is a misuse, not a sale.
	_, err := newPaymentService(db).Pay(cashierActor, PaymentInput{QueueID: visit.ID, Amount: 100})
	requireKind(t, err, KindState)

	var transactions int64
	require.NoError(t, db.Model(&models.Transaction{}).Count(&transactions).Error)
	require.EqualValues(t, 0, transactions)
}

func TestPayUnknownQueue(t *testing.T) {
	db := setupTestDB(t)

	_, err := newPaymentService(db).Pay(cashierActor, PaymentInput{QueueID: 999, Amount: 100})
	requireKind(t, err, KindNotFound)
}
