package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Imanuelpalenewen/Final-Clinic/models"
)

func newPharmacyService(db *gorm.DB) *PharmacyService {
	s := NewPharmacyService(db)
	s.Now = fixedClock(day1)
	return s
}

func examinedVisit(t *testing.T, db *gorm.DB, lines []PrescriptionInput) models.Queue {
	t.Helper()
	visit := registerPatient(t, db, day1, "Andi Setiawan", "08111111001").Queue
	_, err := newQueueService(db).SubmitExamination(doctorActor, visit.ID, ExaminationInput{
		Diagnosis:     "Demam",
		Prescriptions: lines,
	})
	require.NoError(t, err)
	return visit
}

func TestDispenseComputesCostAndDeductsStock(t *testing.T) {
	db := setupTestDB(t)
	paracetamol := seedMedicine(t, db, "Paracetamol 500mg", 100, 500)
	amoxicillin := seedMedicine(t, db, "Amoxicillin 500mg", 50, 1500)
	visit := examinedVisit(t, db, []PrescriptionInput{
		{MedicineID: paracetamol.ID, Quantity: 10},
		{MedicineID: amoxicillin.ID, Quantity: 2},
	})

	result, err := newPharmacyService(db).Dispense(pharmacistActor, visit.ID)
	require.NoError(t, err)
	require.Equal(t, 500*10+1500*2, result.TotalCost)
	require.Equal(t, models.StatusCashier, result.Queue.Status)
	require.Equal(t, result.TotalCost, result.Queue.TotalCost)

	var first, second models.Medicine
	require.NoError(t, db.First(&first, paracetamol.ID).Error)
	require.NoError(t, db.First(&second, amoxicillin.ID).Error)
	require.Equal(t, 90, first.Stock)
	require.Equal(t, 48, second.Stock)
}

func TestDispenseInsufficientStockRejectsWholeVisit(t *testing.T) {
	db := setupTestDB(t)
	paracetamol := seedMedicine(t, db, "Paracetamol 500mg", 100, 500)
	vitaminC := seedMedicine(t, db, "Vitamin C 500mg", 3, 1000)
	visit := examinedVisit(t, db, []PrescriptionInput{
		{MedicineID: paracetamol.ID, Quantity: 10},
		{MedicineID: vitaminC.ID, Quantity: 5},
	})

	_, err := newPharmacyService(db).Dispense(pharmacistActor, visit.ID)
	requireKind(t, err, KindConflict)
	require.Contains(t, err.Error(), "Vitamin C 500mg")
	require.Contains(t, err.Error(), "tersedia: 3, diminta: 5")

	// All-or-nothing: the sufficient line was not deducted either.
	var first, second models.Medicine
	require.NoError(t, db.First(&first, paracetamol.ID).Error)
	require.NoError(t, db.First(&second, vitaminC.ID).Error)
	require.Equal(t, 100, first.Stock)
	require.Equal(t, 3, second.Stock)

	var queue models.Queue
	require.NoError(t, db.First(&queue, visit.ID).Error)
	require.Equal(t, models.StatusPharmacy, queue.Status)
	require.Equal(t, 0, queue.TotalCost)
}

func TestDispenseWithoutPrescriptions(t *testing.T) {
	db := setupTestDB(t)
	visit := registerPatient(t, db, day1, "Andi Setiawan", "08111111001").Queue
	require.NoError(t, db.Model(&models.Queue{}).
		Where("id = ?", visit.ID).
		Update("status", models.StatusPharmacy).Error)

	_, err := newPharmacyService(db).Dispense(pharmacistActor, visit.ID)
	requireKind(t, err, KindValidation)
	require.Equal(t, "Tidak ada resep untuk antrian ini", err.Error())
}

func TestDispenseTwiceRejected(t *testing.T) {
	db := setupTestDB(t)
	paracetamol := seedMedicine(t, db, "Paracetamol 500mg", 100, 500)
	visit := examinedVisit(t, db, []PrescriptionInput{
		{MedicineID: paracetamol.ID, Quantity: 5},
	})
	s := newPharmacyService(db)

	_, err := s.Dispense(pharmacistActor, visit.ID)
	require.NoError(t, err)

	_, err = s.Dispense(pharmacistActor, visit.ID)
	requireKind(t, err, KindState)

	// No double deduction.
	var medicine models.Medicine
	require.NoError(t, db.First(&medicine, paracetamol.ID).Error)
	require.Equal(t, 95, medicine.Stock)
}

func TestDispenseRequiresPharmacist(t *testing.T) {
	db := setupTestDB(t)
	paracetamol := seedMedicine(t, db, "Paracetamol 500mg", 100, 500)
	visit := examinedVisit(t, db, []PrescriptionInput{
		{MedicineID: paracetamol.ID, Quantity: 5},
	})

	_, err := newPharmacyService(db).Dispense(doctorActor, visit.ID)
	requireKind(t, err, KindForbidden)
}

func TestPriceAndValidateFlagsShortStock(t *testing.T) {
	db := setupTestDB(t)
	paracetamol := seedMedicine(t, db, "Paracetamol 500mg", 100, 500)
	vitaminC := seedMedicine(t, db, "Vitamin C 500mg", 3, 1000)
	visit := examinedVisit(t, db, []PrescriptionInput{
		{MedicineID: paracetamol.ID, Quantity: 10},
		{MedicineID: vitaminC.ID, Quantity: 5},
	})

	lines, err := PriceAndValidate(db, visit.ID)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	require.False(t, lines[0].Insufficient)
	require.True(t, lines[1].Insufficient)
	require.Equal(t, 500, lines[0].Price)
	require.Equal(t, 100, lines[0].Stock)
}
