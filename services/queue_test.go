package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Imanuelpalenewen/Final-Clinic/models"
)

func newQueueService(db *gorm.DB) *QueueService {
	s := NewQueueService(db)
	s.Now = fixedClock(day1)
	return s
}

func TestSubmitExamination(t *testing.T) {
	db := setupTestDB(t)
	paracetamol := seedMedicine(t, db, "Paracetamol 500mg", 100, 500)
	visit := registerPatient(t, db, day1, "Andi Setiawan", "08111111001").Queue

	queue, err := newQueueService(db).SubmitExamination(doctorActor, visit.ID, ExaminationInput{
		Diagnosis:   "Demam",
		DoctorNotes: "Istirahat cukup",
		Prescriptions: []PrescriptionInput{
			{MedicineID: paracetamol.ID, Quantity: 5},
		},
	})
	require.NoError(t, err)
	require.Equal(t, models.StatusPharmacy, queue.Status)
	require.Equal(t, "Demam", queue.Diagnosis)

	var lines []models.Prescription
	require.NoError(t, db.Where("queue_id = ?", visit.ID).Find(&lines).Error)
	require.Len(t, lines, 1)
	require.Equal(t, paracetamol.ID, lines[0].MedicineID)
	require.Equal(t, 5, lines[0].Quantity)
}

func TestSubmitExaminationRequiresDiagnosis(t *testing.T) {
	db := setupTestDB(t)
	visit := registerPatient(t, db, day1, "Andi Setiawan", "08111111001").Queue

	_, err := newQueueService(db).SubmitExamination(doctorActor, visit.ID, ExaminationInput{})
	requireKind(t, err, KindValidation)
	require.Equal(t, "Diagnosis harus diisi", err.Error())

	var queue models.Queue
	require.NoError(t, db.First(&queue, visit.ID).Error)
	require.Equal(t, models.StatusWaiting, queue.Status)
}

func TestSubmitExaminationRejectsBadLines(t *testing.T) {
	db := setupTestDB(t)
	visit := registerPatient(t, db, day1, "Andi Setiawan", "08111111001").Queue
	s := newQueueService(db)

	_, err := s.SubmitExamination(doctorActor, visit.ID, ExaminationInput{
		Diagnosis:     "Demam",
		Prescriptions: []PrescriptionInput{{MedicineID: 1, Quantity: 0}},
	})
	requireKind(t, err, KindValidation)

	_, err = s.SubmitExamination(doctorActor, visit.ID, ExaminationInput{
		Diagnosis:     "Demam",
		Prescriptions: []PrescriptionInput{{MedicineID: 999, Quantity: 5}},
	})
	requireKind(t, err, KindNotFound)

	// Rejected submissions leave no partial prescription rows behind.
	var lines int64
	require.NoError(t, db.Model(&models.Prescription{}).Count(&lines).Error)
	require.EqualValues(t, 0, lines)
}

func TestSubmitExaminationInvalidState(t *testing.T) {
	db := setupTestDB(t)
	visit := registerPatient(t, db, day1, "Andi Setiawan", "08111111001").Queue
	require.NoError(t, db.Model(&models.Queue{}).
		Where("id = ?", visit.ID).
		Update("status", models.StatusCancelled).Error)

	_, err := newQueueService(db).SubmitExamination(doctorActor, visit.ID, ExaminationInput{Diagnosis: "Demam"})
	requireKind(t, err, KindState)
}

func TestSubmitExaminationRequiresDoctor(t *testing.T) {
	db := setupTestDB(t)
	visit := registerPatient(t, db, day1, "Andi Setiawan", "08111111001").Queue

	_, err := newQueueService(db).SubmitExamination(adminActor, visit.ID, ExaminationInput{Diagnosis: "Demam"})
	requireKind(t, err, KindForbidden)
}

func TestEditPrescriptionBeforeDispense(t *testing.T) {
	db := setupTestDB(t)
	paracetamol := seedMedicine(t, db, "Paracetamol 500mg", 100, 500)
	amoxicillin := seedMedicine(t, db, "Amoxicillin 500mg", 50, 1500)
	visit := registerPatient(t, db, day1, "Andi Setiawan", "08111111001").Queue
	s := newQueueService(db)

	_, err := s.SubmitExamination(doctorActor, visit.ID, ExaminationInput{
		Diagnosis:     "Demam",
		Prescriptions: []PrescriptionInput{{MedicineID: paracetamol.ID, Quantity: 5}},
	})
	require.NoError(t, err)

	_, err = s.EditPrescription(doctorActor, visit.ID, []PrescriptionInput{
		{MedicineID: amoxicillin.ID, Quantity: 2},
	})
	require.NoError(t, err)

	var lines []models.Prescription
	require.NoError(t, db.Where("queue_id = ?", visit.ID).Find(&lines).Error)
	require.Len(t, lines, 1)
	require.Equal(t, amoxicillin.ID, lines[0].MedicineID)
	require.Equal(t, 2, lines[0].Quantity)
}

func TestEditPrescriptionAfterDispenseRejected(t *testing.T) {
	db := setupTestDB(t)
	paracetamol := seedMedicine(t, db, "Paracetamol 500mg", 100, 500)
	visit := registerPatient(t, db, day1, "Andi Setiawan", "08111111001").Queue
	s := newQueueService(db)

	_, err := s.SubmitExamination(doctorActor, visit.ID, ExaminationInput{
		Diagnosis:     "Demam",
		Prescriptions: []PrescriptionInput{{MedicineID: paracetamol.ID, Quantity: 5}},
	})
	require.NoError(t, err)

	pharmacy := NewPharmacyService(db)
	pharmacy.Now = fixedClock(day1)
	_, err = pharmacy.Dispense(pharmacistActor, visit.ID)
	require.NoError(t, err)

	_, err = s.EditPrescription(doctorActor, visit.ID, []PrescriptionInput{
		{MedicineID: paracetamol.ID, Quantity: 10},
	})
	requireKind(t, err, KindState)
}

func TestUpdateStatusOverride(t *testing.T) {
	db := setupTestDB(t)
	visit := registerPatient(t, db, day1, "Andi Setiawan", "08111111001").Queue
	s := newQueueService(db)

	queue, err := s.UpdateStatus(adminActor, visit.ID, models.StatusCashier)
	require.NoError(t, err)
	require.Equal(t, models.StatusCashier, queue.Status)

	_, err = s.UpdateStatus(adminActor, visit.ID, "shipped")
	requireKind(t, err, KindValidation)

	_, err = s.UpdateStatus(doctorActor, visit.ID, models.StatusCashier)
	requireKind(t, err, KindForbidden)

	_, err = s.UpdateStatus(adminActor, 999, models.StatusCashier)
	requireKind(t, err, KindNotFound)
}

func TestCancel(t *testing.T) {
	db := setupTestDB(t)
	visit := registerPatient(t, db, day1, "Andi Setiawan", "08111111001").Queue
	s := newQueueService(db)

	queue, err := s.Cancel(adminActor, visit.ID)
	require.NoError(t, err)
	require.Equal(t, models.StatusCancelled, queue.Status)

	_, err = s.Cancel(adminActor, visit.ID)
	requireKind(t, err, KindState)
}

func TestCancelAfterDispenseKeepsStockDeducted(t *testing.T) {
	db := setupTestDB(t)
	paracetamol := seedMedicine(t, db, "Paracetamol 500mg", 100, 500)
	visit := registerPatient(t, db, day1, "Andi Setiawan", "08111111001").Queue
	s := newQueueService(db)

	_, err := s.SubmitExamination(doctorActor, visit.ID, ExaminationInput{
		Diagnosis:     "Demam",
		Prescriptions: []PrescriptionInput{{MedicineID: paracetamol.ID, Quantity: 5}},
	})
	require.NoError(t, err)

	pharmacy := NewPharmacyService(db)
	pharmacy.Now = fixedClock(day1)
	_, err = pharmacy.Dispense(pharmacistActor, visit.ID)
	require.NoError(t, err)

	_, err = s.Cancel(adminActor, visit.ID)
	require.NoError(t, err)

	// Dispensed medicine is considered consumed; cancellation does not restock.
	var medicine models.Medicine
	require.NoError(t, db.First(&medicine, paracetamol.ID).Error)
	require.Equal(t, 95, medicine.Stock)
}
