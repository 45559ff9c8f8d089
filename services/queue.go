package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Imanuelpalenewen/Final-Clinic/models"
)

// QueueService owns the visit lifecycle: examination submission, prescription
// edits, the admin status override and cancellation. Each transition runs in
// its own transaction and either fully applies or fully rolls back.
type QueueService struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewQueueService(db *gorm.DB) *QueueService {
	return &QueueService{DB: db, Now: time.Now}
}

type PrescriptionInput struct {
	MedicineID uint `json:"medicine_id"`
	Quantity   int  `json:"quantity"`
}

type ExaminationInput struct {
	Diagnosis     string              `json:"diagnosis"`
	DoctorNotes   string              `json:"doctor_notes"`
	Prescriptions []PrescriptionInput `json:"prescriptions"`
}

// SubmitExamination records the doctor's diagnosis and prescription lines and
// moves the visit to the pharmacy. The entry may be in waiting or doctor
// status ("doctor is reviewing" is not a stored intermediate step on its own).
func (s *QueueService) SubmitExamination(actor Actor, queueID uint, input ExaminationInput) (*models.Queue, error) {
	if err := requireRole(actor, models.RoleDoctor); err != nil {
		return nil, err
	}
	if input.Diagnosis == "" {
		return nil, ValidationError("Diagnosis harus diisi")
	}
	if err := validatePrescriptionInputs(input.Prescriptions); err != nil {
		return nil, err
	}

	var queue models.Queue
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := findQueue(tx, queueID, &queue); err != nil {
			return err
		}
		if queue.Status != models.StatusWaiting && queue.Status != models.StatusDoctor {
			return StateError(fmt.Sprintf("Antrian berstatus %s dan tidak dapat diperiksa", queue.Status))
		}
		if err := checkMedicinesExist(tx, input.Prescriptions); err != nil {
			return err
		}

		queue.Diagnosis = input.Diagnosis
		queue.DoctorNotes = input.DoctorNotes
		queue.Status = models.StatusPharmacy
		queue.UpdatedAt = s.Now()
		if err := tx.Model(&queue).Updates(map[string]interface{}{
			"diagnosis":    queue.Diagnosis,
			"doctor_notes": queue.DoctorNotes,
			"status":       queue.Status,
			"updated_at":   queue.UpdatedAt,
		}).Error; err != nil {
			return PersistenceError("Terjadi kesalahan saat menyimpan pemeriksaan", err)
		}
		return insertPrescriptions(tx, queueID, input.Prescriptions)
	})
	if err != nil {
		return nil, err
	}
	return &queue, nil
}

// EditPrescription replaces the prescription lines of a visit still waiting at
// the pharmacy. Once dispensing has moved the visit onward the lines are
// consumed and immutable.
func (s *QueueService) EditPrescription(actor Actor, queueID uint, lines []PrescriptionInput) (*models.Queue, error) {
	if err := requireRole(actor, models.RoleDoctor); err != nil {
		return nil, err
	}
	if err := validatePrescriptionInputs(lines); err != nil {
		return nil, err
	}

	var queue models.Queue
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := findQueue(tx, queueID, &queue); err != nil {
			return err
		}
		if queue.Status != models.StatusPharmacy {
			return StateError("Resep hanya dapat diubah sebelum obat diproses apotek")
		}
		if err := checkMedicinesExist(tx, lines); err != nil {
			return err
		}

		if err := tx.Where("queue_id = ?", queueID).Delete(&models.Prescription{}).Error; err != nil {
			return PersistenceError("Terjadi kesalahan saat mengubah resep", err)
		}
		return insertPrescriptions(tx, queueID, lines)
	})
	if err != nil {
		return nil, err
	}
	return &queue, nil
}

// UpdateStatus is the admin escape hatch used by the dashboard: it sets any
// valid status directly, bypassing the workflow ordering.
func (s *QueueService) UpdateStatus(actor Actor, queueID uint, status string) (*models.Queue, error) {
	if err := requireRole(actor, models.RoleAdmin); err != nil {
		return nil, err
	}
	if !models.ValidStatus(status) {
		return nil, ValidationError("Status tidak valid")
	}

	var queue models.Queue
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := findQueue(tx, queueID, &queue); err != nil {
			return err
		}
		queue.Status = status
		queue.UpdatedAt = s.Now()
		if err := tx.Model(&queue).Updates(map[string]interface{}{
			"status":     status,
			"updated_at": queue.UpdatedAt,
		}).Error; err != nil {
			return PersistenceError("Terjadi kesalahan saat memperbarui status antrian", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &queue, nil
}

// Cancel moves a non-terminal visit to cancelled. Stock already deducted by
// the pharmacy stays deducted; dispensed medicine is considered consumed.
func (s *QueueService) Cancel(actor Actor, queueID uint) (*models.Queue, error) {
	if err := requireRole(actor, models.RoleAdmin); err != nil {
		return nil, err
	}

	var queue models.Queue
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := findQueue(tx, queueID, &queue); err != nil {
			return err
		}
		if models.TerminalStatus(queue.Status) {
			return StateError(fmt.Sprintf("Antrian berstatus %s dan tidak dapat dibatalkan", queue.Status))
		}
		queue.Status = models.StatusCancelled
		queue.UpdatedAt = s.Now()
		if err := tx.Model(&queue).Updates(map[string]interface{}{
			"status":     models.StatusCancelled,
			"updated_at": queue.UpdatedAt,
		}).Error; err != nil {
			return PersistenceError("Terjadi kesalahan saat membatalkan antrian", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &queue, nil
}

func validatePrescriptionInputs(lines []PrescriptionInput) error {
	for _, line := range lines {
		if line.MedicineID == 0 || line.Quantity <= 0 {
			return ValidationError("Setiap resep harus memiliki obat dan jumlah yang valid")
		}
	}
	return nil
}

func checkMedicinesExist(tx *gorm.DB, lines []PrescriptionInput) error {
	for _, line := range lines {
		var medicine models.Medicine
		if err := tx.First(&medicine, line.MedicineID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NotFoundError("Obat tidak ditemukan")
			}
			return PersistenceError("Terjadi kesalahan saat memeriksa data obat", err)
		}
	}
	return nil
}

func insertPrescriptions(tx *gorm.DB, queueID uint, lines []PrescriptionInput) error {
	for _, line := range lines {
		prescription := models.Prescription{
			QueueID:    queueID,
			MedicineID: line.MedicineID,
			Quantity:   line.Quantity,
		}
		if err := tx.Create(&prescription).Error; err != nil {
			return PersistenceError("Terjadi kesalahan saat menyimpan resep", err)
		}
	}
	return nil
}

// findQueue loads the queue row inside tx, translating a missing id into the
// user-facing not-found error. Reads and the following update share the
// transaction, so a competing transition sees either all or nothing of it.
func findQueue(tx *gorm.DB, queueID uint, queue *models.Queue) error {
	if err := tx.First(queue, queueID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NotFoundError("Antrian tidak ditemukan")
		}
		return PersistenceError("Terjadi kesalahan saat mengambil data antrian", err)
	}
	return nil
}
