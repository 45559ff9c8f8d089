package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator"
	"gorm.io/gorm"

	"github.com/Imanuelpalenewen/Final-Clinic/models"
)

var validate = validator.New()

// RegistrationService handles front-desk patient registration: it creates or
// finds the patient by phone and enqueues today's visit in one transaction.
type RegistrationService struct {
	DB          *gorm.DB
	Credentials CredentialStore
	Now         func() time.Time
}

func NewRegistrationService(db *gorm.DB) *RegistrationService {
	return &RegistrationService{
		DB:          db,
		Credentials: UserCredentialStore{},
		Now:         time.Now,
	}
}

type RegisterPatientInput struct {
	Name        string `json:"name" validate:"required"`
	Dob         string `json:"dob" validate:"required"`
	Gender      string `json:"gender" validate:"required"`
	Address     string `json:"address" validate:"required"`
	Phone       string `json:"phone" validate:"required"`
	Complaint   string `json:"complaint"`
	IsEmergency bool   `json:"is_emergency"`
}

type RegistrationResult struct {
	Patient    models.Patient `json:"patient"`
	Queue      models.Queue   `json:"queue"`
	NewPatient bool           `json:"new_patient"`
}

// RegisterOrFind registers a patient and puts them in today's queue. An
// existing patient (matched by phone) gets a new queue entry only; a new one
// also gets a medical record number and a login account, all in one atomic
// unit. A patient with an active queue entry is rejected.
func (s *RegistrationService) RegisterOrFind(actor Actor, input RegisterPatientInput) (*RegistrationResult, error) {
	if err := requireRole(actor, models.RoleAdmin); err != nil {
		return nil, err
	}
	if err := validate.Struct(input); err != nil {
		return nil, ValidationError("Nama, tanggal lahir, jenis kelamin, alamat, dan nomor telepon harus diisi")
	}

	result, err := s.register(input)
	if isDuplicateKey(err) {
		// Numbering race: another registration committed between our max-scan
		// and insert. One retry, then give up.
		result, err = s.register(input)
		if isDuplicateKey(err) {
			return nil, ConflictError("Pendaftaran bentrok dengan pendaftaran lain, silakan coba lagi")
		}
	}
	return result, err
}

func (s *RegistrationService) register(input RegisterPatientInput) (*RegistrationResult, error) {
	now := s.Now()
	var result RegistrationResult

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var patient models.Patient
		err := tx.Where("phone = ?", input.Phone).First(&patient).Error
		switch {
		case err == nil:
			// Known patient: re-check the active-queue rule inside this
			// transaction before enqueueing again.
			var active models.Queue
			findErr := tx.Where("patient_id = ? AND status NOT IN ?",
				patient.ID, []string{models.StatusCompleted, models.StatusCancelled}).
				First(&active).Error
			if findErr == nil {
				return ConflictError(fmt.Sprintf(
					"Pasien masih memiliki antrian aktif (nomor antrian %d)", active.QueueNumber))
			}
			if !errors.Is(findErr, gorm.ErrRecordNotFound) {
				return PersistenceError("Terjadi kesalahan saat memeriksa antrian pasien", findErr)
			}
			result.NewPatient = false

		case errors.Is(err, gorm.ErrRecordNotFound):
			noRM, allocErr := NextMedicalRecordNumber(tx, now)
			if allocErr != nil {
				return allocErr
			}
			userID, credErr := s.Credentials.CreateLoginCredential(tx, noRM, input.Name)
			if credErr != nil {
				return credErr
			}
			patient = models.Patient{
				NoRM:    noRM,
				Name:    input.Name,
				Dob:     input.Dob,
				Gender:  input.Gender,
				Address: input.Address,
				Phone:   input.Phone,
				UserID:  &userID,
			}
			if createErr := tx.Create(&patient).Error; createErr != nil {
				return wrapPersistence("Terjadi kesalahan saat mendaftarkan pasien", createErr)
			}
			result.NewPatient = true

		default:
			return PersistenceError("Terjadi kesalahan saat mencari data pasien", err)
		}

		queueNumber, allocErr := NextQueueNumber(tx, now)
		if allocErr != nil {
			return allocErr
		}
		queue := models.Queue{
			QueueNumber: queueNumber,
			VisitDate:   VisitDate(now),
			PatientID:   patient.ID,
			IsEmergency: input.IsEmergency,
			Complaint:   input.Complaint,
			Status:      models.StatusWaiting,
		}
		if createErr := tx.Create(&queue).Error; createErr != nil {
			return wrapPersistence("Terjadi kesalahan saat membuat antrian", createErr)
		}

		result.Patient = patient
		result.Queue = queue
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

type UpdatePatientInput struct {
	Name    string `json:"name"`
	Dob     string `json:"dob"`
	Gender  string `json:"gender"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

// UpdatePatient applies a partial demographic update; empty fields are left
// unchanged.
func (s *RegistrationService) UpdatePatient(actor Actor, id uint, input UpdatePatientInput) (*models.Patient, error) {
	if err := requireRole(actor, models.RoleAdmin); err != nil {
		return nil, err
	}

	var patient models.Patient
	if err := s.DB.First(&patient, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError("Pasien tidak ditemukan")
		}
		return nil, PersistenceError("Terjadi kesalahan saat mencari data pasien", err)
	}

	updates := map[string]interface{}{}
	if input.Name != "" {
		updates["name"] = input.Name
	}
	if input.Dob != "" {
		updates["dob"] = input.Dob
	}
	if input.Gender != "" {
		updates["gender"] = input.Gender
	}
	if input.Address != "" {
		updates["address"] = input.Address
	}
	if input.Phone != "" {
		updates["phone"] = input.Phone
	}
	if len(updates) > 0 {
		if err := s.DB.Model(&patient).Updates(updates).Error; err != nil {
			return nil, PersistenceError("Terjadi kesalahan saat memperbarui data pasien", err)
		}
	}
	return &patient, nil
}

const searchLimit = 10

// SearchPatients is the front-desk lookup: case-insensitive substring match
// over name, medical record number and phone, newest first.
func (s *RegistrationService) SearchPatients(actor Actor, query string) ([]models.Patient, error) {
	if err := requireRole(actor, models.RoleAdmin, models.RoleDoctor); err != nil {
		return nil, err
	}

	pattern := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
	var patients []models.Patient
	err := s.DB.
		Where("LOWER(name) LIKE ? OR LOWER(no_rm) LIKE ? OR phone LIKE ?", pattern, pattern, pattern).
		Order("created_at DESC").
		Limit(searchLimit).
		Find(&patients).Error
	if err != nil {
		return nil, PersistenceError("Terjadi kesalahan saat mencari data pasien", err)
	}
	return patients, nil
}

// DeletePatient removes a patient who has no completed visit yet: active queue
// entries are cancelled (their numbers stay taken for the day) and the linked
// login account is removed. Patients with visit history are protected.
func (s *RegistrationService) DeletePatient(actor Actor, id uint) error {
	if err := requireRole(actor, models.RoleAdmin); err != nil {
		return err
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		var patient models.Patient
		if err := tx.First(&patient, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NotFoundError("Pasien tidak ditemukan")
			}
			return PersistenceError("Terjadi kesalahan saat mencari data pasien", err)
		}

		var completed int64
		if err := tx.Model(&models.Queue{}).
			Where("patient_id = ? AND status = ?", patient.ID, models.StatusCompleted).
			Count(&completed).Error; err != nil {
			return PersistenceError("Terjadi kesalahan saat memeriksa riwayat kunjungan", err)
		}
		if completed > 0 {
			return ConflictError("Pasien memiliki riwayat kunjungan dan tidak dapat dihapus")
		}

		if err := tx.Model(&models.Queue{}).
			Where("patient_id = ? AND status NOT IN ?",
				patient.ID, []string{models.StatusCompleted, models.StatusCancelled}).
			Update("status", models.StatusCancelled).Error; err != nil {
			return PersistenceError("Terjadi kesalahan saat membatalkan antrian pasien", err)
		}

		if patient.UserID != nil {
			if err := tx.Delete(&models.User{}, *patient.UserID).Error; err != nil {
				return PersistenceError("Terjadi kesalahan saat menghapus akun pasien", err)
			}
		}
		if err := tx.Delete(&models.Patient{}, patient.ID).Error; err != nil {
			return PersistenceError("Terjadi kesalahan saat menghapus pasien", err)
		}
		return nil
	})
}

// wrapPersistence keeps duplicate-key errors recognizable for the allocator
// retry while classifying everything else as a store failure.
func wrapPersistence(message string, err error) error {
	if isDuplicateKey(err) {
		return err
	}
	return PersistenceError(message, err)
}
