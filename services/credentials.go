package services

import (
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Imanuelpalenewen/Final-Clinic/models"
)

// CredentialStore provisions a login account for a newly registered patient.
// It is called with the registration transaction so a provisioning failure
// rolls the patient insert back.
type CredentialStore interface {
	CreateLoginCredential(tx *gorm.DB, username, displayName string) (uint, error)
}

// UserCredentialStore creates users rows with the shared default patient
// password (username = medical record number).
type UserCredentialStore struct{}

func (UserCredentialStore) CreateLoginCredential(tx *gorm.DB, username, displayName string) (uint, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(defaultPatientPassword()), bcrypt.DefaultCost)
	if err != nil {
		return 0, PersistenceError("Gagal membuat akun pasien", err)
	}

	user := models.User{
		Username: username,
		Password: string(hashed),
		FullName: displayName,
		Role:     models.RolePatient,
	}
	if err := tx.Create(&user).Error; err != nil {
		return 0, PersistenceError("Gagal membuat akun pasien", err)
	}
	return user.ID, nil
}

func defaultPatientPassword() string {
	if pw := os.Getenv("DEFAULT_PATIENT_PASSWORD"); pw != "" {
		return pw
	}
	return "123"
}
