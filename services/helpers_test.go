package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Imanuelpalenewen/Final-Clinic/models"
)

var (
	adminActor      = Actor{ID: 1, Username: "admin", Role: models.RoleAdmin}
	doctorActor     = Actor{ID: 2, Username: "doctor", Role: models.RoleDoctor}
	pharmacistActor = Actor{ID: 3, Username: "pharmacist", Role: models.RolePharmacist}
	cashierActor    = Actor{ID: 4, Username: "cashier", Role: models.RoleCashier}
	patientActor    = Actor{ID: 5, Username: "RM-20251124-001", Role: models.RolePatient}
)

// day1/day2 give the deterministic clock used across the tests.
var (
	day1 = time.Date(2025, 11, 24, 9, 0, 0, 0, time.UTC)
	day2 = time.Date(2025, 11, 25, 9, 0, 0, 0, time.UTC)
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Patient{},
		&models.Queue{},
		&models.Medicine{},
		&models.Prescription{},
		&models.Transaction{},
	))
	return db
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newRegistrationService(db *gorm.DB, now time.Time) *RegistrationService {
	s := NewRegistrationService(db)
	s.Now = fixedClock(now)
	return s
}

func seedMedicine(t *testing.T, db *gorm.DB, name string, stock, price int) models.Medicine {
	t.Helper()
	medicine := models.Medicine{Name: name, Stock: stock, Unit: "tablet", Price: price}
	require.NoError(t, db.Create(&medicine).Error)
	return medicine
}

func registerPatient(t *testing.T, db *gorm.DB, now time.Time, name, phone string) *RegistrationResult {
	t.Helper()
	result, err := newRegistrationService(db, now).RegisterOrFind(adminActor, RegisterPatientInput{
		Name:      name,
		Dob:       "1990-01-01",
		Gender:    "L",
		Address:   "Jl. Kebon Jeruk No. 15, Jakarta",
		Phone:     phone,
		Complaint: "Demam tinggi 3 hari",
	})
	require.NoError(t, err)
	return result
}

func requireKind(t *testing.T, err error, kind string) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, kind, KindOf(err))
}
