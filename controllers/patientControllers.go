package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Imanuelpalenewen/Final-Clinic/configuration"
	"github.com/Imanuelpalenewen/Final-Clinic/models"
	"github.com/Imanuelpalenewen/Final-Clinic/services"
)

func registrationService() *services.RegistrationService {
	return services.NewRegistrationService(configuration.DB)
}

// GetAllPatients lists patients, newest first
func GetAllPatients(c *gin.Context) {
	var patients []models.Patient
	if err := configuration.DB.Order("created_at DESC").Find(&patients).Error; err != nil {
		respondError(c, services.PersistenceError("Terjadi kesalahan saat mengambil data pasien", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    patients,
	})
}

// GetPatientByID returns one patient with their visit history
func GetPatientByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, services.ValidationError("ID pasien tidak valid"))
		return
	}

	var patient models.Patient
	if err := configuration.DB.First(&patient, id).Error; err != nil {
		respondError(c, services.NotFoundError("Pasien tidak ditemukan"))
		return
	}

	var visits []models.Queue
	if err := configuration.DB.Where("patient_id = ?", patient.ID).
		Order("created_at DESC").Find(&visits).Error; err != nil {
		respondError(c, services.PersistenceError("Terjadi kesalahan saat mengambil riwayat kunjungan", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"patient": patient,
			"visits":  visits,
		},
	})
}

// CreatePatient registers a patient (or finds an existing one by phone) and
// puts them in today's queue
func CreatePatient(c *gin.Context) {
	var input services.RegisterPatientInput
	if err := c.BindJSON(&input); err != nil {
		respondError(c, services.ValidationError("Format permintaan tidak valid"))
		return
	}

	result, err := registrationService().RegisterOrFind(currentActor(c), input)
	if err != nil {
		respondError(c, err)
		return
	}

	configuration.DelRedis(queueCacheKeys...)

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Pasien berhasil didaftarkan dan masuk antrian",
		"data":    result,
	})
}

// UpdatePatient applies a partial demographic update
func UpdatePatient(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, services.ValidationError("ID pasien tidak valid"))
		return
	}

	var input services.UpdatePatientInput
	if err := c.BindJSON(&input); err != nil {
		respondError(c, services.ValidationError("Format permintaan tidak valid"))
		return
	}

	patient, err := registrationService().UpdatePatient(currentActor(c), uint(id), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Data pasien berhasil diperbarui",
		"data":    patient,
	})
}

// DeletePatient removes a patient without visit history
func DeletePatient(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, services.ValidationError("ID pasien tidak valid"))
		return
	}

	if err := registrationService().DeletePatient(currentActor(c), uint(id)); err != nil {
		respondError(c, err)
		return
	}

	configuration.DelRedis(queueCacheKeys...)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Pasien berhasil dihapus (nomor antrian tetap ada)",
	})
}

// SearchPatients is the front-desk lookup box
func SearchPatients(c *gin.Context) {
	patients, err := registrationService().SearchPatients(currentActor(c), c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    patients,
	})
}
