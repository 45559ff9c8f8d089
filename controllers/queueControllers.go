package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Imanuelpalenewen/Final-Clinic/configuration"
	"github.com/Imanuelpalenewen/Final-Clinic/models"
	"github.com/Imanuelpalenewen/Final-Clinic/services"
)

func queueService() *services.QueueService {
	return services.NewQueueService(configuration.DB)
}

func pharmacyService() *services.PharmacyService {
	return services.NewPharmacyService(configuration.DB)
}

// QueueRow is a queue entry joined with the patient fields the dashboards show.
type QueueRow struct {
	models.Queue
	NoRM        string `json:"no_rm"`
	PatientName string `json:"name"`
	Dob         string `json:"dob"`
	Phone       string `json:"phone"`
}

const queueCacheTTL = 5 * time.Second

var queueCacheKeys = []string{
	"queue:board",
	"queue:board:" + models.StatusWaiting,
	"queue:board:" + models.StatusDoctor,
	"queue:board:" + models.StatusPharmacy,
	"queue:board:" + models.StatusCashier,
	"queue:board:" + models.StatusCompleted,
	"queue:board:" + models.StatusCancelled,
}

// GetAllQueue lists queue entries with patient info, optionally filtered by
// status. The dashboards poll this on a fixed interval, so the result is
// cached briefly in Redis.
func GetAllQueue(c *gin.Context) {
	status := c.Query("status")
	cacheKey := "queue:board"
	if status != "" {
		cacheKey += ":" + status
	}

	if cached, err := configuration.GetRedis(cacheKey); err == nil {
		var rows []QueueRow
		if json.Unmarshal([]byte(cached), &rows) == nil {
			c.JSON(http.StatusOK, gin.H{"success": true, "data": rows})
			return
		}
	}

	query := configuration.DB.Table("queues q").
		Select("q.*, p.no_rm, p.name AS patient_name, p.dob, p.phone").
		Joins("JOIN patients p ON p.id = q.patient_id").
		Order("q.queue_number ASC")
	if status != "" {
		query = query.Where("q.status = ?", status)
	}

	var rows []QueueRow
	if err := query.Scan(&rows).Error; err != nil {
		respondError(c, services.PersistenceError("Terjadi kesalahan saat mengambil data antrian", err))
		return
	}

	if payload, err := json.Marshal(rows); err == nil {
		configuration.SetRedis(cacheKey, payload, queueCacheTTL)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    rows,
	})
}

// GetQueueByID returns one queue entry with patient info and its prescription
// lines priced against the current catalog
func GetQueueByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, services.ValidationError("ID antrian tidak valid"))
		return
	}

	var row QueueRow
	findErr := configuration.DB.Table("queues q").
		Select("q.*, p.no_rm, p.name AS patient_name, p.dob, p.phone").
		Joins("JOIN patients p ON p.id = q.patient_id").
		Where("q.id = ?", id).
		Scan(&row).Error
	if findErr != nil {
		respondError(c, services.PersistenceError("Terjadi kesalahan saat mengambil data antrian", findErr))
		return
	}
	if row.ID == 0 {
		respondError(c, services.NotFoundError("Antrian tidak ditemukan"))
		return
	}

	lines, linesErr := services.PriceAndValidate(configuration.DB, row.ID)
	if linesErr != nil {
		respondError(c, linesErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"queue":         row,
			"prescriptions": lines,
		},
	})
}

// UpdateQueueStatus is the admin dashboard's direct status override
func UpdateQueueStatus(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, services.ValidationError("ID antrian tidak valid"))
		return
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := c.BindJSON(&body); err != nil {
		respondError(c, services.ValidationError("Format permintaan tidak valid"))
		return
	}

	queue, err := queueService().UpdateStatus(currentActor(c), uint(id), body.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	configuration.DelRedis(queueCacheKeys...)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Status antrian berhasil diperbarui",
		"data":    queue,
	})
}

// CancelQueue cancels a non-terminal queue entry
func CancelQueue(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, services.ValidationError("ID antrian tidak valid"))
		return
	}

	queue, err := queueService().Cancel(currentActor(c), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}

	configuration.DelRedis(queueCacheKeys...)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Antrian berhasil dibatalkan",
		"data":    queue,
	})
}

// DoctorSubmitExamination records diagnosis, notes and prescriptions
func DoctorSubmitExamination(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, services.ValidationError("ID antrian tidak valid"))
		return
	}

	var input services.ExaminationInput
	if err := c.BindJSON(&input); err != nil {
		respondError(c, services.ValidationError("Format permintaan tidak valid"))
		return
	}

	queue, err := queueService().SubmitExamination(currentActor(c), uint(id), input)
	if err != nil {
		respondError(c, err)
		return
	}

	configuration.DelRedis(queueCacheKeys...)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Pemeriksaan berhasil disimpan",
		"data":    queue,
	})
}

// EditPrescription replaces the prescription lines before dispensing
func EditPrescription(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, services.ValidationError("ID antrian tidak valid"))
		return
	}

	var body struct {
		Prescriptions []services.PrescriptionInput `json:"prescriptions"`
	}
	if err := c.BindJSON(&body); err != nil {
		respondError(c, services.ValidationError("Format permintaan tidak valid"))
		return
	}

	queue, err := queueService().EditPrescription(currentActor(c), uint(id), body.Prescriptions)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Resep berhasil diubah",
		"data":    queue,
	})
}

// PharmacyProcess dispenses the prescriptions: stock is deducted, the total
// is computed and the visit moves to the cashier
func PharmacyProcess(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, services.ValidationError("ID antrian tidak valid"))
		return
	}

	result, err := pharmacyService().Dispense(currentActor(c), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}

	configuration.DelRedis(queueCacheKeys...)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Resep berhasil diproses",
		"data": gin.H{
			"queue":      result.Queue,
			"total_cost": result.TotalCost,
		},
	})
}
