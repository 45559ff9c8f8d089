package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Imanuelpalenewen/Final-Clinic/configuration"
	"github.com/Imanuelpalenewen/Final-Clinic/models"
	"github.com/Imanuelpalenewen/Final-Clinic/services"
)

// GetDailyReport summarizes one day: registered patients, revenue and the
// completed transactions, defaulting to today
func GetDailyReport(c *gin.Context) {
	targetDate := c.Query("date")
	if targetDate == "" {
		targetDate = services.VisitDate(time.Now())
	}

	var totalPatients int64
	if err := configuration.DB.Model(&models.Queue{}).
		Where("visit_date = ? AND status != ?", targetDate, models.StatusCancelled).
		Count(&totalPatients).Error; err != nil {
		respondError(c, services.PersistenceError("Terjadi kesalahan saat mengambil laporan harian", err))
		return
	}

	var transactions []TransactionRow
	err := configuration.DB.Table("transactions t").
		Select("t.*, q.queue_number, q.diagnosis, q.total_cost, p.name AS patient_name, p.no_rm").
		Joins("JOIN queues q ON q.id = t.queue_id").
		Joins("JOIN patients p ON p.id = q.patient_id").
		Where("DATE(t.created_at) = ?", targetDate).
		Order("t.created_at DESC").
		Scan(&transactions).Error
	if err != nil {
		respondError(c, services.PersistenceError("Terjadi kesalahan saat mengambil laporan harian", err))
		return
	}

	totalRevenue := 0
	for _, t := range transactions {
		totalRevenue += t.TotalAmount
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"date":               targetDate,
			"total_patients":     totalPatients,
			"total_revenue":      totalRevenue,
			"total_transactions": len(transactions),
			"transactions":       transactions,
		},
	})
}

// DailyBreakdownRow is one day of the monthly report.
type DailyBreakdownRow struct {
	Date     string `json:"date"`
	Patients int    `json:"patients"`
	Revenue  int    `json:"revenue"`
}

// GetMonthlyReport breaks a month down per day over completed visits,
// defaulting to the current month
func GetMonthlyReport(c *gin.Context) {
	now := time.Now()
	month, err := strconv.Atoi(c.DefaultQuery("month", fmt.Sprintf("%02d", int(now.Month()))))
	if err != nil || month < 1 || month > 12 {
		respondError(c, services.ValidationError("Bulan tidak valid"))
		return
	}
	year, err := strconv.Atoi(c.DefaultQuery("year", strconv.Itoa(now.Year())))
	if err != nil || year < 2000 {
		respondError(c, services.ValidationError("Tahun tidak valid"))
		return
	}

	// Month bounds computed here keep the SQL portable across drivers.
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	var breakdown []DailyBreakdownRow
	queryErr := configuration.DB.Table("queues").
		Select("visit_date AS date, COUNT(*) AS patients, COALESCE(SUM(total_cost), 0) AS revenue").
		Where("visit_date >= ? AND visit_date < ? AND status = ?",
			services.VisitDate(start), services.VisitDate(end), models.StatusCompleted).
		Group("visit_date").
		Order("visit_date ASC").
		Scan(&breakdown).Error
	if queryErr != nil {
		respondError(c, services.PersistenceError("Terjadi kesalahan saat mengambil laporan bulanan", queryErr))
		return
	}

	totalPatients := 0
	totalRevenue := 0
	for _, day := range breakdown {
		totalPatients += day.Patients
		totalRevenue += day.Revenue
	}
	averagePerDay := 0
	if len(breakdown) > 0 {
		averagePerDay = totalRevenue / len(breakdown)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"month":           fmt.Sprintf("%s %d", monthName(month), year),
			"total_patients":  totalPatients,
			"total_revenue":   totalRevenue,
			"average_per_day": averagePerDay,
			"daily_breakdown": breakdown,
		},
	})
}

func monthName(month int) string {
	months := []string{
		"Januari", "Februari", "Maret", "April", "Mei", "Juni",
		"Juli", "Agustus", "September", "Oktober", "November", "Desember",
	}
	return months[month-1]
}
