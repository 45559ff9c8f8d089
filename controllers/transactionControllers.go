package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"

	"github.com/Imanuelpalenewen/Final-Clinic/configuration"
	"github.com/Imanuelpalenewen/Final-Clinic/models"
	"github.com/Imanuelpalenewen/Final-Clinic/services"
)

func paymentService() *services.PaymentService {
	return services.NewPaymentService(configuration.DB)
}

// TransactionRow joins a transaction with its queue and patient details.
type TransactionRow struct {
	models.Transaction
	QueueNumber int    `json:"queue_number"`
	Diagnosis   string `json:"diagnosis"`
	TotalCost   int    `json:"total_cost"`
	PatientName string `json:"patient_name"`
	NoRM        string `json:"no_rm"`
}

// CreateTransaction records the cashier payment and completes the visit
func CreateTransaction(c *gin.Context) {
	var input services.PaymentInput
	if err := c.BindJSON(&input); err != nil {
		respondError(c, services.ValidationError("Format permintaan tidak valid"))
		return
	}

	result, err := paymentService().Pay(currentActor(c), input)
	if err != nil {
		respondError(c, err)
		return
	}

	configuration.DelRedis(queueCacheKeys...)

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Pembayaran berhasil",
		"data":    result,
	})
}

// GetAllTransactions lists payments, optionally bounded by ?startDate=&endDate=
// (YYYY-MM-DD, inclusive)
func GetAllTransactions(c *gin.Context) {
	query := configuration.DB.Table("transactions t").
		Select("t.*, q.queue_number, q.diagnosis, q.total_cost, p.name AS patient_name, p.no_rm").
		Joins("JOIN queues q ON q.id = t.queue_id").
		Joins("JOIN patients p ON p.id = q.patient_id").
		Order("t.created_at DESC")

	if startDate := c.Query("startDate"); startDate != "" {
		query = query.Where("DATE(t.created_at) >= ?", startDate)
	}
	if endDate := c.Query("endDate"); endDate != "" {
		query = query.Where("DATE(t.created_at) <= ?", endDate)
	}

	var rows []TransactionRow
	if err := query.Scan(&rows).Error; err != nil {
		respondError(c, services.PersistenceError("Terjadi kesalahan saat mengambil data transaksi", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    rows,
	})
}

// GetTransactionByID returns one payment with its prescription lines
func GetTransactionByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, services.ValidationError("ID transaksi tidak valid"))
		return
	}

	row, err := findTransactionRow(uint(id))
	if err != nil {
		respondError(c, err)
		return
	}

	lines, linesErr := services.PriceAndValidate(configuration.DB, row.QueueID)
	if linesErr != nil {
		respondError(c, linesErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"transaction":   row,
			"prescriptions": lines,
		},
	})
}

// DownloadReceipt renders the payment receipt (kwitansi) as a PDF
func DownloadReceipt(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, services.ValidationError("ID transaksi tidak valid"))
		return
	}

	row, err := findTransactionRow(uint(id))
	if err != nil {
		respondError(c, err)
		return
	}

	lines, linesErr := services.PriceAndValidate(configuration.DB, row.QueueID)
	if linesErr != nil {
		respondError(c, linesErr)
		return
	}

	pdfBytes, pdfErr := generateReceiptPDF(*row, lines)
	if pdfErr != nil {
		respondError(c, services.PersistenceError("Terjadi kesalahan saat membuat kwitansi", pdfErr))
		return
	}

	filename := fmt.Sprintf("kwitansi-%d.pdf", row.Transaction.ID)
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}

func findTransactionRow(id uint) (*TransactionRow, error) {
	var row TransactionRow
	err := configuration.DB.Table("transactions t").
		Select("t.*, q.queue_number, q.diagnosis, q.total_cost, p.name AS patient_name, p.no_rm").
		Joins("JOIN queues q ON q.id = t.queue_id").
		Joins("JOIN patients p ON p.id = q.patient_id").
		Where("t.id = ?", id).
		Scan(&row).Error
	if err != nil {
		return nil, services.PersistenceError("Terjadi kesalahan saat mengambil data transaksi", err)
	}
	if row.Transaction.ID == 0 {
		return nil, services.NotFoundError("Transaksi tidak ditemukan")
	}
	return &row, nil
}

// generateReceiptPDF builds the printable receipt handed to the patient
func generateReceiptPDF(row TransactionRow, lines []services.PricedLine) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, "Klinik Sentosa", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 7, "Kwitansi Pembayaran", "", 1, "C", false, 0, "")

	serial := "KW-" + uuid.New().String()
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 10, "Detail Kunjungan", "1", 1, "C", false, 0, "")
	addReceiptDetail(pdf, "No. Kwitansi", serial)
	addReceiptDetail(pdf, "No. Transaksi", fmt.Sprintf("%d", row.Transaction.ID))
	addReceiptDetail(pdf, "No. RM", row.NoRM)
	addReceiptDetail(pdf, "Nama Pasien", row.PatientName)
	addReceiptDetail(pdf, "Nomor Antrian", fmt.Sprintf("%d", row.QueueNumber))
	addReceiptDetail(pdf, "Diagnosis", row.Diagnosis)
	addReceiptDetail(pdf, "Tanggal", row.Transaction.CreatedAt.Format("2006-01-02 15:04"))

	pdf.CellFormat(0, 10, "Rincian Obat", "1", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	for _, line := range lines {
		desc := fmt.Sprintf("%s (%d %s x %d)", line.MedicineName, line.Quantity, line.Unit, line.Price)
		addReceiptDetail(pdf, desc, fmt.Sprintf("%d", line.Price*line.Quantity))
	}

	pdf.SetFont("Arial", "B", 13)
	addReceiptDetail(pdf, "Total", fmt.Sprintf("%d", row.Transaction.TotalAmount))
	addReceiptDetail(pdf, "Metode Pembayaran", row.PaymentMethod)

	pdf.SetY(pdf.GetY() + 12)
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 10, "Kwitansi ini dibuat oleh komputer", "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func addReceiptDetail(pdf *gofpdf.Fpdf, label, value string) {
	pdf.SetFillColor(240, 240, 240)
	pdf.CellFormat(90, 10, label, "1", 0, "", false, 0, "")
	pdf.CellFormat(0, 10, value, "1", 1, "", false, 0, "")
}
