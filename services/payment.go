package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Imanuelpalenewen/Final-Clinic/models"
)

// PaymentService records the cashier payment that closes a visit.
type PaymentService struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewPaymentService(db *gorm.DB) *PaymentService {
	return &PaymentService{DB: db, Now: time.Now}
}

type PaymentInput struct {
	QueueID       uint   `json:"queue_id"`
	Amount        int    `json:"amount"`
	PaymentMethod string `json:"payment_method"`
}

type PaymentResult struct {
	Transaction models.Transaction `json:"transaction"`
	Queue       models.Queue       `json:"queue"`
}

// Pay creates the visit's payment transaction and marks it completed. The
// visit must be at the cashier and unpaid; a second payment attempt is
// rejected and creates no extra transaction row.
func (s *PaymentService) Pay(actor Actor, input PaymentInput) (*PaymentResult, error) {
	if err := requireRole(actor, models.RoleCashier, models.RoleAdmin); err != nil {
		return nil, err
	}
	if input.QueueID == 0 || input.Amount <= 0 {
		return nil, ValidationError("Queue ID dan amount harus diisi")
	}
	method := input.PaymentMethod
	if method == "" {
		method = models.PaymentCash
	}
	if !models.ValidPaymentMethod(method) {
		return nil, ValidationError("Metode pembayaran tidak valid")
	}

	var result PaymentResult
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var queue models.Queue
		if err := findQueue(tx, input.QueueID, &queue); err != nil {
			return err
		}
		if queue.Status != models.StatusCashier {
			return StateError(fmt.Sprintf("Antrian berstatus %s dan belum dapat dibayar", queue.Status))
		}

		var existing models.Transaction
		findErr := tx.Where("queue_id = ?", input.QueueID).First(&existing).Error
		if findErr == nil {
			return ConflictError("Antrian ini sudah dibayar")
		}
		if !errors.Is(findErr, gorm.ErrRecordNotFound) {
			return PersistenceError("Terjadi kesalahan saat memeriksa pembayaran", findErr)
		}

		transaction := models.Transaction{
			QueueID:       input.QueueID,
			TotalAmount:   input.Amount,
			PaymentMethod: method,
		}
		if err := tx.Create(&transaction).Error; err != nil {
			if isDuplicateKey(err) {
				return ConflictError("Antrian ini sudah dibayar")
			}
			return PersistenceError("Terjadi kesalahan saat memproses pembayaran", err)
		}

		queue.Status = models.StatusCompleted
		queue.UpdatedAt = s.Now()
		if err := tx.Model(&queue).Updates(map[string]interface{}{
			"status":     models.StatusCompleted,
			"updated_at": queue.UpdatedAt,
		}).Error; err != nil {
			return PersistenceError("Terjadi kesalahan saat memproses pembayaran", err)
		}

		result.Transaction = transaction
		result.Queue = queue
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}
