package services

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Imanuelpalenewen/Final-Clinic/models"
)

// PharmacyService converts prescription lines into an actual stock deduction
// and a priced total, moving the visit to the cashier.
type PharmacyService struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewPharmacyService(db *gorm.DB) *PharmacyService {
	return &PharmacyService{DB: db, Now: time.Now}
}

// PricedLine is a prescription line joined with its medicine's current price
// and stock.
type PricedLine struct {
	PrescriptionID uint   `json:"prescription_id"`
	MedicineID     uint   `json:"medicine_id"`
	MedicineName   string `json:"medicine_name"`
	Unit           string `json:"unit"`
	Quantity       int    `json:"quantity"`
	Price          int    `json:"price"`
	Stock          int    `json:"stock"`
	Insufficient   bool   `json:"insufficient"`
}

type DispenseResult struct {
	Queue     models.Queue `json:"queue"`
	TotalCost int          `json:"total_cost"`
}

// PriceAndValidate joins each prescription line of the visit to its medicine
// and flags the short-stocked ones. Used by the dispense transaction and by
// the pharmacist's review screen.
func PriceAndValidate(tx *gorm.DB, queueID uint) ([]PricedLine, error) {
	var lines []PricedLine
	err := tx.Table("prescriptions pr").
		Select("pr.id AS prescription_id, pr.medicine_id, m.name AS medicine_name, m.unit, pr.quantity, m.price, m.stock, pr.quantity > m.stock AS insufficient").
		Joins("JOIN medicines m ON m.id = pr.medicine_id").
		Where("pr.queue_id = ?", queueID).
		Order("pr.id ASC").
		Scan(&lines).Error
	if err != nil {
		return nil, PersistenceError("Terjadi kesalahan saat mengambil data resep", err)
	}
	return lines, nil
}

// Dispense decrements each prescribed medicine's stock, computes the visit's
// total cost and moves it to the cashier, all in one transaction. A single
// short-stocked line rejects the whole visit with no deduction; a visit no
// longer in pharmacy status is rejected, so a repeated call cannot
// double-deduct.
func (s *PharmacyService) Dispense(actor Actor, queueID uint) (*DispenseResult, error) {
	if err := requireRole(actor, models.RolePharmacist, models.RoleAdmin); err != nil {
		return nil, err
	}

	var result DispenseResult
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var queue models.Queue
		if err := findQueue(tx, queueID, &queue); err != nil {
			return err
		}
		if queue.Status != models.StatusPharmacy {
			return StateError(fmt.Sprintf("Antrian berstatus %s dan tidak dapat diproses apotek", queue.Status))
		}

		lines, err := PriceAndValidate(tx, queueID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return ValidationError("Tidak ada resep untuk antrian ini")
		}
		for _, line := range lines {
			if line.Insufficient {
				return ConflictError(fmt.Sprintf(
					"Stok obat %s tidak mencukupi (tersedia: %d, diminta: %d)",
					line.MedicineName, line.Stock, line.Quantity))
			}
		}

		totalCost := 0
		for _, line := range lines {
			// Conditional decrement: the WHERE stock >= quantity guard makes
			// the read-check-write atomic against a concurrent dispense of the
			// same medicine.
			res := tx.Model(&models.Medicine{}).
				Where("id = ? AND stock >= ?", line.MedicineID, line.Quantity).
				Update("stock", gorm.Expr("stock - ?", line.Quantity))
			if res.Error != nil {
				return PersistenceError("Terjadi kesalahan saat memperbarui stok obat", res.Error)
			}
			if res.RowsAffected == 0 {
				return ConflictError(fmt.Sprintf(
					"Stok obat %s tidak mencukupi (tersedia: %d, diminta: %d)",
					line.MedicineName, line.Stock, line.Quantity))
			}
			totalCost += line.Price * line.Quantity
		}

		queue.TotalCost = totalCost
		queue.Status = models.StatusCashier
		queue.UpdatedAt = s.Now()
		if err := tx.Model(&queue).Updates(map[string]interface{}{
			"total_cost": totalCost,
			"status":     models.StatusCashier,
			"updated_at": queue.UpdatedAt,
		}).Error; err != nil {
			return PersistenceError("Terjadi kesalahan saat memproses resep", err)
		}

		result.Queue = queue
		result.TotalCost = totalCost
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}
