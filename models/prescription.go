package models

import "time"

type Prescription struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	QueueID    uint      `json:"queue_id" gorm:"not null;index"`
	MedicineID uint      `json:"medicine_id" gorm:"not null"`
	Quantity   int       `json:"quantity" gorm:"not null"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
}
