package models

import "time"

// Payment methods accepted at the cashier desk
const (
	PaymentCash   = "cash"
	PaymentDebit  = "debit"
	PaymentCredit = "credit"
)

// ValidPaymentMethod reports whether m is an accepted payment method.
func ValidPaymentMethod(m string) bool {
	return m == PaymentCash || m == PaymentDebit || m == PaymentCredit
}

type Transaction struct {
	ID uint `json:"id" gorm:"primaryKey"`
	// The unique index turns a concurrent double payment into a duplicate-key
	// error instead of a second row.
	QueueID       uint      `json:"queue_id" gorm:"not null;uniqueIndex"`
	TotalAmount   int       `json:"total_amount" gorm:"not null"`
	PaymentMethod string    `json:"payment_method" gorm:"not null"`
	CreatedAt     time.Time `json:"created_at" gorm:"autoCreateTime"`
}
