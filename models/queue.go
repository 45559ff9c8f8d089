package models

import "time"

// Queue statuses. A visit moves waiting -> doctor -> pharmacy -> cashier ->
// completed; cancelled is reachable from any non-terminal status.
const (
	StatusWaiting   = "waiting"
	StatusDoctor    = "doctor"
	StatusPharmacy  = "pharmacy"
	StatusCashier   = "cashier"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// ValidStatus reports whether s is one of the queue statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusWaiting, StatusDoctor, StatusPharmacy, StatusCashier, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// TerminalStatus reports whether s is a terminal status.
func TerminalStatus(s string) bool {
	return s == StatusCompleted || s == StatusCancelled
}

type Queue struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	QueueNumber int    `json:"queue_number" gorm:"not null;uniqueIndex:idx_daily_queue"`
	// VisitDate holds DATE(created_at) as YYYY-MM-DD so the daily numbering
	// scope is queryable and the unique index can back the allocator.
	VisitDate   string    `json:"visit_date" gorm:"not null;uniqueIndex:idx_daily_queue"`
	PatientID   uint      `json:"patient_id" gorm:"not null;index"`
	IsEmergency bool      `json:"is_emergency"`
	Complaint   string    `json:"complaint"`
	Status      string    `json:"status" gorm:"not null;index"`
	Diagnosis   string    `json:"diagnosis"`
	DoctorNotes string    `json:"doctor_notes"`
	TotalCost   int       `json:"total_cost"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
