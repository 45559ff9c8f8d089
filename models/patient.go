package models

import "time"

type Patient struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	NoRM      string    `json:"no_rm" gorm:"uniqueIndex;not null"`
	Name      string    `json:"name" gorm:"not null"`
	Dob       string    `json:"dob" gorm:"not null"`
	Gender    string    `json:"gender"`
	Address   string    `json:"address"`
	Phone     string    `json:"phone" gorm:"index" validate:"required"`
	UserID    *uint     `json:"user_id"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
