package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Role values stored on User and carried in JWT claims
const (
	RoleAdmin      = "admin"
	RoleDoctor     = "doctor"
	RolePharmacist = "pharmacist"
	RoleCashier    = "cashier"
	RoleOwner      = "owner"
	RolePatient    = "patient"
)

type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Username  string    `json:"username" gorm:"uniqueIndex;not null"`
	Password  string    `json:"-" gorm:"not null"`
	FullName  string    `json:"full_name"`
	Role      string    `json:"role" gorm:"not null"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

type UserClaims struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	FullName string `json:"full_name"`
	jwt.RegisteredClaims
}
