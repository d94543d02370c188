package models

import "time"

// User is a profile snapshot keyed by the identity provider uid.
type User struct {
	UID         string    `gorm:"primaryKey;size:128" json:"uid"`
	DisplayName string    `json:"displayName"`
	Email       string    `json:"email,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type SuperAdmin struct {
	UID       string    `gorm:"primaryKey;size:128" json:"uid"`
	Role      string    `gorm:"default:super_admin" json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}
