package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	MerchantPending   = "pending"
	MerchantApproved  = "approved"
	MerchantRejected  = "rejected"
	MerchantSuspended = "suspended"
)

// Merchant is the account that owns stores. It lives in Postgres; its ID is the tenant id
// carried in tokens and stamped on Mongo documents as merchantId.
type Merchant struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	BusinessName string         `json:"businessName" gorm:"type:varchar(150);not null"`
	OwnerName    string         `json:"ownerName" gorm:"type:varchar(100)"`
	Email        string         `json:"email" gorm:"type:varchar(100);uniqueIndex"`
	Password     string         `json:"-" gorm:"type:varchar(255)"`
	Phone        string         `json:"phone,omitempty" gorm:"type:varchar(30)"`
	Role         string         `json:"role" gorm:"type:varchar(20);default:merchant"`
	Status       string         `json:"status" gorm:"type:varchar(20);default:pending;index"`
	StatusReason string         `json:"statusReason,omitempty" gorm:"type:text"`
	LastLoginAt  *time.Time     `json:"lastLoginAt,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
}

// CanSignIn reports whether the account may obtain a token
func (m *Merchant) CanSignIn() bool {
	return m.Status != MerchantSuspended && m.Status != MerchantRejected
}

// AuditLog records merchant and admin actions
type AuditLog struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	MerchantID uint      `json:"merchantId" gorm:"index"`
	ActorID    uint      `json:"actorId" gorm:"index"`
	Action     string    `json:"action" gorm:"type:varchar(80);index"`
	Resource   string    `json:"resource" gorm:"type:varchar(40)"`
	ResourceID string    `json:"resourceId" gorm:"type:varchar(64)"`
	Details    string    `json:"details,omitempty" gorm:"type:jsonb"`
	IPAddress  string    `json:"ipAddress,omitempty" gorm:"type:varchar(64)"`
	CreatedAt  time.Time `json:"createdAt" gorm:"index"`
}
