package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Shop is the per-operator store profile shown on receipts and the dashboard.
type Shop struct {
	gorm.Model
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	OwnerID   uuid.UUID `gorm:"uniqueIndex;not null;column:owner_id" json:"owner_id"`
	Owner     *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:OwnerID;references:ID" json:"-"`
	Name      string    `gorm:"not null;column:name" json:"name"`
	Phone     string    `gorm:"column:phone" json:"phone"`
	Address   string    `gorm:"column:address" json:"address"`
	LogoKey   string    `gorm:"column:logo_key" json:"-"`
	LogoURL   string    `gorm:"column:logo_url" json:"logo_url,omitempty"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Shop) TableName() string {
	return "shop"
}
