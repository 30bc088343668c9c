package types

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is a sellable catalog item. Quantity is nil when stock is not
// tracked for the item; tracked stock never goes negative.
type Product struct {
	gorm.Model
	ID        uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	OwnerID   uuid.UUID       `gorm:"index;not null;column:owner_id" json:"owner_id"`
	Owner     *User           `gorm:"constraint:OnDelete:CASCADE;foreignKey:OwnerID;references:ID" json:"-"`
	Name      string          `gorm:"not null;column:name" json:"name"`
	Price     decimal.Decimal `gorm:"type:numeric;not null;column:price" json:"price"`
	Category  string          `gorm:"index;column:category" json:"category"`
	Quantity  *int            `gorm:"column:quantity" json:"quantity,omitempty"`
	ImageURL  string          `gorm:"column:image_url" json:"image,omitempty"`
	CreatedAt time.Time       `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time       `gorm:"not null;default:now()" json:"updated_at"`
}

func (Product) TableName() string {
	return "product"
}

// StockTracked reports whether the item carries a tracked stock count.
func (p *Product) StockTracked() bool {
	return p.Quantity != nil
}
