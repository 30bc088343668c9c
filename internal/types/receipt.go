package types

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ReceiptItem is a frozen copy of a product line at sale time. Later catalog
// edits or deletes never alter it.
type ReceiptItem struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// Receipt is the immutable record of a completed sale. It is created exactly
// once per successful checkout and only ever appended or deleted wholesale.
// Its id doubles as a URL path segment, so it stays an opaque uuid string.
type Receipt struct {
	gorm.Model
	ID            uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	OwnerID       uuid.UUID       `gorm:"index;not null;column:owner_id" json:"owner_id"`
	Owner         *User           `gorm:"constraint:OnDelete:CASCADE;foreignKey:OwnerID;references:ID" json:"-"`
	Items         datatypes.JSON  `gorm:"not null;column:items" json:"items"`
	Total         decimal.Decimal `gorm:"type:numeric;not null;column:total" json:"total"`
	CustomerName  string          `gorm:"column:customer_name" json:"customer_name,omitempty"`
	CustomerPhone string          `gorm:"column:customer_phone" json:"customer_phone,omitempty"`
	CreatedAt     time.Time       `gorm:"index;not null;default:now()" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"not null;default:now()" json:"-"`
}

func (Receipt) TableName() string {
	return "receipt"
}

// ItemList decodes the frozen item snapshots.
func (r *Receipt) ItemList() ([]ReceiptItem, error) {
	var items []ReceiptItem
	if len(r.Items) == 0 {
		return items, nil
	}
	if err := json.Unmarshal(r.Items, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// EncodeItems freezes item snapshots into the stored JSON column.
func (r *Receipt) EncodeItems(items []ReceiptItem) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	r.Items = datatypes.JSON(raw)
	return nil
}
