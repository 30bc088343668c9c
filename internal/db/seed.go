package db

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/shopscribe/shopscribe-backend/internal/pkg/logger"
	"github.com/shopscribe/shopscribe-backend/internal/types"
)

type seedFile struct {
	Products []seedProduct `yaml:"products"`
}

type seedProduct struct {
	Name     string  `yaml:"name"`
	Price    string  `yaml:"price"`
	Category string  `yaml:"category"`
	Quantity *int    `yaml:"quantity"`
	Image    string  `yaml:"image"`
}

// SeedProducts loads demo catalog entries from a YAML file and inserts them
// for the given owner, but only when that owner's catalog is empty.
func SeedProducts(gdb *gorm.DB, log *logger.Logger, path string, ownerID uuid.UUID) error {
	seedLog := log.With("component", "seed")
	if path == "" {
		return nil
	}

	var count int64
	if err := gdb.Model(&types.Product{}).Where("owner_id = ?", ownerID).Count(&count).Error; err != nil {
		return fmt.Errorf("seed: count products: %w", err)
	}
	if count > 0 {
		seedLog.Debug("Catalog not empty, skipping seed", "owner_id", ownerID.String())
		return nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("seed: read %s: %w", path, err)
	}
	var sf seedFile
	if err := yaml.Unmarshal(raw, &sf); err != nil {
		return fmt.Errorf("seed: parse %s: %w", path, err)
	}
	if len(sf.Products) == 0 {
		return nil
	}

	products := make([]*types.Product, 0, len(sf.Products))
	for _, sp := range sf.Products {
		price, err := decimal.NewFromString(sp.Price)
		if err != nil {
			return fmt.Errorf("seed: bad price %q for %q: %w", sp.Price, sp.Name, err)
		}
		products = append(products, &types.Product{
			ID:       uuid.New(),
			OwnerID:  ownerID,
			Name:     sp.Name,
			Price:    price,
			Category: sp.Category,
			Quantity: sp.Quantity,
			ImageURL: sp.Image,
		})
	}

	if err := gdb.Create(&products).Error; err != nil {
		return fmt.Errorf("seed: insert products: %w", err)
	}
	seedLog.Info("Seeded demo products", "count", len(products))
	return nil
}
