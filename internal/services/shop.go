package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/shopscribe/shopscribe-backend/internal/domain/pos"
	"github.com/shopscribe/shopscribe-backend/internal/pkg/logger"
	"github.com/shopscribe/shopscribe-backend/internal/repos"
	"github.com/shopscribe/shopscribe-backend/internal/types"
)

// ShopProfile is the editable part of the shop record.
type ShopProfile struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type ShopService interface {
	GetShop(ctx context.Context, ownerID uuid.UUID) (*types.Shop, error)
	SaveShop(ctx context.Context, ownerID uuid.UUID, profile ShopProfile) (*types.Shop, error)
	UploadLogo(ctx context.Context, ownerID uuid.UUID, raw []byte) (*types.Shop, error)
}

type shopService struct {
	log      *logger.Logger
	shopRepo repos.ShopRepo
	logos    LogoService
}

func NewShopService(log *logger.Logger, shopRepo repos.ShopRepo, logos LogoService) ShopService {
	serviceLog := log.With("service", "ShopService")
	return &shopService{
		log:      serviceLog,
		shopRepo: shopRepo,
		logos:    logos,
	}
}

func (ss *shopService) GetShop(ctx context.Context, ownerID uuid.UUID) (*types.Shop, error) {
	if ownerID == uuid.Nil {
		return nil, pos.NewError(pos.CodeValidation, "shop.get", "owner id is required", nil)
	}
	shop, err := ss.shopRepo.GetByOwnerID(ctx, nil, ownerID)
	if err != nil {
		return nil, pos.NewError(pos.CodeInternal, "shop.get", "failed to load shop", err)
	}
	if shop == nil {
		return nil, pos.NewError(pos.CodeNotFound, "shop.get", "shop profile not set up", nil)
	}
	return shop, nil
}

// SaveShop creates or updates the profile. A shop saved for the first time,
// or renamed, gets a freshly generated initials logo unless one was uploaded.
func (ss *shopService) SaveShop(ctx context.Context, ownerID uuid.UUID, profile ShopProfile) (*types.Shop, error) {
	if ownerID == uuid.Nil {
		return nil, pos.NewError(pos.CodeValidation, "shop.save", "owner id is required", nil)
	}
	profile.Name = strings.TrimSpace(profile.Name)
	if profile.Name == "" {
		return nil, pos.NewError(pos.CodeValidation, "shop.save", "shop name is required", nil)
	}

	existing, err := ss.shopRepo.GetByOwnerID(ctx, nil, ownerID)
	if err != nil {
		return nil, pos.NewError(pos.CodeInternal, "shop.save", "failed to load shop", err)
	}

	shop := &types.Shop{
		OwnerID: ownerID,
		Name:    profile.Name,
		Phone:   strings.TrimSpace(profile.Phone),
		Address: strings.TrimSpace(profile.Address),
	}

	regenerate := existing == nil || existing.Name != profile.Name
	uploaded := existing != nil && existing.LogoKey != "" && !strings.HasPrefix(existing.LogoKey, "shop_logo/generated/")
	if ss.logos != nil && regenerate && !uploaded {
		buf, err := ss.logos.GenerateShopLogo(profile.Name)
		if err != nil {
			ss.log.Warn("failed to generate shop logo (ignored)", "owner_id", ownerID.String(), "error", err)
		} else {
			key, url, err := ss.logos.SaveLogo("generated/"+ownerID.String(), buf)
			if err != nil {
				ss.log.Warn("failed to save shop logo (ignored)", "owner_id", ownerID.String(), "error", err)
			} else {
				shop.LogoKey = key
				shop.LogoURL = url
			}
		}
	}

	saved, err := ss.shopRepo.Upsert(ctx, nil, shop)
	if err != nil {
		return nil, pos.NewError(pos.CodeInternal, "shop.save", "failed to save shop", err)
	}

	if existing != nil && shop.LogoKey != "" && existing.LogoKey != "" && existing.LogoKey != shop.LogoKey {
		ss.logos.DeleteLogo(existing.LogoKey)
	}

	ss.log.Info("Shop profile saved", "owner_id", ownerID.String())
	return saved, nil
}

func (ss *shopService) UploadLogo(ctx context.Context, ownerID uuid.UUID, raw []byte) (*types.Shop, error) {
	if ownerID == uuid.Nil {
		return nil, pos.NewError(pos.CodeValidation, "shop.upload_logo", "owner id is required", nil)
	}
	if len(raw) == 0 {
		return nil, pos.NewError(pos.CodeValidation, "shop.upload_logo", "logo image is empty", nil)
	}
	if ss.logos == nil {
		return nil, pos.NewError(pos.CodeInternal, "shop.upload_logo", "logo storage is not configured", nil)
	}

	existing, err := ss.shopRepo.GetByOwnerID(ctx, nil, ownerID)
	if err != nil {
		return nil, pos.NewError(pos.CodeInternal, "shop.upload_logo", "failed to load shop", err)
	}
	if existing == nil {
		return nil, pos.NewError(pos.CodeNotFound, "shop.upload_logo", "shop profile not set up", nil)
	}

	processed, err := ss.logos.ProcessUploadedLogo(raw)
	if err != nil {
		return nil, pos.NewError(pos.CodeValidation, "shop.upload_logo", "could not decode logo image", nil)
	}

	oldKey := existing.LogoKey
	key, url, err := ss.logos.SaveLogo(ownerID.String(), processed)
	if err != nil {
		return nil, pos.NewError(pos.CodeInternal, "shop.upload_logo", "failed to store logo", err)
	}

	existing.LogoKey = key
	existing.LogoURL = url
	saved, err := ss.shopRepo.Upsert(ctx, nil, existing)
	if err != nil {
		return nil, pos.NewError(pos.CodeInternal, "shop.upload_logo", "failed to save shop", err)
	}

	if oldKey != "" && oldKey != key {
		ss.logos.DeleteLogo(oldKey)
	}
	return saved, nil
}
