package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shopscribe/shopscribe-backend/internal/requestdata"
	"github.com/shopscribe/shopscribe-backend/internal/services"
)

const maxLogoBytes = 5 << 20

type ShopHandler struct {
	shopService services.ShopService
}

func NewShopHandler(shopService services.ShopService) *ShopHandler {
	return &ShopHandler{shopService: shopService}
}

func (sh *ShopHandler) Get(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())

	shop, err := sh.shopService.GetShop(c.Request.Context(), rd.UserID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, shop)
}

func (sh *ShopHandler) Save(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())

	var req struct {
		Name    string `json:"name"`
		Phone   string `json:"phone"`
		Address string `json:"address"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "validation", errInvalidBody)
		return
	}
	shop, err := sh.shopService.SaveShop(c.Request.Context(), rd.UserID, services.ShopProfile{
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, shop)
}

func (sh *ShopHandler) UploadLogo(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())

	file, _, err := c.Request.FormFile("logo")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "validation", errInvalidBody)
		return
	}
	defer file.Close()

	raw, err := io.ReadAll(io.LimitReader(file, maxLogoBytes+1))
	if err != nil || len(raw) > maxLogoBytes {
		RespondError(c, http.StatusBadRequest, "validation", errLogoTooLarge)
		return
	}

	shop, err := sh.shopService.UploadLogo(c.Request.Context(), rd.UserID, raw)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, shop)
}
