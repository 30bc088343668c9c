package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopscribe/shopscribe-backend/internal/requestdata"
	"github.com/shopscribe/shopscribe-backend/internal/services"
)

type ProductHandler struct {
	catalogService services.CatalogService
}

func NewProductHandler(catalogService services.CatalogService) *ProductHandler {
	return &ProductHandler{catalogService: catalogService}
}

type productRequest struct {
	Name     string  `json:"name"`
	Price    string  `json:"price"`
	Category string  `json:"category"`
	Quantity *int    `json:"quantity"`
	ImageURL *string `json:"image_url"`
}

func (ph *ProductHandler) Create(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())

	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "validation", errInvalidBody)
		return
	}
	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "validation", errInvalidPrice)
		return
	}

	in := services.NewProduct{
		Name:     req.Name,
		Price:    price,
		Category: req.Category,
		Quantity: req.Quantity,
	}
	if req.ImageURL != nil {
		in.ImageURL = *req.ImageURL
	}
	product, err := ph.catalogService.AddProduct(c.Request.Context(), rd.UserID, in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondCreated(c, product)
}

func (ph *ProductHandler) Update(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "validation", errInvalidID)
		return
	}

	var req struct {
		Name         *string `json:"name"`
		Price        *string `json:"price"`
		Category     *string `json:"category"`
		Quantity     *int    `json:"quantity"`
		UntrackStock bool    `json:"untrack_stock"`
		ImageURL     *string `json:"image_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "validation", errInvalidBody)
		return
	}

	in := services.ProductUpdate{
		Name:         req.Name,
		Category:     req.Category,
		Quantity:     req.Quantity,
		UntrackStock: req.UntrackStock,
		ImageURL:     req.ImageURL,
	}
	if req.Price != nil {
		price, err := decimal.NewFromString(*req.Price)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "validation", errInvalidPrice)
			return
		}
		in.Price = &price
	}

	product, err := ph.catalogService.UpdateProduct(c.Request.Context(), rd.UserID, productID, in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, product)
}

func (ph *ProductHandler) Delete(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "validation", errInvalidID)
		return
	}
	if err := ph.catalogService.RemoveProduct(c.Request.Context(), rd.UserID, productID); err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"success": true})
}

func (ph *ProductHandler) Get(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "validation", errInvalidID)
		return
	}
	product, err := ph.catalogService.GetProduct(c.Request.Context(), rd.UserID, productID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, product)
}

func (ph *ProductHandler) List(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())

	sortByName := c.DefaultQuery("sort", "name") == "name"
	products, err := ph.catalogService.ListProducts(c.Request.Context(), rd.UserID, sortByName)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"products": products})
}

func (ph *ProductHandler) ListLowStock(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())

	threshold := services.DefaultLowStockThreshold
	if raw := c.Query("threshold"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			RespondError(c, http.StatusBadRequest, "validation", errInvalidThreshold)
			return
		}
		threshold = parsed
	}
	products, err := ph.catalogService.ListLowStock(c.Request.Context(), rd.UserID, threshold)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"products": products})
}
