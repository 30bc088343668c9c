package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shopscribe/shopscribe-backend/internal/requestdata"
	"github.com/shopscribe/shopscribe-backend/internal/services"
)

type CartHandler struct {
	cartService services.CartService
}

func NewCartHandler(cartService services.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

func (ch *CartHandler) Get(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())

	cart, err := ch.cartService.Get(c.Request.Context(), rd.UserID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, cart)
}

func (ch *CartHandler) AddItem(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())

	var req struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "validation", errInvalidBody)
		return
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "validation", errInvalidID)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	cart, err := ch.cartService.AddItem(c.Request.Context(), rd.UserID, productID, req.Quantity)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, cart)
}

func (ch *CartHandler) SetQuantity(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())

	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "validation", errInvalidID)
		return
	}
	var req struct {
		Quantity *int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Quantity == nil {
		RespondError(c, http.StatusBadRequest, "validation", errInvalidQuantity)
		return
	}

	cart, err := ch.cartService.SetQuantity(c.Request.Context(), rd.UserID, productID, *req.Quantity)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, cart)
}

func (ch *CartHandler) RemoveItem(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())

	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "validation", errInvalidID)
		return
	}
	cart, err := ch.cartService.RemoveItem(c.Request.Context(), rd.UserID, productID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, cart)
}

func (ch *CartHandler) Clear(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())

	if err := ch.cartService.Clear(c.Request.Context(), rd.UserID); err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"success": true})
}

func (ch *CartHandler) Checkout(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())

	var req struct {
		CustomerName  string `json:"customer_name"`
		CustomerPhone string `json:"customer_phone"`
	}
	// Body is optional: walk-in sales carry no customer info.
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			RespondError(c, http.StatusBadRequest, "validation", errInvalidBody)
			return
		}
	}

	result, err := ch.cartService.Checkout(c.Request.Context(), rd.UserID, services.CustomerInfo{
		Name:  req.CustomerName,
		Phone: req.CustomerPhone,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondCreated(c, gin.H{"receipt": result.Receipt})
}
