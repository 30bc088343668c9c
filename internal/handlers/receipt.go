package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shopscribe/shopscribe-backend/internal/requestdata"
	"github.com/shopscribe/shopscribe-backend/internal/services"
)

type ReceiptHandler struct {
	receiptService services.ReceiptService
}

func NewReceiptHandler(receiptService services.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{receiptService: receiptService}
}

func (rh *ReceiptHandler) List(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())

	receipts, err := rh.receiptService.ListReceipts(c.Request.Context(), rd.UserID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"receipts": receipts})
}

func (rh *ReceiptHandler) Get(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())

	receiptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "validation", errInvalidID)
		return
	}
	receipt, err := rh.receiptService.GetReceipt(c.Request.Context(), rd.UserID, receiptID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, receipt)
}

func (rh *ReceiptHandler) Delete(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())

	receiptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "validation", errInvalidID)
		return
	}
	if err := rh.receiptService.DeleteReceipt(c.Request.Context(), rd.UserID, receiptID); err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"success": true})
}
