package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/shopscribe/shopscribe-backend/internal/requestdata"
	"github.com/shopscribe/shopscribe-backend/internal/services"
)

type DashboardHandler struct {
	dashboardService services.DashboardService
}

func NewDashboardHandler(dashboardService services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

func (dh *DashboardHandler) Summary(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())

	summary, err := dh.dashboardService.Summary(c.Request.Context(), rd.UserID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, summary)
}

func (dh *DashboardHandler) SalesByDay(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())

	days := 7
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 90 {
			RespondError(c, http.StatusBadRequest, "validation", errInvalidDays)
			return
		}
		days = parsed
	}
	sales, err := dh.dashboardService.SalesByDay(c.Request.Context(), rd.UserID, days)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"sales": sales})
}

func (dh *DashboardHandler) RecentReceipts(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())

	limit := 10
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 100 {
			RespondError(c, http.StatusBadRequest, "validation", errInvalidLimit)
			return
		}
		limit = parsed
	}
	receipts, err := dh.dashboardService.RecentReceipts(c.Request.Context(), rd.UserID, limit)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"receipts": receipts})
}
