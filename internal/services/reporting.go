package services

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/shopscribe/shopscribe-backend/internal/domain/pos"
	"github.com/shopscribe/shopscribe-backend/internal/pkg/logger"
	"github.com/shopscribe/shopscribe-backend/internal/repos"
	"github.com/shopscribe/shopscribe-backend/internal/types"
)

// DashboardSummary is the at-a-glance view for the store owner.
type DashboardSummary struct {
	TotalSales       decimal.Decimal  `json:"total_sales"`
	TodaySales       decimal.Decimal  `json:"today_sales"`
	TransactionCount int              `json:"transaction_count"`
	ProductCount     int              `json:"product_count"`
	LowStockProducts []*types.Product `json:"low_stock_products"`
}

// DailySales is one day's aggregated revenue, for charting.
type DailySales struct {
	Day   string          `json:"day"`
	Sales decimal.Decimal `json:"sales"`
	Count int             `json:"count"`
}

type DashboardService interface {
	Summary(ctx context.Context, ownerID uuid.UUID) (*DashboardSummary, error)
	SalesByDay(ctx context.Context, ownerID uuid.UUID, days int) ([]DailySales, error)
	RecentReceipts(ctx context.Context, ownerID uuid.UUID, limit int) ([]*types.Receipt, error)
}

type dashboardService struct {
	log         *logger.Logger
	productRepo repos.ProductRepo
	receiptRepo repos.ReceiptRepo
	now         func() time.Time
}

func NewDashboardService(log *logger.Logger, productRepo repos.ProductRepo, receiptRepo repos.ReceiptRepo) DashboardService {
	serviceLog := log.With("service", "DashboardService")
	return &dashboardService{
		log:         serviceLog,
		productRepo: productRepo,
		receiptRepo: receiptRepo,
		now:         time.Now,
	}
}

func (ds *dashboardService) Summary(ctx context.Context, ownerID uuid.UUID) (*DashboardSummary, error) {
	if ownerID == uuid.Nil {
		return nil, pos.NewError(pos.CodeValidation, "dashboard.summary", "owner id is required", nil)
	}

	var (
		receipts []*types.Receipt
		products []*types.Product
		lowStock []*types.Product
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		receipts, err = ds.receiptRepo.ListByOwner(gctx, nil, ownerID)
		return err
	})
	g.Go(func() error {
		var err error
		products, err = ds.productRepo.ListByOwner(gctx, nil, ownerID, false)
		return err
	})
	g.Go(func() error {
		var err error
		lowStock, err = ds.productRepo.ListLowStock(gctx, nil, ownerID, DefaultLowStockThreshold)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, pos.NewError(pos.CodeInternal, "dashboard.summary", "failed to load dashboard data", err)
	}

	summary := &DashboardSummary{
		TotalSales:       decimal.Zero,
		TodaySales:       decimal.Zero,
		TransactionCount: len(receipts),
		ProductCount:     len(products),
		LowStockProducts: lowStock,
	}

	todayStart := startOfDay(ds.now())
	for _, r := range receipts {
		summary.TotalSales = summary.TotalSales.Add(r.Total)
		if !r.CreatedAt.Before(todayStart) {
			summary.TodaySales = summary.TodaySales.Add(r.Total)
		}
	}
	return summary, nil
}

func (ds *dashboardService) SalesByDay(ctx context.Context, ownerID uuid.UUID, days int) ([]DailySales, error) {
	if ownerID == uuid.Nil {
		return nil, pos.NewError(pos.CodeValidation, "dashboard.sales_by_day", "owner id is required", nil)
	}
	if days <= 0 {
		days = 7
	}

	since := startOfDay(ds.now()).AddDate(0, 0, -(days - 1))
	receipts, err := ds.receiptRepo.ListByOwnerSince(ctx, nil, ownerID, since)
	if err != nil {
		return nil, pos.NewError(pos.CodeInternal, "dashboard.sales_by_day", "failed to load receipts", err)
	}

	byDay := make(map[string]*DailySales, days)
	for _, r := range receipts {
		day := r.CreatedAt.Local().Format("2006-01-02")
		entry, ok := byDay[day]
		if !ok {
			entry = &DailySales{Day: day, Sales: decimal.Zero}
			byDay[day] = entry
		}
		entry.Sales = entry.Sales.Add(r.Total)
		entry.Count++
	}

	// Every day in the window appears, zero-filled, so charts have no gaps.
	results := make([]DailySales, 0, days)
	for i := 0; i < days; i++ {
		day := since.AddDate(0, 0, i).Format("2006-01-02")
		if entry, ok := byDay[day]; ok {
			results = append(results, *entry)
		} else {
			results = append(results, DailySales{Day: day, Sales: decimal.Zero})
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Day < results[j].Day })
	return results, nil
}

func (ds *dashboardService) RecentReceipts(ctx context.Context, ownerID uuid.UUID, limit int) ([]*types.Receipt, error) {
	if ownerID == uuid.Nil {
		return nil, pos.NewError(pos.CodeValidation, "dashboard.recent_receipts", "owner id is required", nil)
	}
	receipts, err := ds.receiptRepo.ListRecent(ctx, nil, ownerID, limit)
	if err != nil {
		return nil, pos.NewError(pos.CodeInternal, "dashboard.recent_receipts", "failed to load receipts", err)
	}
	return receipts, nil
}

func startOfDay(t time.Time) time.Time {
	t = t.Local()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
