package service

import (
	"context"
	"time"

	"github.com/bazarpos/ventas-api/internal/domain/entity"
	"github.com/bazarpos/ventas-api/internal/domain/enum"
	"github.com/bazarpos/ventas-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// ReportService builds sale summaries out of committed sales
type ReportService struct {
	dayRepo  repository.DayRepository
	saleRepo repository.SaleRepository
	loc      *time.Location
}

// NewReportService creates a new report service
func NewReportService(dayRepo repository.DayRepository, saleRepo repository.SaleRepository, loc *time.Location) *ReportService {
	return &ReportService{dayRepo: dayRepo, saleRepo: saleRepo, loc: loc}
}

// DailySummary aggregates one calendar day's committed sales
type DailySummary struct {
	Date         time.Time       `json:"date"`
	DayState     *enum.DayState  `json:"day_state,omitempty"`
	SaleCount    int             `json:"sale_count"`
	ReceiptCount int             `json:"receipt_count"`
	InvoiceCount int             `json:"invoice_count"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	Tax          decimal.Decimal `json:"tax"`
	Total        decimal.Decimal `json:"total"`
	Sales        []entity.Sale   `json:"sales"`
}

// Daily summarizes the sales of the given date. A date with no day
// record yields an empty summary rather than an error.
func (s *ReportService) Daily(ctx context.Context, date time.Time) (*DailySummary, error) {
	date = entity.DateOf(date.In(s.loc))
	summary := &DailySummary{
		Date:     date,
		Subtotal: decimal.Zero,
		Tax:      decimal.Zero,
		Total:    decimal.Zero,
		Sales:    []entity.Sale{},
	}

	day, err := s.dayRepo.GetByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	if day == nil {
		return summary, nil
	}
	summary.DayState = &day.State

	sales, err := s.saleRepo.ListByDay(ctx, day.ID)
	if err != nil {
		return nil, err
	}

	for _, sale := range sales {
		summary.SaleCount++
		switch sale.DocumentType {
		case enum.DocumentTypeReceipt:
			summary.ReceiptCount++
		case enum.DocumentTypeInvoice:
			summary.InvoiceCount++
		}
		summary.Subtotal = summary.Subtotal.Add(sale.Subtotal)
		summary.Tax = summary.Tax.Add(sale.Tax)
		summary.Total = summary.Total.Add(sale.Total)
	}
	summary.Sales = sales

	return summary, nil
}
