package service

import (
	"context"
	"time"

	"github.com/lecongphu/quan-ly-tap-hoa/internal/dto"
	"github.com/lecongphu/quan-ly-tap-hoa/internal/repository"
)

// ReportService runs read-only aggregates. It never mutates balances or
// stock; every figure is recomputed from the sales table on each call.
type ReportService interface {
	Daily(ctx context.Context, dateFrom, dateTo string) ([]dto.DailyReportRow, error)
}

type reportService struct {
	repo repository.ReportRepository
}

func NewReportService(repo repository.ReportRepository) ReportService {
	return &reportService{repo: repo}
}

func (s *reportService) Daily(ctx context.Context, dateFrom, dateTo string) ([]dto.DailyReportRow, error) {
	// Default window: the last 30 days.
	to := time.Now().AddDate(0, 0, 1).Truncate(24 * time.Hour)
	from := to.AddDate(0, 0, -31)
	if dateFrom != "" {
		if t, err := time.Parse("2006-01-02", dateFrom); err == nil {
			from = t
		}
	}
	if dateTo != "" {
		if t, err := time.Parse("2006-01-02", dateTo); err == nil {
			to = t.AddDate(0, 0, 1)
		}
	}

	rows, err := s.repo.Daily(ctx, from, to)
	if err != nil {
		return nil, err
	}
	out := make([]dto.DailyReportRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, dto.DailyReportRow{
			ReportDate:     row.ReportDate.Format("2006-01-02"),
			OrderCount:     row.OrderCount,
			TotalRevenue:   row.TotalRevenue,
			TotalDiscount:  row.TotalDiscount,
			DebtAmount:     row.DebtAmount,
			RefundedOrders: row.RefundedOrders,
		})
	}
	return out, nil
}
