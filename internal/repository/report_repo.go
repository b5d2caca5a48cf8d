package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DailyReportRow is one aggregated sales day.
type DailyReportRow struct {
	ReportDate     time.Time       `gorm:"column:report_date"`
	OrderCount     int64           `gorm:"column:order_count"`
	TotalRevenue   decimal.Decimal `gorm:"column:total_revenue"`
	TotalDiscount  decimal.Decimal `gorm:"column:total_discount"`
	DebtAmount     decimal.Decimal `gorm:"column:debt_amount"`
	RefundedOrders int64           `gorm:"column:refunded_orders"`
}

// ReportRepository runs read-only aggregate queries over sales.
type ReportRepository interface {
	Daily(ctx context.Context, from, to time.Time) ([]DailyReportRow, error)
}

type reportRepo struct{ db *gorm.DB }

func NewReportRepository(db *gorm.DB) ReportRepository { return &reportRepo{db: db} }

func (r *reportRepo) Daily(ctx context.Context, from, to time.Time) ([]DailyReportRow, error) {
	var rows []DailyReportRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT DATE(created_at)                                                    AS report_date,
		       COUNT(*)                                                            AS order_count,
		       COALESCE(SUM(final_amount), 0)                                      AS total_revenue,
		       COALESCE(SUM(discount_amount), 0)                                   AS total_discount,
		       COALESCE(SUM(final_amount) FILTER (WHERE payment_method = 'debt'), 0) AS debt_amount,
		       COUNT(*) FILTER (WHERE refunded_at IS NOT NULL)                     AS refunded_orders
		FROM sales
		WHERE created_at >= ? AND created_at < ?
		GROUP BY DATE(created_at)
		ORDER BY report_date DESC`, from, to).
		Scan(&rows).Error
	return rows, err
}
