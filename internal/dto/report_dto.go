package dto

import "github.com/shopspring/decimal"

// DailyReportRow is one per-day aggregate over sales, newest first.
type DailyReportRow struct {
	ReportDate     string          `json:"report_date"`
	OrderCount     int64           `json:"order_count"`
	TotalRevenue   decimal.Decimal `json:"total_revenue"`
	TotalDiscount  decimal.Decimal `json:"total_discount"`
	DebtAmount     decimal.Decimal `json:"debt_amount"`
	RefundedOrders int64           `json:"refunded_orders"`
}
