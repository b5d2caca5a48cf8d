package handler

import (
	"net/http"

	"github.com/lecongphu/quan-ly-tap-hoa/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportsHandler struct{ svc service.ReportService }

func NewReportsHandler(svc service.ReportService) *ReportsHandler {
	return &ReportsHandler{svc: svc}
}

// Daily godoc
// @Summary      Daily revenue report
// @Description  Per-day aggregates over sales: order count, revenue, discount, debt amount and refund count. Defaults to the last 30 days.
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        dateFrom query string false "Start date (YYYY-MM-DD, inclusive)"
// @Param        dateTo   query string false "End date (YYYY-MM-DD, inclusive)"
// @Success      200 {array} dto.DailyReportRow
// @Failure      500 {object} apierror.APIError
// @Router       /reports/daily [get]
func (h *ReportsHandler) Daily(c *gin.Context) {
	rows, err := h.svc.Daily(c.Request.Context(), c.Query("dateFrom"), c.Query("dateTo"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}
