package reporting

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sirena/sirena/internal/platform/export"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/reports/authorization-usage", h.AuthorizationUsage)
	g.GET("/reports/authorization-usage/export", h.AuthorizationUsageExport)
	g.GET("/reports/missing-notes", h.MissingNotes)
	g.GET("/reports/missing-notes/export", h.MissingNotesExport)
}

func (h *Handler) AuthorizationUsage(c echo.Context) error {
	report, err := h.service.AuthorizationUsageReport(c.Request().Context(), time.Now())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, report)
}

var usageHeader = []string{"authorization_id", "client", "payer", "auth_number", "cpt_code",
	"used_units", "total_units", "remaining_units", "percent_used", "end_date", "expires_soon", "status"}

func (h *Handler) AuthorizationUsageExport(c echo.Context) error {
	now := time.Now()
	report, err := h.service.AuthorizationUsageReport(c.Request().Context(), now)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	rows := make([][]string, 0, len(report))
	for _, r := range report {
		rows = append(rows, []string{
			strconv.FormatInt(r.AuthorizationID, 10), r.ClientName, r.PayerName,
			r.AuthNumber, r.CPTCode,
			strconv.Itoa(r.UsedUnits), strconv.Itoa(r.TotalUnits), strconv.Itoa(r.RemainingUnits),
			strconv.Itoa(r.PercentUsed), r.EndDate.Format("2006-01-02"),
			strconv.FormatBool(r.ExpiresSoon), r.Status,
		})
	}
	filename := "authorization_report_" + now.Format("2006-01-02") + ".csv"
	return export.WriteCSV(c, filename, usageHeader, rows)
}

func (h *Handler) MissingNotes(c echo.Context) error {
	report, err := h.service.MissingNotesReport(c.Request().Context(), time.Now())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, report)
}

var missingHeader = []string{"appointment_id", "client", "provider", "session_type", "start", "days_overdue"}

func (h *Handler) MissingNotesExport(c echo.Context) error {
	now := time.Now()
	report, err := h.service.MissingNotesReport(c.Request().Context(), now)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	rows := make([][]string, 0, len(report))
	for _, r := range report {
		rows = append(rows, []string{
			strconv.FormatInt(r.AppointmentID, 10), r.ClientName, r.ProviderName,
			r.SessionType, r.Start.Format(time.RFC3339), strconv.Itoa(r.DaysOverdue),
		})
	}
	filename := "missing_notes_" + now.Format("2006-01-02") + ".csv"
	return export.WriteCSV(c, filename, missingHeader, rows)
}
