package appointment

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sirena/sirena/internal/platform/export"
	"github.com/sirena/sirena/pkg/fielderr"
	"github.com/sirena/sirena/pkg/listquery"
	"github.com/sirena/sirena/pkg/pagination"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/appointments", h.List)
	g.POST("/appointments", h.Create)
	g.GET("/appointments/export", h.Export)
	g.GET("/appointments/:id", h.Get)
	g.PUT("/appointments/:id", h.Update)
	g.DELETE("/appointments/:id", h.Delete)
	g.PUT("/appointments/:id/status", h.UpdateStatus)
	g.PUT("/appointments/:id/reschedule", h.Reschedule)
}

func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	return &t
}

func queryFromContext(c echo.Context) Query {
	q := Query{
		Search:      c.QueryParam("search"),
		Status:      c.QueryParam("status"),
		SessionType: c.QueryParam("session_type"),
		ProviderID:  c.QueryParam("provider_id"),
		ClientID:    c.QueryParam("client_id"),
		From:        parseDate(c.QueryParam("from")),
		Sort: listquery.SortFromParams(c.QueryParam("sort"), c.QueryParam("dir"), c.QueryParam("toggle")),
	}
	if to := parseDate(c.QueryParam("to")); to != nil {
		// make the upper bound inclusive of the whole day
		end := to.Add(24*time.Hour - time.Nanosecond)
		q.To = &end
	}
	return q
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, matched, storeTotal, err := h.service.Search(c.Request().Context(), queryFromContext(c), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, matched, storeTotal, pg.Limit, pg.Offset))
}

func (h *Handler) Get(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid appointment id")
	}
	a, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) Create(c echo.Context) error {
	var a Appointment
	if err := c.Bind(&a); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	created, err := h.service.Create(c.Request().Context(), &a)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *Handler) Update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid appointment id")
	}
	var a Appointment
	if err := c.Bind(&a); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	a.ID = id
	updated, err := h.service.Update(c.Request().Context(), &a)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid appointment id")
	}
	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return mapError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) UpdateStatus(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid appointment id")
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	a, err := h.service.UpdateStatus(c.Request().Context(), id, body.Status)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) Reschedule(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid appointment id")
	}
	var body struct {
		Start time.Time `json:"start"`
		End   time.Time `json:"end"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	a, err := h.service.Reschedule(c.Request().Context(), id, body.Start, body.End)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, a)
}

var exportHeader = []string{"id", "client", "provider", "session_type", "start", "end",
	"location", "cpt_code", "units", "status"}

func (h *Handler) Export(c echo.Context) error {
	items, _, _, err := h.service.Search(c.Request().Context(), queryFromContext(c), 0, 0)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	rows := make([][]string, 0, len(items))
	for _, a := range items {
		rows = append(rows, []string{
			strconv.FormatInt(a.ID, 10), a.ClientName, a.ProviderName, a.SessionType,
			a.Start.Format(time.RFC3339), a.End.Format(time.RFC3339),
			a.Location, a.CPTCode, fmt.Sprintf("%d", a.Units), a.Status,
		})
	}
	return export.WriteCSV(c, "appointments.csv", exportHeader, rows)
}

func mapError(err error) error {
	var fe fielderr.Errors
	if errors.As(err, &fe) {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]interface{}{
			"message": "validation failed",
			"fields":  fe,
		})
	}
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "appointment not found")
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
