package auditevent

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sirena/sirena/internal/platform/export"
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
	g.GET("/audit-events", h.List)
	g.GET("/audit-events/export", h.Export)
	g.GET("/audit-events/:id", h.Get)
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
		Search:   c.QueryParam("search"),
		Action:   c.QueryParam("action"),
		Resource: c.QueryParam("resource"),
		UserID:   c.QueryParam("user_id"),
		From:     parseDate(c.QueryParam("from")),
		Sort: listquery.SortFromParams(c.QueryParam("sort"), c.QueryParam("dir"), c.QueryParam("toggle")),
	}
	if to := parseDate(c.QueryParam("to")); to != nil {
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
		return echo.NewHTTPError(http.StatusBadRequest, "invalid audit event id")
	}
	e, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "audit event not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, e)
}

var exportHeader = []string{"id", "occurred_at", "user", "action", "resource",
	"method", "path", "status", "ip_address", "request_id"}

func (h *Handler) Export(c echo.Context) error {
	items, _, _, err := h.service.Search(c.Request().Context(), queryFromContext(c), 0, 0)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	rows := make([][]string, 0, len(items))
	for _, e := range items {
		rows = append(rows, []string{
			strconv.FormatInt(e.ID, 10), e.OccurredAt.Format(time.RFC3339),
			e.UserName, e.Action, e.Resource, e.Method, e.Path,
			strconv.Itoa(e.StatusCode), e.IPAddress, e.RequestID,
		})
	}
	return export.WriteCSV(c, "audit_log.csv", exportHeader, rows)
}
