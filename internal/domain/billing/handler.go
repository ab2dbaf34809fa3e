package billing

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sirena/sirena/internal/platform/auth"
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
	b := g.Group("/billing", auth.RequireRole(auth.RoleBilling, auth.RoleAdmin))
	b.GET("/invoices", h.List)
	b.POST("/invoices", h.Create)
	b.GET("/invoices/export", h.Export)
	b.GET("/invoices/:id", h.Get)
	b.PUT("/invoices/:id", h.Update)
	b.DELETE("/invoices/:id", h.Delete)
	b.PUT("/invoices/:id/status", h.UpdateStatus)
	b.POST("/invoices/:id/payments", h.RecordPayment)
	b.GET("/invoices/:id/payments", h.Payments)
	b.GET("/invoices/:id/document", h.Document)

	b.GET("/claims", h.ListClaims)
	b.POST("/claims", h.CreateClaim)
	b.GET("/claims/export", h.ExportClaims)
	b.GET("/claims/:id", h.GetClaim)
	b.PUT("/claims/:id", h.UpdateClaim)
	b.DELETE("/claims/:id", h.DeleteClaim)
	b.PUT("/claims/:id/status", h.UpdateClaimStatus)
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
		Status:   c.QueryParam("status"),
		ClientID: c.QueryParam("client_id"),
		From:     parseDate(c.QueryParam("from")),
		Sort: listquery.SortFromParams(c.QueryParam("sort"), c.QueryParam("dir"), c.QueryParam("toggle")),
	}
	if to := parseDate(c.QueryParam("to")); to != nil {
		end := to.Add(24*time.Hour - time.Nanosecond)
		q.To = &end
	}
	return q
}

func invoiceID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid invoice id")
	}
	return id, nil
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
	id, err := invoiceID(c)
	if err != nil {
		return err
	}
	inv, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, inv)
}

func (h *Handler) Create(c echo.Context) error {
	var inv Invoice
	if err := c.Bind(&inv); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	created, err := h.service.Create(c.Request().Context(), &inv)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *Handler) Update(c echo.Context) error {
	id, err := invoiceID(c)
	if err != nil {
		return err
	}
	var inv Invoice
	if err := c.Bind(&inv); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	inv.ID = id
	updated, err := h.service.Update(c.Request().Context(), &inv)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := invoiceID(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return mapError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) UpdateStatus(c echo.Context) error {
	id, err := invoiceID(c)
	if err != nil {
		return err
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	inv, err := h.service.UpdateStatus(c.Request().Context(), id, body.Status)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, inv)
}

func (h *Handler) RecordPayment(c echo.Context) error {
	id, err := invoiceID(c)
	if err != nil {
		return err
	}
	var p Payment
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	inv, err := h.service.RecordPayment(c.Request().Context(), id, &p)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, inv)
}

func (h *Handler) Payments(c echo.Context) error {
	id, err := invoiceID(c)
	if err != nil {
		return err
	}
	payments, err := h.service.Payments(c.Request().Context(), id)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, payments)
}

func (h *Handler) Document(c echo.Context) error {
	id, err := invoiceID(c)
	if err != nil {
		return err
	}
	inv, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return mapError(err)
	}
	payments, err := h.service.Payments(c.Request().Context(), id)
	if err != nil {
		return mapError(err)
	}
	return export.WriteText(c, fmt.Sprintf("invoice_%d.txt", inv.ID), inv.Document(payments))
}

var exportHeader = []string{"id", "client", "service_date", "cpt_code", "units",
	"payer", "claim_number", "total", "paid", "balance", "status"}

func (h *Handler) Export(c echo.Context) error {
	items, _, _, err := h.service.Search(c.Request().Context(), queryFromContext(c), 0, 0)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	rows := make([][]string, 0, len(items))
	for _, inv := range items {
		rows = append(rows, []string{
			strconv.FormatInt(inv.ID, 10), inv.ClientName,
			inv.ServiceDate.Format("2006-01-02"), inv.CPTCode, strconv.Itoa(inv.Units),
			inv.PayerName, inv.ClaimNumber,
			Dollars(inv.TotalCents), Dollars(inv.PaidCents), Dollars(inv.BalanceCents()),
			inv.Status,
		})
	}
	return export.WriteCSV(c, "invoices.csv", exportHeader, rows)
}

func claimQueryFromContext(c echo.Context) ClaimQuery {
	return ClaimQuery{
		Search:   c.QueryParam("search"),
		Status:   c.QueryParam("status"),
		ClientID: c.QueryParam("client_id"),
		Sort:     listquery.SortFromParams(c.QueryParam("sort"), c.QueryParam("dir"), c.QueryParam("toggle")),
	}
}

func claimID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid claim id")
	}
	return id, nil
}

func (h *Handler) ListClaims(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, matched, storeTotal, err := h.service.SearchClaims(c.Request().Context(), claimQueryFromContext(c), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, matched, storeTotal, pg.Limit, pg.Offset))
}

func (h *Handler) GetClaim(c echo.Context) error {
	id, err := claimID(c)
	if err != nil {
		return err
	}
	cl, err := h.service.GetClaim(c.Request().Context(), id)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, cl)
}

func (h *Handler) CreateClaim(c echo.Context) error {
	var cl Claim
	if err := c.Bind(&cl); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	created, err := h.service.CreateClaim(c.Request().Context(), &cl)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *Handler) UpdateClaim(c echo.Context) error {
	id, err := claimID(c)
	if err != nil {
		return err
	}
	var cl Claim
	if err := c.Bind(&cl); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	cl.ID = id
	updated, err := h.service.UpdateClaim(c.Request().Context(), &cl)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *Handler) DeleteClaim(c echo.Context) error {
	id, err := claimID(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteClaim(c.Request().Context(), id); err != nil {
		return mapError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) UpdateClaimStatus(c echo.Context) error {
	id, err := claimID(c)
	if err != nil {
		return err
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	cl, err := h.service.UpdateClaimStatus(c.Request().Context(), id, body.Status)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, cl)
}

var claimExportHeader = []string{"id", "claim_number", "client", "payer",
	"cpt_code", "units", "amount", "status", "submitted_at"}

func (h *Handler) ExportClaims(c echo.Context) error {
	items, _, _, err := h.service.SearchClaims(c.Request().Context(), claimQueryFromContext(c), 0, 0)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	rows := make([][]string, 0, len(items))
	for _, cl := range items {
		submitted := ""
		if cl.SubmittedAt != nil {
			submitted = cl.SubmittedAt.Format("2006-01-02")
		}
		rows = append(rows, []string{
			strconv.FormatInt(cl.ID, 10), cl.ClaimNumber, cl.ClientName, cl.PayerName,
			cl.CPTCode, strconv.Itoa(cl.Units), Dollars(cl.AmountCents), cl.Status, submitted,
		})
	}
	return export.WriteCSV(c, "claims.csv", claimExportHeader, rows)
}

func mapError(err error) error {
	var fe fielderr.Errors
	if errors.As(err, &fe) {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]interface{}{
			"message": "validation failed",
			"fields":  fe,
		})
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "invoice not found")
	case errors.Is(err, ErrClaimNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "claim not found")
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
