package note

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
	g.GET("/notes", h.List)
	g.POST("/notes", h.Create)
	g.GET("/notes/:id", h.Get)
	g.DELETE("/notes/:id", h.Delete)
	g.PUT("/notes/:id/content", h.UpdateContent)
	g.PUT("/notes/:id/autosave", h.Autosave)
	g.POST("/notes/:id/autosave/flush", h.FlushAutosave)
	g.POST("/notes/:id/complete", h.Complete)
	g.POST("/notes/:id/sign", h.Sign)
	g.POST("/notes/:id/cosign-request", h.RequestCosign)
	g.GET("/notes/:id/document", h.Document)
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
		Search:     c.QueryParam("search"),
		Status:     c.QueryParam("status"),
		ProviderID: c.QueryParam("provider_id"),
		ClientID:   c.QueryParam("client_id"),
		From:       parseDate(c.QueryParam("from")),
		Sort: listquery.SortFromParams(c.QueryParam("sort"), c.QueryParam("dir"), c.QueryParam("toggle")),
	}
	if to := parseDate(c.QueryParam("to")); to != nil {
		end := to.Add(24*time.Hour - time.Nanosecond)
		q.To = &end
	}
	return q
}

func noteID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid note id")
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
	id, err := noteID(c)
	if err != nil {
		return err
	}
	n, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, n)
}

func (h *Handler) Create(c echo.Context) error {
	var n Note
	if err := c.Bind(&n); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	created, err := h.service.Create(c.Request().Context(), &n)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := noteID(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return mapError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) UpdateContent(c echo.Context) error {
	id, err := noteID(c)
	if err != nil {
		return err
	}
	var content Content
	if err := c.Bind(&content); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	n, err := h.service.UpdateContent(c.Request().Context(), id, content)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, n)
}

func (h *Handler) Autosave(c echo.Context) error {
	id, err := noteID(c)
	if err != nil {
		return err
	}
	var content Content
	if err := c.Bind(&content); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := h.service.Autosave(c.Request().Context(), id, content); err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusAccepted, map[string]string{"status": "scheduled"})
}

func (h *Handler) FlushAutosave(c echo.Context) error {
	id, err := noteID(c)
	if err != nil {
		return err
	}
	flushed := h.service.FlushAutosave(id)
	return c.JSON(http.StatusOK, map[string]bool{"flushed": flushed})
}

func (h *Handler) Complete(c echo.Context) error {
	id, err := noteID(c)
	if err != nil {
		return err
	}
	n, err := h.service.Complete(c.Request().Context(), id)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, n)
}

func (h *Handler) Sign(c echo.Context) error {
	id, err := noteID(c)
	if err != nil {
		return err
	}
	var body struct {
		SignedBy string `json:"signed_by"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if body.SignedBy == "" {
		body.SignedBy = auth.UserNameFromContext(c.Request().Context())
	}
	n, err := h.service.Sign(c.Request().Context(), id, body.SignedBy)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, n)
}

func (h *Handler) RequestCosign(c echo.Context) error {
	id, err := noteID(c)
	if err != nil {
		return err
	}
	var body struct {
		Cosigner string `json:"cosigner"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	requester := auth.UserNameFromContext(c.Request().Context())
	n, err := h.service.RequestCosign(c.Request().Context(), id, requester, body.Cosigner)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, n)
}

// Document downloads the note as a plaintext clinical document.
func (h *Handler) Document(c echo.Context) error {
	id, err := noteID(c)
	if err != nil {
		return err
	}
	n, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return mapError(err)
	}
	return export.WriteText(c, fmt.Sprintf("session_note_%d.txt", n.ID), n.Document())
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
		return echo.NewHTTPError(http.StatusNotFound, "note not found")
	case errors.Is(err, ErrSigned), errors.Is(err, ErrTransition):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
