package authorization

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

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
	g.GET("/authorizations", h.List)
	g.POST("/authorizations", h.Create)
	g.GET("/authorizations/:id", h.Get)
	g.PUT("/authorizations/:id", h.Update)
	g.DELETE("/authorizations/:id", h.Delete)
	g.POST("/authorizations/:id/usage", h.RecordUsage)
}

func queryFromContext(c echo.Context) Query {
	return Query{
		Search:   c.QueryParam("search"),
		Status:   c.QueryParam("status"),
		ClientID: c.QueryParam("client_id"),
		Sort: listquery.SortFromParams(c.QueryParam("sort"), c.QueryParam("dir"), c.QueryParam("toggle")),
	}
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
		return echo.NewHTTPError(http.StatusBadRequest, "invalid authorization id")
	}
	a, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) Create(c echo.Context) error {
	var a Authorization
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
		return echo.NewHTTPError(http.StatusBadRequest, "invalid authorization id")
	}
	var a Authorization
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
		return echo.NewHTTPError(http.StatusBadRequest, "invalid authorization id")
	}
	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return mapError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) RecordUsage(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid authorization id")
	}
	var body struct {
		Units int `json:"units"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := h.service.RecordUsage(c.Request().Context(), id, body.Units); err != nil {
		return mapError(err)
	}
	a, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, a)
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
		return echo.NewHTTPError(http.StatusNotFound, "authorization not found")
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
