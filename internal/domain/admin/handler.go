package admin

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sirena/sirena/internal/platform/auth"
	"github.com/sirena/sirena/pkg/fielderr"
	"github.com/sirena/sirena/pkg/listquery"
	"github.com/sirena/sirena/pkg/pagination"
)

type Handler struct {
	service *Service
	issuer  *auth.TokenIssuer
}

func NewHandler(service *Service, issuer *auth.TokenIssuer) *Handler {
	return &Handler{service: service, issuer: issuer}
}

// RegisterRoutes mounts user management under the admin role gate and the
// login endpoint on the open group.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	users := g.Group("/admin/users", auth.RequireRole(auth.RoleAdmin))
	users.GET("", h.List)
	users.POST("", h.Create)
	users.GET("/:id", h.Get)
	users.PUT("/:id", h.Update)
	users.PUT("/:id/deactivate", h.Deactivate)
	users.DELETE("/:id", h.Delete)

	g.POST("/auth/login", h.Login)
}

type userRequest struct {
	Email       string `json:"email"`
	Name        string `json:"name"`
	Role        string `json:"role"`
	Credentials string `json:"credentials"`
	Password    string `json:"password"`
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	q := Query{
		Search: c.QueryParam("search"),
		Role:   c.QueryParam("role"),
		Sort: listquery.SortFromParams(c.QueryParam("sort"), c.QueryParam("dir"), c.QueryParam("toggle")),
	}
	items, matched, storeTotal, err := h.service.Search(c.Request().Context(), q, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, matched, storeTotal, pg.Limit, pg.Offset))
}

func (h *Handler) Get(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}
	u, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, u)
}

func (h *Handler) Create(c echo.Context) error {
	var req userRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	u := &User{Email: req.Email, Name: req.Name, Role: req.Role, Credentials: req.Credentials}
	created, err := h.service.Create(c.Request().Context(), u, req.Password)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *Handler) Update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}
	var req userRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	u := &User{ID: id, Email: req.Email, Name: req.Name, Role: req.Role, Credentials: req.Credentials, Active: true}
	updated, err := h.service.Update(c.Request().Context(), u, req.Password)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *Handler) Deactivate(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}
	u, err := h.service.Deactivate(c.Request().Context(), id)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, u)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}
	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return mapError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      *User     `json:"user"`
}

func (h *Handler) Login(c echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	u, err := h.service.Authenticate(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, ErrBadCredentials.Error())
	}
	token, expiresAt, err := h.issuer.Issue(u.SubjectID(), u.Name, []string{u.Role})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not issue token")
	}
	return c.JSON(http.StatusOK, loginResponse{Token: token, ExpiresAt: expiresAt, User: u})
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
		return echo.NewHTTPError(http.StatusNotFound, "user not found")
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
