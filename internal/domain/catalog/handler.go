package catalog

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ayurcare/hms/internal/platform/auth"
	"github.com/ayurcare/hms/pkg/apperr"
	"github.com/ayurcare/hms/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	cat := g.Group("/catalog")
	cat.GET("/procedures", h.SearchProcedures)
	cat.POST("/procedures", h.CreateProcedure, auth.RequireRole("admin"))
	cat.GET("/medications", h.SearchMedications)
	cat.POST("/medications", h.CreateMedication, auth.RequireRole("admin"))
}

func (h *Handler) CreateProcedure(c echo.Context) error {
	var p Procedure
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := h.svc.CreateProcedure(c.Request().Context(), &p); err != nil {
		return echo.NewHTTPError(apperr.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) SearchProcedures(c echo.Context) error {
	p := pagination.FromContext(c)
	procedures, total, err := h.svc.SearchProcedures(c.Request().Context(), c.QueryParam("q"), p.Limit, p.Offset)
	if err != nil {
		return echo.NewHTTPError(apperr.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(procedures, total, p.Limit, p.Offset))
}

func (h *Handler) CreateMedication(c echo.Context) error {
	var m Medication
	if err := c.Bind(&m); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := h.svc.CreateMedication(c.Request().Context(), &m); err != nil {
		return echo.NewHTTPError(apperr.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusCreated, m)
}

func (h *Handler) SearchMedications(c echo.Context) error {
	p := pagination.FromContext(c)
	medications, total, err := h.svc.SearchMedications(c.Request().Context(), c.QueryParam("q"), p.Limit, p.Offset)
	if err != nil {
		return echo.NewHTTPError(apperr.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(medications, total, p.Limit, p.Offset))
}
