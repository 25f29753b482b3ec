package encounter

import (
	"net/http"
	"time"

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
	opd := g.Group("/opd-visits")
	opd.POST("", h.CreateOPDVisit, auth.RequireRole("receptionist", "physician"))
	opd.GET("", h.ListOPDVisits)
	opd.GET("/:no", h.GetOPDVisit)

	ipd := g.Group("/ipd-admissions")
	ipd.POST("", h.CreateIPDAdmission, auth.RequireRole("receptionist", "physician"))
	ipd.GET("", h.ListIPDAdmissions)
	ipd.GET("/:no", h.GetIPDAdmission)
	ipd.PATCH("/:no/discharge", h.Discharge, auth.RequireRole("receptionist", "physician"))
}

func (h *Handler) CreateOPDVisit(c echo.Context) error {
	var v OPDVisit
	if err := c.Bind(&v); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := h.svc.CreateOPDVisit(c.Request().Context(), &v); err != nil {
		return echo.NewHTTPError(apperr.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusCreated, v)
}

func (h *Handler) GetOPDVisit(c echo.Context) error {
	v, err := h.svc.GetOPDVisit(c.Request().Context(), c.Param("no"))
	if err != nil {
		return echo.NewHTTPError(apperr.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusOK, v)
}

func (h *Handler) ListOPDVisits(c echo.Context) error {
	p := pagination.FromContext(c)
	visits, total, err := h.svc.ListOPDVisits(c.Request().Context(), p.Limit, p.Offset)
	if err != nil {
		return echo.NewHTTPError(apperr.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(visits, total, p.Limit, p.Offset))
}

func (h *Handler) CreateIPDAdmission(c echo.Context) error {
	var a IPDAdmission
	if err := c.Bind(&a); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := h.svc.CreateIPDAdmission(c.Request().Context(), &a); err != nil {
		return echo.NewHTTPError(apperr.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *Handler) GetIPDAdmission(c echo.Context) error {
	a, err := h.svc.GetIPDAdmission(c.Request().Context(), c.Param("no"))
	if err != nil {
		return echo.NewHTTPError(apperr.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) ListIPDAdmissions(c echo.Context) error {
	p := pagination.FromContext(c)
	admissions, total, err := h.svc.ListIPDAdmissions(c.Request().Context(), p.Limit, p.Offset)
	if err != nil {
		return echo.NewHTTPError(apperr.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(admissions, total, p.Limit, p.Offset))
}

type dischargeRequest struct {
	DischargeDate time.Time `json:"discharge_date"`
}

func (h *Handler) Discharge(c echo.Context) error {
	var req dischargeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	a, err := h.svc.Discharge(c.Request().Context(), c.Param("no"), req.DischargeDate)
	if err != nil {
		return echo.NewHTTPError(apperr.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusOK, a)
}
