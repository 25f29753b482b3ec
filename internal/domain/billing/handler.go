package billing

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ayurcare/hms/internal/platform/auth"
	"github.com/ayurcare/hms/pkg/apperr"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/encounters/ipd/:no/bill", h.ComputeBill, auth.RequireRole("receptionist", "physician"))
}

func (h *Handler) ComputeBill(c echo.Context) error {
	bill, err := h.svc.ComputeBill(c.Request().Context(), c.Param("no"))
	if err != nil {
		return echo.NewHTTPError(apperr.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusOK, bill)
}
