package treatment

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ayurcare/hms/internal/domain/encounter"
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
	enc := g.Group("/encounters/:kind/:no")
	enc.PUT("/treatment-orders", h.Reconcile, auth.RequireRole("physician", "nurse"))
	enc.GET("/treatment-orders", h.ListOrders)
}

func refFromPath(c echo.Context) (encounter.Ref, error) {
	no := c.Param("no")
	switch c.Param("kind") {
	case "opd":
		return encounter.OutpatientRef(no), nil
	case "ipd":
		return encounter.InpatientRef(no), nil
	default:
		return encounter.Ref{}, echo.NewHTTPError(http.StatusBadRequest, "encounter kind must be opd or ipd")
	}
}

type reconcileRequest struct {
	Kind  OrderKind         `json:"kind"`
	Items []*TreatmentOrder `json:"items"`
}

func (h *Handler) Reconcile(c echo.Context) error {
	ref, err := refFromPath(c)
	if err != nil {
		return err
	}

	var req reconcileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	ctx := c.Request().Context()
	session, err := h.svc.NewSession(ctx, ref, req.Kind, auth.UserNameFromContext(ctx))
	if err != nil {
		return echo.NewHTTPError(apperr.HTTPStatus(err), err.Error())
	}
	session.Items = req.Items

	result, err := h.svc.Reconcile(ctx, session)
	if err != nil {
		return echo.NewHTTPError(apperr.HTTPStatus(err), err.Error())
	}

	status := http.StatusOK
	if result.Partial() {
		// Some items failed but the rest were applied.
		status = http.StatusMultiStatus
	}
	return c.JSON(status, result)
}

func (h *Handler) ListOrders(c echo.Context) error {
	ref, err := refFromPath(c)
	if err != nil {
		return err
	}

	kind := OrderKind(c.QueryParam("kind"))
	if kind == "" {
		kind = KindProcedure
	}

	orders, err := h.svc.ListOrders(c.Request().Context(), ref, kind)
	if err != nil {
		return echo.NewHTTPError(apperr.HTTPStatus(err), err.Error())
	}
	if orders == nil {
		orders = []*TreatmentOrder{}
	}
	return c.JSON(http.StatusOK, orders)
}
