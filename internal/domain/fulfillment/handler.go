package fulfillment

import (
	"net/http"

	"github.com/google/uuid"
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
	req := g.Group("/fulfillment-requests")
	req.POST("", h.RequestFulfillment, auth.RequireRole("physician", "nurse"))
	req.GET("", h.ListRequests, auth.RequireRole("pharmacist", "physician", "nurse"))
	req.PATCH("/:id/status", h.UpdateStatus, auth.RequireRole("pharmacist"))
}

func (h *Handler) RequestFulfillment(c echo.Context) error {
	var in RequestInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	ctx := c.Request().Context()
	if in.RequestedBy == "" {
		in.RequestedBy = auth.UserNameFromContext(ctx)
	}

	result, err := h.svc.RequestFulfillment(ctx, &in)
	if err != nil {
		return echo.NewHTTPError(apperr.HTTPStatus(err), err.Error())
	}
	if result.AlreadyPending {
		return c.JSON(http.StatusOK, result)
	}
	return c.JSON(http.StatusCreated, result)
}

func (h *Handler) ListRequests(c echo.Context) error {
	status := Status(c.QueryParam("status"))
	if status == "" {
		status = StatusPending
	}
	p := pagination.FromContext(c)

	requests, total, err := h.svc.ListRequests(c.Request().Context(), status, p.Limit, p.Offset)
	if err != nil {
		return echo.NewHTTPError(apperr.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(requests, total, p.Limit, p.Offset))
}

type statusRequest struct {
	Status Status `json:"status"`
}

func (h *Handler) UpdateStatus(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request id")
	}
	var req statusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	updated, err := h.svc.UpdateStatus(c.Request().Context(), id, req.Status)
	if err != nil {
		return echo.NewHTTPError(apperr.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusOK, updated)
}
