package predictive

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medinsight/medinsight/internal/platform/auth"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/analytics")

	ops := g.Group("", auth.RequireRole(auth.RoleStaff, auth.RoleAdmin))
	ops.POST("/no-show", h.AssessNoShow)
	ops.GET("/appointments/:id/no-show", h.AppointmentNoShow)
	ops.GET("/peak-hours", h.PeakHours)

	clinical := g.Group("", auth.RequireRole(auth.RolePhysician, auth.RoleAdmin))
	clinical.GET("/outbreaks", h.Outbreaks)

	admin := g.Group("", auth.RequireRole(auth.RoleAdmin))
	admin.POST("/revenue/forecast", h.ForecastFromSeries)
	admin.GET("/revenue/forecast", h.ForecastRevenue)
	admin.GET("/retention", h.Retention)
	admin.GET("/dashboard", h.Dashboard)
	admin.GET("/dashboard/export", h.ExportDashboard)
}

func (h *Handler) AssessNoShow(c echo.Context) error {
	var req NoShowRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	risk, err := h.svc.AssessNoShow(c.Request().Context(), req)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, risk)
}

func (h *Handler) AppointmentNoShow(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	risk, err := h.svc.NoShowForAppointment(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, risk)
}

func (h *Handler) ForecastFromSeries(c echo.Context) error {
	var req ForecastRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	f, err := h.svc.ForecastFromSeries(req)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, f)
}

func (h *Handler) ForecastRevenue(c echo.Context) error {
	period, err := intParam(c, "period")
	if err != nil {
		return err
	}
	f, err := h.svc.ForecastRevenue(c.Request().Context(), period)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, f)
}

func (h *Handler) PeakHours(c echo.Context) error {
	days, err := intParam(c, "days")
	if err != nil {
		return err
	}
	pa, err := h.svc.PeakHours(c.Request().Context(), days)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, pa)
}

func (h *Handler) Outbreaks(c echo.Context) error {
	window, err := intParam(c, "window")
	if err != nil {
		return err
	}
	report, err := h.svc.Outbreaks(c.Request().Context(), window)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, report)
}

func (h *Handler) Retention(c echo.Context) error {
	snap, err := h.svc.Retention(c.Request().Context())
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, snap)
}

// Dashboard serves the cached dashboard; ?refresh=true recomputes it.
func (h *Handler) Dashboard(c echo.Context) error {
	ctx := c.Request().Context()
	if c.QueryParam("refresh") == "true" {
		if err := h.svc.InvalidateDashboard(ctx); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to refresh dashboard")
		}
	}
	d, err := h.svc.Dashboard(ctx)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) ExportDashboard(c echo.Context) error {
	d, err := h.svc.Dashboard(c.Request().Context())
	if err != nil {
		return toHTTPError(err)
	}
	var buf bytes.Buffer
	if err := WriteDashboardXLSX(&buf, d); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to render workbook")
	}
	filename := fmt.Sprintf("medinsight-dashboard-%s.xlsx", d.GeneratedAt.Format("20060102"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, xlsxContentType, buf.Bytes())
}

func intParam(c echo.Context, name string) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("invalid %s", name))
	}
	return v, nil
}

func toHTTPError(err error) error {
	switch {
	case errors.Is(err, ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "appointment not found")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "analytics unavailable")
	}
}
