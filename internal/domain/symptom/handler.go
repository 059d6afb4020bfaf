package symptom

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medinsight/medinsight/internal/platform/auth"
	"github.com/medinsight/medinsight/pkg/pagination"
)

// Disclaimer accompanies every analysis response.
const Disclaimer = "This analysis is a heuristic decision-support aid and not a medical diagnosis. " +
	"Consult a qualified healthcare professional. Call emergency services for severe or worsening symptoms."

// AnalysisResponse is the JSON shape returned for a stored analysis.
type AnalysisResponse struct {
	*AnalysisRecord
	Disclaimer string `json:"disclaimer"`
}

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	// Patients may analyze and read their own records; clinicians read any.
	group := api.Group("", auth.RequireRole("patient", "physician", "admin"))
	group.POST("/symptom-analyses", h.CreateAnalysis)
	group.GET("/symptom-analyses/:id", h.GetAnalysis)
	group.GET("/patients/:patientId/symptom-analyses", h.ListPatientAnalyses)

	api.GET("/symptom-knowledge/diseases", h.ListDiseases)
}

func (h *Handler) CreateAnalysis(c echo.Context) error {
	var req AnalysisRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	ctx := c.Request().Context()
	if isPatientOnly(c) {
		pid, err := uuid.Parse(auth.UserIDFromContext(ctx))
		if err != nil {
			return echo.NewHTTPError(http.StatusForbidden, "patient identity required")
		}
		if req.PatientID != nil && *req.PatientID != pid {
			return echo.NewHTTPError(http.StatusForbidden, "patients may only analyze their own symptoms")
		}
		req.PatientID = &pid
	}
	rec, err := h.svc.Analyze(ctx, &req)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to store analysis")
	}
	return c.JSON(http.StatusCreated, AnalysisResponse{AnalysisRecord: rec, Disclaimer: Disclaimer})
}

func (h *Handler) GetAnalysis(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	rec, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "symptom analysis not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if isPatientOnly(c) && !ownedByCaller(c, rec.PatientID) {
		return echo.NewHTTPError(http.StatusNotFound, "symptom analysis not found")
	}
	return c.JSON(http.StatusOK, AnalysisResponse{AnalysisRecord: rec, Disclaimer: Disclaimer})
}

func (h *Handler) ListPatientAnalyses(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("patientId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	if isPatientOnly(c) && !ownedByCaller(c, &patientID) {
		return echo.NewHTTPError(http.StatusForbidden, "patients may only list their own analyses")
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListByPatient(c.Request().Context(), patientID, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset).WithLinks(c.Request().URL.Path))
}

func (h *Handler) ListDiseases(c echo.Context) error {
	diseases := h.svc.Diseases()
	return c.JSON(http.StatusOK, map[string]interface{}{
		"diseases": diseases,
		"total":    len(diseases),
	})
}

// isPatientOnly reports whether the caller holds the patient role and no
// clinical role.
func isPatientOnly(c echo.Context) bool {
	ctx := c.Request().Context()
	return auth.HasRole(ctx, "patient") && !auth.HasRole(ctx, "physician")
}

func ownedByCaller(c echo.Context, patientID *uuid.UUID) bool {
	return patientID != nil && patientID.String() == auth.UserIDFromContext(c.Request().Context())
}
