package research

import (
	"net/http"
	"strconv"
	"time"

	apperrors "github.com/arcscan/arcscan-api/internal/errors"
	"github.com/arcscan/arcscan-api/internal/metrics"
	"github.com/arcscan/arcscan-api/internal/report"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service: service,
	}
}

// RegisterRoutes mounts the research endpoints on the given group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	sessions := rg.Group("/research/sessions")
	sessions.POST("", h.CreateSession)
	sessions.POST("/:id/start", h.StartResearch)
	sessions.GET("/:id", h.GetStatus)
	sessions.GET("/:id/watch", h.WatchSession)
	sessions.POST("/:id/report/pdf", h.GenerateReportPDF)
}

// CreateSession allocates a new research session.
// POST /api/research/sessions.
func (h *Handler) CreateSession(c *gin.Context) {
	id := h.service.CreateSession()
	c.JSON(http.StatusCreated, gin.H{"session_id": id})
}

// StartResearch kicks off the pipeline for an existing session.
// POST /api/research/sessions/:id/start.
func (h *Handler) StartResearch(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	var profile BusinessProfile
	if err := c.ShouldBindJSON(&profile); err != nil {
		apperrors.AbortWithBadRequest(c, "companyName, industry and region are required", nil)
		return
	}

	if err := h.service.StartResearch(id, profile); err != nil {
		apperrors.AbortWithNotFound(c, apperrors.UserMessage(err), nil)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"session_id": id, "status": StatusProcessing})
}

// GetStatus returns the session snapshot plus the derived display step.
// GET /api/research/sessions/:id.
func (h *Handler) GetStatus(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	sess, found := h.service.GetStatus(id)
	if !found {
		apperrors.AbortWithNotFound(c, "research session not found", nil)
		return
	}

	c.JSON(http.StatusOK, statusResponse(sess))
}

// GenerateReportPDF renders the completed session's report as a PDF.
// POST /api/research/sessions/:id/report/pdf.
func (h *Handler) GenerateReportPDF(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	sess, found := h.service.GetStatus(id)
	if !found {
		apperrors.AbortWithNotFound(c, "research session not found", nil)
		return
	}
	if sess.Status != StatusCompleted {
		apperrors.AbortWithConflict(c, "research is not completed yet", nil)
		return
	}
	if !sess.Results.Valid() {
		apperrors.AbortWithConflict(c, "no significant report data available for this session", nil)
		return
	}

	pdfBytes, err := report.Generate(reportData(sess))
	if err != nil {
		apperrors.AbortWithInternal(c, "failed to render report", nil)
		return
	}
	metrics.ReportsRendered.Inc()

	c.Header("Content-Disposition", `attachment; filename="supply-chain-risk-report.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}

func sessionID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		apperrors.AbortWithBadRequest(c, "session id must be a positive integer", nil)
		return 0, false
	}
	return id, true
}

// statusResponse augments a session snapshot with the display step.
func statusResponse(sess Session) gin.H {
	return gin.H{
		"session":     sess,
		"currentStep": CurrentStep(sess),
	}
}

// reportData flattens a completed session into the renderer's input. The
// session must hold a valid report.
func reportData(sess Session) report.Data {
	res := sess.Results

	risks := make([]report.Risk, 0, len(res.TopRisks))
	for _, r := range res.TopRisks {
		risks = append(risks, report.Risk{Factor: r.Factor, Score: r.Score, Source: r.Source})
	}

	insights := make([]report.Insight, 0, len(res.KeyInsights))
	for _, ins := range res.KeyInsights {
		insights = append(insights, report.Insight{Title: ins.Title, Description: ins.Description})
	}

	categories := make([]report.CategoryScore, 0, len(res.RiskCategories))
	for _, cat := range res.RiskCategories {
		categories = append(categories, report.CategoryScore{
			Name:            cat.Name,
			BusinessScore:   cat.BusinessScore,
			IndustryAverage: cat.IndustryAverage,
		})
	}

	return report.Data{
		CompanyName:      sess.Profile.CompanyName,
		Industry:         sess.Profile.Industry,
		Region:           sess.Profile.Region,
		OverallRiskScore: float64(res.OverallRiskScore),
		RiskLevel:        res.RiskLevel,
		Disruptions: report.DisruptionMetric{
			Count:              res.SupplyChainDisruptions.Count,
			ChangeFromLastYear: res.SupplyChainDisruptions.ChangeFromLastYear,
		},
		CostIncrease: report.CostMetric{
			Percentage: res.CostIncrease.Percentage,
			Period:     res.CostIncrease.Period,
		},
		SupplierRisk: report.SupplierMetric{
			Percentage: res.SupplierRisk.Percentage,
			Level:      res.SupplierRisk.Level,
		},
		TopRisks:       risks,
		KeyInsights:    insights,
		RiskCategories: categories,
		Sources:        sess.Sources,
		GeneratedAt:    time.Now(),
	}
}
