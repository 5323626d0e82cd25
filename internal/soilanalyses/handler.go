package soilanalyses

import (
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"agri-backend/internal/shared/server/middleware"
	"agri-backend/internal/shared/server/respond"
	"agri-backend/internal/shared/telemetry"
	"agri-backend/internal/soil"
)

const (
	maxAnalyzeBodyBytes = 64 << 10
	maxImageBytes       = 10 << 20
)

// Handler wires HTTP handlers to the soil analysis service.
type Handler struct {
	Svc *Service
	Now func() time.Time
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// PublicPrefixes lists the paths served without identity.
var PublicPrefixes = []string{
	"/api/v1/soil-analysis/analyze",
	"/api/v1/soil-analysis/crops/",
}

// RegisterRoutes attaches soil analysis routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/soil-analysis")
	g.POST("/analyze", h.analyze)
	g.GET("/crops/:ph/:nitrogen/:phosphorus/:potassium", h.crops)

	g.POST("", middleware.RequireIdentity(), h.create)
	g.GET("", middleware.RequireLogin(), h.list)
	g.GET("/:id", middleware.RequireIdentity(), h.get)
	g.PUT("/:id", middleware.RequireIdentity(), h.update)
	g.DELETE("/:id", middleware.RequireIdentity(), h.remove)
	g.GET("/:id/recommendations", middleware.RequireIdentity(), h.recommendations)
	g.POST("/:id/share", middleware.RequireIdentity(), h.share)
	g.POST("/:id/images", middleware.RequireIdentity(), h.addImage)
	g.GET("/:id/images/:imageId", middleware.RequireIdentity(), h.openImage)
}

func (h *Handler) analyze(c *gin.Context) {
	raw, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxAnalyzeBodyBytes))
	if err != nil {
		respond.Error(c, http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large", nil)
		return
	}
	var set soil.ParameterSet
	if err := json.Unmarshal(raw, &set); err != nil || set == nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "body must be a JSON object of soil parameters", nil)
		return
	}

	result, err := h.Svc.Analyze(set)
	if err != nil {
		h.fail(c, err, "failed to analyze soil parameters")
		return
	}
	c.Set(middleware.LogSoilHealthKey, string(result.SoilHealth))
	respond.OK(c, analyzeResponse{
		Parameters: json.RawMessage(raw),
		Analysis:   result,
		Timestamp:  h.now(),
	})
}

func (h *Handler) crops(c *gin.Context) {
	values := make(soil.Values, 4)
	var details []FieldError
	for _, p := range []soil.Parameter{soil.PH, soil.Nitrogen, soil.Phosphorus, soil.Potassium} {
		x, err := strconv.ParseFloat(c.Param(string(p)), 64)
		if err != nil || math.IsNaN(x) || math.IsInf(x, 0) {
			details = append(details, FieldError{Field: string(p), Issue: "must be a number"})
			continue
		}
		values[p] = x
	}
	if len(details) > 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid soil parameters", details)
		return
	}

	result := h.Svc.SuitableCrops(values)
	respond.OK(c, cropsResponse{
		SuitableCrops: result.SuitableCrops,
		SoilHealth:    result.SoilHealth,
		OverallScore:  result.OverallScore,
	})
}

func (h *Handler) create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	a, err := h.Svc.Create(c.Request.Context(), middleware.UserIDFromContext(c), req.input())
	if err != nil {
		h.fail(c, err, "failed to create soil analysis")
		return
	}
	tagLog(c, a)
	respond.Created(c, "/api/v1/soil-analysis/"+a.ID, gin.H{"analysis": a})
}

func (h *Handler) list(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	p, err := h.Svc.List(c.Request.Context(), middleware.UserIDFromContext(c), page, limit)
	if err != nil {
		h.fail(c, err, "failed to list soil analyses")
		return
	}
	items := p.Items
	if items == nil {
		items = []Analysis{}
	}
	respond.OK(c, listResponse{
		Analyses: items,
		Pagination: pagination{
			Page:  p.Page,
			Limit: p.Limit,
			Total: p.Total,
			Pages: p.Pages(),
		},
	})
}

func (h *Handler) get(c *gin.Context) {
	a, err := h.Svc.Get(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"))
	if err != nil {
		h.fail(c, err, "failed to fetch soil analysis")
		return
	}
	tagLog(c, a)
	respond.OK(c, gin.H{"analysis": a})
}

func (h *Handler) update(c *gin.Context) {
	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	a, err := h.Svc.Update(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"), req.input())
	if err != nil {
		h.fail(c, err, "failed to update soil analysis")
		return
	}
	tagLog(c, a)
	respond.OK(c, gin.H{"analysis": a})
}

func (h *Handler) remove(c *gin.Context) {
	id := c.Param("id")
	if err := h.Svc.Delete(c.Request.Context(), middleware.UserIDFromContext(c), id); err != nil {
		h.fail(c, err, "failed to delete soil analysis")
		return
	}
	c.Set(middleware.LogAnalysisIDKey, id)
	respond.OK(c, gin.H{"message": "Soil analysis deleted successfully"})
}

func (h *Handler) recommendations(c *gin.Context) {
	result, err := h.Svc.Recommendations(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"))
	if err != nil {
		h.fail(c, err, "failed to fetch recommendations")
		return
	}
	c.Set(middleware.LogAnalysisIDKey, c.Param("id"))
	respond.OK(c, recommendationsResponse{
		Recommendations: result.Recommendations,
		SuitableCrops:   result.SuitableCrops,
	})
}

func (h *Handler) share(c *gin.Context) {
	var req shareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	a, err := h.Svc.Share(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"), req.UserID, req.Role)
	if err != nil {
		h.fail(c, err, "failed to share soil analysis")
		return
	}
	tagLog(c, a)
	respond.OK(c, gin.H{
		"message":    "Analysis shared successfully",
		"sharedWith": a.SharedWith,
	})
}

func (h *Handler) addImage(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImageBytes)
	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Error(c, http.StatusRequestEntityTooLarge, "payload_too_large", "image exceeds 10MB", nil)
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", []FieldError{{Field: "file", Issue: "is required"}})
		return
	}
	f, err := fh.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unreadable file", nil)
		return
	}
	defer f.Close()

	img, err := h.Svc.AddImage(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"), ImageUpload{
		FileName: fh.Filename,
		Caption:  c.PostForm("caption"),
		Type:     c.PostForm("type"),
		Body:     f,
	})
	if err != nil {
		h.fail(c, err, "failed to store image")
		return
	}
	c.Set(middleware.LogAnalysisIDKey, c.Param("id"))
	respond.Created(c, img.URL, gin.H{"image": img})
}

func (h *Handler) openImage(c *gin.Context) {
	img, rc, err := h.Svc.OpenImage(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"), c.Param("imageId"))
	if err != nil {
		h.fail(c, err, "failed to load image")
		return
	}
	defer rc.Close()
	c.DataFromReader(http.StatusOK, img.Size, img.ContentType, rc, nil)
}

// fail maps service errors onto the standard error envelope.
func (h *Handler) fail(c *gin.Context, err error, fallback string) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid soil analysis input", verr.Fields)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "Soil analysis not found", nil)
	case errors.Is(err, ErrForbidden):
		respond.Error(c, http.StatusForbidden, "forbidden", "only the owner can change this analysis", nil)
	case errors.Is(err, ErrConflict):
		respond.Error(c, http.StatusConflict, "conflict", "soil analysis was changed by another request, retry", nil)
	default:
		telemetry.Error("soil_analysis.handler_error", map[string]any{
			"request_id": middleware.RequestIDFromContext(c),
			"error":      err,
		})
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}

func tagLog(c *gin.Context, a Analysis) {
	c.Set(middleware.LogAnalysisIDKey, a.ID)
	c.Set(middleware.LogFarmIDKey, a.FarmID)
	c.Set(middleware.LogSoilHealthKey, string(a.Result.SoilHealth))
}

func (h *Handler) now() time.Time {
	if h.Now != nil {
		return h.Now().UTC()
	}
	return time.Now().UTC()
}
