package http

import (
	"errors"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"admissions-service/internal/auth"
	"admissions-service/internal/domain"
	"admissions-service/internal/predict"
	"admissions-service/internal/repository"
	"admissions-service/internal/storage"
)

const (
	loginFailedMessage = "Incorrect username or password"
	authFailedMessage  = "Authentication failed. Please provide a valid JWT token."
)

// Handler wires HTTP routes to the auth gate and the prediction adapter.
type Handler struct {
	gate      *auth.Gate
	predictor predict.Adapter
	models    repository.ModelRepository
	modelName string
	storage   storage.Service
	bucket    string
	keyPrefix string
}

func NewHandler(gate *auth.Gate, predictor predict.Adapter, models repository.ModelRepository, modelName string, store storage.Service, bucket, keyPrefix string) *Handler {
	return &Handler{
		gate:      gate,
		predictor: predictor,
		models:    models,
		modelName: modelName,
		storage:   store,
		bucket:    bucket,
		keyPrefix: keyPrefix,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware())

	router.POST("/login", h.login)
	router.POST("/predict", h.requireAuth(), h.predictHandler)
	router.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	api := router.Group("/api")
	api.Use(h.requireAuth())
	{
		api.GET("/models", h.listModels)
		api.GET("/artifacts", h.listArtifacts)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// requireAuth rejects the request before any handler runs unless the bearer
// token authorizes. Every auth failure maps to the same 401 body so callers
// cannot distinguish which check failed.
func (h *Handler) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		subject, err := h.gate.Authorize(c.GetHeader("Authorization"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": authFailedMessage})
			return
		}
		c.Set("subject", subject)
		c.Next()
	}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := h.gate.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": loginFailedMessage})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, loginResponse{AccessToken: token, TokenType: "bearer"})
}

// predictRequest binds every feature through a pointer: zero is a valid value
// for several fields, so presence cannot ride on gin's required binding.
type predictRequest struct {
	GREScore         *int     `json:"GRE_Score"`
	TOEFLScore       *int     `json:"TOEFL_Score"`
	UniversityRating *int     `json:"University_Rating"`
	SOP              *float64 `json:"SOP"`
	LOR              *float64 `json:"LOR"`
	CGPA             *float64 `json:"CGPA"`
	Research         *int     `json:"Research"`
}

func (r predictRequest) toRecord() (domain.FeatureRecord, *domain.ValidationError) {
	required := []struct {
		field string
		ok    bool
	}{
		{"GRE_Score", r.GREScore != nil},
		{"TOEFL_Score", r.TOEFLScore != nil},
		{"University_Rating", r.UniversityRating != nil},
		{"SOP", r.SOP != nil},
		{"LOR", r.LOR != nil},
		{"CGPA", r.CGPA != nil},
		{"Research", r.Research != nil},
	}
	for _, req := range required {
		if !req.ok {
			return domain.FeatureRecord{}, &domain.ValidationError{Field: req.field, Message: "is required"}
		}
	}

	return domain.FeatureRecord{
		GREScore:         *r.GREScore,
		TOEFLScore:       *r.TOEFLScore,
		UniversityRating: *r.UniversityRating,
		SOP:              *r.SOP,
		LOR:              *r.LOR,
		CGPA:             *r.CGPA,
		Research:         *r.Research,
	}, nil
}

type predictionResponse struct {
	ChanceOfAdmit float64 `json:"chance_of_admit"`
}

func (h *Handler) predictHandler(c *gin.Context) {
	var req predictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, verr := req.toRecord()
	if verr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
		return
	}
	if err := record.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.predictor.Run(c.Request.Context(), record)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// The adapter is trusted but not guaranteed bounded.
	clamped := math.Max(0, math.Min(1, result))
	c.JSON(http.StatusOK, predictionResponse{ChanceOfAdmit: clamped})
}

type modelVersionResponse struct {
	Tag       string              `json:"tag"`
	Name      string              `json:"name"`
	Metrics   domain.ModelMetrics `json:"metrics"`
	CreatedAt string              `json:"created_at"`
}

func (h *Handler) listModels(c *gin.Context) {
	if h.models == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "model store not configured"})
		return
	}

	versions, err := h.models.List(c.Request.Context(), h.modelName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]modelVersionResponse, len(versions))
	for i := range versions {
		resp[i] = modelVersionResponse{
			Tag:       versions[i].Tag,
			Name:      versions[i].Name,
			Metrics:   versions[i].Metrics,
			CreatedAt: versions[i].CreatedAt.Format(time.RFC3339),
		}
	}
	c.JSON(http.StatusOK, resp)
}

type storageObjectResponse struct {
	Key          string  `json:"key"`
	Size         int64   `json:"size"`
	LastModified *string `json:"last_modified,omitempty"`
}

func objectToResponse(obj storage.ObjectInfo) storageObjectResponse {
	resp := storageObjectResponse{
		Key:  obj.Key,
		Size: obj.Size,
	}
	if obj.LastModified != nil && !obj.LastModified.IsZero() {
		v := obj.LastModified.Format(time.RFC3339)
		resp.LastModified = &v
	}
	return resp
}

// listArtifacts lists exported model artifacts in the configured bucket.
func (h *Handler) listArtifacts(c *gin.Context) {
	if h.storage == nil || h.bucket == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage service not configured"})
		return
	}

	prefix := c.DefaultQuery("prefix", h.keyPrefix)
	objects, err := h.storage.ListObjects(c.Request.Context(), h.bucket, prefix)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]storageObjectResponse, len(objects))
	for i := range objects {
		resp[i] = objectToResponse(objects[i])
	}
	c.JSON(http.StatusOK, resp)
}
