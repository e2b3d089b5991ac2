package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"careerbot/internal/domain"
	"careerbot/internal/service"
)

// SkillsHandler mantiene dependencias para quiz, evaluación y assessments guardados.
type SkillsHandler struct {
	logger         *zap.Logger
	skillsServ     *service.SkillsService
	evaluationServ *service.EvaluationService
	assessmentServ *service.AssessmentService
}

func NewSkillsHandler(
	logger *zap.Logger,
	skillsServ *service.SkillsService,
	evaluationServ *service.EvaluationService,
	assessmentServ *service.AssessmentService,
) *SkillsHandler {
	return &SkillsHandler{
		logger:         logger,
		skillsServ:     skillsServ,
		evaluationServ: evaluationServ,
		assessmentServ: assessmentServ,
	}
}

// Questions maneja GET /skills?interest=.
// Siempre responde 200 con las tres categorías; el fallback vive en el service.
func (h *SkillsHandler) Questions(c *gin.Context) {
	set := h.skillsServ.Questions(c.Request.Context(), c.Query("interest"))
	c.JSON(http.StatusOK, set)
}

// Evaluate maneja POST /evaluate-skills.
func (h *SkillsHandler) Evaluate(c *gin.Context) {
	var req struct {
		Interest string            `json:"interest" binding:"required"`
		Answers  map[string]string `json:"answers" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid evaluate request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	recommendations, err := h.evaluationServ.Evaluate(c.Request.Context(), req.Interest, req.Answers)
	if err != nil {
		h.logger.Error("evaluate skills failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to evaluate skills."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"recommendations": recommendations})
}

// SaveAssessment maneja POST /save-assessment.
// recommendations acepta array de párrafos o string plano.
func (h *SkillsHandler) SaveAssessment(c *gin.Context) {
	var req struct {
		SessionID       string                 `json:"session_id"`
		Interest        string                 `json:"interest" binding:"required"`
		Answers         map[string]string      `json:"answers" binding:"required"`
		Scores          map[string]float64     `json:"scores" binding:"required"`
		Recommendations domain.Recommendations `json:"recommendations"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid save assessment request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	_, err := h.assessmentServ.Save(c.Request.Context(), service.SaveAssessmentInput{
		SessionID:       req.SessionID,
		Interest:        req.Interest,
		Answers:         req.Answers,
		Scores:          req.Scores,
		Recommendations: req.Recommendations,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidScores) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "scores must be between 0 and 1"})
			return
		}
		h.logger.Error("save assessment failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save assessment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Assessment saved"})
}

// ListAssessments maneja GET /skill-assessments.
func (h *SkillsHandler) ListAssessments(c *gin.Context) {
	assessments, err := h.assessmentServ.FetchAll(c.Request.Context())
	if err != nil {
		h.logger.Error("list assessments failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch all skill assessments"})
		return
	}
	if assessments == nil {
		assessments = []domain.SkillAssessment{}
	}
	c.JSON(http.StatusOK, assessments)
}

// GetAssessment maneja GET /skill-assessments/:session_id.
func (h *SkillsHandler) GetAssessment(c *gin.Context) {
	assessment, err := h.assessmentServ.FetchOne(c.Request.Context(), c.Param("session_id"))
	if err != nil {
		if errors.Is(err, service.ErrAssessmentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No assessment found for this session."})
			return
		}
		h.logger.Error("get assessment failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch skill assessment"})
		return
	}
	c.JSON(http.StatusOK, assessment)
}
