package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/campuslink/campuslink-backend/internal/requestdata"
	"github.com/campuslink/campuslink-backend/internal/services"
)

type RecommendationHandler struct {
	recommendationService services.RecommendationService
}

func NewRecommendationHandler(recommendationService services.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{recommendationService: recommendationService}
}

func (rh *RecommendationHandler) GetMine(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("missing user context"))
		return
	}
	recs, err := rh.recommendationService.GetRecommendations(c.Request.Context(), rd.UserID)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "recommendations_failed", err)
		return
	}
	RespondOK(c, gin.H{"recommendations": recs})
}

func (rh *RecommendationHandler) RefreshMine(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("missing user context"))
		return
	}
	scored, err := rh.recommendationService.RegenerateForUser(c.Request.Context(), rd.UserID)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "regenerate_failed", err)
		return
	}
	RespondOK(c, gin.H{"recommendations": scored})
}

func (rh *RecommendationHandler) RegenerateAll(c *gin.Context) {
	summary, err := rh.recommendationService.RegenerateAll(c.Request.Context())
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "sweep_failed", err)
		return
	}
	RespondOK(c, gin.H{"processed": summary.Processed, "failed": summary.Failed})
}
