package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campuslink/campuslink-backend/internal/services"
)

type InterestHandler struct {
	interestService services.InterestService
}

func NewInterestHandler(interestService services.InterestService) *InterestHandler {
	return &InterestHandler{interestService: interestService}
}

func (ih *InterestHandler) ListCatalog(c *gin.Context) {
	interests, err := ih.interestService.ListCatalog(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"interests": interests})
}

func (ih *InterestHandler) ListMine(c *gin.Context) {
	interests, err := ih.interestService.ListMine(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"interests": interests})
}

func (ih *InterestHandler) SetMine(c *gin.Context) {
	var req struct {
		Interests []string `json:"interests"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	interests, err := ih.interestService.SetMine(c.Request.Context(), req.Interests)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"interests": interests})
}
