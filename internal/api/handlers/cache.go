package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codyseavey/tcg-listmatch/backend/internal/services"
)

type CacheHandler struct {
	tcgcsvService *services.TCGCSVService
}

func NewCacheHandler(tcgcsv *services.TCGCSVService) *CacheHandler {
	return &CacheHandler{tcgcsvService: tcgcsv}
}

// ClearCache drops every cached catalog response.
func (h *CacheHandler) ClearCache(c *gin.Context) {
	if err := h.tcgcsvService.ClearCache(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ClearExpiredCache drops only catalog responses past their TTL.
func (h *CacheHandler) ClearExpiredCache(c *gin.Context) {
	if err := h.tcgcsvService.ClearExpiredCache(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
