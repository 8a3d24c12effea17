package httpserver

import (
	"errors"
	"net/http"

	"sisera-crm/internal/domain"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type shopResponse struct {
	SelectedShop domain.Shop `json:"selectedShop"`
	DisplayName  string        `json:"displayName"`
	Shops        []domain.Shop `json:"shops"`
}

type shopRequest struct {
	Shop string `json:"shop" binding:"required"`
}

func (h *handlers) shopState() shopResponse {
	return shopResponse{
		SelectedShop: h.deps.Shop.Selected(),
		DisplayName:  h.deps.Shop.DisplayName(),
		Shops:        domain.Shops,
	}
}

func (h *handlers) getShop(c *gin.Context) {
	c.JSON(http.StatusOK, h.shopState())
}

func (h *handlers) putShop(c *gin.Context) {
	var req shopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Winkel selectie is verplicht"})
		return
	}
	err := h.deps.Shop.SetSelectedShop(c.Request.Context(), domain.Shop(req.Shop))
	switch {
	case errors.Is(err, domain.ErrUnknownShop):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Winkel selectie is ongeldig"})
		return
	case err != nil:
		h.logger.Error("select shop", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "winkel opslaan mislukt"})
		return
	}
	c.JSON(http.StatusOK, h.shopState())
}
