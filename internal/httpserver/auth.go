package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *handlers) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "e-mail en wachtwoord zijn verplicht"})
		return
	}
	ok, err := h.deps.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Error("login", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "aanmelden mislukt"})
		return
	}
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Ongeldige inloggegevens"})
		return
	}
	c.JSON(http.StatusOK, h.deps.Auth.State())
}

func (h *handlers) logout(c *gin.Context) {
	if err := h.deps.Auth.Logout(c.Request.Context()); err != nil {
		h.logger.Error("logout", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "afmelden mislukt"})
		return
	}
	c.JSON(http.StatusOK, h.deps.Auth.State())
}

func (h *handlers) session(c *gin.Context) {
	c.JSON(http.StatusOK, h.deps.Auth.State())
}
