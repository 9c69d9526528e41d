package api

import (
	"net/http"

	"alcyxob/workout-tracker/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// AuthHandler exchanges the app passcode for an API token.
type AuthHandler struct {
	lock service.LockService
	log  logrus.FieldLogger
}

func NewAuthHandler(lock service.LockService, log logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{lock: lock, log: log}
}

type TokenRequest struct {
	Passcode string `json:"passcode" binding:"required"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

// Token godoc
// @Summary Unlock the API
// @Param body body TokenRequest true "Passcode"
// @Success 200 {object} TokenResponse
// @Failure 401 {object} gin.H "Wrong passcode"
// @Router /auth/token [post]
func (h *AuthHandler) Token(c *gin.Context) {
	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	token, err := h.lock.Unlock(c.Request.Context(), req.Passcode)
	if err != nil {
		abortWithServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, TokenResponse{Token: token})
}
