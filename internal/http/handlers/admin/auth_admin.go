package admin

import (
	"errors"
	"time"

	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/http/response"
	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/service"

	"github.com/gin-gonic/gin"
)

// LoginRequest carries adviser credentials.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse returns the issued token.
type LoginResponse struct {
	Token     string                 `json:"token"`
	Adviser   map[string]interface{} `json:"adviser"`
	ExpiresAt string                 `json:"expires_at"`
}

// Login authenticates an adviser.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	adviser, token, expiresAt, err := h.AuthService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondError(c, response.CodeUnauthorized, "invalid credentials", nil)
			return
		}
		respondError(c, response.CodeInternal, "login failed", err)
		return
	}
	response.Success(c, LoginResponse{
		Token: token,
		Adviser: map[string]interface{}{
			"id":    adviser.ID,
			"email": adviser.Email,
			"role":  adviser.Role,
		},
		ExpiresAt: expiresAt.Format(time.RFC3339),
	})
}

// Logout invalidates every token the adviser holds.
func (h *Handler) Logout(c *gin.Context) {
	adviserID, ok := getAdviserID(c)
	if !ok {
		return
	}
	if err := h.AuthService.Logout(adviserID); err != nil {
		if errors.Is(err, service.ErrAdviserNotFound) {
			respondError(c, response.CodeNotFound, "adviser not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "logout failed", err)
		return
	}
	response.Success(c, nil)
}
