package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"customer-svc/internal/types"
	"customer-svc/internal/utils"
)

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expiresIn"`
}

// Controller handles HTTP requests for the login gate.
type Controller struct {
	verifier CredentialVerifier
	tokens   *TokenService
}

func NewController(verifier CredentialVerifier, tokens *TokenService) *Controller {
	return &Controller{verifier: verifier, tokens: tokens}
}

func (ctrl *Controller) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error:     "Bad Request",
			Message:   err.Error(),
			Timestamp: time.Now().UTC(),
		})
		return
	}

	if err := ctrl.verifier.Verify(c.Request.Context(), req.Username, req.Password); err != nil {
		if errors.Is(err, ErrBadCredentials) {
			c.JSON(http.StatusUnauthorized, types.ErrorResponse{
				Error:     "Unauthorized",
				Message:   err.Error(),
				Timestamp: time.Now().UTC(),
			})
			return
		}
		utils.Zlog.Error("Credential verification failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{
			Error:     "Internal Server Error",
			Message:   err.Error(),
			Timestamp: time.Now().UTC(),
		})
		return
	}

	token, err := ctrl.tokens.Issue(req.Username)
	if err != nil {
		utils.Zlog.Error("Failed to issue token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{
			Error:     "Internal Server Error",
			Message:   err.Error(),
			Timestamp: time.Now().UTC(),
		})
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Token:     token,
		ExpiresIn: int64(ctrl.tokens.TTL().Seconds()),
	})
}
