package auth

import (
	"github.com/gin-gonic/gin"

	"customer-svc/internal/config"
)

// RegisterRoutes wires the login endpoint and returns the token service so the
// protected route groups can share its validator.
func RegisterRoutes(router *gin.RouterGroup, cfg *config.Config) *TokenService {
	tokens := NewTokenService(cfg.JwtSecret, cfg.ServiceName, cfg.TokenTTL)
	verifier := NewHTTPVerifier(cfg.AuthServiceURL)
	controller := NewController(verifier, tokens)

	group := router.Group("/auth")
	group.POST("/login", controller.Login)

	return tokens
}
