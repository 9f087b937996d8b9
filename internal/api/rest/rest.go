package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/loyaltytoken/loyalty-platform/internal/api/middleware"
)

// SetupRoutes configures all REST API routes
func SetupRoutes(router *gin.Engine, handler Handler, authCfg middleware.AuthConfig) {
	// Health check endpoint (no auth, no version prefix)
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/v1")
	{
		// Operator routes (requires authentication)
		v1.POST("/tokens/issue", middleware.Auth(authCfg), handler.IssueTokens)
		v1.POST("/customers", middleware.Auth(authCfg), handler.RegisterCustomer)
		v1.PUT("/rewards/:id", middleware.Auth(authCfg), handler.UpdateReward)

		// Customer status and catalog (public read access)
		v1.GET("/customers/:address", handler.GetCustomer)
		v1.GET("/rewards/:id", handler.GetReward)

		// Redemption endpoints. Approving the engine's allowance stands in
		// for the customer wallet's on-chain approve call.
		v1.POST("/customers/:address/allowance", handler.ApproveAllowance)
		v1.POST("/redemptions", handler.Redeem)
		v1.POST("/redemptions/:key/resume", handler.ResumeRedemption)

		// Certificate endpoints (public read access, used for verification)
		v1.GET("/customers/:address/certificates", handler.ListCertificates)
		v1.GET("/certificates/:voucher", handler.GetCertificate)
	}
}
