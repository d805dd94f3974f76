package transport

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"palm-reader-api/internal/config"
	apperrors "palm-reader-api/internal/errors"
	"palm-reader-api/internal/logger"
	"palm-reader-api/internal/service"
	"palm-reader-api/pkg/models"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// CheckoutService creates provider-hosted checkout sessions
type CheckoutService interface {
	CreateSession(ctx context.Context, origin string) (string, error)
}

// EmailDispatcher delivers a rendered reading to the visitor
type EmailDispatcher interface {
	SendReading(ctx context.Context, req models.SendEmailRequest) error
}

func NewHandler(readings service.ReadingService, checkout CheckoutService, mail EmailDispatcher, cfg *config.Config) http.Handler {
	r := gin.Default()

	// Add middleware
	r.Use(
		corsMiddleware(cfg.AllowedOrigins),
		requestSizeLimiter(cfg.MaxRequestBodySize),
		errorHandler(),
	)

	// Configure routes
	r.GET("/health", healthCheck)
	r.POST("/analyze", analyzeReading(readings, cfg))
	r.POST("/checkout", createCheckout(checkout))
	r.POST("/send-email", sendEmail(mail, cfg))

	return r
}

func analyzeReading(readings service.ReadingService, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		logger.WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"user_agent": c.Request.UserAgent(),
			"ip":         c.ClientIP(),
		}).Info("Processing palm reading request")

		var req models.AnalyzeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.WithError(err).WithFields(logrus.Fields{
				"ip": c.ClientIP(),
			}).Error("Invalid request format")
			respondError(c, http.StatusBadRequest, "invalid request format", err)
			return
		}

		result, err := readings.Analyze(ctx, req)
		if err != nil {
			respondError(c, apperrors.GetStatusCode(err), "failed to analyze palm", err)
			return
		}

		logger.WithFields(logrus.Fields{
			"mode":               req.Mode,
			"processing_time_ms": time.Since(startTime).Milliseconds(),
		}).Info("Palm reading completed successfully")

		c.Data(http.StatusOK, "application/json; charset=utf-8", result)
	}
}

func createCheckout(checkout CheckoutService) gin.HandlerFunc {
	return func(c *gin.Context) {
		url, err := checkout.CreateSession(c.Request.Context(), c.GetHeader("Origin"))
		if err != nil {
			respondError(c, apperrors.GetStatusCode(err), "failed to create checkout session", err)
			return
		}

		c.JSON(http.StatusOK, models.CheckoutResponse{URL: url})
	}
}

func sendEmail(mail EmailDispatcher, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		var req models.SendEmailRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "invalid request format", err)
			return
		}
		if req.Email == "" || len(req.Result) == 0 {
			err := apperrors.NewValidationError("email and result data are required", nil)
			respondError(c, apperrors.GetStatusCode(err), "missing required fields", err)
			return
		}

		if err := mail.SendReading(ctx, req); err != nil {
			respondError(c, apperrors.GetStatusCode(err), "failed to send reading email", err)
			return
		}

		c.JSON(http.StatusOK, models.SendEmailResponse{Success: true})
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "available",
		"version": "1.0.0",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

// Middleware and helper functions
func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) == 1 && allowedOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = allowedOrigins
	}
	return cors.New(corsConfig)
}

func requestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

func errorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last()
			respondError(c, apperrors.GetStatusCode(err.Err), "request processing failed", err)
		}
	}
}

func respondError(c *gin.Context, code int, message string, err error) {
	// Log the error with context
	logger.WithError(err).WithFields(logrus.Fields{
		"status_code": code,
		"message":     message,
		"path":        c.Request.URL.Path,
		"method":      c.Request.Method,
		"ip":          c.ClientIP(),
	}).Error("Request failed")

	c.AbortWithStatusJSON(code, models.ErrorResponse{
		Error:   http.StatusText(code),
		Message: fmt.Sprintf("%s: %v", message, err),
	})
}
