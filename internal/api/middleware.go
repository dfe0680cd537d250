package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"fulfillment/internal/httperr"
	"fulfillment/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// NewRouter creates a gin engine with the middleware and probe routes
// shared by every service. ping reports database connectivity for the
// health endpoint and may be nil for services without a database.
func NewRouter(serviceName, port string, ping func(context.Context) error) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", healthHandler(serviceName, port, ping))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}

func healthHandler(serviceName, port string, ping func(context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		database := "n/a"
		if ping != nil {
			database = "connected"
			if err := ping(c.Request.Context()); err != nil {
				database = "unreachable"
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"service":  serviceName,
			"status":   "running",
			"port":     port,
			"database": database,
		})
	}
}

// respondError translates a service error into the wire format. The
// status comes from the error's kind; unclassified errors are 500s.
func respondError(c *gin.Context, err error) {
	status := httperr.StatusOf(err)
	if status >= http.StatusInternalServerError {
		util.GetLogger().Error("Request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err))
	}
	c.JSON(status, gin.H{
		"success": false,
		"error":   err.Error(),
	})
}

func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error":   "Invalid request body: " + err.Error(),
	})
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
