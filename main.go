package main

import (
	"fmt"
	"net/http"
	"strings"

	"drawing-filter/ingest"
	"drawing-filter/internal/constants"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Logger
var log = logrus.New()

func main() {
	if loadDotEnv(".env") {
		log.Debug("Loaded environment from .env")
	}

	config, err := loadConfig()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Initialize logrus logger
	if err := initLogger(config.LogLevel); err != nil {
		log.Fatal(err)
	}

	// Initialize App with dependencies
	app := &App{
		Config: config,
		VectorClient: NewVectorAPIClient(VectorAPIConfig{
			BaseURL:           config.VectorAPIBaseURL,
			Token:             config.VectorAPIToken,
			Timeout:           config.VectorAPITimeout,
			RetryMax:          config.VectorAPIRetryMax,
			RequestsPerMinute: config.VectorAPIRequestsPerMinute,
		}, log.WithField("component", "vector_api")),
	}
	if !app.VectorClient.Enabled() {
		log.Info("VECTOR_API_BASE_URL not set, vector_data_url references are rejected")
	}

	router := newRouter(app)

	log.Infof("%s %s listening on %s", constants.ServiceName, constants.Version, config.ListenAddr)
	if err := router.Run(config.ListenAddr); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}

// newRouter wires the HTTP routes
func newRouter(app *App) *gin.Engine {
	router := gin.Default()
	router.Use(requestIDMiddleware())

	router.GET("/", app.infoHandler)
	router.GET("/health", app.healthHandler)
	router.POST("/filter", app.filterHandler)
	router.POST("/filter-from-vector-api", app.filterFromVectorAPIHandler)

	// API routes
	api := router.Group("/api")
	{
		api.POST("/filter", app.filterHandler)
		api.POST("/filter-from-vector-api", app.filterFromVectorAPIHandler)
		api.POST("/filter/batch", app.batchFilterHandler)
		api.GET("/health", app.healthHandler)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})

	return router
}

// initLogger sets the level and format of the service loggers
func initLogger(logLevel string) error {
	var level logrus.Level
	switch strings.ToLower(logLevel) {
	case "debug":
		level = logrus.DebugLevel
	case "info", "":
		level = logrus.InfoLevel
	case "warn":
		level = logrus.WarnLevel
	case "error":
		level = logrus.ErrorLevel
	default:
		log.SetLevel(logrus.InfoLevel)
		return fmt.Errorf("invalid log level: '%s'", logLevel)
	}

	log.SetLevel(level)
	ingest.SetLogLevel(level)

	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	return nil
}
