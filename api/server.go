// Package api exposes the HTTP surface for location resolution and
// weather lookups.
package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"weatherscope.app/config"
	apperrors "weatherscope.app/errors"
	"weatherscope.app/models"
	"weatherscope.app/service"
)

// Server represents the HTTP server and API handler
type Server struct {
	router         *gin.Engine
	config         *config.Config
	weatherService service.WeatherServiceInterface
}

// NewServer creates and configures a new HTTP server
func NewServer(config *config.Config, weatherService service.WeatherServiceInterface) *Server {
	router := gin.Default()

	server := &Server{
		router:         router,
		config:         config,
		weatherService: weatherService,
	}

	server.setupRoutes()
	return server
}

func (s *Server) setupRoutes() {
	api := s.router.Group("/api")
	{
		api.GET("/locations", s.resolveLocations)
		api.GET("/weather", s.getWeather)
		api.GET("/weather/history", s.getHistory)
		api.GET("/searches", s.recentSearches)
	}

	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	s.router.GET("/health", s.health)
}

// Start begins the HTTP server
func (s *Server) Start() error {
	return s.router.Run(fmt.Sprintf(":%d", s.config.Server.Port))
}

// GetRouter returns the router for testing purposes
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

func (s *Server) resolveLocations(c *gin.Context) {
	var req models.LocationQuery
	if err := c.ShouldBindQuery(&req); err != nil {
		s.handleBindError(c, err)
		return
	}

	locations, err := s.weatherService.ResolveLocations(c.Request.Context(), req.Query)
	if err != nil {
		slog.Error("location resolution error", "error", err, "query", req.Query)
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"locations": locations})
}

func (s *Server) getWeather(c *gin.Context) {
	var req models.WeatherQuery
	if err := c.ShouldBindQuery(&req); err != nil {
		s.handleBindError(c, err)
		return
	}

	bundle, err := s.weatherService.GetWeather(c.Request.Context(), c.Query("q"), req.Location())
	if err != nil {
		slog.Error("weather lookup error", "error", err, "location", req.Name)
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, bundle)
}

func (s *Server) getHistory(c *gin.Context) {
	var req models.WeatherQuery
	if err := c.ShouldBindQuery(&req); err != nil {
		s.handleBindError(c, err)
		return
	}

	records, err := s.weatherService.GetHistory(c.Request.Context(), req.Location())
	if err != nil {
		slog.Error("history lookup error", "error", err, "location", req.Name)
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"history": records})
}

func (s *Server) recentSearches(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			s.handleError(c, apperrors.NewValidationError("limit must be a positive integer"))
			return
		}
		limit = parsed
	}

	records, err := s.weatherService.RecentSearches(limit)
	if err != nil {
		slog.Error("search history error", "error", err)
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"searches": records})
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleBindError turns gin binding failures into uniform validation errors.
func (s *Server) handleBindError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		field := validationErrs[0]
		s.handleError(c, apperrors.NewValidationError(
			fmt.Sprintf("invalid parameter %s: failed on %s", field.Field(), field.Tag())))
		return
	}
	s.handleError(c, apperrors.NewValidationError("invalid request parameters"))
}

// handleError handles different types of application errors
func (s *Server) handleError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Internal server error"})
		return
	}

	var statusCode int
	response := models.ErrorResponse{Error: appErr.Message}

	switch appErr.Type {
	case apperrors.ErrorTypeInvalidInput, apperrors.ErrorTypeValidation:
		statusCode = http.StatusBadRequest
	case apperrors.ErrorTypeResolutionUnavailable, apperrors.ErrorTypeProviderUnavailable:
		statusCode = http.StatusServiceUnavailable
	case apperrors.ErrorTypeAllProvidersUnavailable:
		statusCode = http.StatusServiceUnavailable
		if appErr.PrimaryCause != nil {
			response.Reasons = append(response.Reasons, appErr.PrimaryCause.Error())
		}
		if appErr.SecondaryCause != nil {
			response.Reasons = append(response.Reasons, appErr.SecondaryCause.Error())
		}
	case apperrors.ErrorTypeHistoryUnavailable:
		response.Reason = string(appErr.Reason)
		if appErr.Reason == apperrors.HistoryReasonProviderError {
			statusCode = http.StatusServiceUnavailable
		} else {
			statusCode = http.StatusForbidden
		}
	case apperrors.ErrorTypeDatabase, apperrors.ErrorTypeConfiguration:
		statusCode = http.StatusInternalServerError
		response.Error = "Internal server error"
	default:
		statusCode = http.StatusInternalServerError
		response.Error = "Internal server error"
	}

	c.JSON(statusCode, response)
}
