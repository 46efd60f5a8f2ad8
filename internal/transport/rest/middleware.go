package rest

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"medcare/internal/domain"
)

const (
	authorizationHeader = "Authorization"
	actorCtx            = "actor"
)

var errNoActor = errors.New("user is not authenticated")

func (h *Handler) loggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		logger := h.logger.With(
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
			zap.Int("status", status),
			zap.Duration("latency", latency),
			zap.String("ip", c.ClientIP()),
			zap.String("user-agent", c.Request.UserAgent()),
		)

		if actor, err := getActor(c); err == nil {
			logger = logger.With(zap.Int64("userId", actor.UserID), zap.String("role", string(actor.Role)))
		}

		if status >= 500 {
			logger.Error("server error")
		} else if status >= 400 {
			logger.Warn("client error")
		} else {
			logger.Info("request processed")
		}
	}
}

func (h *Handler) errorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		for _, err := range c.Errors {
			h.logger.Error("request error", zap.String("path", c.FullPath()), zap.Error(err.Err))
		}
	}
}

func (h *Handler) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		h.metrics.HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		h.metrics.HTTPRequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

func (h *Handler) corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, PATCH")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Content-Length, Accept-Encoding, Origin, Accept, User-Agent, X-Requested-With, Cache-Control")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Length, Authorization, Content-Type")
		c.Writer.Header().Set("Access-Control-Max-Age", "86400")

		origin := c.Request.Header.Get("Origin")
		if origin != "" && c.Request.Header.Get(authorizationHeader) != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func (h *Handler) rateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !h.limiter.Allow(c.ClientIP()) {
			h.metrics.RateLimited.Inc()
			c.Header("Retry-After", "1")
			errorResponse(c, http.StatusTooManyRequests, "too many requests, slow down")
			return
		}
		c.Next()
	}
}

func (h *Handler) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(authorizationHeader)
		if header == "" {
			errorResponse(c, http.StatusUnauthorized, "empty authorization header")
			return
		}

		headerParts := strings.Split(header, " ")
		if len(headerParts) != 2 || headerParts[0] != "Bearer" || headerParts[1] == "" {
			errorResponse(c, http.StatusUnauthorized, "invalid authorization header format")
			return
		}

		actor, err := h.services.Auth.ParseToken(c.Request.Context(), headerParts[1])
		if err != nil {
			h.logger.Debug("rejected access token", zap.Error(err))
			unauthorizedResponse(c)
			return
		}

		c.Set(actorCtx, actor)

		c.Next()
	}
}

// roleMiddleware must run after authMiddleware.
func (h *Handler) roleMiddleware(roles ...domain.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, err := getActor(c)
		if err != nil {
			unauthorizedResponse(c)
			return
		}

		for _, role := range roles {
			if actor.Is(role) {
				c.Next()
				return
			}
		}

		forbiddenResponse(c, "access denied for role "+string(actor.Role))
	}
}

func (h *Handler) adminMiddleware() gin.HandlerFunc {
	return h.roleMiddleware(domain.UserRoleAdmin)
}

func (h *Handler) doctorMiddleware() gin.HandlerFunc {
	return h.roleMiddleware(domain.UserRoleDoctor)
}

func (h *Handler) patientMiddleware() gin.HandlerFunc {
	return h.roleMiddleware(domain.UserRolePatient)
}

func getActor(c *gin.Context) (domain.Actor, error) {
	value, exists := c.Get(actorCtx)
	if !exists {
		return domain.Actor{}, errNoActor
	}

	actor, ok := value.(domain.Actor)
	if !ok {
		return domain.Actor{}, errNoActor
	}

	return actor, nil
}
