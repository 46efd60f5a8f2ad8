package rest

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"medcare/config"
	"medcare/internal/domain"
	"medcare/internal/service"
	"medcare/internal/transport/websocket"
	"medcare/pkg/metrics"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type Handler struct {
	services *service.Services
	logger   *zap.Logger
	config   *config.Config
	metrics  *metrics.Metrics
	limiter  *ipRateLimiter
	events   eventStream
}

type eventStream interface {
	Serve(w http.ResponseWriter, r *http.Request, actor domain.Actor) error
}

func NewHandler(services *service.Services, logger *zap.Logger, config *config.Config, metrics *metrics.Metrics, events *websocket.Hub) *Handler {
	return &Handler{
		services: services,
		logger:   logger,
		config:   config,
		metrics:  metrics,
		limiter:  newIPRateLimiter(config.RateLimit),
		events:   events,
	}
}

func (h *Handler) InitRoutes(router *gin.Engine) {
	router.Use(h.loggerMiddleware())
	router.Use(h.errorMiddleware())
	router.Use(h.metricsMiddleware())
	router.Use(h.corsMiddleware())

	router.GET("/health", h.health)

	api := router.Group("/api/v1")
	{
		auth := api.Group("/auth", h.rateLimitMiddleware())
		{
			auth.POST("/register", h.register)
			auth.POST("/login", h.login)
			auth.POST("/refresh", h.refreshTokens)
			auth.POST("/logout", h.logout)
			auth.GET("/me", h.authMiddleware(), h.getCurrentUser)
		}

		// Browsers cannot set headers on a websocket handshake, so the token
		// travels in the query string.
		api.GET("/events", h.eventStream)

		users := api.Group("/users", h.authMiddleware())
		{
			users.GET("/me", h.getCurrentUser)
			users.PUT("/me/password", h.changePassword)
			users.POST("/me/photo", h.uploadProfilePhoto)
		}

		doctors := api.Group("/doctors")
		{
			doctors.GET("", h.listDoctors)
			doctors.GET("/:id", h.getDoctorByID)

			own := doctors.Group("", h.authMiddleware(), h.doctorMiddleware())
			{
				own.GET("/profile", h.getDoctorProfile)
				own.PUT("/profile", h.updateDoctorProfile)
				own.GET("/availability", h.getDoctorAvailability)
				own.PUT("/availability", h.updateDoctorAvailability)
				own.GET("/dashboard", h.getDoctorDashboard)
			}
		}

		patients := api.Group("/patients", h.authMiddleware(), h.patientMiddleware())
		{
			patients.GET("/profile", h.getPatientProfile)
			patients.PUT("/profile", h.updatePatientProfile)
		}

		appointments := api.Group("/appointments", h.authMiddleware())
		{
			appointments.GET("/available-slots/:doctorId", h.getAvailableSlots)
			appointments.POST("", h.patientMiddleware(), h.createAppointment)
			appointments.GET("/my-appointments", h.patientMiddleware(), h.getMyAppointments)
			appointments.GET("/doctor/my-appointments", h.doctorMiddleware(), h.getDoctorAppointments)
			appointments.GET("", h.adminMiddleware(), h.getAppointments)
			appointments.GET("/:id", h.getAppointmentByID)
			appointments.PUT("/:id/cancel", h.cancelAppointment)
			appointments.PUT("/:id/status", h.updateAppointmentStatus)
		}

		records := api.Group("/medical-records", h.authMiddleware())
		{
			records.POST("", h.doctorMiddleware(), h.createMedicalRecord)
			records.PUT("/:id", h.doctorMiddleware(), h.updateMedicalRecord)
			records.GET("/:id", h.getMedicalRecordByID)
			records.GET("/doctor/my-records", h.doctorMiddleware(), h.getDoctorMedicalRecords)
			records.GET("/patient/my-records", h.patientMiddleware(), h.getPatientMedicalRecords)
		}

		admin := api.Group("/admin", h.authMiddleware(), h.adminMiddleware())
		{
			admin.POST("/doctors", h.adminCreateDoctor)
			admin.GET("/doctors", h.adminListDoctors)
			admin.GET("/doctors/:id", h.adminGetDoctor)
			admin.PUT("/doctors/:id", h.adminUpdateDoctor)
			admin.DELETE("/doctors/:id", h.adminDeactivateDoctor)

			admin.GET("/patients", h.adminListPatients)
			admin.GET("/patients/:id", h.adminGetPatient)
			admin.PUT("/patients/:id", h.adminUpdatePatient)
		}
	}
}

// @Summary Health check
// @Tags System
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"name":    h.config.Name,
		"version": h.config.Version,
	})
}

type pagination struct {
	Limit  int
	Offset int
}

func (p pagination) page() int {
	if p.Limit <= 0 {
		return 1
	}
	return p.Offset/p.Limit + 1
}

// parsePagination accepts limit/offset, or page with limit as page size.
func parsePagination(c *gin.Context) pagination {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageSize)))
	if err != nil || limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	if page, err := strconv.Atoi(c.Query("page")); err == nil && page > 0 {
		offset = (page - 1) * limit
	}

	return pagination{Limit: limit, Offset: offset}
}

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		badRequestResponse(c, "invalid "+name+" format")
		return 0, false
	}
	return id, true
}

func parseInt64(value string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(value), 10, 64)
}

func optionalString(c *gin.Context, key string) *string {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return nil
	}
	return &value
}

// appointmentFilterFromQuery reads status and date_from/date_to (inclusive).
func appointmentFilterFromQuery(c *gin.Context) (domain.AppointmentFilter, bool) {
	p := parsePagination(c)
	filter := domain.AppointmentFilter{Limit: p.Limit, Offset: p.Offset}

	if status := optionalString(c, "status"); status != nil {
		s := domain.AppointmentStatus(*status)
		if !s.IsValid() {
			badRequestResponse(c, "unknown appointment status "+*status)
			return filter, false
		}
		filter.Status = &s
	}

	if from := optionalString(c, "date_from"); from != nil {
		t, err := domain.ParseDate(*from)
		if err != nil {
			badRequestResponse(c, "date_from must be in YYYY-MM-DD format")
			return filter, false
		}
		filter.StartDate = &t
	}

	if to := optionalString(c, "date_to"); to != nil {
		t, err := domain.ParseDate(*to)
		if err != nil {
			badRequestResponse(c, "date_to must be in YYYY-MM-DD format")
			return filter, false
		}
		end := t.Add(24*time.Hour - time.Second)
		filter.EndDate = &end
	}

	return filter, true
}
