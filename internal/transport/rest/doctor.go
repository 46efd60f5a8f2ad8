package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"medcare/internal/domain"
)

// @Summary List doctors
// @Description Active doctors only. Filters by specialization, department and a name search.
// @Tags Doctors
// @Produce json
// @Param specialization query string false "Specialization"
// @Param department query string false "Department"
// @Param search query string false "Name search"
// @Param available query bool false "Only doctors accepting appointments"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} paginatedResponse
// @Router /doctors [get]
func (h *Handler) listDoctors(c *gin.Context) {
	h.respondDoctors(c, false)
}

func (h *Handler) respondDoctors(c *gin.Context, includeInactive bool) {
	p := parsePagination(c)
	filter := domain.DoctorFilter{
		Specialization:  optionalString(c, "specialization"),
		Department:      optionalString(c, "department"),
		Search:          optionalString(c, "search"),
		OnlyAvailable:   c.Query("available") == "true",
		IncludeInactive: includeInactive,
		Limit:           p.Limit,
		Offset:          p.Offset,
	}

	doctors, total, err := h.services.Doctor.List(c.Request.Context(), filter)
	if err != nil {
		h.serviceErrorResponse(c, err)
		return
	}

	paginatedSuccessResponse(c, doctors, total, p)
}

// @Summary Get doctor
// @Tags Doctors
// @Produce json
// @Param id path int true "Doctor ID"
// @Success 200 {object} domain.Doctor
// @Failure 404 {object} errorResponseBody
// @Router /doctors/{id} [get]
func (h *Handler) getDoctorByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	doctor, err := h.services.Doctor.GetPublic(c.Request.Context(), id)
	if err != nil {
		h.serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, doctor)
}

// @Summary Own doctor profile
// @Tags Doctors
// @Produce json
// @Success 200 {object} domain.Doctor
// @Security ApiKeyAuth
// @Router /doctors/profile [get]
func (h *Handler) getDoctorProfile(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	doctor, err := h.services.Doctor.GetByID(c.Request.Context(), actor.UserID)
	if err != nil {
		h.serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, doctor)
}

// @Summary Update own doctor profile
// @Description isAvailable toggles whether patients can book. isActive is ignored here.
// @Tags Doctors
// @Accept json
// @Produce json
// @Param input body domain.UpdateDoctorDTO true "Changed fields"
// @Success 200 {object} domain.Doctor
// @Failure 400 {object} errorResponseBody
// @Security ApiKeyAuth
// @Router /doctors/profile [put]
func (h *Handler) updateDoctorProfile(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	var input domain.UpdateDoctorDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequestResponse(c, "invalid request body: "+err.Error())
		return
	}
	input.IsActive = nil

	doctor, err := h.services.Doctor.Update(c.Request.Context(), actor.UserID, input)
	if err != nil {
		h.serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, doctor)
}

// @Summary Own weekly availability
// @Tags Doctors
// @Produce json
// @Success 200 {array} domain.WeeklyAvailabilitySlot
// @Security ApiKeyAuth
// @Router /doctors/availability [get]
func (h *Handler) getDoctorAvailability(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	availability, err := h.services.Doctor.GetAvailability(c.Request.Context(), actor.UserID)
	if err != nil {
		h.serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, availability)
}

// @Summary Replace weekly availability
// @Description Days must be weekday names; available days need canonical start and end labels with start before end.
// @Tags Doctors
// @Accept json
// @Produce json
// @Param input body domain.UpdateAvailabilityDTO true "Weekly schedule"
// @Success 200 {array} domain.WeeklyAvailabilitySlot
// @Failure 400 {object} errorResponseBody
// @Security ApiKeyAuth
// @Router /doctors/availability [put]
func (h *Handler) updateDoctorAvailability(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	var input domain.UpdateAvailabilityDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequestResponse(c, "availability must be a list of weekly entries")
		return
	}

	availability, err := h.services.Doctor.UpdateAvailability(c.Request.Context(), actor.UserID, input.Availability)
	if err != nil {
		h.serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, availability)
}

// @Summary Doctor dashboard
// @Tags Doctors
// @Produce json
// @Success 200 {object} domain.DashboardStats
// @Security ApiKeyAuth
// @Router /doctors/dashboard [get]
func (h *Handler) getDoctorDashboard(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	stats, err := h.services.Doctor.Dashboard(c.Request.Context(), actor.UserID)
	if err != nil {
		h.serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, stats)
}
