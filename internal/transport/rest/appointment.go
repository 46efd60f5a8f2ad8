package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"medcare/internal/domain"
)

// @Summary Open slots of a doctor on a date
// @Description working=false means the doctor does not work that day; working=true with an empty list means the day is fully booked or capacity is reached.
// @Tags Appointments
// @Produce json
// @Param doctorId path int true "Doctor ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} domain.DaySlots
// @Failure 400 {object} errorResponseBody
// @Failure 404 {object} errorResponseBody
// @Security ApiKeyAuth
// @Router /appointments/available-slots/{doctorId} [get]
func (h *Handler) getAvailableSlots(c *gin.Context) {
	doctorID, ok := parseIDParam(c, "doctorId")
	if !ok {
		return
	}

	date := c.Query("date")
	if date == "" {
		badRequestResponse(c, "date query parameter is required")
		return
	}

	slots, err := h.services.Appointment.AvailableSlots(c.Request.Context(), doctorID, date)
	if err != nil {
		h.serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, slots)
}

// @Summary Book an appointment
// @Description A 409 means the slot was taken in the meantime; fetch the slots again.
// @Tags Appointments
// @Accept json
// @Produce json
// @Param input body domain.CreateAppointmentDTO true "Booking"
// @Success 201 {object} domain.Appointment
// @Failure 400 {object} errorResponseBody
// @Failure 409 {object} errorResponseBody "Slot already taken"
// @Security ApiKeyAuth
// @Router /appointments [post]
func (h *Handler) createAppointment(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	var input domain.CreateAppointmentDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequestResponse(c, "doctorId, appointmentDate (YYYY-MM-DD), appointmentTime and reason are required")
		return
	}

	appointment, err := h.services.Appointment.Book(c.Request.Context(), actor, input)
	if err != nil {
		h.serviceErrorResponse(c, err)
		return
	}

	createdResponse(c, appointment)
}

// @Summary Own appointments (patient)
// @Tags Appointments
// @Produce json
// @Param status query string false "Status filter"
// @Param date_from query string false "From date (YYYY-MM-DD)"
// @Param date_to query string false "To date (YYYY-MM-DD)"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} paginatedResponse
// @Security ApiKeyAuth
// @Router /appointments/my-appointments [get]
func (h *Handler) getMyAppointments(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	filter, ok := appointmentFilterFromQuery(c)
	if !ok {
		return
	}
	filter.PatientID = &actor.UserID

	h.respondAppointments(c, filter)
}

// @Summary Own appointments (doctor)
// @Tags Appointments
// @Produce json
// @Param status query string false "Status filter"
// @Param date_from query string false "From date (YYYY-MM-DD)"
// @Param date_to query string false "To date (YYYY-MM-DD)"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} paginatedResponse
// @Security ApiKeyAuth
// @Router /appointments/doctor/my-appointments [get]
func (h *Handler) getDoctorAppointments(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	filter, ok := appointmentFilterFromQuery(c)
	if !ok {
		return
	}
	filter.DoctorID = &actor.UserID

	h.respondAppointments(c, filter)
}

// @Summary All appointments (admin)
// @Tags Appointments
// @Produce json
// @Param doctorId query int false "Doctor ID"
// @Param patientId query int false "Patient ID"
// @Param status query string false "Status filter"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} paginatedResponse
// @Security ApiKeyAuth
// @Router /appointments [get]
func (h *Handler) getAppointments(c *gin.Context) {
	filter, ok := appointmentFilterFromQuery(c)
	if !ok {
		return
	}

	if c.Query("doctorId") != "" {
		id, err := parseInt64(c.Query("doctorId"))
		if err != nil {
			badRequestResponse(c, "invalid doctorId")
			return
		}
		filter.DoctorID = &id
	}
	if c.Query("patientId") != "" {
		id, err := parseInt64(c.Query("patientId"))
		if err != nil {
			badRequestResponse(c, "invalid patientId")
			return
		}
		filter.PatientID = &id
	}

	h.respondAppointments(c, filter)
}

func (h *Handler) respondAppointments(c *gin.Context, filter domain.AppointmentFilter) {
	appointments, total, err := h.services.Appointment.List(c.Request.Context(), filter)
	if err != nil {
		h.serviceErrorResponse(c, err)
		return
	}

	paginatedSuccessResponse(c, appointments, total, pagination{Limit: filter.Limit, Offset: filter.Offset})
}

// @Summary Get appointment
// @Tags Appointments
// @Produce json
// @Param id path int true "Appointment ID"
// @Success 200 {object} domain.Appointment
// @Failure 403 {object} errorResponseBody
// @Failure 404 {object} errorResponseBody
// @Security ApiKeyAuth
// @Router /appointments/{id} [get]
func (h *Handler) getAppointmentByID(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	appointment, err := h.services.Appointment.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		h.serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, appointment)
}

// @Summary Cancel appointment
// @Description Patients and doctors may cancel a scheduled appointment.
// @Tags Appointments
// @Produce json
// @Param id path int true "Appointment ID"
// @Success 200 {object} domain.Appointment
// @Failure 409 {object} errorResponseBody "Transition not allowed"
// @Security ApiKeyAuth
// @Router /appointments/{id}/cancel [put]
func (h *Handler) cancelAppointment(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	appointment, err := h.services.Appointment.Cancel(c.Request.Context(), actor, id)
	if err != nil {
		h.serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, appointment)
}

// @Summary Change appointment status
// @Description Allowed: scheduled→confirmed, scheduled→cancelled, confirmed→completed, confirmed→no-show.
// @Tags Appointments
// @Accept json
// @Produce json
// @Param id path int true "Appointment ID"
// @Param input body domain.UpdateStatusDTO true "New status"
// @Success 200 {object} domain.Appointment
// @Failure 409 {object} errorResponseBody "Transition not allowed"
// @Security ApiKeyAuth
// @Router /appointments/{id}/status [put]
func (h *Handler) updateAppointmentStatus(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input domain.UpdateStatusDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequestResponse(c, "status is required")
		return
	}

	appointment, err := h.services.Appointment.UpdateStatus(c.Request.Context(), actor, id, input.Status)
	if err != nil {
		h.serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, appointment)
}
