package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"medcare/internal/domain"
)

// @Summary Create doctor
// @Tags Admin
// @Accept json
// @Produce json
// @Param input body domain.RegisterRequest true "Doctor account and profile; role is forced to doctor"
// @Success 201 {object} idResponse
// @Failure 400 {object} errorResponseBody
// @Failure 409 {object} errorResponseBody "Email already registered"
// @Security ApiKeyAuth
// @Router /admin/doctors [post]
func (h *Handler) adminCreateDoctor(c *gin.Context) {
	var input domain.RegisterRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequestResponse(c, "invalid request body")
		return
	}

	id, err := h.services.Doctor.Create(c.Request.Context(), input)
	if err != nil {
		h.serviceErrorResponse(c, err)
		return
	}

	createdResponse(c, idResponse{ID: id})
}

// @Summary List doctors including deactivated ones
// @Tags Admin
// @Produce json
// @Param search query string false "Name search"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} paginatedResponse
// @Security ApiKeyAuth
// @Router /admin/doctors [get]
func (h *Handler) adminListDoctors(c *gin.Context) {
	h.respondDoctors(c, true)
}

// @Summary Get doctor
// @Tags Admin
// @Produce json
// @Param id path int true "Doctor ID"
// @Success 200 {object} domain.Doctor
// @Failure 404 {object} errorResponseBody
// @Security ApiKeyAuth
// @Router /admin/doctors/{id} [get]
func (h *Handler) adminGetDoctor(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	doctor, err := h.services.Doctor.GetByID(c.Request.Context(), id)
	if err != nil {
		h.serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, doctor)
}

// @Summary Update doctor
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path int true "Doctor ID"
// @Param input body domain.UpdateDoctorDTO true "Changed fields"
// @Success 200 {object} domain.Doctor
// @Failure 400 {object} errorResponseBody
// @Failure 404 {object} errorResponseBody
// @Security ApiKeyAuth
// @Router /admin/doctors/{id} [put]
func (h *Handler) adminUpdateDoctor(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input domain.UpdateDoctorDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequestResponse(c, "invalid request body: "+err.Error())
		return
	}

	doctor, err := h.services.Doctor.Update(c.Request.Context(), id, input)
	if err != nil {
		h.serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, doctor)
}

// @Summary Deactivate doctor
// @Description The account is kept for history but hidden from patients and signed out.
// @Tags Admin
// @Param id path int true "Doctor ID"
// @Success 204
// @Failure 404 {object} errorResponseBody
// @Security ApiKeyAuth
// @Router /admin/doctors/{id} [delete]
func (h *Handler) adminDeactivateDoctor(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.services.Doctor.Deactivate(c.Request.Context(), id); err != nil {
		h.serviceErrorResponse(c, err)
		return
	}

	noContentResponse(c)
}

// @Summary List patients
// @Tags Admin
// @Produce json
// @Param search query string false "Name, email or phone search"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} paginatedResponse
// @Security ApiKeyAuth
// @Router /admin/patients [get]
func (h *Handler) adminListPatients(c *gin.Context) {
	p := parsePagination(c)
	filter := domain.PatientFilter{
		Search: optionalString(c, "search"),
		Limit:  p.Limit,
		Offset: p.Offset,
	}

	patients, total, err := h.services.Patient.List(c.Request.Context(), filter)
	if err != nil {
		h.serviceErrorResponse(c, err)
		return
	}

	paginatedSuccessResponse(c, patients, total, p)
}

// @Summary Get patient
// @Tags Admin
// @Produce json
// @Param id path int true "Patient ID"
// @Success 200 {object} domain.Patient
// @Failure 404 {object} errorResponseBody
// @Security ApiKeyAuth
// @Router /admin/patients/{id} [get]
func (h *Handler) adminGetPatient(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	patient, err := h.services.Patient.GetByID(c.Request.Context(), id)
	if err != nil {
		h.serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, patient)
}

// @Summary Update patient
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path int true "Patient ID"
// @Param input body domain.UpdatePatientDTO true "Changed fields"
// @Success 200 {object} domain.Patient
// @Failure 400 {object} errorResponseBody
// @Failure 404 {object} errorResponseBody
// @Security ApiKeyAuth
// @Router /admin/patients/{id} [put]
func (h *Handler) adminUpdatePatient(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	h.updatePatient(c, id)
}
