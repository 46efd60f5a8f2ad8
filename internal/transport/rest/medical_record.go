package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"medcare/internal/domain"
)

// @Summary Save a medical record
// @Description Completes the appointment (confirming it first when still scheduled) and stores the record. Saving again for the same appointment replaces it.
// @Tags Medical records
// @Accept json
// @Produce json
// @Param input body domain.CreateMedicalRecordDTO true "Record"
// @Success 201 {object} domain.MedicalRecord
// @Failure 400 {object} errorResponseBody "Diagnosis missing"
// @Failure 403 {object} errorResponseBody
// @Failure 409 {object} errorResponseBody "Appointment cancelled or no-show"
// @Security ApiKeyAuth
// @Router /medical-records [post]
func (h *Handler) createMedicalRecord(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	var input domain.CreateMedicalRecordDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequestResponse(c, "patientId and appointmentId are required")
		return
	}

	record, err := h.services.MedicalRecord.Create(c.Request.Context(), actor, input)
	if err != nil {
		h.serviceErrorResponse(c, err)
		return
	}

	createdResponse(c, record)
}

// @Summary Update a medical record
// @Tags Medical records
// @Accept json
// @Produce json
// @Param id path int true "Record ID"
// @Param input body domain.UpdateMedicalRecordDTO true "Record content"
// @Success 200 {object} domain.MedicalRecord
// @Failure 400 {object} errorResponseBody
// @Failure 403 {object} errorResponseBody
// @Security ApiKeyAuth
// @Router /medical-records/{id} [put]
func (h *Handler) updateMedicalRecord(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input domain.UpdateMedicalRecordDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequestResponse(c, "invalid request body")
		return
	}

	record, err := h.services.MedicalRecord.Update(c.Request.Context(), actor, id, input)
	if err != nil {
		h.serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, record)
}

// @Summary Get a medical record
// @Tags Medical records
// @Produce json
// @Param id path int true "Record ID"
// @Success 200 {object} domain.MedicalRecord
// @Failure 403 {object} errorResponseBody
// @Failure 404 {object} errorResponseBody
// @Security ApiKeyAuth
// @Router /medical-records/{id} [get]
func (h *Handler) getMedicalRecordByID(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	record, err := h.services.MedicalRecord.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		h.serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, record)
}

// @Summary Records written by the doctor
// @Tags Medical records
// @Produce json
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} paginatedResponse
// @Security ApiKeyAuth
// @Router /medical-records/doctor/my-records [get]
func (h *Handler) getDoctorMedicalRecords(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	p := parsePagination(c)
	h.respondMedicalRecords(c, domain.MedicalRecordFilter{DoctorID: &actor.UserID, Limit: p.Limit, Offset: p.Offset}, p)
}

// @Summary Records of the patient
// @Tags Medical records
// @Produce json
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} paginatedResponse
// @Security ApiKeyAuth
// @Router /medical-records/patient/my-records [get]
func (h *Handler) getPatientMedicalRecords(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	p := parsePagination(c)
	h.respondMedicalRecords(c, domain.MedicalRecordFilter{PatientID: &actor.UserID, Limit: p.Limit, Offset: p.Offset}, p)
}

func (h *Handler) respondMedicalRecords(c *gin.Context, filter domain.MedicalRecordFilter, p pagination) {
	records, total, err := h.services.MedicalRecord.List(c.Request.Context(), filter)
	if err != nil {
		h.serviceErrorResponse(c, err)
		return
	}

	paginatedSuccessResponse(c, records, total, p)
}
