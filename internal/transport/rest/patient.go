package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"medcare/internal/domain"
)

// @Summary Own patient profile
// @Tags Patients
// @Produce json
// @Success 200 {object} domain.Patient
// @Security ApiKeyAuth
// @Router /patients/profile [get]
func (h *Handler) getPatientProfile(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	patient, err := h.services.Patient.GetByID(c.Request.Context(), actor.UserID)
	if err != nil {
		h.serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, patient)
}

// @Summary Update own patient profile
// @Tags Patients
// @Accept json
// @Produce json
// @Param input body domain.UpdatePatientDTO true "Changed fields"
// @Success 200 {object} domain.Patient
// @Failure 400 {object} errorResponseBody
// @Security ApiKeyAuth
// @Router /patients/profile [put]
func (h *Handler) updatePatientProfile(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	h.updatePatient(c, actor.UserID)
}

func (h *Handler) updatePatient(c *gin.Context, id int64) {
	var input domain.UpdatePatientDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequestResponse(c, "invalid request body: "+err.Error())
		return
	}

	patient, err := h.services.Patient.Update(c.Request.Context(), id, input)
	if err != nil {
		h.serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, patient)
}
