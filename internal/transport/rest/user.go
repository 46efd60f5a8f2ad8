package rest

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"medcare/internal/domain"
)

const photoFormField = "photo"

// @Summary Current user
// @Tags Users
// @Produce json
// @Success 200 {object} domain.User
// @Failure 401 {object} errorResponseBody
// @Security ApiKeyAuth
// @Router /users/me [get]
func (h *Handler) getCurrentUser(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	user, err := h.services.User.GetByID(c.Request.Context(), actor.UserID)
	if err != nil {
		h.serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, user)
}

// @Summary Change password
// @Description Ends every session of the user on success.
// @Tags Users
// @Accept json
// @Produce json
// @Param input body domain.PasswordUpdateDTO true "Old and new password"
// @Success 200 {object} messageResponseType
// @Failure 400 {object} errorResponseBody
// @Security ApiKeyAuth
// @Router /users/me/password [put]
func (h *Handler) changePassword(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	var input domain.PasswordUpdateDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequestResponse(c, "oldPassword and newPassword (min 6 characters) are required")
		return
	}

	if err := h.services.User.ChangePassword(c.Request.Context(), actor.UserID, input); err != nil {
		h.serviceErrorResponse(c, err)
		return
	}

	messageResponse(c, http.StatusOK, "password changed, please log in again")
}

// @Summary Upload profile photo
// @Tags Users
// @Accept multipart/form-data
// @Produce json
// @Param photo formData file true "Image file"
// @Success 200 {object} map[string]string "profileImage URL"
// @Failure 400 {object} errorResponseBody
// @Failure 413 {object} errorResponseBody
// @Failure 503 {object} errorResponseBody "Storage not configured"
// @Security ApiKeyAuth
// @Router /users/me/photo [post]
func (h *Handler) uploadProfilePhoto(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	maxBytes := int64(h.config.HTTP.MaxUploadMB) << 20
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)

	fileHeader, err := c.FormFile(photoFormField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			errorResponse(c, http.StatusRequestEntityTooLarge, "photo is too large")
			return
		}
		badRequestResponse(c, "photo file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.Error("failed to open uploaded file", zap.Error(err))
		internalServerErrorResponse(c)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.logger.Error("failed to read uploaded file", zap.Error(err))
		internalServerErrorResponse(c)
		return
	}

	url, err := h.services.User.UploadProfileImage(c.Request.Context(), actor.UserID, data, fileHeader.Filename)
	if err != nil {
		h.serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, gin.H{"profileImage": url})
}
