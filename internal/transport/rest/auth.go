package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"medcare/internal/domain"
	"medcare/pkg/validator"
)

// @Summary Register a patient or doctor
// @Description Creates an account. The payload is narrowed by role: patients may send bloodGroup, allergies and emergencyContact, doctors must send specialization, licenseNumber, experience, consultationFee and department.
// @Tags Auth
// @Accept json
// @Produce json
// @Param input body domain.RegisterRequest true "Sign-up form"
// @Success 201 {object} idResponse
// @Failure 400 {object} errorResponseBody "Validation failed"
// @Failure 409 {object} errorResponseBody "Email already registered"
// @Failure 429 {object} errorResponseBody "Too many requests"
// @Router /auth/register [post]
func (h *Handler) register(c *gin.Context) {
	var input domain.RegisterRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("invalid register payload", zap.Error(err))
		badRequestResponse(c, "invalid request body")
		return
	}

	id, err := h.services.Auth.Register(c.Request.Context(), input)
	if err != nil {
		h.serviceErrorResponse(c, err)
		return
	}

	createdResponse(c, idResponse{ID: id})
}

// @Summary Log in
// @Tags Auth
// @Accept json
// @Produce json
// @Param input body domain.LoginRequest true "Credentials"
// @Success 200 {object} domain.Tokens
// @Failure 400 {object} errorResponseBody "Validation failed"
// @Failure 401 {object} errorResponseBody "Invalid credentials"
// @Failure 403 {object} errorResponseBody "Account deactivated"
// @Router /auth/login [post]
func (h *Handler) login(c *gin.Context) {
	var input domain.LoginRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequestResponse(c, "email and password are required")
		return
	}
	input.Email = validator.NormalizeEmail(input.Email)

	tokens, err := h.services.Auth.Login(c.Request.Context(), input, c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		h.serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, tokens)
}

// @Summary Rotate tokens
// @Tags Auth
// @Accept json
// @Produce json
// @Param input body domain.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} domain.Tokens
// @Failure 400 {object} errorResponseBody "Validation failed"
// @Failure 401 {object} errorResponseBody "Invalid refresh token"
// @Router /auth/refresh [post]
func (h *Handler) refreshTokens(c *gin.Context) {
	var input domain.RefreshTokenRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequestResponse(c, "refreshToken is required")
		return
	}

	tokens, err := h.services.Auth.RefreshTokens(c.Request.Context(), input.RefreshToken, c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		h.serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, tokens)
}

// @Summary Log out
// @Tags Auth
// @Accept json
// @Param input body domain.RefreshTokenRequest true "Refresh token"
// @Success 204
// @Failure 400 {object} errorResponseBody "Validation failed"
// @Router /auth/logout [post]
func (h *Handler) logout(c *gin.Context) {
	var input domain.RefreshTokenRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequestResponse(c, "refreshToken is required")
		return
	}

	if err := h.services.Auth.Logout(c.Request.Context(), input.RefreshToken); err != nil {
		h.serviceErrorResponse(c, err)
		return
	}

	noContentResponse(c)
}
