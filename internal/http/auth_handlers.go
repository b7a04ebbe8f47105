package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"optic-ims/internal/mail"
	"optic-ims/internal/service"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type updateProfileRequest struct {
	Name string `json:"name" binding:"required,min=2,max=50"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type resetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=6"`
}

type adminChangePasswordRequest struct {
	UserID      string `json:"userId" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=6"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	user, err := h.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			respondError(c, http.StatusUnauthorized, "Invalid email or password")
		case errors.Is(err, service.ErrAccountDeactivated):
			respondError(c, http.StatusUnauthorized, "Account is deactivated. Please contact administrator.")
		default:
			h.logger.WithError(err).Error("login failed")
			respondError(c, http.StatusInternalServerError, "Server error during login")
		}
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		h.logger.WithError(err).Error("issue token failed")
		respondError(c, http.StatusInternalServerError, "Server error during login")
		return
	}

	respondOK(c, "Login successful", gin.H{
		"user":  userToResponse(user),
		"token": token,
	})
}

func (h *Handler) currentUser(c *gin.Context) {
	user := CurrentUser(c)
	respondOK(c, "User profile retrieved successfully", gin.H{
		"user": userToResponse(user),
	})
}

func (h *Handler) updateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	user, err := h.users.UpdateProfile(c.Request.Context(), CurrentUser(c).ID, req.Name)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			respondError(c, http.StatusNotFound, "User not found")
			return
		}
		h.logger.WithError(err).Error("update profile failed")
		respondError(c, http.StatusInternalServerError, "Server error while updating profile")
		return
	}

	respondOK(c, "Profile updated successfully", gin.H{
		"user": userToResponse(user),
	})
}

func (h *Handler) changePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	err := h.users.ChangePassword(c.Request.Context(), CurrentUser(c).ID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWrongPassword):
			respondError(c, http.StatusBadRequest, "Current password is incorrect")
		case errors.Is(err, service.ErrUserNotFound):
			respondError(c, http.StatusNotFound, "User not found")
		default:
			h.logger.WithError(err).Error("change password failed")
			respondError(c, http.StatusInternalServerError, "Server error while changing password")
		}
		return
	}

	respondOK(c, "Password changed successfully", nil)
}

func (h *Handler) forgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	err := h.users.RequestPasswordReset(c.Request.Context(), req.Email)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAccountDeactivated):
			respondError(c, http.StatusBadRequest, "Account is deactivated. Please contact administrator.")
		case errors.Is(err, service.ErrNoAdminAvailable):
			h.logger.Error("password reset requested but no active admin exists")
			respondError(c, http.StatusInternalServerError, "Unable to process password reset request. Please contact support.")
		case errors.Is(err, mail.ErrDeliveryFailed):
			h.logger.WithError(err).Error("password reset mail delivery failed")
			respondError(c, http.StatusInternalServerError, "Failed to send password reset email. Please try again later.")
		default:
			h.logger.WithError(err).Error("password reset request failed")
			respondError(c, http.StatusInternalServerError, "Server error during password reset request")
		}
		return
	}

	// same response whether or not the account exists
	respondOK(c, "If an account with that email exists, a password reset email has been sent to the administrator.", nil)
}

func (h *Handler) resetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	err := h.users.ResetPassword(c.Request.Context(), req.Email, req.Token, req.NewPassword)
	if err != nil {
		if errors.Is(err, service.ErrInvalidResetToken) {
			respondError(c, http.StatusBadRequest, "Invalid or expired password reset token.")
			return
		}
		h.logger.WithError(err).Error("password reset failed")
		respondError(c, http.StatusInternalServerError, "Server error during password reset")
		return
	}

	respondOK(c, "Password has been reset successfully. You can now login with your new password.", nil)
}

func (h *Handler) adminChangeUserPassword(c *gin.Context) {
	var req adminChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	user, err := h.users.AdminChangePassword(c.Request.Context(), req.UserID, req.NewPassword)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			respondError(c, http.StatusNotFound, "User not found")
			return
		}
		h.logger.WithError(err).Error("admin change user password failed")
		respondError(c, http.StatusInternalServerError, "Server error while changing user password")
		return
	}

	respondOK(c, "Password changed successfully for "+user.Name+" ("+user.Email+")", nil)
}

func (h *Handler) salesUser(c *gin.Context) {
	user, err := h.users.GetSalesUser(c.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			respondError(c, http.StatusNotFound, "Sales user not found")
			return
		}
		h.logger.WithError(err).Error("get sales user failed")
		respondError(c, http.StatusInternalServerError, "Server error while fetching sales user")
		return
	}

	respondOK(c, "Sales user retrieved successfully", gin.H{
		"user": userToResponse(user),
	})
}
