package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"spendtrack/internal/services"
)

// AdminHandler handles administrative requests
type AdminHandler struct {
	adminService services.AdminServicer
	userService  services.UserServicer
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(adminService services.AdminServicer, userService services.UserServicer) *AdminHandler {
	return &AdminHandler{adminService: adminService, userService: userService}
}

// Integrity reports dangling references across stores
// @Summary     Check referential integrity
// @Tags        admin
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.IntegrityReport
// @Router      /admin/integrity [get]
func (h *AdminHandler) Integrity(c *gin.Context) {
	report, err := h.adminService.Integrity()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// Stats returns the system-wide collection overview
// @Summary     Get system statistics
// @Tags        admin
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.SystemStats
// @Router      /admin/stats [get]
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.adminService.Stats()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// Cleanup deletes all expenses, categories and users
// @Summary     Wipe all stored data
// @Tags        admin
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]int64
// @Router      /admin/cleanup [delete]
func (h *AdminHandler) Cleanup(c *gin.Context) {
	deleted, err := h.adminService.Cleanup()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, deleted)
}

// ListUsers returns all active users
// @Summary     List active users
// @Tags        admin
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} UserResponse
// @Router      /admin/users [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.ListActiveUsers()
	if err != nil {
		respondWithError(c, err)
		return
	}

	resp := make([]UserResponse, 0, len(users))
	for i := range users {
		resp = append(resp, toUserResponse(&users[i]))
	}

	c.JSON(http.StatusOK, resp)
}

// DeleteUser removes a user account by id
// @Summary     Delete a user
// @Tags        admin
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "User ID"
// @Success     200 {object} map[string]string
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /admin/users/{id} [delete]
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	if err := h.userService.DeleteUser(c.Param("id")); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

// ReactivateUser re-enables a deactivated account
// @Summary     Reactivate a user
// @Tags        admin
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "User ID"
// @Success     200 {object} UserResponse
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /admin/users/{id}/reactivate [put]
func (h *AdminHandler) ReactivateUser(c *gin.Context) {
	user, err := h.userService.Reactivate(c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, toUserResponse(user))
}
