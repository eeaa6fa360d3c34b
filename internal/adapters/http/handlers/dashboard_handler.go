package handlers

import (
	"fcr-robofed/internal/core/services"
	"fcr-robofed/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// DashboardHandler handles dashboard endpoints
type DashboardHandler struct {
	dashboardService *services.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// AdminDashboard returns federation-wide statistics
// @Summary Admin dashboard
// @Description Federation-wide statistics (Admin only)
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /dashboard/admin [get]
func (h *DashboardHandler) AdminDashboard(c *fiber.Ctx) error {
	data, err := h.dashboardService.GetAdminDashboard(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to load dashboard")
	}

	return response.Success(c, "Dashboard retrieved successfully", data)
}

// OwnerDashboard returns the caller's club statistics
// @Summary Owner dashboard
// @Description Club statistics for the caller's club
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /dashboard/club [get]
func (h *DashboardHandler) OwnerDashboard(c *fiber.Ctx) error {
	clubID, ok := c.Locals("clubID").(*uint)
	if !ok || clubID == nil {
		return response.BadRequest(c, "You do not belong to a club")
	}

	data, err := h.dashboardService.GetOwnerDashboard(c.Context(), *clubID)
	if err != nil {
		return response.InternalServerError(c, "Failed to load dashboard")
	}

	return response.Success(c, "Dashboard retrieved successfully", data)
}
