package handlers

import (
	"errors"
	"strconv"

	"fcr-robofed/internal/core/services"
	"fcr-robofed/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// RobotHandler handles robot registration endpoints
type RobotHandler struct {
	robotService *services.RobotService
}

// NewRobotHandler creates a new robot handler
func NewRobotHandler(robotService *services.RobotService) *RobotHandler {
	return &RobotHandler{robotService: robotService}
}

// CreateRobot handles robot registration
// @Summary Register robot
// @Description Register a robot owned by the caller
// @Tags Robots
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateRobotInput true "Robot data"
// @Success 201 {object} response.Response
// @Router /robots [post]
func (h *RobotHandler) CreateRobot(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.CreateRobotInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if input.Name == "" {
		return response.BadRequest(c, "Robot name is required")
	}
	if input.CategoryID == 0 {
		return response.BadRequest(c, "Category is required")
	}

	robot, err := h.robotService.CreateRobot(c.Context(), userID, &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCategoryNotFoundSvc):
			return response.BadRequest(c, "Unknown robot category")
		case errors.Is(err, services.ErrRobotLimitReached):
			return response.Conflict(c, "Robot limit reached")
		default:
			return response.InternalServerError(c, "Failed to register robot")
		}
	}

	return response.Created(c, "Robot registered successfully", robot)
}

// ListRobots handles listing all robots (admin)
// @Summary List robots
// @Tags Robots
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Router /robots [get]
func (h *RobotHandler) ListRobots(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))

	result, err := h.robotService.ListRobots(c.Context(), page, limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list robots")
	}

	return response.Success(c, "Robots retrieved successfully", result)
}

// ListMyRobots handles listing the caller's robots
// @Summary List my robots
// @Tags Robots
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /robots/mine [get]
func (h *RobotHandler) ListMyRobots(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	robots, err := h.robotService.ListMyRobots(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to list robots")
	}

	return response.Success(c, "Robots retrieved successfully", robots)
}

// GetRobot handles getting a robot by ID
// @Summary Get robot
// @Tags Robots
// @Produce json
// @Param id path int true "Robot ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /robots/{id} [get]
func (h *RobotHandler) GetRobot(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid robot ID")
	}

	robot, err := h.robotService.GetRobotByID(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrRobotNotFoundSvc) {
			return response.NotFound(c, "Robot not found")
		}
		return response.InternalServerError(c, "Failed to get robot")
	}

	return response.Success(c, "Robot retrieved successfully", robot)
}

// UpdateRobot handles updating a robot
// @Summary Update robot
// @Tags Robots
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Robot ID"
// @Success 200 {object} response.Response
// @Router /robots/{id} [put]
func (h *RobotHandler) UpdateRobot(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid robot ID")
	}

	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.UpdateRobotInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	robot, err := h.robotService.UpdateRobot(c.Context(), uint(id), userID, &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRobotNotFoundSvc):
			return response.NotFound(c, "Robot not found")
		case errors.Is(err, services.ErrNotRobotOwner):
			return response.Forbidden(c, "Robot belongs to another user")
		case errors.Is(err, services.ErrCategoryNotFoundSvc):
			return response.BadRequest(c, "Unknown robot category")
		default:
			return response.InternalServerError(c, "Failed to update robot")
		}
	}

	return response.Success(c, "Robot updated successfully", robot)
}

// ApproveRobot handles re-approving a robot after degradation (admin)
// @Summary Approve robot
// @Description Reactivate a robot pending re-approval
// @Tags Robots
// @Produce json
// @Security BearerAuth
// @Param id path int true "Robot ID"
// @Success 200 {object} response.Response
// @Router /robots/{id}/approve [post]
func (h *RobotHandler) ApproveRobot(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid robot ID")
	}

	robot, err := h.robotService.ApproveRobot(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrRobotNotFoundSvc) {
			return response.NotFound(c, "Robot not found")
		}
		return response.InternalServerError(c, "Failed to approve robot")
	}

	return response.Success(c, "Robot approved", robot)
}

// DeleteRobot handles deleting a robot
// @Summary Delete robot
// @Tags Robots
// @Produce json
// @Security BearerAuth
// @Param id path int true "Robot ID"
// @Success 200 {object} response.Response
// @Router /robots/{id} [delete]
func (h *RobotHandler) DeleteRobot(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid robot ID")
	}

	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	role, _ := c.Locals("role").(string)

	if err := h.robotService.DeleteRobot(c.Context(), uint(id), userID, role == "ADMIN"); err != nil {
		switch {
		case errors.Is(err, services.ErrRobotNotFoundSvc):
			return response.NotFound(c, "Robot not found")
		case errors.Is(err, services.ErrNotRobotOwner):
			return response.Forbidden(c, "Robot belongs to another user")
		default:
			return response.InternalServerError(c, "Failed to delete robot")
		}
	}

	return response.Success(c, "Robot deleted successfully", nil)
}
