package handlers

import (
	"errors"
	"strconv"
	"time"

	"fcr-robofed/internal/core/domain"
	"fcr-robofed/internal/core/services"
	"fcr-robofed/internal/pkg/pagination"
	"fcr-robofed/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// DisablementHandler handles club disablement workflow endpoints
type DisablementHandler struct {
	disablementService *services.DisablementService
}

// NewDisablementHandler creates a new disablement handler
func NewDisablementHandler(disablementService *services.DisablementService) *DisablementHandler {
	return &DisablementHandler{disablementService: disablementService}
}

// InitiateRequest represents the disablement initiation body
type InitiateRequest struct {
	Reason   string    `json:"reason"`
	Deadline time.Time `json:"deadline"`
}

// Initiate handles starting a club disablement
// @Summary Disable a club
// @Description Snapshot the club's members and open a reallocation workflow
// @Tags Disablements
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Club ID"
// @Param body body InitiateRequest true "Disablement data"
// @Success 201 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /clubs/{id}/disable [post]
func (h *DisablementHandler) Initiate(c *fiber.Ctx) error {
	clubID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid club ID")
	}

	adminID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req InitiateRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Reason == "" {
		return response.BadRequest(c, "Reason is required")
	}
	if req.Deadline.IsZero() {
		return response.BadRequest(c, "Deadline is required")
	}

	input := &services.InitiateInput{
		ClubID:   uint(clubID),
		Reason:   req.Reason,
		Deadline: req.Deadline,
	}

	d, err := h.disablementService.Initiate(c.Context(), input, adminID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrClubNotFound):
			return response.NotFound(c, "Club not found")
		case errors.Is(err, services.ErrDisablementActive):
			return response.Conflict(c, "Club already has an active disablement")
		case errors.Is(err, services.ErrDeadlineInPast):
			return response.BadRequest(c, "Deadline must be in the future")
		default:
			return response.InternalServerError(c, "Failed to initiate disablement")
		}
	}

	return response.Created(c, "Disablement initiated", d.ToResponse())
}

// Process handles running a reallocation pass
// @Summary Process a disablement
// @Description Attempt to reallocate the remaining pending members
// @Tags Disablements
// @Produce json
// @Security BearerAuth
// @Param id path int true "Disablement ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /disablements/{id}/process [post]
func (h *DisablementHandler) Process(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid disablement ID")
	}

	d, err := h.disablementService.Process(c.Context(), uint(id))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrDisablementNotFound):
			return response.NotFound(c, "Disablement not found")
		case errors.Is(err, services.ErrDisablementTerminal):
			return response.Conflict(c, "Disablement is already resolved")
		default:
			return response.InternalServerError(c, "Failed to process disablement")
		}
	}

	return response.Success(c, "Disablement processed", d.ToResponse())
}

// ForceResolve handles forcing resolution by degrading pending members
// @Summary Force-resolve a disablement
// @Description Degrade every still-pending member and complete the workflow
// @Tags Disablements
// @Produce json
// @Security BearerAuth
// @Param id path int true "Disablement ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /disablements/{id}/force-resolve [post]
func (h *DisablementHandler) ForceResolve(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid disablement ID")
	}

	d, err := h.disablementService.ForceResolve(c.Context(), uint(id))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrDisablementNotFound):
			return response.NotFound(c, "Disablement not found")
		default:
			return response.InternalServerError(c, "Failed to force-resolve disablement")
		}
	}

	return response.Success(c, "Disablement resolved", d.ToResponse())
}

// Cancel handles cancelling an untouched disablement
// @Summary Cancel a disablement
// @Description Cancel a disablement before any member has been processed
// @Tags Disablements
// @Produce json
// @Security BearerAuth
// @Param id path int true "Disablement ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /disablements/{id}/cancel [post]
func (h *DisablementHandler) Cancel(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid disablement ID")
	}

	if err := h.disablementService.Cancel(c.Context(), uint(id)); err != nil {
		switch {
		case errors.Is(err, services.ErrDisablementNotFound):
			return response.NotFound(c, "Disablement not found")
		case errors.Is(err, services.ErrCancelNotAllowed):
			return response.Conflict(c, "Disablement can no longer be cancelled")
		default:
			return response.InternalServerError(c, "Failed to cancel disablement")
		}
	}

	return response.Success(c, "Disablement cancelled", nil)
}

// Get handles getting a disablement by ID
// @Summary Get disablement
// @Tags Disablements
// @Produce json
// @Security BearerAuth
// @Param id path int true "Disablement ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /disablements/{id} [get]
func (h *DisablementHandler) Get(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid disablement ID")
	}

	d, err := h.disablementService.GetByID(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrDisablementNotFound) {
			return response.NotFound(c, "Disablement not found")
		}
		return response.InternalServerError(c, "Failed to get disablement")
	}

	return response.Success(c, "Disablement retrieved successfully", d.ToResponse())
}

// List handles listing disablements
// @Summary List disablements
// @Tags Disablements
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Router /disablements [get]
func (h *DisablementHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	records, total, err := h.disablementService.List(c.Context(), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list disablements")
	}

	items := make([]interface{}, len(records))
	for i, d := range records {
		items[i] = d.ToResponse()
	}

	return response.Success(c, "Disablements retrieved successfully", pagination.NewResponse(items, params, total))
}
