package handlers

import (
	"errors"
	"strconv"

	"fcr-robofed/internal/core/domain"
	"fcr-robofed/internal/core/services"
	"fcr-robofed/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// TransferHandler handles voluntary transfer endpoints
type TransferHandler struct {
	transferService *services.TransferService
}

// NewTransferHandler creates a new transfer handler
func NewTransferHandler(transferService *services.TransferService) *TransferHandler {
	return &TransferHandler{transferService: transferService}
}

// RejectRequest represents a rejection body
type RejectRequest struct {
	Reason string `json:"reason"`
}

func actorFromCtx(c *fiber.Ctx) (services.Actor, bool) {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return services.Actor{}, false
	}
	username, _ := c.Locals("username").(string)
	role, _ := c.Locals("role").(string)
	return services.Actor{ID: userID, Username: username, Role: role}, true
}

// Request handles creating a transfer request
// @Summary Request a transfer
// @Description Ask to move from the current club to a destination club
// @Tags Transfers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.RequestInput true "Transfer data"
// @Success 201 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /transfers [post]
func (h *TransferHandler) Request(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.RequestInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if input.DestClubID == 0 {
		return response.BadRequest(c, "Destination club is required")
	}

	t, err := h.transferService.Request(c.Context(), userID, &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoClubMembership):
			return response.BadRequest(c, "You do not belong to a club")
		case errors.Is(err, services.ErrSameClub):
			return response.BadRequest(c, "Destination must differ from your current club")
		case errors.Is(err, services.ErrDestUnavailable):
			return response.Conflict(c, "Destination club is inactive or full")
		case errors.Is(err, services.ErrOriginDisabling):
			return response.Conflict(c, "Your club is being disabled; reallocation is in progress")
		case errors.Is(err, services.ErrActiveTransferExists):
			return response.Conflict(c, "You already have an active transfer request")
		default:
			return response.InternalServerError(c, "Failed to create transfer request")
		}
	}

	return response.Created(c, "Transfer requested", t.ToResponse())
}

// ApproveExit handles the origin club's approval
// @Summary Approve exit
// @Description Origin club owner releases the member
// @Tags Transfers
// @Produce json
// @Security BearerAuth
// @Param id path int true "Transfer ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /transfers/{id}/approve-exit [post]
func (h *TransferHandler) ApproveExit(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid transfer ID")
	}

	actor, ok := actorFromCtx(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	t, err := h.transferService.ApproveExit(c.Context(), uint(id), actor)
	if err != nil {
		return h.mapDecisionError(c, err, "Failed to approve exit")
	}

	return response.Success(c, "Exit approved", t.ToResponse())
}

// ApproveEntry handles the destination club's approval
// @Summary Approve entry
// @Description Destination club owner admits the member; the move happens here
// @Tags Transfers
// @Produce json
// @Security BearerAuth
// @Param id path int true "Transfer ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /transfers/{id}/approve-entry [post]
func (h *TransferHandler) ApproveEntry(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid transfer ID")
	}

	actor, ok := actorFromCtx(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	t, err := h.transferService.ApproveEntry(c.Context(), uint(id), actor)
	if err != nil {
		return h.mapDecisionError(c, err, "Failed to approve entry")
	}

	return response.Success(c, "Entry approved, member transferred", t.ToResponse())
}

// Reject handles rejecting a transfer request
// @Summary Reject transfer
// @Description The deciding club owner rejects the request
// @Tags Transfers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Transfer ID"
// @Param body body RejectRequest true "Rejection reason"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /transfers/{id}/reject [post]
func (h *TransferHandler) Reject(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid transfer ID")
	}

	actor, ok := actorFromCtx(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req RejectRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	t, err := h.transferService.Reject(c.Context(), uint(id), actor, req.Reason)
	if err != nil {
		return h.mapDecisionError(c, err, "Failed to reject transfer")
	}

	return response.Success(c, "Transfer rejected", t.ToResponse())
}

// Get handles getting a transfer by ID
// @Summary Get transfer
// @Tags Transfers
// @Produce json
// @Security BearerAuth
// @Param id path int true "Transfer ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /transfers/{id} [get]
func (h *TransferHandler) Get(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid transfer ID")
	}

	t, err := h.transferService.GetByID(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrTransferNotFound) {
			return response.NotFound(c, "Transfer not found")
		}
		return response.InternalServerError(c, "Failed to get transfer")
	}

	return response.Success(c, "Transfer retrieved successfully", t.ToResponse())
}

// Mine handles listing the caller's transfer history
// @Summary List my transfers
// @Tags Transfers
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /transfers/mine [get]
func (h *TransferHandler) Mine(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	transfers, err := h.transferService.ListByUser(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to list transfers")
	}

	items := make([]interface{}, len(transfers))
	for i, t := range transfers {
		items[i] = t.ToResponse()
	}

	return response.Success(c, "Transfers retrieved successfully", items)
}

// PendingForClub handles listing requests awaiting a club's decision
// @Summary List pending transfers for a club
// @Tags Transfers
// @Produce json
// @Security BearerAuth
// @Param id path int true "Club ID"
// @Success 200 {object} response.Response
// @Router /clubs/{id}/transfers/pending [get]
func (h *TransferHandler) PendingForClub(c *fiber.Ctx) error {
	clubID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid club ID")
	}

	transfers, err := h.transferService.ListPendingForClub(c.Context(), uint(clubID))
	if err != nil {
		return response.InternalServerError(c, "Failed to list pending transfers")
	}

	items := make([]interface{}, len(transfers))
	for i, t := range transfers {
		items[i] = t.ToResponse()
	}

	return response.Success(c, "Pending transfers retrieved successfully", items)
}

// mapDecisionError maps transfer decision errors to HTTP responses
func (h *TransferHandler) mapDecisionError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, services.ErrTransferNotFound):
		return response.NotFound(c, "Transfer not found")
	case errors.Is(err, services.ErrNotClubApprover):
		return response.Forbidden(c, "Only the club owner or an admin can decide this request")
	case errors.Is(err, services.ErrNotPendingExit):
		return response.Conflict(c, "Request is not awaiting exit approval")
	case errors.Is(err, services.ErrNotPendingEntry):
		return response.Conflict(c, "Request is not awaiting entry approval")
	case errors.Is(err, services.ErrTransferTerminal):
		return response.Conflict(c, "Request is already decided")
	case errors.Is(err, services.ErrDestUnavailable), errors.Is(err, domain.ErrCapacityExceeded):
		return response.Conflict(c, "Destination club is inactive or full")
	default:
		return response.InternalServerError(c, fallback)
	}
}
