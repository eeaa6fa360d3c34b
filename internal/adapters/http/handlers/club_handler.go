package handlers

import (
	"errors"
	"strconv"

	"fcr-robofed/internal/core/services"
	"fcr-robofed/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ClubHandler handles club management endpoints
type ClubHandler struct {
	clubService *services.ClubService
}

// NewClubHandler creates a new club handler
func NewClubHandler(clubService *services.ClubService) *ClubHandler {
	return &ClubHandler{clubService: clubService}
}

// CreateClub handles club registration
// @Summary Create club
// @Description Register a new club in the federation
// @Tags Clubs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateClubInput true "Club data"
// @Success 201 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /clubs [post]
func (h *ClubHandler) CreateClub(c *fiber.Ctx) error {
	var input services.CreateClubInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if input.Name == "" {
		return response.BadRequest(c, "Club name is required")
	}
	if input.OwnerID == 0 {
		// Default the creator as owner
		if userID, ok := c.Locals("userID").(uint); ok {
			input.OwnerID = userID
		}
	}

	club, err := h.clubService.CreateClub(c.Context(), &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrOwnerNotFound):
			return response.NotFound(c, "Owner not found")
		case errors.Is(err, services.ErrClubNameTaken):
			return response.Conflict(c, "Club name already exists")
		case errors.Is(err, services.ErrClubNameTooSimilar):
			return response.Conflict(c, "Club name too similar to an existing club")
		case errors.Is(err, services.ErrCategoryNotFoundSvc):
			return response.BadRequest(c, "Unknown category focus")
		default:
			return response.InternalServerError(c, "Failed to create club")
		}
	}

	return response.Created(c, "Club created successfully", club)
}

// ListClubs handles listing clubs
// @Summary List clubs
// @Tags Clubs
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Router /clubs [get]
func (h *ClubHandler) ListClubs(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))

	result, err := h.clubService.ListClubs(c.Context(), page, limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list clubs")
	}

	return response.Success(c, "Clubs retrieved successfully", result)
}

// GetClub handles getting a club by ID
// @Summary Get club
// @Tags Clubs
// @Produce json
// @Param id path int true "Club ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /clubs/{id} [get]
func (h *ClubHandler) GetClub(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid club ID")
	}

	club, err := h.clubService.GetClubByID(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrClubNotFoundSvc) {
			return response.NotFound(c, "Club not found")
		}
		return response.InternalServerError(c, "Failed to get club")
	}

	return response.Success(c, "Club retrieved successfully", club)
}

// UpdateClub handles updating a club
// @Summary Update club
// @Tags Clubs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Club ID"
// @Success 200 {object} response.Response
// @Router /clubs/{id} [put]
func (h *ClubHandler) UpdateClub(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid club ID")
	}

	var input services.UpdateClubInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	club, err := h.clubService.UpdateClub(c.Context(), uint(id), &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrClubNotFoundSvc):
			return response.NotFound(c, "Club not found")
		case errors.Is(err, services.ErrCategoryNotFoundSvc):
			return response.BadRequest(c, "Unknown category focus")
		default:
			return response.BadRequest(c, err.Error())
		}
	}

	return response.Success(c, "Club updated successfully", club)
}

// DeleteClub handles deleting an empty club
// @Summary Delete club
// @Tags Clubs
// @Produce json
// @Security BearerAuth
// @Param id path int true "Club ID"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /clubs/{id} [delete]
func (h *ClubHandler) DeleteClub(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid club ID")
	}

	if err := h.clubService.DeleteClub(c.Context(), uint(id)); err != nil {
		switch {
		case errors.Is(err, services.ErrClubNotFoundSvc):
			return response.NotFound(c, "Club not found")
		case errors.Is(err, services.ErrClubNotEmpty):
			return response.Conflict(c, "Club still has members")
		default:
			return response.InternalServerError(c, "Failed to delete club")
		}
	}

	return response.Success(c, "Club deleted successfully", nil)
}

// ListMembers handles listing club members
// @Summary List club members
// @Tags Clubs
// @Produce json
// @Security BearerAuth
// @Param id path int true "Club ID"
// @Success 200 {object} response.Response
// @Router /clubs/{id}/members [get]
func (h *ClubHandler) ListMembers(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid club ID")
	}

	members, err := h.clubService.ListClubMembers(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrClubNotFoundSvc) {
			return response.NotFound(c, "Club not found")
		}
		return response.InternalServerError(c, "Failed to list members")
	}

	return response.Success(c, "Members retrieved successfully", members)
}

// Join handles an unaffiliated user joining a club
// @Summary Join club
// @Description Affiliate the caller with a club; members of another club must request a transfer
// @Tags Clubs
// @Produce json
// @Security BearerAuth
// @Param id path int true "Club ID"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /clubs/{id}/join [post]
func (h *ClubHandler) Join(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid club ID")
	}

	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	user, err := h.clubService.JoinClub(c.Context(), userID, uint(id))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrClubNotFoundSvc):
			return response.NotFound(c, "Club not found")
		case errors.Is(err, services.ErrAlreadyInClub):
			return response.Conflict(c, "You already belong to a club; request a transfer instead")
		case errors.Is(err, services.ErrJoinUnavailable):
			return response.Conflict(c, "Club is inactive or full")
		default:
			return response.InternalServerError(c, "Failed to join club")
		}
	}

	return response.Success(c, "Joined club successfully", user)
}
