package handlers

import (
	"errors"
	"strconv"

	"fcr-robofed/internal/core/services"
	"fcr-robofed/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// TournamentHandler handles tournament and match endpoints
type TournamentHandler struct {
	tournamentService *services.TournamentService
}

// NewTournamentHandler creates a new tournament handler
func NewTournamentHandler(tournamentService *services.TournamentService) *TournamentHandler {
	return &TournamentHandler{tournamentService: tournamentService}
}

// CreateTournament handles scheduling a tournament (admin)
// @Summary Create tournament
// @Tags Tournaments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateTournamentInput true "Tournament data"
// @Success 201 {object} response.Response
// @Router /tournaments [post]
func (h *TournamentHandler) CreateTournament(c *fiber.Ctx) error {
	var input services.CreateTournamentInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if input.Name == "" {
		return response.BadRequest(c, "Tournament name is required")
	}
	if input.CategoryID == 0 {
		return response.BadRequest(c, "Category is required")
	}

	tournament, err := h.tournamentService.CreateTournament(c.Context(), &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCategoryNotFoundSvc):
			return response.BadRequest(c, "Unknown robot category")
		case errors.Is(err, services.ErrStartInPast):
			return response.BadRequest(c, "Tournament start must be in the future")
		default:
			return response.InternalServerError(c, "Failed to create tournament")
		}
	}

	return response.Created(c, "Tournament created successfully", tournament)
}

// ListTournaments handles listing tournaments
// @Summary List tournaments
// @Tags Tournaments
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Router /tournaments [get]
func (h *TournamentHandler) ListTournaments(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))

	result, err := h.tournamentService.ListTournaments(c.Context(), page, limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list tournaments")
	}

	return response.Success(c, "Tournaments retrieved successfully", result)
}

// GetTournament handles getting a tournament by ID
// @Summary Get tournament
// @Tags Tournaments
// @Produce json
// @Param id path int true "Tournament ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /tournaments/{id} [get]
func (h *TournamentHandler) GetTournament(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid tournament ID")
	}

	tournament, err := h.tournamentService.GetTournamentByID(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrTournamentNotFound) {
			return response.NotFound(c, "Tournament not found")
		}
		return response.InternalServerError(c, "Failed to get tournament")
	}

	return response.Success(c, "Tournament retrieved successfully", tournament)
}

// FinishTournament handles closing a tournament (admin)
// @Summary Finish tournament
// @Tags Tournaments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Tournament ID"
// @Success 200 {object} response.Response
// @Router /tournaments/{id}/finish [post]
func (h *TournamentHandler) FinishTournament(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid tournament ID")
	}

	tournament, err := h.tournamentService.FinishTournament(c.Context(), uint(id))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTournamentNotFound):
			return response.NotFound(c, "Tournament not found")
		case errors.Is(err, services.ErrTournamentFinished):
			return response.Conflict(c, "Tournament already finished")
		default:
			return response.InternalServerError(c, "Failed to finish tournament")
		}
	}

	return response.Success(c, "Tournament finished", tournament)
}

// RecordMatch handles recording a match result (admin)
// @Summary Record match
// @Tags Tournaments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Tournament ID"
// @Param body body services.RecordMatchInput true "Match data"
// @Success 201 {object} response.Response
// @Router /tournaments/{id}/matches [post]
func (h *TournamentHandler) RecordMatch(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid tournament ID")
	}

	var input services.RecordMatchInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	match, err := h.tournamentService.RecordMatch(c.Context(), uint(id), &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTournamentNotFound):
			return response.NotFound(c, "Tournament not found")
		case errors.Is(err, services.ErrTournamentFinished):
			return response.Conflict(c, "Tournament already finished")
		case errors.Is(err, services.ErrRobotNotFoundSvc):
			return response.NotFound(c, "Robot not found")
		case errors.Is(err, services.ErrSameRobot),
			errors.Is(err, services.ErrRobotNotActive),
			errors.Is(err, services.ErrWinnerNotInMatch):
			return response.BadRequest(c, err.Error())
		default:
			return response.InternalServerError(c, "Failed to record match")
		}
	}

	return response.Created(c, "Match recorded successfully", match)
}

// ListMatches handles listing a tournament's matches
// @Summary List tournament matches
// @Tags Tournaments
// @Produce json
// @Param id path int true "Tournament ID"
// @Success 200 {object} response.Response
// @Router /tournaments/{id}/matches [get]
func (h *TournamentHandler) ListMatches(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid tournament ID")
	}

	matches, err := h.tournamentService.ListMatches(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrTournamentNotFound) {
			return response.NotFound(c, "Tournament not found")
		}
		return response.InternalServerError(c, "Failed to list matches")
	}

	return response.Success(c, "Matches retrieved successfully", matches)
}

// ListRobotMatches handles listing a robot's match history
// @Summary List robot matches
// @Tags Tournaments
// @Produce json
// @Param id path int true "Robot ID"
// @Success 200 {object} response.Response
// @Router /robots/{id}/matches [get]
func (h *TournamentHandler) ListRobotMatches(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid robot ID")
	}

	matches, err := h.tournamentService.ListRobotMatches(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrRobotNotFoundSvc) {
			return response.NotFound(c, "Robot not found")
		}
		return response.InternalServerError(c, "Failed to list matches")
	}

	return response.Success(c, "Matches retrieved successfully", matches)
}
