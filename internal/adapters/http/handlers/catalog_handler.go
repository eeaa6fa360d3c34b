package handlers

import (
	"errors"
	"strconv"

	"fcr-robofed/internal/adapters/persistence/models"
	"fcr-robofed/internal/adapters/persistence/repositories"
	"fcr-robofed/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// CatalogHandler handles master data endpoints
type CatalogHandler struct {
	categoryRepo repositories.CategoryRepository
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(categoryRepo repositories.CategoryRepository) *CatalogHandler {
	return &CatalogHandler{categoryRepo: categoryRepo}
}

// ListCategories lists all robot categories
// @Summary List robot categories
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Response
// @Router /catalog/categories [get]
func (h *CatalogHandler) ListCategories(c *fiber.Ctx) error {
	categories, err := h.categoryRepo.List(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to list categories")
	}

	return response.Success(c, "Categories retrieved successfully", categories)
}

// GetCategory gets one robot category by ID
// @Summary Get robot category
// @Tags Catalog
// @Produce json
// @Param id path int true "Category ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /catalog/categories/{id} [get]
func (h *CatalogHandler) GetCategory(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid category ID")
	}

	category, err := h.categoryRepo.GetByID(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Category not found")
		}
		return response.InternalServerError(c, "Failed to get category")
	}

	return response.Success(c, "Category retrieved successfully", category)
}

// CreateCategory creates a robot category (admin)
// @Summary Create robot category
// @Tags Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 201 {object} response.Response
// @Router /catalog/categories [post]
func (h *CatalogHandler) CreateCategory(c *fiber.Ctx) error {
	var category models.RobotCategory
	if err := c.BodyParser(&category); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if category.Code == "" || category.Name == "" {
		return response.BadRequest(c, "Code and name are required")
	}

	if _, err := h.categoryRepo.GetByCode(c.Context(), category.Code); err == nil {
		return response.Conflict(c, "Category code already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return response.InternalServerError(c, "Failed to create category")
	}

	category.IsActive = true
	if err := h.categoryRepo.Create(c.Context(), &category); err != nil {
		return response.InternalServerError(c, "Failed to create category")
	}

	return response.Created(c, "Category created successfully", category)
}
