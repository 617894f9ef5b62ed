package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"avtorent/services/catalog"
	"avtorent/utils"
)

// CatalogHandler serves the public read-only endpoints.
type CatalogHandler struct {
	CatalogSvc catalog.CatalogService
	Logger     *zap.Logger
}

// GetCategories handles GET /api/categories.
func (h *CatalogHandler) GetCategories(c *gin.Context) {
	categories, err := h.CatalogSvc.ListCategories(c.Request.Context())
	if err != nil {
		h.Logger.Error("GetCategories: failed to fetch categories", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to fetch categories")
		return
	}
	c.JSON(http.StatusOK, categories)
}

// GetCars handles GET /api/cars with filtering and pagination. The total
// match count travels in the X-Total-Count header.
func (h *CatalogHandler) GetCars(c *gin.Context) {
	q := catalog.CarQuery{
		CategoryID: c.Query("category_id"),
		Brand:      c.Query("brand"),
		Status:     c.Query("status"),
		Limit:      100,
	}

	if raw := c.Query("min_price"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			utils.JSONError(c, http.StatusUnprocessableEntity, "min_price must be a number")
			return
		}
		q.MinPrice = &v
	}
	if raw := c.Query("max_price"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			utils.JSONError(c, http.StatusUnprocessableEntity, "max_price must be a number")
			return
		}
		q.MaxPrice = &v
	}
	if raw := c.Query("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > 100 {
			utils.JSONError(c, http.StatusUnprocessableEntity, "limit must be between 1 and 100")
			return
		}
		q.Limit = v
	}
	if raw := c.Query("offset"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			utils.JSONError(c, http.StatusUnprocessableEntity, "offset must not be negative")
			return
		}
		q.Offset = v
	}

	page, err := h.CatalogSvc.ListCars(c.Request.Context(), q)
	if err != nil {
		if errors.Is(err, catalog.ErrUnknownStatus) {
			utils.JSONError(c, http.StatusUnprocessableEntity, "status must be AVAILABLE or UNAVAILABLE")
			return
		}
		h.Logger.Error("GetCars: failed to list cars", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to fetch cars")
		return
	}

	c.Header("X-Total-Count", strconv.FormatInt(page.Total, 10))
	c.JSON(http.StatusOK, page.Cars)
}

// GetCarByID handles GET /api/cars/:id.
func (h *CatalogHandler) GetCarByID(c *gin.Context) {
	id := c.Param("id")
	car, err := h.CatalogSvc.GetCar(c.Request.Context(), id)
	if err != nil {
		h.Logger.Error("GetCarByID: lookup failed", zap.String("carID", id), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to fetch car")
		return
	}
	if car == nil {
		utils.JSONError(c, http.StatusNotFound, "car not found")
		return
	}
	c.JSON(http.StatusOK, car)
}
