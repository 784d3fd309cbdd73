package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tekblok/fieldtask/internal/core/ports"
)

// CatalogHandler serves the work type and voltage reference lists.
type CatalogHandler struct {
	service ports.CatalogService
}

func NewCatalogHandler(service ports.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// ── Work types ────────────────────────────────────────────────────────────────

// ListWorkTypes handles GET /workType.
//
// @Summary      List work types
// @Tags         catalogs
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.WorkType
// @Router       /workType [get]
func (h *CatalogHandler) ListWorkTypes(c echo.Context) error {
	items, err := h.service.ListWorkTypes(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// GetWorkType handles GET /workType/:id.
//
// @Summary      Get a work type
// @Tags         catalogs
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Work type id"
// @Success      200  {object}  domain.WorkType
// @Failure      404  {object}  errorResponse
// @Router       /workType/{id} [get]
func (h *CatalogHandler) GetWorkType(c echo.Context) error {
	item, err := h.service.GetWorkType(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

// CreateWorkType handles POST /workType.
//
// @Summary      Add a work type
// @Tags         catalogs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      workTypeRequest  true  "Title"
// @Success      201   {object}  domain.WorkType
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /workType [post]
func (h *CatalogHandler) CreateWorkType(c echo.Context) error {
	var req workTypeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	item, err := h.service.CreateWorkType(c.Request().Context(), req.Title)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, item)
}

// DeleteWorkType handles DELETE /workType/:id.
//
// @Summary      Remove a work type
// @Tags         catalogs
// @Security     BearerAuth
// @Param        id   path  string  true  "Work type id"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /workType/{id} [delete]
func (h *CatalogHandler) DeleteWorkType(c echo.Context) error {
	if err := h.service.DeleteWorkType(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ── Voltages ──────────────────────────────────────────────────────────────────

// ListVoltages handles GET /voltage.
//
// @Summary      List voltage classes
// @Tags         catalogs
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Voltage
// @Router       /voltage [get]
func (h *CatalogHandler) ListVoltages(c echo.Context) error {
	items, err := h.service.ListVoltages(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// GetVoltage handles GET /voltage/:id.
//
// @Summary      Get a voltage class
// @Tags         catalogs
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Voltage id"
// @Success      200  {object}  domain.Voltage
// @Failure      404  {object}  errorResponse
// @Router       /voltage/{id} [get]
func (h *CatalogHandler) GetVoltage(c echo.Context) error {
	item, err := h.service.GetVoltage(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

// CreateVoltage handles POST /voltage.
//
// @Summary      Add a voltage class
// @Tags         catalogs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      voltageRequest  true  "Voltage in kV"
// @Success      201   {object}  domain.Voltage
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /voltage [post]
func (h *CatalogHandler) CreateVoltage(c echo.Context) error {
	var req voltageRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	item, err := h.service.CreateVoltage(c.Request().Context(), req.Volt)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, item)
}

// DeleteVoltage handles DELETE /voltage/:id.
//
// @Summary      Remove a voltage class
// @Tags         catalogs
// @Security     BearerAuth
// @Param        id   path  string  true  "Voltage id"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /voltage/{id} [delete]
func (h *CatalogHandler) DeleteVoltage(c echo.Context) error {
	if err := h.service.DeleteVoltage(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
