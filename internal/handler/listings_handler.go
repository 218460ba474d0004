package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/reloophq/waste-exchange/api/internal/dto"
	"github.com/reloophq/waste-exchange/api/internal/middleware"
	"github.com/reloophq/waste-exchange/api/internal/service"
)

// ListingsHandler exposes listing management endpoints.
type ListingsHandler struct {
	listings *service.ListingsService
}

// NewListingsHandler creates a new handler instance.
func NewListingsHandler(listings *service.ListingsService) *ListingsHandler {
	return &ListingsHandler{listings: listings}
}

// CreateSupply handles POST /supplies requests.
func (h *ListingsHandler) CreateSupply(c echo.Context) error {
	orgID, ok := middleware.OrgIDFromContext(c)
	if !ok {
		return Error(c, http.StatusUnauthorized, "authentication required")
	}

	var req dto.CreateSupplyRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	supply, err := h.listings.CreateSupply(c.Request().Context(), orgID, req)
	if err != nil {
		var valErr service.ListingValidationError
		if errors.As(err, &valErr) {
			return Error(c, http.StatusBadRequest, valErr.Message)
		}
		return Error(c, http.StatusInternalServerError, "failed to create supply")
	}

	return Success(c, http.StatusCreated, "supply created", supply)
}

// CreateDemand handles POST /demands requests.
func (h *ListingsHandler) CreateDemand(c echo.Context) error {
	orgID, ok := middleware.OrgIDFromContext(c)
	if !ok {
		return Error(c, http.StatusUnauthorized, "authentication required")
	}

	var req dto.CreateDemandRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	demand, err := h.listings.CreateDemand(c.Request().Context(), orgID, req)
	if err != nil {
		var valErr service.ListingValidationError
		if errors.As(err, &valErr) {
			return Error(c, http.StatusBadRequest, valErr.Message)
		}
		return Error(c, http.StatusInternalServerError, "failed to create demand")
	}

	return Success(c, http.StatusCreated, "demand created", demand)
}

// ListSupplies handles GET /supplies requests for the caller's own listings.
func (h *ListingsHandler) ListSupplies(c echo.Context) error {
	orgID, ok := middleware.OrgIDFromContext(c)
	if !ok {
		return Error(c, http.StatusUnauthorized, "authentication required")
	}

	supplies, err := h.listings.ListSupplies(c.Request().Context(), orgID)
	if err != nil {
		return Error(c, http.StatusInternalServerError, "failed to list supplies")
	}
	return Success(c, http.StatusOK, "", supplies)
}

// ListDemands handles GET /demands requests for the caller's own listings.
func (h *ListingsHandler) ListDemands(c echo.Context) error {
	orgID, ok := middleware.OrgIDFromContext(c)
	if !ok {
		return Error(c, http.StatusUnauthorized, "authentication required")
	}

	demands, err := h.listings.ListDemands(c.Request().Context(), orgID)
	if err != nil {
		return Error(c, http.StatusInternalServerError, "failed to list demands")
	}
	return Success(c, http.StatusOK, "", demands)
}
