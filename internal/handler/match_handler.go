package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/reloophq/waste-exchange/api/internal/repository"
	"github.com/reloophq/waste-exchange/api/internal/service"
)

// MatchHandler exposes the match search endpoints.
type MatchHandler struct {
	matching *service.MatchingService
}

// NewMatchHandler creates a new handler instance.
func NewMatchHandler(matching *service.MatchingService) *MatchHandler {
	return &MatchHandler{matching: matching}
}

// SupplyMatches handles GET /supplies/:id/matches requests.
func (h *MatchHandler) SupplyMatches(c echo.Context) error {
	id, err := parseListingID(c)
	if err != nil {
		return Error(c, http.StatusBadRequest, "invalid listing id")
	}
	opts, err := parseSearchOptions(c)
	if err != nil {
		return Error(c, http.StatusBadRequest, err.Error())
	}

	resp, err := h.matching.SearchSupplyMatches(c.Request().Context(), id, opts)
	if err != nil {
		if errors.Is(err, repository.ErrSupplyNotFound) {
			return Error(c, http.StatusNotFound, "supply not found or inactive")
		}
		return Error(c, http.StatusInternalServerError, "search failed")
	}

	return Success(c, http.StatusOK, "", resp)
}

// DemandMatches handles GET /demands/:id/matches requests.
func (h *MatchHandler) DemandMatches(c echo.Context) error {
	id, err := parseListingID(c)
	if err != nil {
		return Error(c, http.StatusBadRequest, "invalid listing id")
	}
	opts, err := parseSearchOptions(c)
	if err != nil {
		return Error(c, http.StatusBadRequest, err.Error())
	}

	resp, err := h.matching.SearchDemandMatches(c.Request().Context(), id, opts)
	if err != nil {
		if errors.Is(err, repository.ErrDemandNotFound) {
			return Error(c, http.StatusNotFound, "demand not found or inactive")
		}
		return Error(c, http.StatusInternalServerError, "search failed")
	}

	return Success(c, http.StatusOK, "", resp)
}

// InvalidateSupplyMatches handles DELETE /supplies/:id/matches/cache requests.
func (h *MatchHandler) InvalidateSupplyMatches(c echo.Context) error {
	id, err := parseListingID(c)
	if err != nil {
		return Error(c, http.StatusBadRequest, "invalid listing id")
	}
	if err := h.matching.InvalidateSupplyCache(c.Request().Context(), id); err != nil {
		return Error(c, http.StatusInternalServerError, "failed to invalidate cache")
	}
	return Success(c, http.StatusOK, "cache invalidated", nil)
}

// InvalidateDemandMatches handles DELETE /demands/:id/matches/cache requests.
func (h *MatchHandler) InvalidateDemandMatches(c echo.Context) error {
	id, err := parseListingID(c)
	if err != nil {
		return Error(c, http.StatusBadRequest, "invalid listing id")
	}
	if err := h.matching.InvalidateDemandCache(c.Request().Context(), id); err != nil {
		return Error(c, http.StatusInternalServerError, "failed to invalidate cache")
	}
	return Success(c, http.StatusOK, "cache invalidated", nil)
}

func parseListingID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(c.Param("id")), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid listing id")
	}
	return id, nil
}

func parseSearchOptions(c echo.Context) (service.SearchOptions, error) {
	opts := service.SearchOptions{}

	if force := strings.TrimSpace(c.QueryParam("force")); force != "" {
		parsed, err := strconv.ParseBool(force)
		if err != nil {
			return opts, errors.New("invalid force parameter")
		}
		opts.Force = parsed
	}

	if radius := strings.TrimSpace(c.QueryParam("radius")); radius != "" {
		parsed, err := strconv.ParseFloat(radius, 64)
		if err != nil || parsed <= 0 {
			return opts, errors.New("radius must be a positive number")
		}
		opts.RadiusKm = parsed
	}

	return opts, nil
}
