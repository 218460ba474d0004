package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/reloophq/waste-exchange/api/internal/repository"
	"github.com/reloophq/waste-exchange/api/internal/service"
)

// OrgAdminHandler exposes administrative organization endpoints.
type OrgAdminHandler struct {
	orgs *service.OrganizationsService
}

// NewOrgAdminHandler creates a new handler instance.
func NewOrgAdminHandler(orgs *service.OrganizationsService) *OrgAdminHandler {
	return &OrgAdminHandler{orgs: orgs}
}

// List handles GET /admin/organizations requests.
func (h *OrgAdminHandler) List(c echo.Context) error {
	orgs, err := h.orgs.ListOrganizations(c.Request().Context())
	if err != nil {
		return Error(c, http.StatusInternalServerError, "failed to list organizations")
	}
	return Success(c, http.StatusOK, "", orgs)
}

// SetVerified handles PATCH /admin/organizations/:id/verify requests.
func (h *OrgAdminHandler) SetVerified(c echo.Context) error {
	id, err := parseListingID(c)
	if err != nil {
		return Error(c, http.StatusBadRequest, "invalid organization id")
	}

	var req struct {
		Verified bool `json:"is_verified"`
	}
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	if err := h.orgs.SetVerified(c.Request().Context(), id, req.Verified); err != nil {
		if errors.Is(err, repository.ErrOrganizationNotFound) {
			return Error(c, http.StatusNotFound, "organization not found")
		}
		return Error(c, http.StatusInternalServerError, "failed to update organization")
	}
	return Success(c, http.StatusOK, "organization updated", nil)
}
