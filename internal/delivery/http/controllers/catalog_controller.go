package controllers

import (
	"log/slog"
	"net/http"

	"eventmgt/internal/delivery/http/helpers"
	"eventmgt/internal/domain"
)

// CatalogController lists the records events refer to, for filter forms.
type CatalogController struct {
	Logger  *slog.Logger
	Service domain.CatalogService
	Demand  helpers.DemandDefaults
}

func NewCatalogController(logger *slog.Logger, svc domain.CatalogService, defaults helpers.DemandDefaults) *CatalogController {
	return &CatalogController{
		Logger:  logger,
		Service: svc,
		Demand:  defaults,
	}
}

// ListLocations godoc
// @Summary List locations
// @Tags catalog
// @Produce json
// @Param storage_page query string false "Comma separated storage page ids"
// @Param restrict_to_storage_page query bool false "Only return records stored on the storage pages"
// @Success 200 {object} helpers.APIResponse "data contains the locations"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /locations [get]
func (c *CatalogController) ListLocations(w http.ResponseWriter, r *http.Request) {
	list, err := c.Service.ListLocations(r.Context(), helpers.ParseForeignRecordDemand(r, c.Demand))
	writeList(w, r, c.Logger, list, err)
}

// ListSpeakers godoc
// @Summary List speakers
// @Tags catalog
// @Produce json
// @Param storage_page query string false "Comma separated storage page ids"
// @Param restrict_to_storage_page query bool false "Only return records stored on the storage pages"
// @Success 200 {object} helpers.APIResponse "data contains the speakers"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /speakers [get]
func (c *CatalogController) ListSpeakers(w http.ResponseWriter, r *http.Request) {
	list, err := c.Service.ListSpeakers(r.Context(), helpers.ParseForeignRecordDemand(r, c.Demand))
	writeList(w, r, c.Logger, list, err)
}

// ListOrganisators godoc
// @Summary List organisators
// @Tags catalog
// @Produce json
// @Param storage_page query string false "Comma separated storage page ids"
// @Param restrict_to_storage_page query bool false "Only return records stored on the storage pages"
// @Success 200 {object} helpers.APIResponse "data contains the organisators"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /organisators [get]
func (c *CatalogController) ListOrganisators(w http.ResponseWriter, r *http.Request) {
	list, err := c.Service.ListOrganisators(r.Context(), helpers.ParseForeignRecordDemand(r, c.Demand))
	writeList(w, r, c.Logger, list, err)
}

// ListCategories godoc
// @Summary List categories
// @Tags catalog
// @Produce json
// @Param storage_page query string false "Comma separated storage page ids"
// @Param restrict_to_storage_page query bool false "Only return records stored on the storage pages"
// @Success 200 {object} helpers.APIResponse "data contains the categories"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /categories [get]
func (c *CatalogController) ListCategories(w http.ResponseWriter, r *http.Request) {
	list, err := c.Service.ListCategories(r.Context(), helpers.ParseForeignRecordDemand(r, c.Demand))
	writeList(w, r, c.Logger, list, err)
}

// writeList writes list as data, using an empty array for nil.
func writeList[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger, list []T, err error) {
	if err != nil {
		helpers.WriteServiceError(w, r, logger, err)
		return
	}
	if list == nil {
		list = []T{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, list)
}
