package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/campusvote/election-system/internal/core/ports"
)

// Reconciler runs a reconciliation pass on demand.
type Reconciler interface {
	RunNow(ctx context.Context) (*ports.ReconcileReport, error)
}

// ResultsHandler serves election results and manual reconciliation.
type ResultsHandler struct {
	results    ports.ResultsService
	reconciler Reconciler
}

func NewResultsHandler(results ports.ResultsService, reconciler Reconciler) *ResultsHandler {
	return &ResultsHandler{results: results, reconciler: reconciler}
}

// Results handles GET /api/students/results and GET /api/admin/results.
//
// @Summary      Election results
// @Description  Tallies are rebuilt from voter records before being returned.
// @Tags         results
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  resultsResponse
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/students/results [get]
// @Router       /api/admin/results [get]
func (h *ResultsHandler) Results(c echo.Context) error {
	res, err := h.results.GetResults(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toResultsResponse(res))
}

// Reconcile handles POST /api/admin/reconcile.
//
// @Summary      Reconcile candidate tallies
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  reconcileResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/admin/reconcile [post]
func (h *ResultsHandler) Reconcile(c echo.Context) error {
	report, err := h.reconciler.RunNow(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toReconcileResponse(report))
}
