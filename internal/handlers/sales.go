package handlers

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/sales-dashboard/internal/dto"
	"github.com/GregMSThompson/sales-dashboard/internal/errs"
	"github.com/GregMSThompson/sales-dashboard/internal/response"
)

type SalesService interface {
	GetTable(ctx context.Context, q dto.SalesQuery) (dto.TablePageResponse, error)
	GetRecord(ctx context.Context, id string) (dto.SalesRow, error)
	GetFacets(ctx context.Context) (dto.FacetsResponse, error)
	GetSeries(ctx context.Context, q dto.SalesQuery) (dto.SeriesResponse, error)
	GetOverview(ctx context.Context) (dto.OverviewResponse, error)
	Export(ctx context.Context, q dto.SalesQuery) (dto.ExportFile, error)
	Refresh(ctx context.Context) (dto.RefreshResponse, error)
}

type salesHandlers struct {
	ResponseHandler response.ResponseHandler
	SalesSvc        SalesService
}

func NewSalesHandlers(deps *Deps) *salesHandlers {
	return &salesHandlers{
		ResponseHandler: deps.ResponseHandler,
		SalesSvc:        deps.SalesSvc,
	}
}

func (h *salesHandlers) SalesRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/transactions", h.GetTable)
	r.Get("/transactions/{id}", h.GetRecord)
	r.Get("/facets", h.GetFacets)
	r.Get("/series", h.GetSeries)
	r.Get("/overview", h.GetOverview)
	r.Get("/export", h.Export)
	r.Post("/refresh", h.Refresh)
	return r
}

func (h *salesHandlers) GetTable(w http.ResponseWriter, r *http.Request) {
	q, err := parseSalesQuery(r.URL.Query())
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	resp, err := h.SalesSvc.GetTable(r.Context(), q)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, resp)
}

func (h *salesHandlers) GetRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("id is required"))
		return
	}
	row, err := h.SalesSvc.GetRecord(r.Context(), id)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, row)
}

func (h *salesHandlers) GetFacets(w http.ResponseWriter, r *http.Request) {
	resp, err := h.SalesSvc.GetFacets(r.Context())
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, resp)
}

func (h *salesHandlers) GetSeries(w http.ResponseWriter, r *http.Request) {
	q, err := parseSalesQuery(r.URL.Query())
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	resp, err := h.SalesSvc.GetSeries(r.Context(), q)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, resp)
}

func (h *salesHandlers) GetOverview(w http.ResponseWriter, r *http.Request) {
	resp, err := h.SalesSvc.GetOverview(r.Context())
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, resp)
}

func (h *salesHandlers) Export(w http.ResponseWriter, r *http.Request) {
	q, err := parseSalesQuery(r.URL.Query())
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	file, err := h.SalesSvc.Export(r.Context(), q)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteFile(w, r, file.Filename, file.ContentType, file.Body)
}

func (h *salesHandlers) Refresh(w http.ResponseWriter, r *http.Request) {
	resp, err := h.SalesSvc.Refresh(r.Context())
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, resp)
}

// parseSalesQuery reads the filter, page, view, granularity and format parameters.
// Field validation happens in the service.
func parseSalesQuery(v url.Values) (dto.SalesQuery, error) {
	q := dto.SalesQuery{
		Search:         v.Get("search"),
		From:           v.Get("from"),
		To:             v.Get("to"),
		Category:       v.Get("category"),
		Region:         v.Get("region"),
		Representative: v.Get("representative"),
		Granularity:    v.Get("granularity"),
		Format:         v.Get("format"),
		View:           v.Get("view"),
		Page:           1,
	}
	if p := v.Get("page"); p != "" {
		page, err := strconv.Atoi(p)
		if err != nil {
			return dto.SalesQuery{}, errs.NewValidationError("page must be an integer")
		}
		q.Page = page
	}
	return q, nil
}
