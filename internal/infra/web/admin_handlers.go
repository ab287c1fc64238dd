package web

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"youtube-performance-tracker/internal/domain/model"
)

func (s *Server) handleStatsSummary(w http.ResponseWriter, r *http.Request) {
	sum, err := s.statsUC.Summary(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"companies":       sum.Companies,
		"activePlans":     sum.ActivePlans,
		"totalMrr":        float64(sum.TotalMRRCents) / 100,
		"approvedRevenue": float64(sum.ApprovedCents) / 100,
		"pendingPayments": sum.PendingPayments,
	})
}

func (s *Server) handleRevenueByPlan(w http.ResponseWriter, r *http.Request) {
	rows, err := s.statsUC.RevenueByPlan(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	out := make([]map[string]interface{}, 0, len(rows))
	for _, row := range rows {
		out = append(out, map[string]interface{}{
			"planId":    row.PlanID,
			"planName":  row.PlanName,
			"companies": row.Companies,
			"revenue":   float64(row.RevenueCents) / 100,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleRevenueTrend(w http.ResponseWriter, r *http.Request) {
	months, _ := strconv.Atoi(r.URL.Query().Get("months"))
	rows, err := s.statsUC.RevenueTrend(r.Context(), months)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	out := make([]map[string]interface{}, 0, len(rows))
	for _, row := range rows {
		out = append(out, map[string]interface{}{
			"month":   row.Month,
			"revenue": float64(row.RevenueCents) / 100,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleListPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := s.planUC.List(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	out := make([]map[string]interface{}, 0, len(plans))
	for _, p := range plans {
		out = append(out, map[string]interface{}{
			"id":          p.ID,
			"name":        p.Name,
			"price":       float64(p.PriceCents) / 100,
			"maxChannels": p.MaxChannels,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleUpsertPlan(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ID          string  `json:"id"`
		Name        string  `json:"name"`
		Price       float64 `json:"price"`
		MaxChannels int     `json:"maxChannels"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "malformed body")
		return
	}
	p := &model.Plan{
		ID:          body.ID,
		Name:        body.Name,
		PriceCents:  int64(math.Round(body.Price * 100)),
		MaxChannels: body.MaxChannels,
	}
	if err := s.planUC.Upsert(r.Context(), p); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": p.ID})
}

func (s *Server) handleDeletePlan(w http.ResponseWriter, r *http.Request) {
	if err := s.planUC.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
