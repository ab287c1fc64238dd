package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"youtube-performance-tracker/internal/domain"
	"youtube-performance-tracker/internal/domain/model"
	"youtube-performance-tracker/internal/infra/events"
	"youtube-performance-tracker/internal/infra/metrics"
)

type pixResponse struct {
	ID           string `json:"id"`
	QRCode       string `json:"qrCode"`
	QRCodeBase64 string `json:"qrCodeBase64"`
	Status       string `json:"status"`
	ExpiresAt    string `json:"expiresAt,omitempty"`
}

func toPixResponse(p *model.PixPayment) pixResponse {
	resp := pixResponse{
		ID:           p.ID,
		QRCode:       p.QRCode,
		QRCodeBase64: p.QRCodeBase64,
		Status:       string(p.Status),
	}
	if !p.ExpiresAt.IsZero() {
		resp.ExpiresAt = p.ExpiresAt.Format(time.RFC3339)
	}
	return resp
}

func (s *Server) handleCreatePix(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Amount      float64           `json:"amount"`
		Description string            `json:"description"`
		Email       string            `json:"email"`
		Metadata    map[string]string `json:"metadata"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "malformed body")
		return
	}

	amountCents := int64(math.Round(body.Amount * 100))
	p, err := s.paymentUC.CreatePix(r.Context(), amountCents, body.Description, body.Email, body.Metadata)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	metrics.IncPayment(string(p.Status))
	writeJSON(w, http.StatusCreated, toPixResponse(p))
}

func (s *Server) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	var body struct {
		PlanID      string `json:"planId"`
		Email       string `json:"email"`
		CompanyName string `json:"companyName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "malformed body")
		return
	}

	p, err := s.paymentUC.Subscribe(r.Context(), body.PlanID, body.Email, body.CompanyName)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	metrics.IncPayment(string(p.Status))
	writeJSON(w, http.StatusCreated, toPixResponse(p))
}

func (s *Server) handlePaymentStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	res, err := s.paymentUC.CheckStatus(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp := map[string]interface{}{"id": res.ID, "status": string(res.Status)}
	if res.ErrorMessage != "" {
		resp["errorMessage"] = res.ErrorMessage
	}
	if res.EmailExists != nil {
		resp["emailExists"] = *res.EmailExists
	}
	writeJSON(w, http.StatusOK, resp)
}

// handlePaymentStream pushes status changes for one payment over SSE. The bus
// subscription is dropped as soon as the client goes away so listeners cannot
// pile up on abandoned checkouts.
func (s *Server) handlePaymentStream(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	fmt.Fprint(w, ":ok\n\n")
	flusher.Flush()

	// Buffered so a publish never blocks on a stalled client; the status
	// stream for one payment is tiny (pending plus one terminal event).
	ch := make(chan events.StatusEvent, 8)
	token := s.bus.Subscribe(id, func(ev events.StatusEvent) {
		select {
		case ch <- ev:
		default:
		}
	})
	defer s.bus.Unsubscribe(id, token)

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			data, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", data)
			flusher.Flush()
		}
	}
}

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable body")
		return
	}

	err = s.paymentUC.HandleWebhook(r.Context(), payload, r.Header.Get("x-signature"))
	if err != nil {
		if errors.Is(err, domain.ErrBadSignature) {
			// 401 with no body; nothing was mutated.
			metrics.IncWebhookRejected()
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		s.log.Error().Err(err).Msg("webhook processing failed")
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}
