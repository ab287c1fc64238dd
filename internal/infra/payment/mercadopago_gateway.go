package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"youtube-performance-tracker/internal/domain"
	"youtube-performance-tracker/internal/domain/model"
	"youtube-performance-tracker/internal/domain/ports/adapter"
	"youtube-performance-tracker/internal/infra/metrics"
)

// defaultExpiry is applied when the processor does not report an expiration
// for the PIX charge.
const defaultExpiry = 15 * time.Minute

// Compile-time check
var _ adapter.PaymentGateway = (*MercadoPagoGateway)(nil)

// MercadoPagoGateway implements the PIX processor API using direct HTTP calls.
type MercadoPagoGateway struct {
	accessToken   string
	webhookSecret string
	baseURL       string
	client        *http.Client
	now           func() time.Time
}

func NewMercadoPagoGateway(accessToken, webhookSecret, baseURL string) *MercadoPagoGateway {
	if baseURL == "" {
		baseURL = "https://api.mercadopago.com"
	}
	return &MercadoPagoGateway{
		accessToken:   accessToken,
		webhookSecret: webhookSecret,
		baseURL:       strings.TrimSuffix(baseURL, "/"),
		client:        &http.Client{Timeout: 15 * time.Second},
		now:           time.Now,
	}
}

// mpPaymentResponse is the subset of the processor's payment resource we read.
type mpPaymentResponse struct {
	ID                 json.Number `json:"id"`
	Status             string      `json:"status"`
	DateOfExpiration   string      `json:"date_of_expiration"`
	PointOfInteraction struct {
		TransactionData struct {
			QRCode       string `json:"qr_code"`
			QRCodeBase64 string `json:"qr_code_base64"`
		} `json:"transaction_data"`
	} `json:"point_of_interaction"`
}

// mpErrorResponse is the processor's structured error body.
type mpErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (g *MercadoPagoGateway) CreatePixPayment(ctx context.Context, amountCents int64, description, payerEmail string) (*model.PixPayment, error) {
	if g.accessToken == "" {
		return nil, domain.ErrNotConfigured
	}

	reqBody := map[string]interface{}{
		"transaction_amount": float64(amountCents) / 100,
		"description":        description,
		"payment_method_id":  "pix",
		"payer":              map[string]string{"email": payerEmail},
	}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal payment request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v1/payments", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("create payment request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.accessToken)
	req.Header.Set("Content-Type", "application/json")
	// A fresh key per call: retries of the same logical charge are the
	// caller's responsibility, never deduplicated here.
	req.Header.Set("X-Idempotency-Key", uuid.NewString())

	resp, err := g.client.Do(req)
	if err != nil {
		metrics.IncGatewayCall("create", "transport_error")
		return nil, &domain.GatewayError{StatusCode: 0, Message: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read payment response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.IncGatewayCall("create", "rejected")
		return nil, &domain.GatewayError{StatusCode: resp.StatusCode, Message: extractErrorMessage(body, resp.Status)}
	}

	var mp mpPaymentResponse
	if err := json.Unmarshal(body, &mp); err != nil {
		return nil, fmt.Errorf("unmarshal payment response: %w, body: %s", err, string(body))
	}

	now := g.now()
	expiresAt := now.Add(defaultExpiry)
	if mp.DateOfExpiration != "" {
		if t, err := time.Parse("2006-01-02T15:04:05.000-07:00", mp.DateOfExpiration); err == nil {
			expiresAt = t
		}
	}

	metrics.IncGatewayCall("create", "ok")
	return &model.PixPayment{
		ID:           mp.ID.String(),
		AmountCents:  amountCents,
		Description:  description,
		PayerEmail:   payerEmail,
		Status:       model.NormalizePaymentStatus(mp.Status),
		QRCode:       mp.PointOfInteraction.TransactionData.QRCode,
		QRCodeBase64: mp.PointOfInteraction.TransactionData.QRCodeBase64,
		CreatedAt:    now,
		ExpiresAt:    expiresAt,
	}, nil
}

func (g *MercadoPagoGateway) GetPaymentStatus(ctx context.Context, id string) (model.PaymentStatus, error) {
	if g.accessToken == "" {
		return "", domain.ErrNotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/v1/payments/"+id, nil)
	if err != nil {
		return "", fmt.Errorf("create status request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.accessToken)

	resp, err := g.client.Do(req)
	if err != nil {
		metrics.IncGatewayCall("status", "transport_error")
		return "", &domain.GatewayError{StatusCode: 0, Message: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read status response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.IncGatewayCall("status", "rejected")
		return "", &domain.GatewayError{StatusCode: resp.StatusCode, Message: extractErrorMessage(body, resp.Status)}
	}

	var mp mpPaymentResponse
	if err := json.Unmarshal(body, &mp); err != nil {
		return "", fmt.Errorf("unmarshal status response: %w", err)
	}
	metrics.IncGatewayCall("status", "ok")
	return model.NormalizePaymentStatus(mp.Status), nil
}

// VerifyWebhookSignature checks the processor's `ts=<t>,v1=<hex>` header
// against HMAC-SHA256(secret, "{ts}.{payload}"). Malformed input is simply
// false. With no secret configured it fails closed.
func (g *MercadoPagoGateway) VerifyWebhookSignature(payload []byte, signatureHeader string) bool {
	if g.webhookSecret == "" || signatureHeader == "" {
		return false
	}

	var ts, sig string
	for _, part := range strings.Split(signatureHeader, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch k {
		case "ts":
			ts = v
		case "v1":
			sig = v
		}
	}
	if ts == "" || sig == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(g.webhookSecret))
	mac.Write([]byte(ts))
	mac.Write([]byte("."))
	mac.Write(payload)
	expected := mac.Sum(nil)

	got, err := hex.DecodeString(sig)
	if err != nil {
		return false
	}
	return hmac.Equal(expected, got)
}

func extractErrorMessage(body []byte, statusText string) string {
	var mpErr mpErrorResponse
	if err := json.Unmarshal(body, &mpErr); err == nil {
		if mpErr.Message != "" {
			return mpErr.Message
		}
		if mpErr.Error != "" {
			return mpErr.Error
		}
	}
	return statusText
}
