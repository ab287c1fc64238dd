package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"youtube-performance-tracker/internal/domain"
	"youtube-performance-tracker/internal/domain/model"
)

func newTestGateway(t *testing.T, handler http.HandlerFunc) (*MercadoPagoGateway, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	g := NewMercadoPagoGateway("test-token", "test-secret", srv.URL)
	return g, srv
}

func TestMercadoPagoGateway_CreatePixPayment(t *testing.T) {
	ctx := context.Background()

	t.Run("issues a charge and maps the response", func(t *testing.T) {
		var gotAuth, gotIdem string
		var gotBody map[string]interface{}
		g, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost || r.URL.Path != "/v1/payments" {
				t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			}
			gotAuth = r.Header.Get("Authorization")
			gotIdem = r.Header.Get("X-Idempotency-Key")
			json.NewDecoder(r.Body).Decode(&gotBody)
			fmt.Fprint(w, `{
				"id": 12345678901,
				"status": "pending",
				"date_of_expiration": "2026-03-01T12:30:00.000-03:00",
				"point_of_interaction": {"transaction_data": {"qr_code": "00020126pix", "qr_code_base64": "aGVsbG8="}}
			}`)
		})

		p, err := g.CreatePixPayment(ctx, 5900, "Pro plan", "owner@acme.test")
		if err != nil {
			t.Fatalf("CreatePixPayment() error = %v", err)
		}
		if gotAuth != "Bearer test-token" {
			t.Errorf("Authorization = %q", gotAuth)
		}
		if gotIdem == "" {
			t.Error("request is missing the idempotency key")
		}
		if amt := gotBody["transaction_amount"].(float64); amt != 59.0 {
			t.Errorf("transaction_amount = %v, want 59.0", amt)
		}
		if gotBody["payment_method_id"] != "pix" {
			t.Errorf("payment_method_id = %v, want pix", gotBody["payment_method_id"])
		}
		if p.ID != "12345678901" {
			t.Errorf("payment id = %q, want the numeric id as string", p.ID)
		}
		if p.Status != model.PaymentStatusPending || p.AmountCents != 5900 {
			t.Errorf("payment = %+v", p)
		}
		if p.QRCode != "00020126pix" || p.QRCodeBase64 != "aGVsbG8=" {
			t.Errorf("qr fields = %q / %q", p.QRCode, p.QRCodeBase64)
		}
		wantExp := time.Date(2026, 3, 1, 12, 30, 0, 0, time.FixedZone("", -3*3600))
		if !p.ExpiresAt.Equal(wantExp) {
			t.Errorf("ExpiresAt = %v, want %v", p.ExpiresAt, wantExp)
		}
	})

	t.Run("falls back to the default expiry", func(t *testing.T) {
		g, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"id": 1, "status": "pending"}`)
		})
		fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		g.now = func() time.Time { return fixed }

		p, err := g.CreatePixPayment(ctx, 100, "d", "a@b.test")
		if err != nil {
			t.Fatalf("CreatePixPayment() error = %v", err)
		}
		if want := fixed.Add(defaultExpiry); !p.ExpiresAt.Equal(want) {
			t.Errorf("ExpiresAt = %v, want %v", p.ExpiresAt, want)
		}
	})

	t.Run("fresh idempotency key per call", func(t *testing.T) {
		var keys []string
		g, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
			keys = append(keys, r.Header.Get("X-Idempotency-Key"))
			fmt.Fprint(w, `{"id": 1, "status": "pending"}`)
		})
		g.CreatePixPayment(ctx, 100, "d", "a@b.test")
		g.CreatePixPayment(ctx, 100, "d", "a@b.test")
		if len(keys) != 2 || keys[0] == keys[1] {
			t.Errorf("idempotency keys = %v, want two distinct values", keys)
		}
	})

	t.Run("surfaces the processor's error message", func(t *testing.T) {
		g, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, `{"message": "invalid payer email"}`)
		})

		_, err := g.CreatePixPayment(ctx, 100, "d", "a@b.test")
		var gwErr *domain.GatewayError
		if !errors.As(err, &gwErr) {
			t.Fatalf("error = %v, want GatewayError", err)
		}
		if gwErr.StatusCode != http.StatusBadRequest || gwErr.Message != "invalid payer email" {
			t.Errorf("GatewayError = %+v", gwErr)
		}
	})

	t.Run("unparseable error body falls back to the status text", func(t *testing.T) {
		g, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprint(w, `<html>oops</html>`)
		})
		_, err := g.CreatePixPayment(ctx, 100, "d", "a@b.test")
		var gwErr *domain.GatewayError
		if !errors.As(err, &gwErr) {
			t.Fatalf("error = %v, want GatewayError", err)
		}
		if gwErr.Message == "" {
			t.Error("GatewayError has no message")
		}
	})

	t.Run("missing access token fails fast", func(t *testing.T) {
		g := NewMercadoPagoGateway("", "secret", "")
		if _, err := g.CreatePixPayment(ctx, 100, "d", "a@b.test"); !errors.Is(err, domain.ErrNotConfigured) {
			t.Errorf("error = %v, want ErrNotConfigured", err)
		}
	})
}

func TestMercadoPagoGateway_GetPaymentStatus(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		raw  string
		want model.PaymentStatus
	}{
		{"approved", model.PaymentStatusApproved},
		{"rejected", model.PaymentStatusError},
		{"refunded", model.PaymentStatusError},
		{"charged_back", model.PaymentStatusError},
		{"cancelled", model.PaymentStatusExpired},
		{"expired", model.PaymentStatusExpired},
		{"pending", model.PaymentStatusPending},
		{"in_process", model.PaymentStatusPending}, // unknown stays pending
	}
	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			g, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/v1/payments/123" {
					t.Errorf("path = %q", r.URL.Path)
				}
				fmt.Fprintf(w, `{"id": 123, "status": %q}`, tc.raw)
			})
			got, err := g.GetPaymentStatus(ctx, "123")
			if err != nil {
				t.Fatalf("GetPaymentStatus() error = %v", err)
			}
			if got != tc.want {
				t.Errorf("GetPaymentStatus() = %q, want %q", got, tc.want)
			}
		})
	}

	t.Run("non-2xx is a gateway error", func(t *testing.T) {
		g, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"message": "Payment not found"}`)
		})
		_, err := g.GetPaymentStatus(ctx, "ghost")
		if !domain.IsGatewayError(err) {
			t.Errorf("error = %v, want GatewayError", err)
		}
	})
}

func signWebhook(secret string, ts string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%s.", ts)
	mac.Write(payload)
	return fmt.Sprintf("ts=%s,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func TestMercadoPagoGateway_VerifyWebhookSignature(t *testing.T) {
	g := NewMercadoPagoGateway("token", "test-secret", "")
	payload := []byte(`{"type":"payment","data":{"id":"123"}}`)

	t.Run("accepts a valid signature", func(t *testing.T) {
		header := signWebhook("test-secret", "1750000000", payload)
		if !g.VerifyWebhookSignature(payload, header) {
			t.Error("valid signature rejected")
		}
	})

	t.Run("accepts spaces between header parts", func(t *testing.T) {
		mac := hmac.New(sha256.New, []byte("test-secret"))
		fmt.Fprint(mac, "1750000000.")
		mac.Write(payload)
		header := fmt.Sprintf("ts=1750000000, v1=%s", hex.EncodeToString(mac.Sum(nil)))
		if !g.VerifyWebhookSignature(payload, header) {
			t.Error("valid signature with spaced parts rejected")
		}
	})

	t.Run("rejects a tampered payload", func(t *testing.T) {
		header := signWebhook("test-secret", "1750000000", payload)
		if g.VerifyWebhookSignature([]byte(`{"type":"payment","data":{"id":"999"}}`), header) {
			t.Error("tampered payload accepted")
		}
	})

	t.Run("rejects a signature under the wrong secret", func(t *testing.T) {
		header := signWebhook("other-secret", "1750000000", payload)
		if g.VerifyWebhookSignature(payload, header) {
			t.Error("foreign signature accepted")
		}
	})

	t.Run("rejects malformed headers", func(t *testing.T) {
		for _, header := range []string{
			"",
			"v1=abcdef",
			"ts=1750000000",
			"ts=1750000000,v1=not-hex",
			"garbage",
		} {
			if g.VerifyWebhookSignature(payload, header) {
				t.Errorf("malformed header %q accepted", header)
			}
		}
	})

	t.Run("fails closed without a configured secret", func(t *testing.T) {
		bare := NewMercadoPagoGateway("token", "", "")
		header := signWebhook("", "1750000000", payload)
		if bare.VerifyWebhookSignature(payload, header) {
			t.Error("signature accepted with no secret configured")
		}
	})
}
