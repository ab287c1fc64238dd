package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"youtube-performance-tracker/internal/domain"
	"youtube-performance-tracker/internal/domain/model"
	"youtube-performance-tracker/internal/domain/ports/adapter"
	"youtube-performance-tracker/internal/domain/ports/repository"
)

// planDuration is how long a paid plan stays active after approval.
const planDuration = 30 * 24 * time.Hour

// StatusNotifier receives a payment's new normalized status after it has been
// persisted. Implemented by the in-process event bus.
type StatusNotifier interface {
	Publish(paymentID string, status model.PaymentStatus)
}

// StatusResult is the answer to a client-initiated status check.
type StatusResult struct {
	ID           string
	Status       model.PaymentStatus
	ErrorMessage string
	EmailExists  *bool // populated only when approved
}

// Compile-time check
var _ PaymentUseCase = (*paymentUC)(nil)

type PaymentUseCase interface {
	// CreatePix issues a standalone PIX charge and persists it as pending.
	CreatePix(ctx context.Context, amountCents int64, description, payerEmail string, metadata map[string]string) (*model.PixPayment, error)
	// Subscribe issues a PIX charge for a plan purchase and, when the payer
	// already belongs to a company, records the linked subscription.
	Subscribe(ctx context.Context, planID, payerEmail, companyName string) (*model.PixPayment, error)
	// CheckStatus is the client-initiated reconciliation trigger.
	CheckStatus(ctx context.Context, id string) (*StatusResult, error)
	// HandleWebhook is the processor-push trigger. Returns domain.ErrBadSignature
	// when the payload cannot be authenticated; no state is touched in that case.
	HandleWebhook(ctx context.Context, payload []byte, signatureHeader string) error
	// ReconcileOnce is the poll trigger: one authoritative status fetch plus
	// guarded state application.
	ReconcileOnce(ctx context.Context, id string) (model.PaymentStatus, error)
	FindPayment(ctx context.Context, id string) (*model.PixPayment, error)
}

type paymentUC struct {
	payments  repository.PaymentRepository
	subs      repository.SubscriptionRepository
	companies repository.CompanyRepository
	plans     repository.PlanRepository
	users     repository.UserRepository
	gateway   adapter.PaymentGateway
	tm        repository.TransactionManager
	bus       StatusNotifier
	billing   *BillingUseCase
	newSubID  func() string
	now       func() time.Time
	log       *zerolog.Logger
}

func NewPaymentUseCase(
	payments repository.PaymentRepository,
	subs repository.SubscriptionRepository,
	companies repository.CompanyRepository,
	plans repository.PlanRepository,
	users repository.UserRepository,
	gateway adapter.PaymentGateway,
	tm repository.TransactionManager,
	bus StatusNotifier,
	billing *BillingUseCase,
	newSubID func() string,
	logger *zerolog.Logger,
) *paymentUC {
	ucLog := logger.With().Str("component", "PaymentUC").Logger()
	return &paymentUC{
		payments:  payments,
		subs:      subs,
		companies: companies,
		plans:     plans,
		users:     users,
		gateway:   gateway,
		tm:        tm,
		bus:       bus,
		billing:   billing,
		newSubID:  newSubID,
		now:       time.Now,
		log:       &ucLog,
	}
}

func (u *paymentUC) CreatePix(ctx context.Context, amountCents int64, description, payerEmail string, metadata map[string]string) (*model.PixPayment, error) {
	if amountCents <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", domain.ErrInvalidInput)
	}
	if description == "" {
		return nil, fmt.Errorf("%w: description is required", domain.ErrInvalidInput)
	}
	if !strings.Contains(payerEmail, "@") {
		return nil, fmt.Errorf("%w: invalid payer email", domain.ErrInvalidInput)
	}

	p, err := u.gateway.CreatePixPayment(ctx, amountCents, description, payerEmail)
	if err != nil {
		return nil, err
	}
	p.Metadata = metadata
	if err := u.payments.Save(ctx, nil, p); err != nil {
		return nil, err
	}
	u.log.Info().Str("payment_id", p.ID).Int64("amount_cents", amountCents).Msg("pix charge created")
	return p, nil
}

func (u *paymentUC) Subscribe(ctx context.Context, planID, payerEmail, companyName string) (*model.PixPayment, error) {
	prep, err := u.billing.PrepareSubscription(ctx, planID, payerEmail, companyName)
	if err != nil {
		return nil, err
	}

	metadata := map[string]string{"planId": prep.Plan.ID}
	if prep.CompanyID != nil {
		metadata["companyId"] = fmt.Sprintf("%d", *prep.CompanyID)
	}
	p, err := u.CreatePix(ctx, prep.Plan.PriceCents, prep.Plan.Name, payerEmail, metadata)
	if err != nil {
		return nil, err
	}

	if prep.CompanyID != nil {
		now := u.now()
		sub := &model.Subscription{
			ID:        u.newSubID(),
			PaymentID: p.ID,
			CompanyID: *prep.CompanyID,
			PlanID:    prep.Plan.ID,
			Status:    model.PaymentStatusPending,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := u.subs.Save(ctx, nil, sub); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (u *paymentUC) FindPayment(ctx context.Context, id string) (*model.PixPayment, error) {
	return u.payments.FindByID(ctx, nil, id)
}

// CheckStatus re-queries the processor and applies the result through the same
// guarded path as the webhook and the poller. A transport failure degrades to
// the locally stored status so the consumer UI keeps working.
func (u *paymentUC) CheckStatus(ctx context.Context, id string) (*StatusResult, error) {
	status, err := u.ReconcileOnce(ctx, id)
	if err != nil {
		if !domain.IsGatewayError(err) {
			return nil, err
		}
		stored, findErr := u.payments.FindByID(ctx, nil, id)
		if findErr != nil {
			return nil, findErr
		}
		return &StatusResult{ID: id, Status: stored.Status, ErrorMessage: err.Error()}, nil
	}

	res := &StatusResult{ID: id, Status: status}
	if status == model.PaymentStatusApproved {
		exists, err := u.payerEmailExists(ctx, id)
		if err == nil {
			res.EmailExists = &exists
		}
	}
	return res, nil
}

// webhookBody is the processor-defined push payload; only the payment id is
// trusted, and only as a pointer to re-query the source of truth.
type webhookBody struct {
	Type string `json:"type"`
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

func (u *paymentUC) HandleWebhook(ctx context.Context, payload []byte, signatureHeader string) error {
	if !u.gateway.VerifyWebhookSignature(payload, signatureHeader) {
		return domain.ErrBadSignature
	}

	var body webhookBody
	if err := json.Unmarshal(payload, &body); err != nil {
		return fmt.Errorf("%w: malformed webhook body", domain.ErrInvalidInput)
	}
	if body.Data.ID == "" {
		return fmt.Errorf("%w: webhook body missing data.id", domain.ErrInvalidInput)
	}

	// The webhook body's own status field can be spoofed or stale, so the
	// authoritative status always comes from a fresh processor query.
	status, err := u.ReconcileOnce(ctx, body.Data.ID)
	if err != nil {
		return err
	}
	u.log.Info().Str("payment_id", body.Data.ID).Str("type", body.Type).Str("status", string(status)).Msg("webhook reconciled")
	return nil
}

func (u *paymentUC) ReconcileOnce(ctx context.Context, id string) (model.PaymentStatus, error) {
	status, err := u.gateway.GetPaymentStatus(ctx, id)
	if err != nil {
		return "", err
	}
	return u.applyStatus(ctx, id, status)
}

// applyStatus is the single guarded entry point shared by all three triggers.
// The payment row only leaves pending once (conditional update), concurrent
// approvals collapse into one side-effect application, and listeners are
// notified only for the trigger that actually performed the transition.
func (u *paymentUC) applyStatus(ctx context.Context, id string, status model.PaymentStatus) (model.PaymentStatus, error) {
	if !status.IsTerminal() {
		return status, nil
	}

	flipped, err := u.payments.UpdateStatusIfPending(ctx, nil, id, status)
	if err != nil {
		return "", err
	}
	if !flipped {
		// Late or racing trigger. The stored terminal status wins; a
		// contradicting update is dropped here by the guard.
		stored, err := u.payments.FindByID(ctx, nil, id)
		if err != nil {
			return "", err
		}
		if stored.Status.IsTerminal() && stored.Status != status {
			u.log.Warn().Str("payment_id", id).
				Str("stored", string(stored.Status)).Str("reported", string(status)).
				Msg("dropping contradicting late status update")
		}
		return stored.Status, nil
	}

	if status == model.PaymentStatusApproved {
		// Activation failures must surface: a paid-for plan that was not
		// activated needs operator attention, not a silent log line.
		if err := u.activateSubscription(ctx, id); err != nil {
			return "", fmt.Errorf("activate subscription for payment %s: %w", id, err)
		}
	} else if sub, err := u.subs.FindByPaymentID(ctx, nil, id); err == nil && sub != nil {
		if err := u.subs.UpdateStatus(ctx, nil, id, status); err != nil {
			return "", err
		}
	}

	u.bus.Publish(id, status)
	u.log.Info().Str("payment_id", id).Str("status", string(status)).Msg("payment transitioned")
	return status, nil
}

// activateSubscription applies the approval side effect at most once. The
// subscription flip and the company plan write share one transaction so a
// crash between them cannot strand a half-activated plan.
func (u *paymentUC) activateSubscription(ctx context.Context, paymentID string) error {
	return u.tm.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		sub, err := u.subs.FindByPaymentID(ctx, tx, paymentID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil // standalone charge, nothing to activate
			}
			return err
		}

		flipped, err := u.subs.MarkApproved(ctx, tx, paymentID)
		if err != nil {
			return err
		}
		if !flipped {
			return nil // a concurrent trigger already applied the side effect
		}

		plan, err := u.plans.FindByID(ctx, tx, sub.PlanID)
		if err != nil {
			return err
		}
		expiresAt := u.now().Add(planDuration)
		if err := u.companies.UpdatePlan(ctx, tx, sub.CompanyID, plan.ID, plan.PriceCents, expiresAt); err != nil {
			return err
		}
		u.log.Info().Str("payment_id", paymentID).Int64("company_id", sub.CompanyID).
			Str("plan_id", plan.ID).Time("plan_expires_at", expiresAt).Msg("subscription activated")
		return nil
	})
}

func (u *paymentUC) payerEmailExists(ctx context.Context, paymentID string) (bool, error) {
	p, err := u.payments.FindByID(ctx, nil, paymentID)
	if err != nil {
		return false, err
	}
	if _, err := u.users.FindByEmail(ctx, nil, p.PayerEmail); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
