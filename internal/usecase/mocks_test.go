package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"youtube-performance-tracker/internal/domain"
	"youtube-performance-tracker/internal/domain/model"
	"youtube-performance-tracker/internal/domain/ports/adapter"
	"youtube-performance-tracker/internal/domain/ports/repository"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// --- In-memory repositories ---

type memPaymentRepo struct {
	mu       sync.Mutex
	store    map[string]*model.PixPayment
	SaveFunc func(ctx context.Context, tx repository.Tx, p *model.PixPayment) error
}

func newMemPaymentRepo() *memPaymentRepo {
	return &memPaymentRepo{store: make(map[string]*model.PixPayment)}
}

func (m *memPaymentRepo) Save(ctx context.Context, tx repository.Tx, p *model.PixPayment) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, tx, p)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.store[p.ID] = &cp
	return nil
}

func (m *memPaymentRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.PixPayment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memPaymentRepo) UpdateStatusIfPending(ctx context.Context, tx repository.Tx, id string, status model.PaymentStatus) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.store[id]
	if !ok {
		return false, nil
	}
	if p.Status != model.PaymentStatusPending {
		return false, nil
	}
	p.Status = status
	return true, nil
}

func (m *memPaymentRepo) ListPendingOlderThan(ctx context.Context, tx repository.Tx, cutoff time.Time, limit int) ([]*model.PixPayment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.PixPayment
	for _, p := range m.store {
		if p.Status == model.PaymentStatusPending && p.CreatedAt.Before(cutoff) && len(out) < limit {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

type memSubscriptionRepo struct {
	mu    sync.Mutex
	store map[string]*model.Subscription // by payment id
}

func newMemSubscriptionRepo() *memSubscriptionRepo {
	return &memSubscriptionRepo{store: make(map[string]*model.Subscription)}
}

func (m *memSubscriptionRepo) Save(ctx context.Context, tx repository.Tx, s *model.Subscription) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.store[s.PaymentID] = &cp
	return nil
}

func (m *memSubscriptionRepo) FindByPaymentID(ctx context.Context, tx repository.Tx, paymentID string) (*model.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.store[paymentID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memSubscriptionRepo) MarkApproved(ctx context.Context, tx repository.Tx, paymentID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.store[paymentID]
	if !ok || s.Status == model.PaymentStatusApproved {
		return false, nil
	}
	s.Status = model.PaymentStatusApproved
	return true, nil
}

func (m *memSubscriptionRepo) UpdateStatus(ctx context.Context, tx repository.Tx, paymentID string, status model.PaymentStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.store[paymentID]
	if !ok || s.Status == model.PaymentStatusApproved {
		return nil
	}
	s.Status = status
	return nil
}

type memCompanyRepo struct {
	mu          sync.Mutex
	store       map[int64]*model.Company
	UpdateCalls int
}

func newMemCompanyRepo() *memCompanyRepo {
	return &memCompanyRepo{store: make(map[int64]*model.Company)}
}

func (m *memCompanyRepo) FindByID(ctx context.Context, tx repository.Tx, id int64) (*model.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memCompanyRepo) UpdatePlan(ctx context.Context, tx repository.Tx, id int64, planID string, mrrCents int64, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.store[id]
	if !ok {
		return domain.ErrNotFound
	}
	m.UpdateCalls++
	c.Plan = planID
	c.MRRCents = mrrCents
	exp := expiresAt
	c.PlanExpiresAt = &exp
	return nil
}

type memPlanRepo struct {
	mu    sync.Mutex
	store map[string]*model.Plan
}

func newMemPlanRepo() *memPlanRepo {
	return &memPlanRepo{store: make(map[string]*model.Plan)}
}

func (m *memPlanRepo) Save(ctx context.Context, tx repository.Tx, p *model.Plan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.store[p.ID] = &cp
	return nil
}

func (m *memPlanRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Plan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memPlanRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.Plan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Plan
	for _, p := range m.store {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memPlanRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.store, id)
	return nil
}

type memUserRepo struct {
	mu    sync.Mutex
	store map[string]*model.User // by email
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{store: make(map[string]*model.User)}
}

func (m *memUserRepo) put(u *model.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store[u.Email] = u
}

func (m *memUserRepo) FindByEmail(ctx context.Context, tx repository.Tx, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.store[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

type memChannelRepo struct {
	mu     sync.Mutex
	nextID int64
	store  map[int64]*model.Channel
}

func newMemChannelRepo() *memChannelRepo {
	return &memChannelRepo{store: make(map[int64]*model.Channel)}
}

func (m *memChannelRepo) Save(ctx context.Context, tx repository.Tx, c *model.Channel) (*model.Channel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	c.ID = m.nextID
	cp := *c
	m.store[c.ID] = &cp
	return c, nil
}

func (m *memChannelRepo) FindByID(ctx context.Context, tx repository.Tx, id, companyID int64) (*model.Channel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.store[id]
	if !ok || c.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memChannelRepo) ListByCompany(ctx context.Context, tx repository.Tx, companyID int64) ([]*model.Channel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Channel
	for _, c := range m.store {
		if c.CompanyID == companyID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memChannelRepo) Delete(ctx context.Context, tx repository.Tx, id, companyID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.store, id)
	return nil
}

// --- Mock adapters ---

type mockGateway struct {
	CreateFunc func(ctx context.Context, amountCents int64, description, payerEmail string) (*model.PixPayment, error)
	StatusFunc func(ctx context.Context, id string) (model.PaymentStatus, error)
	VerifyFunc func(payload []byte, signatureHeader string) bool
}

func (g *mockGateway) CreatePixPayment(ctx context.Context, amountCents int64, description, payerEmail string) (*model.PixPayment, error) {
	if g.CreateFunc != nil {
		return g.CreateFunc(ctx, amountCents, description, payerEmail)
	}
	now := time.Now()
	return &model.PixPayment{
		ID:          fmt.Sprintf("mock-%d", now.UnixNano()),
		AmountCents: amountCents,
		Description: description,
		PayerEmail:  payerEmail,
		Status:      model.PaymentStatusPending,
		QRCode:      "00020126mockpayload",
		CreatedAt:   now,
		ExpiresAt:   now.Add(15 * time.Minute),
	}, nil
}

func (g *mockGateway) GetPaymentStatus(ctx context.Context, id string) (model.PaymentStatus, error) {
	if g.StatusFunc != nil {
		return g.StatusFunc(ctx, id)
	}
	return model.PaymentStatusPending, nil
}

func (g *mockGateway) VerifyWebhookSignature(payload []byte, signatureHeader string) bool {
	if g.VerifyFunc != nil {
		return g.VerifyFunc(payload, signatureHeader)
	}
	return true
}

type mockYouTube struct {
	ChannelFunc func(ctx context.Context, youtubeID string) (*adapter.ChannelMetadata, error)
	VideosFunc  func(ctx context.Context, channelID string) ([]adapter.RawVideo, error)
}

func (y *mockYouTube) FetchChannel(ctx context.Context, youtubeID string) (*adapter.ChannelMetadata, error) {
	if y.ChannelFunc != nil {
		return y.ChannelFunc(ctx, youtubeID)
	}
	return &adapter.ChannelMetadata{YouTubeID: youtubeID, Name: "mock channel", SubscriberCount: 1000}, nil
}

func (y *mockYouTube) FetchRecentVideos(ctx context.Context, channelID string) ([]adapter.RawVideo, error) {
	if y.VideosFunc != nil {
		return y.VideosFunc(ctx, channelID)
	}
	return nil, nil
}

// --- Mock infrastructure ---

// mockTxManager runs the callback without a real transaction.
type mockTxManager struct{}

func (mockTxManager) WithTx(ctx context.Context, fn func(ctx context.Context, tx repository.Tx) error) error {
	return fn(ctx, nil)
}

// recordingBus captures publishes for assertions.
type recordingBus struct {
	mu     sync.Mutex
	Events []struct {
		ID     string
		Status model.PaymentStatus
	}
}

func (b *recordingBus) Publish(paymentID string, status model.PaymentStatus) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Events = append(b.Events, struct {
		ID     string
		Status model.PaymentStatus
	}{paymentID, status})
}
