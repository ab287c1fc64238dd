package web

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"youtube-performance-tracker/internal/domain"
	"youtube-performance-tracker/internal/domain/model"
	"youtube-performance-tracker/internal/domain/ports/adapter"
	"youtube-performance-tracker/internal/domain/ports/repository"
	"youtube-performance-tracker/internal/infra/events"
	"youtube-performance-tracker/internal/usecase"
)

type mockPaymentUC struct {
	CreatePixFunc     func(ctx context.Context, amountCents int64, description, payerEmail string, metadata map[string]string) (*model.PixPayment, error)
	SubscribeFunc     func(ctx context.Context, planID, payerEmail, companyName string) (*model.PixPayment, error)
	CheckStatusFunc   func(ctx context.Context, id string) (*usecase.StatusResult, error)
	HandleWebhookFunc func(ctx context.Context, payload []byte, signatureHeader string) error
	ReconcileFunc     func(ctx context.Context, id string) (model.PaymentStatus, error)
}

var _ usecase.PaymentUseCase = (*mockPaymentUC)(nil)

func (m *mockPaymentUC) CreatePix(ctx context.Context, amountCents int64, description, payerEmail string, metadata map[string]string) (*model.PixPayment, error) {
	return m.CreatePixFunc(ctx, amountCents, description, payerEmail, metadata)
}

func (m *mockPaymentUC) Subscribe(ctx context.Context, planID, payerEmail, companyName string) (*model.PixPayment, error) {
	return m.SubscribeFunc(ctx, planID, payerEmail, companyName)
}

func (m *mockPaymentUC) CheckStatus(ctx context.Context, id string) (*usecase.StatusResult, error) {
	return m.CheckStatusFunc(ctx, id)
}

func (m *mockPaymentUC) HandleWebhook(ctx context.Context, payload []byte, signatureHeader string) error {
	return m.HandleWebhookFunc(ctx, payload, signatureHeader)
}

func (m *mockPaymentUC) ReconcileOnce(ctx context.Context, id string) (model.PaymentStatus, error) {
	return m.ReconcileFunc(ctx, id)
}

func (m *mockPaymentUC) FindPayment(ctx context.Context, id string) (*model.PixPayment, error) {
	return nil, domain.ErrNotFound
}

type mockStatsRepo struct {
	SummaryFunc func(ctx context.Context) (*model.RevenueSummary, error)
	ByPlanFunc  func(ctx context.Context) ([]model.PlanRevenue, error)
	TrendFunc   func(ctx context.Context, months int) ([]model.RevenuePoint, error)
}

func (m *mockStatsRepo) Summary(ctx context.Context) (*model.RevenueSummary, error) {
	if m.SummaryFunc != nil {
		return m.SummaryFunc(ctx)
	}
	return &model.RevenueSummary{}, nil
}

func (m *mockStatsRepo) RevenueByPlan(ctx context.Context) ([]model.PlanRevenue, error) {
	if m.ByPlanFunc != nil {
		return m.ByPlanFunc(ctx)
	}
	return nil, nil
}

func (m *mockStatsRepo) RevenueTrend(ctx context.Context, months int) ([]model.RevenuePoint, error) {
	if m.TrendFunc != nil {
		return m.TrendFunc(ctx, months)
	}
	return nil, nil
}

type memChannelRepo struct {
	nextID int64
	store  map[int64]*model.Channel
}

func newMemChannelRepo() *memChannelRepo {
	return &memChannelRepo{store: make(map[int64]*model.Channel)}
}

func (m *memChannelRepo) Save(ctx context.Context, tx repository.Tx, c *model.Channel) (*model.Channel, error) {
	m.nextID++
	c.ID = m.nextID
	cp := *c
	m.store[c.ID] = &cp
	return c, nil
}

func (m *memChannelRepo) FindByID(ctx context.Context, tx repository.Tx, id, companyID int64) (*model.Channel, error) {
	c, ok := m.store[id]
	if !ok || c.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memChannelRepo) ListByCompany(ctx context.Context, tx repository.Tx, companyID int64) ([]*model.Channel, error) {
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
	delete(m.store, id)
	return nil
}

type memPlanRepo struct {
	store map[string]*model.Plan
}

func newMemPlanRepo() *memPlanRepo {
	return &memPlanRepo{store: make(map[string]*model.Plan)}
}

func (m *memPlanRepo) Save(ctx context.Context, tx repository.Tx, p *model.Plan) error {
	cp := *p
	m.store[p.ID] = &cp
	return nil
}

func (m *memPlanRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Plan, error) {
	p, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memPlanRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.Plan, error) {
	var out []*model.Plan
	for _, p := range m.store {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memPlanRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	if _, ok := m.store[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.store, id)
	return nil
}

type mockYouTube struct {
	ChannelFunc func(ctx context.Context, youtubeID string) (*adapter.ChannelMetadata, error)
	VideosFunc  func(ctx context.Context, channelID string) ([]adapter.RawVideo, error)
}

func (y *mockYouTube) FetchChannel(ctx context.Context, youtubeID string) (*adapter.ChannelMetadata, error) {
	if y.ChannelFunc != nil {
		return y.ChannelFunc(ctx, youtubeID)
	}
	return &adapter.ChannelMetadata{YouTubeID: youtubeID, Name: "mock channel"}, nil
}

func (y *mockYouTube) FetchRecentVideos(ctx context.Context, channelID string) ([]adapter.RawVideo, error) {
	if y.VideosFunc != nil {
		return y.VideosFunc(ctx, channelID)
	}
	return nil, nil
}

// testServer bundles a Server with the collaborators tests poke at directly.
type testServer struct {
	handler  http.Handler
	bus      *events.PaymentBus
	channels *memChannelRepo
	plans    *memPlanRepo
	youtube  *mockYouTube
	payments *mockPaymentUC
	stats    *mockStatsRepo
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := zerolog.Nop()
	ts := &testServer{
		bus:      events.NewPaymentBus(),
		channels: newMemChannelRepo(),
		plans:    newMemPlanRepo(),
		youtube:  &mockYouTube{},
		payments: &mockPaymentUC{},
		stats:    &mockStatsRepo{},
	}
	engine := usecase.NewScoreEngine(usecase.DefaultScoreThresholds, nil)
	channelUC := usecase.NewChannelUseCase(ts.channels, ts.youtube, engine, &logger)
	statsUC := usecase.NewStatsUseCase(ts.stats, &logger)
	planUC := usecase.NewPlanUseCase(ts.plans)
	auth := NewAuthManager("test-jwt-secret", false, time.Hour)
	srv := NewServer(0, ts.payments, channelUC, statsUC, planUC, ts.bus, auth, "admin-pass", &logger)
	ts.handler = srv.routes()
	return ts
}
