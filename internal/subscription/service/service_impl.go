package service

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/regobertatangangwatangie-eng/farmpro/internal/clock"
	"github.com/regobertatangangwatangie-eng/farmpro/internal/config"
	"github.com/regobertatangangwatangie-eng/farmpro/internal/events"
	"github.com/regobertatangangwatangie-eng/farmpro/internal/logger"
	obscontext "github.com/regobertatangangwatangie-eng/farmpro/internal/observability/context"
	paymentadapters "github.com/regobertatangangwatangie-eng/farmpro/internal/payment/adapters"
	paymentdomain "github.com/regobertatangangwatangie-eng/farmpro/internal/payment/domain"
	"github.com/regobertatangangwatangie-eng/farmpro/internal/plan"
	subscriptiondomain "github.com/regobertatangangwatangie-eng/farmpro/internal/subscription/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// successTokens are the gateway status values treated as a completed payment.
var successTokens = map[string]bool{
	"successful": true,
	"paid":       true,
}

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Cfg      config.Config
	Catalog  *plan.Catalog
	Adapters *paymentadapters.Registry
	Repo     subscriptiondomain.Repository
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	prefix   string
	siteURL  string
	catalog  *plan.Catalog
	adapters *paymentadapters.Registry
	repo     subscriptiondomain.Repository
}

func NewService(p Params) subscriptiondomain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("subscription.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		prefix:   p.Cfg.ReferencePrefix,
		siteURL:  p.Cfg.SiteURL,
		catalog:  p.Catalog,
		adapters: p.Adapters,
		repo:     p.Repo,
	}
}

// Create validates the request, obtains payment instructions from the
// matching gateway adapter, and persists a pending subscription. Nothing is
// persisted when the adapter fails.
func (s *Service) Create(ctx context.Context, req subscriptiondomain.CreateRequest) (*subscriptiondomain.Subscription, error) {
	selected, err := s.catalog.Lookup(strings.TrimSpace(req.PlanID))
	if err != nil {
		return nil, err
	}
	customerName := strings.TrimSpace(req.CustomerName)
	if customerName == "" {
		return nil, subscriptiondomain.ErrMissingCustomer
	}
	if strings.TrimSpace(req.PaymentMethod) == "" {
		return nil, subscriptiondomain.ErrMissingPaymentMethod
	}

	adapter, err := s.adapters.ForMethod(req.PaymentMethod)
	if err != nil {
		return nil, err
	}

	id := s.genID.Generate()
	reference := s.reference(id)

	redirectURL := strings.TrimSpace(req.RedirectURL)
	if redirectURL == "" {
		redirectURL = s.siteURL + "/api/subscriptions/checkout-flw/" + id.String()
	}

	instructions, err := adapter.InitializeCharge(ctx, paymentdomain.ChargeRequest{
		AmountUSD:     selected.PriceUSD,
		Currency:      "USD",
		CustomerName:  customerName,
		CustomerEmail: strings.TrimSpace(req.CustomerEmail),
		Reference:     reference,
		Provider:      req.PaymentProvider,
		RedirectURL:   redirectURL,
	})
	if err != nil {
		s.log.Warn("charge initialization failed",
			zap.String("adapter", adapter.Name()),
			zap.Error(err))
		return nil, err
	}

	instructionsJSON, err := json.Marshal(instructions)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	sub := &subscriptiondomain.Subscription{
		ID:                  id,
		PlanID:              selected.ID,
		PlanName:            selected.Name,
		AmountUSD:           selected.PriceUSD,
		CustomerName:        customerName,
		Status:              subscriptiondomain.StatusPending,
		PaymentMethod:       adapter.Name(),
		PaymentInstructions: datatypes.JSON(instructionsJSON),
		CreatedAt:           now,
	}
	if email := strings.TrimSpace(req.CustomerEmail); email != "" {
		sub.CustomerEmail = &email
	}
	if provider := strings.ToLower(strings.TrimSpace(req.PaymentProvider)); provider != "" {
		sub.PaymentProvider = &provider
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Insert(ctx, tx, sub); err != nil {
			return err
		}
		return s.appendEvent(ctx, tx, &id, events.PaymentCreated, map[string]any{
			"via":          adapter.Name(),
			"reference":    reference,
			"instructions": instructions,
		})
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("subscription created",
		zap.String("subscription_id", id.String()),
		zap.String("plan", selected.ID),
		zap.String("method", adapter.Name()))
	return sub, nil
}

// ApplyWebhook records a gateway notification and, when the payload matches a
// pending subscription, transitions it. Deliveries are always acknowledged;
// unmatched or repeated payloads only extend the event log.
func (s *Service) ApplyWebhook(ctx context.Context, payload []byte) (*subscriptiondomain.WebhookOutcome, error) {
	var parsed map[string]any
	if err := json.Unmarshal(payload, &parsed); err != nil {
		parsed = nil
	}
	s.log.Info("payment webhook received", zap.Any("payload", logger.MaskPayload(parsed)))

	id, reference, ok := s.extractSubscriptionID(parsed)
	ctx = obscontext.WithReference(ctx, reference)
	if !ok {
		if err := s.appendEvent(ctx, s.db, nil, events.PaymentWebhookReceived, rawPayload(payload, parsed)); err != nil {
			return nil, err
		}
		return &subscriptiondomain.WebhookOutcome{Matched: false}, nil
	}

	sub, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		if err := s.appendEvent(ctx, s.db, nil, events.PaymentWebhookReceived, rawPayload(payload, parsed)); err != nil {
			return nil, err
		}
		return &subscriptiondomain.WebhookOutcome{Matched: false}, nil
	}

	if err := s.appendEvent(ctx, s.db, &sub.ID, events.PaymentWebhookReceived, rawPayload(payload, parsed)); err != nil {
		return nil, err
	}

	if sub.Status.Terminal() {
		return &subscriptiondomain.WebhookOutcome{
			Matched:        true,
			SubscriptionID: sub.ID.String(),
			Status:         sub.Status,
		}, nil
	}

	next := subscriptiondomain.StatusFailed
	eventType := events.PaymentFailed
	if successTokens[s.extractStatusToken(parsed)] {
		next = subscriptiondomain.StatusActive
		eventType = events.PaymentPaid
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.UpdateStatus(ctx, tx, sub.ID, next, s.clock.Now()); err != nil {
			return err
		}
		return s.appendEvent(ctx, tx, &sub.ID, eventType, rawPayload(payload, parsed))
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("subscription transitioned",
		zap.String("subscription_id", sub.ID.String()),
		zap.String("reference", obscontext.ReferenceFromContext(ctx)),
		zap.String("status", string(next)))
	return &subscriptiondomain.WebhookOutcome{
		Matched:        true,
		SubscriptionID: sub.ID.String(),
		Status:         next,
		Transitioned:   true,
	}, nil
}

func (s *Service) Get(ctx context.Context, rawID string) (*subscriptiondomain.Subscription, error) {
	id, err := parseID(rawID)
	if err != nil {
		return nil, subscriptiondomain.ErrNotFound
	}
	sub, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, subscriptiondomain.ErrNotFound
	}
	return sub, nil
}

func (s *Service) List(ctx context.Context) ([]subscriptiondomain.Subscription, error) {
	return s.repo.List(ctx, s.db)
}

func (s *Service) Events(ctx context.Context, rawID string) ([]subscriptiondomain.PaymentEvent, error) {
	id, err := parseID(rawID)
	if err != nil {
		return nil, subscriptiondomain.ErrNotFound
	}
	sub, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, subscriptiondomain.ErrNotFound
	}
	return s.repo.ListEvents(ctx, s.db, id)
}

func (s *Service) reference(id snowflake.ID) string {
	return s.prefix + "_" + id.String()
}

// extractSubscriptionID pulls the correlation reference out of the payload.
// Flutterwave puts it under data.tx_ref, with data.flw_ref as fallback.
func (s *Service) extractSubscriptionID(parsed map[string]any) (snowflake.ID, string, bool) {
	data, _ := parsed["data"].(map[string]any)
	reference := stringField(data, "tx_ref")
	if reference == "" {
		reference = stringField(data, "flw_ref")
	}
	if reference == "" {
		reference = stringField(parsed, "tx_ref")
	}

	want := s.prefix + "_"
	if !strings.HasPrefix(reference, want) {
		return 0, reference, false
	}
	id, err := parseID(strings.TrimPrefix(reference, want))
	if err != nil {
		return 0, reference, false
	}
	return id, reference, true
}

func (s *Service) extractStatusToken(parsed map[string]any) string {
	data, _ := parsed["data"].(map[string]any)
	status := stringField(data, "status")
	if status == "" {
		status = stringField(data, "transaction_status")
	}
	if status == "" {
		status = stringField(parsed, "status")
	}
	return strings.ToLower(strings.TrimSpace(status))
}

func (s *Service) appendEvent(ctx context.Context, db *gorm.DB, subscriptionID *snowflake.ID, eventType string, payload map[string]any) error {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return s.repo.AppendEvent(ctx, db, &subscriptiondomain.PaymentEvent{
		ID:             s.genID.Generate(),
		SubscriptionID: subscriptionID,
		EventType:      eventType,
		Payload:        datatypes.JSON(payloadJSON),
		CreatedAt:      s.clock.Now(),
	})
}

func rawPayload(payload []byte, parsed map[string]any) map[string]any {
	if parsed != nil {
		return parsed
	}
	return map[string]any{"raw": string(payload)}
}

func stringField(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	value, _ := m[key].(string)
	return value
}

func parseID(raw string) (snowflake.ID, error) {
	value, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, err
	}
	return snowflake.ID(value), nil
}
