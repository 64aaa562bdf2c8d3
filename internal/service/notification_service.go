package service

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/dispatch-service/internal/config"
	"github.com/spec-kit/dispatch-service/internal/events"
)

// NotificationService logs domain events and mirrors them onto a Redis list
// for external consumers (dashboards, SMS gateways). The mirror is best
// effort: a Redis outage never fails the originating transition.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	redis      *redis.Client
	cfg        config.EventsConfig
}

// NewNotificationService creates the service. redisClient may be nil.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, redisClient *redis.Client, cfg config.EventsConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		redis:      redisClient,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventRequestCreated, n.handleRequestCreated)
	n.dispatcher.Subscribe(events.EventRequestAssigned, n.handleRequestAssigned)
	n.dispatcher.Subscribe(events.EventRequestStatusChanged, n.handleRequestStatusChanged)
}

func (n *NotificationService) handleRequestCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("RequestCreated", zap.Int64("request_id", event.RequestID), zap.Any("payload", event.Payload))
	n.mirrorToRedis(ctx, event)
	return nil
}

func (n *NotificationService) handleRequestAssigned(ctx context.Context, event events.Event) error {
	n.logger.Info("RequestAssigned", zap.Int64("request_id", event.RequestID), zap.Any("payload", event.Payload))
	n.mirrorToRedis(ctx, event)
	return nil
}

func (n *NotificationService) handleRequestStatusChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("RequestStatusChanged", zap.Int64("request_id", event.RequestID), zap.Any("payload", event.Payload))
	n.mirrorToRedis(ctx, event)
	return nil
}

func (n *NotificationService) mirrorToRedis(ctx context.Context, event events.Event) {
	if n.redis == nil || n.cfg.StreamKey == "" {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		n.logger.Warn("marshal event", zap.Error(err))
		return
	}
	pipe := n.redis.Pipeline()
	pipe.LPush(ctx, n.cfg.StreamKey, data)
	if n.cfg.MaxLen > 0 {
		pipe.LTrim(ctx, n.cfg.StreamKey, 0, n.cfg.MaxLen-1)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		n.logger.Warn("mirror event to redis", zap.Error(err))
	}
}
