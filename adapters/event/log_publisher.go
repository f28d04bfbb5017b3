package event

import (
	"context"

	"go.uber.org/zap"

	"github.com/khoahotran/profile-builder/internal/application/service"
	"github.com/khoahotran/profile-builder/pkg/logger"
)

// LogPublisher stands in for Kafka when no brokers are configured.
type LogPublisher struct {
	Logger logger.Logger
}

func (p LogPublisher) PublishProfileEvent(_ context.Context, payload service.ProfileEventPayload) error {
	p.Logger.Debug("Profile event (not published)",
		zap.String("event_type", string(payload.EventType)),
		zap.String("entry_id", payload.EntryID),
		zap.String("filename", payload.Filename),
	)
	return nil
}
