package listeners

import (
	"context"

	"go.uber.org/zap"

	"inventory-system/internal/dto"
	"inventory-system/internal/events"
	"inventory-system/pkg/eventbus"
	"inventory-system/pkg/websocket"
)

// Broadcaster - то, что умеет разослать сообщение всем подписчикам ленты.
type Broadcaster interface {
	Broadcast(ctx context.Context, messageType string, payload interface{}) error
}

// ActivityListener пересылает новые записи журнала в WebSocket-ленту активности.
type ActivityListener struct {
	hub    Broadcaster
	logger *zap.Logger
}

func NewActivityListener(hub Broadcaster, logger *zap.Logger) *ActivityListener {
	return &ActivityListener{hub: hub, logger: logger}
}

func (l *ActivityListener) Register(bus *eventbus.Bus) {
	bus.Subscribe(events.HistoryRecordedEventName, l.handleHistoryRecorded)
	l.logger.Info("ActivityListener подписан на событие", zap.String("event", events.HistoryRecordedEventName))
}

func (l *ActivityListener) handleHistoryRecorded(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.HistoryRecordedEvent)
	if !ok {
		return nil
	}

	l.logger.Debug("Запись журнала",
		zap.String("equipmentID", e.Entry.EquipmentID),
		zap.String("changeType", string(e.Entry.ChangeType)),
		zap.String("user", e.Entry.User),
	)
	return l.hub.Broadcast(ctx, websocket.MessageHistoryRecorded, dto.NewHistoryEntryDTO(e.Entry))
}
