package events

import (
	"inventory-system/internal/entities"
)

const HistoryRecordedEventName = "equipment.history.recorded"

// HistoryRecordedEvent - возникает после фиксации записи журнала в хранилище.
type HistoryRecordedEvent struct {
	Entry entities.HistoryEntry
}

// Name - реализуем интерфейс eventbus.Event
func (e HistoryRecordedEvent) Name() string {
	return HistoryRecordedEventName
}
