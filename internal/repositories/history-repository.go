package repositories

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"inventory-system/internal/entities"
)

const (
	historyTable  = "equipment_history"
	historyFields = "id, equipment_id, timestamp, actor, change_type, field, old_value, new_value, value_kind"
)

// HistoryRepositoryInterface - журнал изменений, только добавление, новые записи первыми.
type HistoryRepositoryInterface interface {
	// Prepend добавляет записи по очереди в начало журнала:
	// последняя из переданных окажется самой новой.
	Prepend(ctx context.Context, entries ...entities.HistoryEntry) error
	// FindAll возвращает первые limit записей; limit <= 0 - весь журнал.
	FindAll(ctx context.Context, limit int) ([]entities.HistoryEntry, error)
	FindByEquipmentID(ctx context.Context, equipmentID string) ([]entities.HistoryEntry, error)
}

type historyRepository struct {
	db Querier
}

func NewHistoryRepository(db Querier) HistoryRepositoryInterface {
	return &historyRepository{db: db}
}

func (r *historyRepository) Prepend(ctx context.Context, entries ...entities.HistoryEntry) error {
	if len(entries) == 0 {
		return nil
	}
	builder := psql().Insert(historyTable).
		Columns("id", "equipment_id", "timestamp", "actor", "change_type", "field", "old_value", "new_value", "value_kind")
	for _, h := range entries {
		builder = builder.Values(h.ID, h.EquipmentID, h.Timestamp, h.User, string(h.ChangeType),
			h.Field, h.OldValue, h.NewValue, kindArg(h.ValueKind))
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("ошибка сборки SQL для history.Prepend: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("ошибка записи в журнал изменений: %w", err)
	}
	return nil
}

func (r *historyRepository) FindAll(ctx context.Context, limit int) ([]entities.HistoryEntry, error) {
	builder := psql().Select(historyFields).From(historyTable).OrderBy("seq DESC")
	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}
	return r.query(ctx, builder)
}

func (r *historyRepository) FindByEquipmentID(ctx context.Context, equipmentID string) ([]entities.HistoryEntry, error) {
	if !isUUID(equipmentID) {
		return []entities.HistoryEntry{}, nil
	}
	builder := psql().Select(historyFields).From(historyTable).
		Where(sq.Eq{"equipment_id": equipmentID}).
		OrderBy("seq DESC")
	return r.query(ctx, builder)
}

func (r *historyRepository) query(ctx context.Context, builder sq.SelectBuilder) ([]entities.HistoryEntry, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL для журнала: %w", err)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения журнала изменений: %w", err)
	}
	defer rows.Close()

	result := make([]entities.HistoryEntry, 0)
	for rows.Next() {
		var h entities.HistoryEntry
		var changeType string
		var field, oldValue, newValue, kind sql.NullString
		if err := rows.Scan(&h.ID, &h.EquipmentID, &h.Timestamp, &h.User, &changeType,
			&field, &oldValue, &newValue, &kind); err != nil {
			return nil, fmt.Errorf("ошибка сканирования журнала: %w", err)
		}
		h.ChangeType = entities.ChangeType(changeType)
		h.Field = nullToPtr(field)
		h.OldValue = nullToPtr(oldValue)
		h.NewValue = nullToPtr(newValue)
		if kind.Valid {
			k := entities.ValueKind(kind.String)
			h.ValueKind = &k
		}
		result = append(result, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка чтения журнала изменений: %w", err)
	}
	return result, nil
}

func nullToPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func kindArg(k *entities.ValueKind) interface{} {
	if k == nil {
		return nil
	}
	return string(*k)
}
