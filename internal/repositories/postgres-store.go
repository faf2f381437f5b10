package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	apperrors "inventory-system/pkg/errors"
)

type postgresStore struct {
	db        *sql.DB
	q         Querier
	equipment EquipmentRepositoryInterface
	history   HistoryRepositoryInterface
	files     AttachmentRepositoryInterface
}

// NewPostgresStore - хранилище поверх database/sql (драйвер pgx).
func NewPostgresStore(db *sql.DB) Store {
	return newPostgresStore(db, db)
}

func newPostgresStore(db *sql.DB, q Querier) *postgresStore {
	return &postgresStore{
		db:        db,
		q:         q,
		equipment: NewEquipmentRepository(q),
		history:   NewHistoryRepository(q),
		files:     NewAttachmentRepository(q),
	}
}

func (s *postgresStore) Equipment() EquipmentRepositoryInterface    { return s.equipment }
func (s *postgresStore) History() HistoryRepositoryInterface        { return s.history }
func (s *postgresStore) Attachments() AttachmentRepositoryInterface { return s.files }

func (s *postgresStore) RunInTransaction(ctx context.Context, fn func(ctx context.Context, tx Store) error) error {
	// Вложенный вызов продолжает уже открытую транзакцию.
	if _, inTx := s.q.(*sql.Tx); inTx {
		return fn(ctx, s)
	}
	return WithTx(ctx, s.db, func(tx *sql.Tx) error {
		return fn(ctx, newPostgresStore(s.db, tx))
	})
}

// notFoundOr переводит sql.ErrNoRows в ErrNotFound, остальное оборачивает.
func notFoundOr(err error, msg string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.ErrNotFound
	}
	return fmt.Errorf("%s: %w", msg, err)
}
