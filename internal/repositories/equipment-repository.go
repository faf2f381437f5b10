package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"inventory-system/internal/entities"
	apperrors "inventory-system/pkg/errors"
)

const (
	equipmentTable  = "equipment"
	equipmentFields = "id, asset_number, description, brand, model, specs, status, location, responsible, acquisition_date, value, created_at, updated_at"
)

type EquipmentRepositoryInterface interface {
	// FindAll возвращает все записи в порядке добавления.
	FindAll(ctx context.Context) ([]entities.Equipment, error)
	FindByID(ctx context.Context, id string) (*entities.Equipment, error)
	Create(ctx context.Context, e entities.Equipment) error
	Update(ctx context.Context, e entities.Equipment) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

type equipmentRepository struct {
	db Querier
}

func NewEquipmentRepository(db Querier) EquipmentRepositoryInterface {
	return &equipmentRepository{db: db}
}

func psql() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
}

// isUUID: ключевые колонки имеют тип UUID, строка другого вида не совпадет ни с одной записью,
// а postgres ответит на нее ошибкой синтаксиса.
func isUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEquipment(row rowScanner) (*entities.Equipment, error) {
	var e entities.Equipment
	var specs sql.NullString
	var status string

	err := row.Scan(
		&e.ID, &e.AssetNumber, &e.Description, &e.Brand, &e.Model, &specs, &status,
		&e.Location, &e.Responsible, &e.AcquisitionDate, &e.Value, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка сканирования equipment: %w", err)
	}
	if specs.Valid {
		e.Specs = &specs.String
	}
	e.Status = entities.Status(status)
	return &e, nil
}

func (r *equipmentRepository) FindAll(ctx context.Context) ([]entities.Equipment, error) {
	query, args, err := psql().Select(equipmentFields).From(equipmentTable).OrderBy("seq ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL для equipment.FindAll: %w", err)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса equipment.FindAll: %w", err)
	}
	defer rows.Close()

	result := make([]entities.Equipment, 0)
	for rows.Next() {
		e, err := scanEquipment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка чтения equipment: %w", err)
	}
	return result, nil
}

func (r *equipmentRepository) FindByID(ctx context.Context, id string) (*entities.Equipment, error) {
	if !isUUID(id) {
		return nil, apperrors.ErrNotFound
	}
	query, args, err := psql().Select(equipmentFields).From(equipmentTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL для equipment.FindByID: %w", err)
	}
	return scanEquipment(r.db.QueryRowContext(ctx, query, args...))
}

func (r *equipmentRepository) Create(ctx context.Context, e entities.Equipment) error {
	query, args, err := psql().Insert(equipmentTable).
		Columns("id", "asset_number", "description", "brand", "model", "specs", "status",
			"location", "responsible", "acquisition_date", "value", "created_at", "updated_at").
		Values(e.ID, e.AssetNumber, e.Description, e.Brand, e.Model, e.Specs, string(e.Status),
			e.Location, e.Responsible, e.AcquisitionDate, e.Value, e.CreatedAt, e.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("ошибка сборки SQL для equipment.Create: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("ошибка вставки equipment: %w", err)
	}
	return nil
}

func (r *equipmentRepository) Update(ctx context.Context, e entities.Equipment) error {
	if !isUUID(e.ID) {
		return apperrors.ErrNotFound
	}
	query, args, err := psql().Update(equipmentTable).
		SetMap(map[string]interface{}{
			"asset_number":     e.AssetNumber,
			"description":      e.Description,
			"brand":            e.Brand,
			"model":            e.Model,
			"specs":            e.Specs,
			"status":           string(e.Status),
			"location":         e.Location,
			"responsible":      e.Responsible,
			"acquisition_date": e.AcquisitionDate,
			"value":            e.Value,
			"updated_at":       e.UpdatedAt,
		}).
		Where(sq.Eq{"id": e.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("ошибка сборки SQL для equipment.Update: %w", err)
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("ошибка обновления equipment: %w", err)
	}
	return expectAffected(res)
}

func (r *equipmentRepository) Delete(ctx context.Context, id string) error {
	if !isUUID(id) {
		return apperrors.ErrNotFound
	}
	query, args, err := psql().Delete(equipmentTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("ошибка сборки SQL для equipment.Delete: %w", err)
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("ошибка удаления equipment: %w", err)
	}
	return expectAffected(res)
}

func (r *equipmentRepository) Count(ctx context.Context) (int, error) {
	query, args, err := psql().Select("COUNT(*)").From(equipmentTable).ToSql()
	if err != nil {
		return 0, fmt.Errorf("ошибка сборки SQL для equipment.Count: %w", err)
	}
	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("ошибка подсчета equipment: %w", err)
	}
	return count, nil
}

// expectAffected превращает "0 строк затронуто" в ErrNotFound.
func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("не удалось получить число затронутых строк: %w", err)
	}
	if n == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
