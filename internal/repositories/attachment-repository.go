package repositories

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"inventory-system/internal/entities"
	apperrors "inventory-system/pkg/errors"
)

const (
	attachmentTable  = "equipment_attachments"
	attachmentFields = "id, equipment_id, name, size, mime_type, location_reference, uploaded_by, uploaded_at"
)

type AttachmentRepositoryInterface interface {
	Create(ctx context.Context, a entities.Attachment) error
	FindByID(ctx context.Context, id string) (*entities.Attachment, error)
	FindByEquipmentID(ctx context.Context, equipmentID string) ([]entities.Attachment, error)
	Delete(ctx context.Context, id string) error
	// DeleteByEquipmentID удаляет все вложения записи и возвращает удаленные.
	DeleteByEquipmentID(ctx context.Context, equipmentID string) ([]entities.Attachment, error)
}

type attachmentRepository struct {
	db Querier
}

func NewAttachmentRepository(db Querier) AttachmentRepositoryInterface {
	return &attachmentRepository{db: db}
}

func scanAttachment(row rowScanner) (*entities.Attachment, error) {
	var a entities.Attachment
	if err := row.Scan(&a.ID, &a.EquipmentID, &a.Name, &a.Size, &a.MimeType,
		&a.LocationReference, &a.UploadedBy, &a.UploadedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *attachmentRepository) Create(ctx context.Context, a entities.Attachment) error {
	query, args, err := psql().Insert(attachmentTable).
		Columns("id", "equipment_id", "name", "size", "mime_type", "location_reference", "uploaded_by", "uploaded_at").
		Values(a.ID, a.EquipmentID, a.Name, a.Size, a.MimeType, a.LocationReference, a.UploadedBy, a.UploadedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("ошибка сборки SQL для attachment.Create: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("ошибка вставки вложения: %w", err)
	}
	return nil
}

func (r *attachmentRepository) FindByID(ctx context.Context, id string) (*entities.Attachment, error) {
	if !isUUID(id) {
		return nil, apperrors.ErrNotFound
	}
	query, args, err := psql().Select(attachmentFields).From(attachmentTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL для attachment.FindByID: %w", err)
	}
	a, err := scanAttachment(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, notFoundOr(err, "ошибка чтения вложения")
	}
	return a, nil
}

func (r *attachmentRepository) FindByEquipmentID(ctx context.Context, equipmentID string) ([]entities.Attachment, error) {
	if !isUUID(equipmentID) {
		return []entities.Attachment{}, nil
	}
	query, args, err := psql().Select(attachmentFields).From(attachmentTable).
		Where(sq.Eq{"equipment_id": equipmentID}).
		OrderBy("uploaded_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL для attachment.FindByEquipmentID: %w", err)
	}
	return r.collect(ctx, query, args)
}

func (r *attachmentRepository) Delete(ctx context.Context, id string) error {
	if !isUUID(id) {
		return apperrors.ErrNotFound
	}
	query, args, err := psql().Delete(attachmentTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("ошибка сборки SQL для attachment.Delete: %w", err)
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("ошибка удаления вложения: %w", err)
	}
	return expectAffected(res)
}

func (r *attachmentRepository) DeleteByEquipmentID(ctx context.Context, equipmentID string) ([]entities.Attachment, error) {
	if !isUUID(equipmentID) {
		return []entities.Attachment{}, nil
	}
	query, args, err := psql().Delete(attachmentTable).
		Where(sq.Eq{"equipment_id": equipmentID}).
		Suffix("RETURNING " + attachmentFields).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL для attachment.DeleteByEquipmentID: %w", err)
	}
	return r.collect(ctx, query, args)
}

func (r *attachmentRepository) collect(ctx context.Context, query string, args []interface{}) ([]entities.Attachment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса вложений: %w", err)
	}
	defer rows.Close()

	result := make([]entities.Attachment, 0)
	for rows.Next() {
		a, err := scanAttachment(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования вложения: %w", err)
		}
		result = append(result, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка чтения вложений: %w", err)
	}
	return result, nil
}
