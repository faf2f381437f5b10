package services

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"inventory-system/internal/dto"
	"inventory-system/internal/entities"
	"inventory-system/internal/repositories"
	"inventory-system/pkg/constants"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/eventbus"
	"inventory-system/pkg/filestorage"
	"inventory-system/pkg/validation"
)

type AttachmentServiceInterface interface {
	Upload(ctx context.Context, equipmentID, fileName string, size int64, file io.ReadSeeker, actor string) (*dto.AttachmentDTO, error)
	ListByEquipment(ctx context.Context, equipmentID string) ([]dto.AttachmentDTO, error)
	Delete(ctx context.Context, attachmentID, actor string) error
}

type AttachmentService struct {
	store   repositories.Store
	tracker ChangeTrackerInterface
	files   filestorage.FileStorageInterface
	bus     *eventbus.Bus
	logger  *zap.Logger
	now     func() time.Time
	newID   func() string
}

func NewAttachmentService(
	store repositories.Store,
	tracker ChangeTrackerInterface,
	files filestorage.FileStorageInterface,
	bus *eventbus.Bus,
	logger *zap.Logger,
) *AttachmentService {
	return &AttachmentService{
		store:   store,
		tracker: tracker,
		files:   files,
		bus:     bus,
		logger:  logger,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

func (s *AttachmentService) Upload(ctx context.Context, equipmentID, fileName string, size int64, file io.ReadSeeker, actor string) (*dto.AttachmentDTO, error) {
	name := filepath.Base(strings.TrimSpace(fileName))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return nil, apperrors.NewInvalidInputError("не указано имя файла")
	}

	uploadContext := constants.UploadContextEquipmentAttachment.String()
	mimeType, err := validation.ValidateFile(size, file, uploadContext)
	if err != nil {
		return nil, err
	}

	if _, err := s.store.Equipment().FindByID(ctx, equipmentID); err != nil {
		return nil, err
	}

	ref, err := s.files.Save(ctx, file, name, validation.PathPrefix(uploadContext))
	if err != nil {
		return nil, err
	}

	attachment := entities.Attachment{
		ID:                s.newID(),
		EquipmentID:       equipmentID,
		Name:              name,
		Size:              size,
		MimeType:          mimeType,
		LocationReference: ref,
		UploadedBy:        actor,
		UploadedAt:        s.now().UTC(),
	}

	var written []entities.HistoryEntry
	err = s.store.RunInTransaction(ctx, func(ctx context.Context, tx repositories.Store) error {
		if err := tx.Attachments().Create(ctx, attachment); err != nil {
			return err
		}
		var err error
		written, err = s.tracker.Bind(tx.History()).RecordAttachmentEvent(ctx, equipmentID, entities.ChangeAttachmentAdded, name, actor)
		return err
	})
	if err != nil {
		// файл без метаданных никому не нужен
		if delErr := s.files.Delete(ctx, ref); delErr != nil {
			s.logger.Warn("Не удалось удалить файл после ошибки", zap.String("ref", ref), zap.Error(delErr))
		}
		return nil, err
	}

	publishHistory(ctx, s.bus, written)
	s.logger.Info("Вложение добавлено", zap.String("equipmentID", equipmentID), zap.String("name", name), zap.Int64("size", size))
	res := dto.NewAttachmentDTO(attachment, s.files.URL(ref))
	return &res, nil
}

func (s *AttachmentService) ListByEquipment(ctx context.Context, equipmentID string) ([]dto.AttachmentDTO, error) {
	if _, err := s.store.Equipment().FindByID(ctx, equipmentID); err != nil {
		return nil, err
	}
	list, err := s.store.Attachments().FindByEquipmentID(ctx, equipmentID)
	if err != nil {
		return nil, err
	}
	res := make([]dto.AttachmentDTO, 0, len(list))
	for _, a := range list {
		res = append(res, dto.NewAttachmentDTO(a, s.files.URL(a.LocationReference)))
	}
	return res, nil
}

func (s *AttachmentService) Delete(ctx context.Context, attachmentID, actor string) error {
	var (
		removed entities.Attachment
		written []entities.HistoryEntry
	)
	err := s.store.RunInTransaction(ctx, func(ctx context.Context, tx repositories.Store) error {
		a, err := tx.Attachments().FindByID(ctx, attachmentID)
		if err != nil {
			return err
		}
		removed = *a
		if err := tx.Attachments().Delete(ctx, attachmentID); err != nil {
			return err
		}
		written, err = s.tracker.Bind(tx.History()).RecordAttachmentEvent(ctx, a.EquipmentID, entities.ChangeAttachmentRemoved, a.Name, actor)
		return err
	})
	if err != nil {
		return err
	}

	if err := s.files.Delete(ctx, removed.LocationReference); err != nil {
		s.logger.Warn("Не удалось удалить файл вложения", zap.String("ref", removed.LocationReference), zap.Error(err))
	}
	publishHistory(ctx, s.bus, written)
	return nil
}
