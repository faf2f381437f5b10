package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/go-redis/redis/v8"

	"inventory-system/internal/entities"
	apperrors "inventory-system/pkg/errors"
)

// Ключи Redis:
//
//	<prefix>:equipment        HASH id -> JSON записи
//	<prefix>:equipment:order  ZSET id с порядковым номером добавления
//	<prefix>:equipment:seq    счетчик порядковых номеров
//	<prefix>:history          LIST JSON записей журнала, новые слева
//	<prefix>:attachments      HASH id -> JSON вложения
type redisKeys struct {
	equipment   string
	order       string
	seq         string
	history     string
	attachments string
}

func newRedisKeys(prefix string) redisKeys {
	if prefix == "" {
		prefix = "inventory"
	}
	return redisKeys{
		equipment:   prefix + ":equipment",
		order:       prefix + ":equipment:order",
		seq:         prefix + ":equipment:seq",
		history:     prefix + ":history",
		attachments: prefix + ":attachments",
	}
}

type redisStore struct {
	client *redis.Client
	keys   redisKeys
}

// NewRedisStore - хранилище в Redis. Транзакций между ключами нет:
// RunInTransaction выполняет шаги последовательно и не откатывает их.
func NewRedisStore(client *redis.Client, prefix string) Store {
	return &redisStore{client: client, keys: newRedisKeys(prefix)}
}

func (s *redisStore) Equipment() EquipmentRepositoryInterface    { return redisEquipment{s} }
func (s *redisStore) History() HistoryRepositoryInterface        { return redisHistory{s} }
func (s *redisStore) Attachments() AttachmentRepositoryInterface { return redisAttachments{s} }

func (s *redisStore) RunInTransaction(ctx context.Context, fn func(ctx context.Context, tx Store) error) error {
	return fn(ctx, s)
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%w: redis %s: %v", apperrors.ErrStorageUnavailable, op, err)
}

type redisEquipment struct{ s *redisStore }

func (r redisEquipment) FindAll(ctx context.Context) ([]entities.Equipment, error) {
	ids, err := r.s.client.ZRange(ctx, r.s.keys.order, 0, -1).Result()
	if err != nil {
		return nil, storageErr("zrange", err)
	}
	result := make([]entities.Equipment, 0, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	raw, err := r.s.client.HMGet(ctx, r.s.keys.equipment, ids...).Result()
	if err != nil {
		return nil, storageErr("hmget", err)
	}
	for _, item := range raw {
		str, ok := item.(string)
		if !ok {
			continue
		}
		var e entities.Equipment
		if err := json.Unmarshal([]byte(str), &e); err != nil {
			return nil, fmt.Errorf("поврежденная запись оборудования в redis: %w", err)
		}
		result = append(result, e)
	}
	return result, nil
}

func (r redisEquipment) FindByID(ctx context.Context, id string) (*entities.Equipment, error) {
	str, err := r.s.client.HGet(ctx, r.s.keys.equipment, id).Result()
	if errors.Is(err, redis.Nil) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, storageErr("hget", err)
	}
	var e entities.Equipment
	if err := json.Unmarshal([]byte(str), &e); err != nil {
		return nil, fmt.Errorf("поврежденная запись оборудования в redis: %w", err)
	}
	return &e, nil
}

func (r redisEquipment) Create(ctx context.Context, e entities.Equipment) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("ошибка сериализации оборудования: %w", err)
	}
	created, err := r.s.client.HSetNX(ctx, r.s.keys.equipment, e.ID, payload).Result()
	if err != nil {
		return storageErr("hsetnx", err)
	}
	if !created {
		return apperrors.ErrConflict
	}
	seq, err := r.s.client.Incr(ctx, r.s.keys.seq).Result()
	if err != nil {
		return storageErr("incr", err)
	}
	if err := r.s.client.ZAdd(ctx, r.s.keys.order, &redis.Z{Score: float64(seq), Member: e.ID}).Err(); err != nil {
		return storageErr("zadd", err)
	}
	return nil
}

func (r redisEquipment) Update(ctx context.Context, e entities.Equipment) error {
	exists, err := r.s.client.HExists(ctx, r.s.keys.equipment, e.ID).Result()
	if err != nil {
		return storageErr("hexists", err)
	}
	if !exists {
		return apperrors.ErrNotFound
	}
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("ошибка сериализации оборудования: %w", err)
	}
	if err := r.s.client.HSet(ctx, r.s.keys.equipment, e.ID, payload).Err(); err != nil {
		return storageErr("hset", err)
	}
	return nil
}

func (r redisEquipment) Delete(ctx context.Context, id string) error {
	removed, err := r.s.client.HDel(ctx, r.s.keys.equipment, id).Result()
	if err != nil {
		return storageErr("hdel", err)
	}
	if removed == 0 {
		return apperrors.ErrNotFound
	}
	if err := r.s.client.ZRem(ctx, r.s.keys.order, id).Err(); err != nil {
		return storageErr("zrem", err)
	}
	return nil
}

func (r redisEquipment) Count(ctx context.Context) (int, error) {
	n, err := r.s.client.HLen(ctx, r.s.keys.equipment).Result()
	if err != nil {
		return 0, storageErr("hlen", err)
	}
	return int(n), nil
}

type redisHistory struct{ s *redisStore }

// Prepend: LPUSH кладет значения по одному влево, последнее окажется первым.
func (r redisHistory) Prepend(ctx context.Context, entries ...entities.HistoryEntry) error {
	if len(entries) == 0 {
		return nil
	}
	values := make([]interface{}, 0, len(entries))
	for _, h := range entries {
		payload, err := json.Marshal(h)
		if err != nil {
			return fmt.Errorf("ошибка сериализации записи журнала: %w", err)
		}
		values = append(values, payload)
	}
	if err := r.s.client.LPush(ctx, r.s.keys.history, values...).Err(); err != nil {
		return storageErr("lpush", err)
	}
	return nil
}

func (r redisHistory) FindAll(ctx context.Context, limit int) ([]entities.HistoryEntry, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit) - 1
	}
	return r.load(ctx, stop, "")
}

func (r redisHistory) FindByEquipmentID(ctx context.Context, equipmentID string) ([]entities.HistoryEntry, error) {
	return r.load(ctx, -1, equipmentID)
}

func (r redisHistory) load(ctx context.Context, stop int64, equipmentID string) ([]entities.HistoryEntry, error) {
	raw, err := r.s.client.LRange(ctx, r.s.keys.history, 0, stop).Result()
	if err != nil {
		return nil, storageErr("lrange", err)
	}
	result := make([]entities.HistoryEntry, 0, len(raw))
	for _, str := range raw {
		var h entities.HistoryEntry
		if err := json.Unmarshal([]byte(str), &h); err != nil {
			return nil, fmt.Errorf("поврежденная запись журнала в redis: %w", err)
		}
		if equipmentID != "" && h.EquipmentID != equipmentID {
			continue
		}
		result = append(result, h)
	}
	return result, nil
}

type redisAttachments struct{ s *redisStore }

func (r redisAttachments) Create(ctx context.Context, a entities.Attachment) error {
	payload, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("ошибка сериализации вложения: %w", err)
	}
	created, err := r.s.client.HSetNX(ctx, r.s.keys.attachments, a.ID, payload).Result()
	if err != nil {
		return storageErr("hsetnx", err)
	}
	if !created {
		return apperrors.ErrConflict
	}
	return nil
}

func (r redisAttachments) FindByID(ctx context.Context, id string) (*entities.Attachment, error) {
	str, err := r.s.client.HGet(ctx, r.s.keys.attachments, id).Result()
	if errors.Is(err, redis.Nil) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, storageErr("hget", err)
	}
	var a entities.Attachment
	if err := json.Unmarshal([]byte(str), &a); err != nil {
		return nil, fmt.Errorf("поврежденное вложение в redis: %w", err)
	}
	return &a, nil
}

func (r redisAttachments) FindByEquipmentID(ctx context.Context, equipmentID string) ([]entities.Attachment, error) {
	all, err := r.s.client.HGetAll(ctx, r.s.keys.attachments).Result()
	if err != nil {
		return nil, storageErr("hgetall", err)
	}
	result := make([]entities.Attachment, 0)
	for _, str := range all {
		var a entities.Attachment
		if err := json.Unmarshal([]byte(str), &a); err != nil {
			return nil, fmt.Errorf("поврежденное вложение в redis: %w", err)
		}
		if a.EquipmentID == equipmentID {
			result = append(result, a)
		}
	}
	sortAttachmentsNewestFirst(result)
	return result, nil
}

func (r redisAttachments) Delete(ctx context.Context, id string) error {
	removed, err := r.s.client.HDel(ctx, r.s.keys.attachments, id).Result()
	if err != nil {
		return storageErr("hdel", err)
	}
	if removed == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r redisAttachments) DeleteByEquipmentID(ctx context.Context, equipmentID string) ([]entities.Attachment, error) {
	owned, err := r.FindByEquipmentID(ctx, equipmentID)
	if err != nil {
		return nil, err
	}
	if len(owned) == 0 {
		return owned, nil
	}
	ids := make([]string, 0, len(owned))
	for _, a := range owned {
		ids = append(ids, a.ID)
	}
	if err := r.s.client.HDel(ctx, r.s.keys.attachments, ids...).Err(); err != nil {
		return nil, storageErr("hdel", err)
	}
	return owned, nil
}

func sortAttachmentsNewestFirst(items []entities.Attachment) {
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].UploadedAt.Equal(items[j].UploadedAt) {
			return items[i].UploadedAt.After(items[j].UploadedAt)
		}
		return items[i].ID < items[j].ID
	})
}
