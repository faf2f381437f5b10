package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"inventory-system/internal/dto"
	"inventory-system/internal/repositories"
	"inventory-system/pkg/constants"
	"inventory-system/pkg/metrics"
)

type DashboardServiceInterface interface {
	GetStats(ctx context.Context) (*dto.DashboardStatsDTO, error)
}

// dashboardAggregates - кешируемая часть дашборда.
type dashboardAggregates struct {
	TotalEquipment int                   `json:"totalEquipment"`
	TotalValue     float64               `json:"totalValue"`
	AverageValue   float64               `json:"averageValue"`
	ByStatus       []dto.StatusBucketDTO `json:"byStatus"`
}

type DashboardService struct {
	equipment     repositories.EquipmentRepositoryInterface
	tracker       ChangeTrackerInterface
	cache         repositories.CacheRepositoryInterface
	ttl           time.Duration
	activityLimit int
	logger        *zap.Logger
}

func NewDashboardService(
	equipment repositories.EquipmentRepositoryInterface,
	tracker ChangeTrackerInterface,
	cache repositories.CacheRepositoryInterface,
	ttl time.Duration,
	activityLimit int,
	logger *zap.Logger,
) *DashboardService {
	return &DashboardService{
		equipment:     equipment,
		tracker:       tracker,
		cache:         cache,
		ttl:           ttl,
		activityLimit: activityLimit,
		logger:        logger,
	}
}

// GetStats: агрегаты берутся из кеша (сбрасывается при каждом изменении),
// последние события журнала всегда читаются заново.
func (s *DashboardService) GetStats(ctx context.Context) (*dto.DashboardStatsDTO, error) {
	aggregates, err := s.aggregates(ctx)
	if err != nil {
		return nil, err
	}

	recent, err := s.tracker.QueryRecentActivity(ctx, s.activityLimit)
	if err != nil {
		return nil, err
	}

	return &dto.DashboardStatsDTO{
		TotalEquipment: aggregates.TotalEquipment,
		TotalValue:     aggregates.TotalValue,
		AverageValue:   aggregates.AverageValue,
		ByStatus:       aggregates.ByStatus,
		LastActivity:   dto.NewHistoryEntryDTOs(recent),
	}, nil
}

func (s *DashboardService) aggregates(ctx context.Context) (dashboardAggregates, error) {
	if s.cache != nil {
		raw, err := s.cache.Get(ctx, constants.CacheKeyDashboardStats)
		switch {
		case err == nil:
			var cached dashboardAggregates
			if jsonErr := json.Unmarshal([]byte(raw), &cached); jsonErr == nil {
				metrics.DashboardCache.WithLabelValues("hit").Inc()
				return cached, nil
			}
			s.logger.Warn("Поврежденная запись кеша дашборда")
		case errors.Is(err, repositories.ErrCacheMiss):
			metrics.DashboardCache.WithLabelValues("miss").Inc()
		default:
			// кеш недоступен - считаем напрямую
			metrics.DashboardCache.WithLabelValues("error").Inc()
			s.logger.Warn("Кеш дашборда недоступен", zap.Error(err))
		}
	}

	records, err := s.equipment.FindAll(ctx)
	if err != nil {
		return dashboardAggregates{}, err
	}
	stats := equipmentStats(records)

	if s.cache != nil {
		if payload, err := json.Marshal(stats); err == nil {
			if err := s.cache.Set(ctx, constants.CacheKeyDashboardStats, payload, s.ttl); err != nil {
				s.logger.Warn("Не удалось сохранить кеш дашборда", zap.Error(err))
			}
		}
	}
	return stats, nil
}
