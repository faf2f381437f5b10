package services

import (
	"context"
	"io"
	"math"
	"time"

	"go.uber.org/zap"

	"inventory-system/internal/aggregator"
	"inventory-system/internal/dto"
	"inventory-system/internal/entities"
	"inventory-system/internal/export"
	"inventory-system/internal/repositories"
	"inventory-system/pkg/metrics"
)

type ReportServiceInterface interface {
	GetSummary(ctx context.Context, q ListQuery) (*dto.ReportSummaryDTO, error)
	Export(ctx context.Context, q ListQuery, format export.Format, w io.Writer) error
}

type ReportService struct {
	equipment repositories.EquipmentRepositoryInterface
	logger    *zap.Logger
	now       func() time.Time
}

func NewReportService(equipment repositories.EquipmentRepositoryInterface, logger *zap.Logger) *ReportService {
	return &ReportService{equipment: equipment, logger: logger, now: time.Now}
}

// GetSummary считает сводку по отфильтрованному набору. Разбивка по местам
// содержит все известные места, включая те, где после фильтра ничего не осталось.
func (s *ReportService) GetSummary(ctx context.Context, q ListQuery) (*dto.ReportSummaryDTO, error) {
	all, err := s.equipment.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	filtered := aggregator.Filter(all, q.Predicate)

	summary := &dto.ReportSummaryDTO{
		Count:        len(filtered),
		TotalCount:   len(all),
		TotalValue:   round2(aggregator.SumValue(filtered)),
		AverageValue: round2(aggregator.AverageValue(filtered)),
		ByStatus:     statusBucketsDTO(aggregator.AggregateByStatus(filtered)),
		Locations:    aggregator.Locations(all),
		GeneratedAt:  s.now().UTC().Format(time.RFC3339),
	}
	if len(all) > 0 {
		summary.ShareOfTotal = round2(float64(len(filtered)) / float64(len(all)) * 100)
	}

	for _, b := range aggregator.AggregateByLocationFor(summary.Locations, filtered) {
		summary.ByLocation = append(summary.ByLocation, dto.LocationBucketDTO{
			Location:   b.Location,
			Count:      b.Count,
			TotalValue: round2(b.TotalValue),
		})
	}
	if summary.ByLocation == nil {
		summary.ByLocation = []dto.LocationBucketDTO{}
	}
	return summary, nil
}

// Export пишет отфильтрованный и отсортированный список целиком, без постраничной разбивки.
func (s *ReportService) Export(ctx context.Context, q ListQuery, format export.Format, w io.Writer) error {
	all, err := s.equipment.FindAll(ctx)
	if err != nil {
		return err
	}
	q.Offset, q.Limit = 0, 0
	records, _ := q.Apply(all)

	if err := export.Write(w, format, records); err != nil {
		s.logger.Error("Ошибка формирования выгрузки", zap.String("format", string(format)), zap.Error(err))
		return err
	}
	metrics.ReportExports.WithLabelValues(string(format)).Inc()
	return nil
}

func statusBucketsDTO(buckets []aggregator.StatusBucket) []dto.StatusBucketDTO {
	res := make([]dto.StatusBucketDTO, 0, len(buckets))
	for _, b := range buckets {
		res = append(res, dto.StatusBucketDTO{
			Status:     string(b.Status),
			Label:      b.Status.Label(),
			Count:      b.Count,
			Percentage: round2(b.Percentage),
		})
	}
	return res
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// equipmentStats - общие агрегаты для дашборда.
func equipmentStats(records []entities.Equipment) dashboardAggregates {
	return dashboardAggregates{
		TotalEquipment: len(records),
		TotalValue:     round2(aggregator.SumValue(records)),
		AverageValue:   round2(aggregator.AverageValue(records)),
		ByStatus:       statusBucketsDTO(aggregator.AggregateByStatus(records)),
	}
}
