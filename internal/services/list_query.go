package services

import (
	"inventory-system/internal/aggregator"
	"inventory-system/internal/entities"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/types"
)

// ListQuery - фильтр, сортировка и страница списка оборудования.
// Limit <= 0 - без ограничения.
type ListQuery struct {
	Predicate aggregator.Predicate
	SortField entities.FieldName
	SortDir   aggregator.Direction
	Offset    int
	Limit     int
}

// sortableFields - порядок выбора поля, если в запросе их несколько.
var sortableFields = func() []entities.FieldName {
	names := []entities.FieldName{entities.FieldID}
	for _, f := range entities.EquipmentFields {
		names = append(names, f.Name)
	}
	return names
}()

// NewListQuery разбирает параметры строки запроса. Статус принимает синонимы ("ativo").
func NewListQuery(f types.Filter) (ListQuery, error) {
	q := ListQuery{Predicate: aggregator.Predicate{Query: f.Search}}

	if raw, ok := f.Filter["status"]; ok && raw != "" {
		status, ok := entities.ParseStatus(raw)
		if !ok {
			return ListQuery{}, apperrors.NewInvalidInputError("неизвестный статус: %s", raw)
		}
		q.Predicate.Status = &status
	}
	if location, ok := f.Filter["location"]; ok && location != "" {
		q.Predicate.Location = &location
	}

	if f.DateFrom != "" || f.DateTo != "" {
		start, err := entities.ParseDate(f.DateFrom)
		if err != nil {
			return ListQuery{}, apperrors.NewInvalidInputError("date_from: %v", err)
		}
		end, err := entities.ParseDate(f.DateTo)
		if err != nil {
			return ListQuery{}, apperrors.NewInvalidInputError("date_to: %v", err)
		}
		q.Predicate.DateRange = &aggregator.DateRange{Start: start, End: end}
	}

	for _, name := range sortableFields {
		if dir, ok := f.Sort[string(name)]; ok {
			q.SortField = name
			q.SortDir = aggregator.ParseDirection(dir)
			break
		}
	}

	if f.WithPagination {
		q.Offset = f.Offset
		q.Limit = f.Limit
	}
	return q, nil
}

// Apply фильтрует, сортирует и режет страницу. total - число записей после фильтра.
func (q ListQuery) Apply(records []entities.Equipment) (page []entities.Equipment, total int) {
	filtered := aggregator.Filter(records, q.Predicate)
	if q.SortField != "" {
		filtered = aggregator.SortBy(filtered, q.SortField, q.SortDir)
	}
	total = len(filtered)

	if q.Offset > 0 {
		if q.Offset >= len(filtered) {
			return []entities.Equipment{}, total
		}
		filtered = filtered[q.Offset:]
	}
	if q.Limit > 0 && q.Limit < len(filtered) {
		filtered = filtered[:q.Limit]
	}
	return filtered, total
}
