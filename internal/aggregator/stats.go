package aggregator

import "inventory-system/internal/entities"

type StatusBucket struct {
	Status     entities.Status
	Count      int
	Percentage float64
}

type LocationBucket struct {
	Location   string
	Count      int
	TotalValue float64
}

// AggregateByStatus всегда возвращает три корзины в порядке AllStatuses.
// Процент - доля от len(records), для пустого набора 0.
func AggregateByStatus(records []entities.Equipment) []StatusBucket {
	counts := make(map[entities.Status]int, 3)
	for _, e := range records {
		counts[e.Status]++
	}
	buckets := make([]StatusBucket, 0, 3)
	for _, st := range entities.AllStatuses() {
		b := StatusBucket{Status: st, Count: counts[st]}
		if len(records) > 0 {
			b.Percentage = float64(b.Count) / float64(len(records)) * 100
		}
		buckets = append(buckets, b)
	}
	return buckets
}

// AggregateByLocation - количество и сумма стоимости по местам, в порядке первого появления.
func AggregateByLocation(records []entities.Equipment) []LocationBucket {
	return AggregateByLocationFor(Locations(records), records)
}

// AggregateByLocationFor строит корзины для заданного списка мест,
// места без записей получают нулевые значения.
func AggregateByLocationFor(locations []string, records []entities.Equipment) []LocationBucket {
	index := make(map[string]int, len(locations))
	buckets := make([]LocationBucket, 0, len(locations))
	for _, loc := range locations {
		if _, seen := index[loc]; seen {
			continue
		}
		index[loc] = len(buckets)
		buckets = append(buckets, LocationBucket{Location: loc})
	}
	for _, e := range records {
		i, ok := index[e.Location]
		if !ok {
			continue
		}
		buckets[i].Count++
		buckets[i].TotalValue += e.Value
	}
	return buckets
}

func SumValue(records []entities.Equipment) float64 {
	var sum float64
	for _, e := range records {
		sum += e.Value
	}
	return sum
}

func AverageValue(records []entities.Equipment) float64 {
	if len(records) == 0 {
		return 0
	}
	return SumValue(records) / float64(len(records))
}

// Locations - различные места в порядке первого появления.
func Locations(records []entities.Equipment) []string {
	seen := make(map[string]struct{}, len(records))
	result := make([]string, 0)
	for _, e := range records {
		if _, ok := seen[e.Location]; ok {
			continue
		}
		seen[e.Location] = struct{}{}
		result = append(result, e.Location)
	}
	return result
}
