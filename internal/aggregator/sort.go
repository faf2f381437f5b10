package aggregator

import (
	"sort"
	"strings"

	"inventory-system/internal/entities"
)

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ParseDirection: всё, кроме "desc", считается возрастанием.
func ParseDirection(s string) Direction {
	if strings.EqualFold(strings.TrimSpace(s), string(Desc)) {
		return Desc
	}
	return Asc
}

// SortBy - устойчивая сортировка по полю. Отсутствующие значения всегда в конце,
// неизвестное поле оставляет исходный порядок.
func SortBy(records []entities.Equipment, field entities.FieldName, dir Direction) []entities.Equipment {
	result := append([]entities.Equipment(nil), records...)
	getter, ok := sortGetter(field)
	if !ok {
		return result
	}

	sort.SliceStable(result, func(i, j int) bool {
		a, b := getter(&result[i]), getter(&result[j])
		switch {
		case !a.Present && !b.Present:
			return false
		case !a.Present:
			return false
		case !b.Present:
			return true
		}
		c := compareValues(a, b)
		if dir == Desc {
			return c > 0
		}
		return c < 0
	})
	return result
}

func sortGetter(field entities.FieldName) (func(e *entities.Equipment) entities.FieldValue, bool) {
	if field == entities.FieldID {
		return func(e *entities.Equipment) entities.FieldValue { return entities.TextValue(e.ID) }, true
	}
	f, ok := entities.LookupField(field)
	if !ok {
		return nil, false
	}
	return f.Get, true
}

func compareValues(a, b entities.FieldValue) int {
	switch a.Kind {
	case entities.KindNumber:
		switch {
		case a.Number < b.Number:
			return -1
		case a.Number > b.Number:
			return 1
		}
		return 0
	case entities.KindDate:
		return a.Date.Compare(b.Date)
	default:
		return strings.Compare(a.Text, b.Text)
	}
}
