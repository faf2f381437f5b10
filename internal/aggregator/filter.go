// Package aggregator - фильтрация, сортировка и сводные показатели по списку оборудования.
// Все функции чистые: входной срез не меняется.
package aggregator

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"inventory-system/internal/entities"
)

// DateRange - включительный диапазон дат приобретения.
type DateRange struct {
	Start entities.Date
	End   entities.Date
}

// Active - диапазон учитывается, только если заданы обе границы.
func (r *DateRange) Active() bool {
	return r != nil && !r.Start.IsZero() && !r.End.IsZero()
}

func (r *DateRange) Contains(d entities.Date) bool {
	return d.Compare(r.Start) >= 0 && d.Compare(r.End) <= 0
}

// Predicate - условия фильтра, объединяются через И. Пустые условия пропускают все.
type Predicate struct {
	Query     string
	Status    *entities.Status
	Location  *string
	DateRange *DateRange
}

func (p Predicate) IsEmpty() bool {
	return strings.TrimSpace(p.Query) == "" && p.Status == nil && p.Location == nil && !p.DateRange.Active()
}

// fold приводит строку к форме для регистронезависимого сравнения.
func fold(s string) string {
	return cases.Fold().String(norm.NFC.String(s))
}

type matcher struct {
	p     Predicate
	query string
}

func newMatcher(p Predicate) matcher {
	return matcher{p: p, query: fold(strings.TrimSpace(p.Query))}
}

func (m matcher) match(e entities.Equipment) bool {
	if m.query != "" && !m.matchText(e) {
		return false
	}
	if m.p.Status != nil && e.Status != *m.p.Status {
		return false
	}
	if m.p.Location != nil && e.Location != *m.p.Location {
		return false
	}
	if m.p.DateRange.Active() && !m.p.DateRange.Contains(e.AcquisitionDate) {
		return false
	}
	return true
}

func (m matcher) matchText(e entities.Equipment) bool {
	for _, field := range []string{e.AssetNumber, e.Description, e.Brand, e.Model, e.Responsible} {
		if strings.Contains(fold(field), m.query) {
			return true
		}
	}
	return false
}

// Filter возвращает новые записи, удовлетворяющие предикату, в исходном порядке.
func Filter(records []entities.Equipment, p Predicate) []entities.Equipment {
	result := make([]entities.Equipment, 0, len(records))
	m := newMatcher(p)
	for _, e := range records {
		if m.match(e) {
			result = append(result, e)
		}
	}
	return result
}
