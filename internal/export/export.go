// Package export формирует выгрузки отчета по оборудованию (CSV и XLSX)
// и читает XLSX того же формата для импорта.
package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"inventory-system/internal/entities"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("неподдерживаемый формат выгрузки: %q", s)
	}
}

func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// FileName - relatorio_equipamentos_ГГГГ-ММ-ДД.<ext>.
func FileName(f Format, day time.Time) string {
	return fmt.Sprintf("relatorio_equipamentos_%s.%s", day.Format(entities.DateLayout), f)
}

// Column - колонка выгрузки. Quoted: текстовое поле, в CSV берется в кавычки.
type Column struct {
	Header string
	Quoted bool
	Value  func(e entities.Equipment) string
}

// Columns - фиксированный порядок колонок отчета.
var Columns = []Column{
	{Header: "Número do Patrimônio", Quoted: true, Value: func(e entities.Equipment) string { return e.AssetNumber }},
	{Header: "Localização", Quoted: true, Value: func(e entities.Equipment) string { return e.Location }},
	{Header: "Responsável", Quoted: true, Value: func(e entities.Equipment) string { return e.Responsible }},
	{Header: "Status", Quoted: true, Value: func(e entities.Equipment) string { return e.Status.Label() }},
	{Header: "Descrição", Quoted: true, Value: func(e entities.Equipment) string { return e.Description }},
	{Header: "Modelo", Quoted: true, Value: func(e entities.Equipment) string { return e.Model }},
	{Header: "Marca", Quoted: true, Value: func(e entities.Equipment) string { return e.Brand }},
	{Header: "Especificações", Quoted: true, Value: func(e entities.Equipment) string { return e.SpecsOrEmpty() }},
	{Header: "Valor", Value: func(e entities.Equipment) string { return strconv.FormatFloat(e.Value, 'f', -1, 64) }},
	{Header: "Data de Aquisição", Value: func(e entities.Equipment) string { return e.AcquisitionDate.String() }},
}

func headers() []string {
	out := make([]string, 0, len(Columns))
	for _, c := range Columns {
		out = append(out, c.Header)
	}
	return out
}

// Write пишет записи в w в заданном формате.
func Write(w io.Writer, f Format, records []entities.Equipment) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, records)
	case FormatXLSX:
		return WriteXLSX(w, records)
	default:
		return fmt.Errorf("неподдерживаемый формат выгрузки: %q", f)
	}
}
