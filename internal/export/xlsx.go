package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"inventory-system/internal/entities"
)

const sheetName = "Equipamentos"

// WriteXLSX - те же колонки, что и в CSV; стоимость пишется числом.
func WriteXLSX(w io.Writer, records []entities.Equipment) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}
	head := headers()
	if err := f.SetSheetRow(sheetName, "A1", &head); err != nil {
		return err
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	lastCol, _ := excelize.ColumnNumberToName(len(Columns))
	if err := f.SetCellStyle(sheetName, "A1", lastCol+"1", style); err != nil {
		return err
	}

	for i, e := range records {
		row := make([]interface{}, 0, len(Columns))
		for _, col := range Columns {
			if col.Header == "Valor" {
				row = append(row, e.Value)
				continue
			}
			row = append(row, col.Value(e))
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return err
		}
	}
	_ = f.SetColWidth(sheetName, "A", "C", 25)
	_ = f.SetColWidth(sheetName, "E", "H", 30)

	return f.Write(w)
}

// ImportRow - строка таблицы импорта в виде сырых значений.
type ImportRow struct {
	Line   int
	Values map[string]string
}

// ReadXLSX ищет строку заголовков (по колонке инвентарного номера) на любом листе
// и возвращает строки под ней. Пустые строки пропускаются.
func ReadXLSX(r io.Reader) ([]ImportRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия файла: %w", err)
	}
	defer f.Close()

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("ошибка чтения листа %s: %w", sheet, err)
		}
		for rIdx, row := range rows {
			index := headerIndex(row)
			if index == nil {
				continue
			}
			return collectRows(rows[rIdx+1:], rIdx+2, index), nil
		}
	}
	return nil, fmt.Errorf("не найдена строка заголовков: ожидается колонка %q", Columns[0].Header)
}

func headerIndex(row []string) map[string]int {
	index := make(map[string]int)
	for cIdx, name := range row {
		name = strings.TrimSpace(name)
		for _, col := range Columns {
			if strings.EqualFold(name, col.Header) {
				index[col.Header] = cIdx
			}
		}
	}
	if _, ok := index[Columns[0].Header]; !ok {
		return nil
	}
	return index
}

func collectRows(rows [][]string, firstLine int, index map[string]int) []ImportRow {
	result := make([]ImportRow, 0, len(rows))
	for i, row := range rows {
		values := make(map[string]string, len(index))
		empty := true
		for header, cIdx := range index {
			if cIdx < len(row) {
				v := strings.TrimSpace(row[cIdx])
				values[header] = v
				if v != "" {
					empty = false
				}
			}
		}
		if empty {
			continue
		}
		result = append(result, ImportRow{Line: firstLine + i, Values: values})
	}
	return result
}

// Equipment собирает запись из строки импорта. Статус принимает и подписи ("Em Manutenção").
func (r ImportRow) Equipment() (entities.Equipment, error) {
	get := func(i int) string { return r.Values[Columns[i].Header] }

	status, ok := entities.ParseStatus(get(3))
	if !ok {
		return entities.Equipment{}, fmt.Errorf("строка %d: неизвестный статус %q", r.Line, get(3))
	}
	date, err := entities.ParseDate(get(9))
	if err != nil {
		return entities.Equipment{}, fmt.Errorf("строка %d: %w", r.Line, err)
	}
	var value float64
	if raw := strings.ReplaceAll(get(8), ",", "."); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return entities.Equipment{}, fmt.Errorf("строка %d: некорректная стоимость %q", r.Line, get(8))
		}
		value = entities.RoundMoney(parsed)
	}
	if value < 0 {
		return entities.Equipment{}, fmt.Errorf("строка %d: стоимость не может быть отрицательной", r.Line)
	}
	e := entities.Equipment{
		AssetNumber:     get(0),
		Location:        get(1),
		Responsible:     get(2),
		Status:          status,
		Description:     get(4),
		Model:           get(5),
		Brand:           get(6),
		AcquisitionDate: date,
		Value:           value,
	}
	if specs := get(7); specs != "" {
		e.Specs = &specs
	}
	if e.AssetNumber == "" {
		return entities.Equipment{}, fmt.Errorf("строка %d: пустой инвентарный номер", r.Line)
	}
	return e, nil
}

// Records собирает записи из всех строк. Ошибки копятся по всем строкам, чтобы вернуть их разом.
func Records(rows []ImportRow) ([]entities.Equipment, []string) {
	records := make([]entities.Equipment, 0, len(rows))
	var problems []string
	for _, row := range rows {
		e, err := row.Equipment()
		if err != nil {
			problems = append(problems, err.Error())
			continue
		}
		records = append(records, e)
	}
	return records, problems
}
