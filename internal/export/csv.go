package export

import (
	"bufio"
	"io"
	"strings"

	"inventory-system/internal/entities"
)

// WriteCSV: строка заголовков, затем по строке на запись. Текстовые поля в кавычках
// (кавычка внутри удваивается), стоимость и дата без кавычек, разделитель строк "\n".
func WriteCSV(w io.Writer, records []entities.Equipment) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(strings.Join(headers(), ",")); err != nil {
		return err
	}
	for _, e := range records {
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
		for i, col := range Columns {
			if i > 0 {
				if err := bw.WriteByte(','); err != nil {
					return err
				}
			}
			cell := col.Value(e)
			if col.Quoted {
				cell = quote(cell)
			}
			if _, err := bw.WriteString(cell); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
