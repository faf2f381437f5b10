package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"inventory-system/internal/export"
	"inventory-system/internal/services"
	"inventory-system/pkg/types"
)

var (
	exportFormat   string
	exportOut      string
	exportSearch   string
	exportStatus   string
	exportLocation string
	exportFrom     string
	exportTo       string
	exportSort     string
	exportDesc     bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Выгрузить отчет по оборудованию в CSV или XLSX",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := export.ParseFormat(exportFormat)
		if err != nil {
			return err
		}
		query, err := services.NewListQuery(exportFilter())
		if err != nil {
			return err
		}

		out := exportOut
		if out == "" {
			out = export.FileName(format, time.Now())
		}

		return withEnv(cmd, func(e *env) error {
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("не удалось создать файл %s: %w", out, err)
			}
			if err := e.reports.Export(cmd.Context(), query, format, f); err != nil {
				f.Close()
				_ = os.Remove(out)
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Выгрузка сохранена: %s\n", out)
			return nil
		})
	},
}

// exportFilter собирает тот же фильтр, что приходит в HTTP-запросе.
func exportFilter() types.Filter {
	filter := types.Filter{
		Search:   exportSearch,
		DateFrom: exportFrom,
		DateTo:   exportTo,
		Sort:     map[string]string{},
		Filter:   map[string]string{},
	}
	if exportStatus != "" {
		filter.Filter["status"] = exportStatus
	}
	if exportLocation != "" {
		filter.Filter["location"] = exportLocation
	}
	if exportSort != "" {
		dir := "asc"
		if exportDesc {
			dir = "desc"
		}
		filter.Sort[exportSort] = dir
	}
	return filter
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "csv", "формат: csv | xlsx")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "файл результата (по умолчанию relatorio_equipamentos_<дата>.<формат>)")
	exportCmd.Flags().StringVar(&exportSearch, "search", "", "текстовый поиск")
	exportCmd.Flags().StringVar(&exportStatus, "status", "", "статус (active, maintenance, decommissioned или подпись)")
	exportCmd.Flags().StringVar(&exportLocation, "location", "", "местоположение (точное совпадение)")
	exportCmd.Flags().StringVar(&exportFrom, "from", "", "дата приобретения с (ГГГГ-ММ-ДД)")
	exportCmd.Flags().StringVar(&exportTo, "to", "", "дата приобретения по (ГГГГ-ММ-ДД)")
	exportCmd.Flags().StringVar(&exportSort, "sort", "", "поле сортировки")
	exportCmd.Flags().BoolVar(&exportDesc, "desc", false, "сортировать по убыванию")
	rootCmd.AddCommand(exportCmd)
}
