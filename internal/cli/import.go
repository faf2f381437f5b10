package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"inventory-system/internal/export"
)

var importCmd = &cobra.Command{
	Use:   "import <file.xlsx>",
	Short: "Импортировать оборудование из XLSX в формате выгрузки",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		rows, err := export.ReadXLSX(f)
		if err != nil {
			return err
		}
		records, problems := export.Records(rows)
		if len(problems) > 0 {
			return errors.New("файл не импортирован:\n  " + strings.Join(problems, "\n  "))
		}

		return withEnv(cmd, func(e *env) error {
			inserted, err := e.equipment.ImportEquipment(cmd.Context(), records, e.actor())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Импортировано записей: %d\n", inserted)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
