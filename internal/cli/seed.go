package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"inventory-system/seeders"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Заполнить пустое хранилище демонстрационными данными",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(e *env) error {
			res, err := e.equipment.PopulateSampleData(cmd.Context(), seeders.SampleEquipment(), e.actor())
			if err != nil {
				return err
			}
			if jsonOutput {
				return outputJSON(cmd.OutOrStdout(), res)
			}
			if res.Skipped {
				fmt.Fprintln(cmd.OutOrStdout(), "Хранилище не пустое, ничего не добавлено")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Добавлено записей: %d\n", res.Inserted)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
