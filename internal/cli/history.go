package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"inventory-system/internal/dto"
	"inventory-system/internal/entities"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history [equipment-id]",
	Short: "Журнал изменений записи или последние события",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(e *env) error {
			var (
				entries []entities.HistoryEntry
				err     error
			)
			if len(args) == 1 {
				entries, err = e.tracker.QueryHistory(cmd.Context(), args[0])
			} else {
				limit := historyLimit
				if limit <= 0 {
					limit = e.cfg.App.RecentActivityLimit
				}
				entries, err = e.tracker.QueryRecentActivity(cmd.Context(), limit)
			}
			if err != nil {
				return err
			}

			list := dto.NewHistoryEntryDTOs(entries)
			if jsonOutput {
				return outputJSON(cmd.OutOrStdout(), list)
			}
			if len(list) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Записей нет")
				return nil
			}
			for _, h := range list {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %-12s %-22s %s", h.Timestamp, h.User, h.ChangeLabel, h.EquipmentID)
				if h.Field != nil {
					fmt.Fprintf(cmd.OutOrStdout(), "  %s: %s -> %s", *h.Field, deref(h.OldValue), deref(h.NewValue))
				}
				fmt.Fprintln(cmd.OutOrStdout())
			}
			return nil
		})
	},
}

func deref(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 0, "сколько последних событий показать (без id записи)")
	rootCmd.AddCommand(historyCmd)
}
