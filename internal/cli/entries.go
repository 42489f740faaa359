package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/moodlog/internal/journal"
	"github.com/mesh-intelligence/moodlog/internal/prompt"
	"github.com/mesh-intelligence/moodlog/internal/stats"
	"github.com/mesh-intelligence/moodlog/pkg/types"
)

func newFeelingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "feelings",
		Short: "List the feelings you can record",
		Args:  withUsage(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(a *app) error {
				cat, err := a.catalog.List()
				if err != nil {
					return err
				}
				if flags.jsonMode {
					return printJSON(cmd, cat)
				}
				for _, f := range cat.Feelings() {
					fmt.Fprintf(cmd.OutOrStdout(), "%s %-10s %s\n", f.Emoji, f.Name, f.Color)
				}
				return nil
			})
		},
	}
}

func newRecordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "record",
		Short: "Record how you feel right now, interactively",
		Args:  withUsage(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(a *app) error {
				cat, err := a.catalog.List()
				if err != nil {
					return err
				}
				res, err := prompt.Run(cat, cmd.InOrStdin(), cmd.OutOrStdout())
				if err != nil {
					return err
				}
				return addAndPrint(cmd, a, journal.AddEntryInput{Feeling: res.Feeling, Note: res.Note})
			})
		},
	}
}

func newAddCmd() *cobra.Command {
	var in journal.AddEntryInput
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a feeling without the prompt",
		Long: `Add records one entry. Date and time default to now.

Example:
  moodlog add --feeling alegria
  moodlog add --feeling medo --note "prova amanhã" --date 2024-03-10 --time 21:30`,
		Args: withUsage(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(a *app) error {
				return addAndPrint(cmd, a, in)
			})
		},
	}
	cmd.Flags().StringVar(&in.Feeling, "feeling", "", "feeling name, see \"moodlog feelings\"")
	cmd.Flags().StringVar(&in.Note, "note", "", "optional note")
	cmd.Flags().StringVar(&in.Date, "date", "", "date as YYYY-MM-DD (default: today)")
	cmd.Flags().StringVar(&in.TimeOfDay, "time", "", "time as HH:MM (default: now)")
	return cmd
}

func addAndPrint(cmd *cobra.Command, a *app, in journal.AddEntryInput) error {
	entry, err := a.journal.AddEntry(in)
	if err != nil {
		return err
	}
	if flags.jsonMode {
		return printJSON(cmd, entry)
	}
	cat, err := a.catalog.List()
	if err != nil {
		return err
	}
	f, _ := cat.Get(entry.Feeling)
	line := fmt.Sprintf("Registrado: %s %s %s %s", entry.Date, entry.TimeOfDay, f.Emoji, f.Label())
	if note := entry.NoteText(); note != "" {
		line += " - " + note
	}
	fmt.Fprintln(cmd.OutOrStdout(), line)
	return nil
}

func newDeleteCmd() *cobra.Command {
	var timeOfDay string
	cmd := &cobra.Command{
		Use:   "delete <date>",
		Short: "Delete a day, or the entries at one time of that day",
		Args:  withUsage(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app) error {
				res, err := a.journal.DeleteEntry(args[0], timeOfDay)
				if err != nil {
					return err
				}
				if flags.jsonMode {
					return printJSON(cmd, res)
				}
				msg := "Registro de " + res.Date
				if res.TimeOfDay != "" {
					msg += " às " + res.TimeOfDay
				}
				fmt.Fprintln(cmd.OutOrStdout(), msg+" removido com sucesso")
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&timeOfDay, "time", "", "only remove entries at this HH:MM")
	return cmd
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <date>",
		Short: "Show the entries of one day",
		Args:  withUsage(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app) error {
				date := args[0]
				rec, err := a.journal.GetDay(date)
				if err != nil {
					return err
				}
				if flags.jsonMode {
					return printJSON(cmd, map[string]types.DayRecord{date: rec})
				}
				return printDays(cmd, a, types.Store{date: rec})
			})
		},
	}
}

func newListCmd() *cobra.Command {
	var year string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded days, optionally for one year",
		Args:  withUsage(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(a *app) error {
				store, err := listStore(a, year)
				if err != nil {
					return err
				}
				if flags.jsonMode {
					return printJSON(cmd, store)
				}
				if len(store) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Nenhum registro.")
					return nil
				}
				return printDays(cmd, a, store)
			})
		},
	}
	cmd.Flags().StringVar(&year, "year", "", "only days of this four-digit year")
	return cmd
}

func listStore(a *app, year string) (types.Store, error) {
	if year == "" {
		return a.journal.GetAll()
	}
	if err := types.ValidateYear(year); err != nil {
		return nil, err
	}
	y, err := strconv.Atoi(year)
	if err != nil {
		return nil, err
	}
	return a.journal.GetYear(y)
}

func printDays(cmd *cobra.Command, a *app, store types.Store) error {
	cat, err := a.catalog.List()
	if err != nil {
		return err
	}
	for _, date := range store.Dates() {
		line, err := stats.DaySummary(date, store[date], cat)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), line)
	}
	return nil
}
