package cmd

import (
	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/taskdeck/internal/board"
)

var filterCmd = &cobra.Command{
	Use:   "filter",
	Short: "Show or change the view filters",
	Long: `Each dimension (assignee, client, status, priority, list) keeps an include set and
an exclude set. A toggled value lands in the set of the dimension's current mode, or
leaves whichever set holds it. Running filter without a subcommand prints the view.`,
	RunE: runFilterShow,
}

var filterToggleCmd = &cobra.Command{
	Use:   "toggle DIMENSION VALUE...",
	Short: "Toggle values of a filter dimension",
	Long:  `Toggles each value in turn. Use "" for unassigned when filtering by assignee.`,
	Args:  cobra.MinimumNArgs(2), //nolint:mnd // dimension and at least one value
	RunE:  runFilterToggle,
}

var filterModeCmd = &cobra.Command{
	Use:   "mode DIMENSION include|exclude",
	Short: "Set the toggle mode of a dimension",
	Args:  cobra.ExactArgs(2), //nolint:mnd // dimension and mode
	RunE:  runFilterMode,
}

var filterAllCmd = &cobra.Command{
	Use:   "all DIMENSION",
	Short: "Select every known value of a dimension, or clear them if all are selected",
	Args:  cobra.ExactArgs(1),
	RunE:  runFilterAll,
}

var filterClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every filter constraint",
	Args:  cobra.NoArgs,
	RunE:  runFilterClear,
}

func init() {
	filterCmd.AddCommand(filterToggleCmd, filterModeCmd, filterAllCmd, filterClearCmd)
	rootCmd.AddCommand(filterCmd)
}

func runFilterShow(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	_, v, err := loadView(cfg)
	if err != nil {
		return err
	}
	return printView(v)
}

func runFilterToggle(_ *cobra.Command, args []string) error {
	d, err := board.ParseDimension(args[0])
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	return mutateView(cfg, func(v *board.View) error {
		for _, value := range args[1:] {
			v.ToggleFilter(d, value)
		}
		return nil
	})
}

func runFilterMode(_ *cobra.Command, args []string) error {
	d, err := board.ParseDimension(args[0])
	if err != nil {
		return err
	}
	m, err := board.ParseMode(args[1])
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	return mutateView(cfg, func(v *board.View) error {
		v.SetFilterMode(d, m)
		return nil
	})
}

func runFilterAll(_ *cobra.Command, args []string) error {
	d, err := board.ParseDimension(args[0])
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	_, tasks, err := loadTasks(cfg)
	if err != nil {
		return err
	}
	values := board.KnownValues(cfg, tasks, d)
	return mutateView(cfg, func(v *board.View) error {
		v.SelectAllFilter(d, values)
		return nil
	})
}

func runFilterClear(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	return mutateView(cfg, func(v *board.View) error {
		v.ClearFilters()
		return nil
	})
}
