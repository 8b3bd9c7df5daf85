package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/taskdeck/internal/board"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the current view as CSV",
	Long: `Writes the tasks of the current view, in view order, as CSV with the columns
Task Name, Assignee, Status, Priority, Due Date and Client. Without --output the
CSV goes to stdout.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringP("output", "o", "", "write the CSV to this file")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	_, tasks, err := loadTasks(cfg)
	if err != nil {
		return err
	}
	_, v, err := loadView(cfg)
	if err != nil {
		return err
	}
	result := v.Apply(tasks, cfg, time.Now())

	path, _ := cmd.Flags().GetString("output")
	if path != "" {
		f, err := os.Create(path) //nolint:gosec // user-chosen export path
		if err != nil {
			return fmt.Errorf("creating export file: %w", err)
		}
		defer f.Close() //nolint:errcheck // close error surfaces through Sync below
		if err := board.WriteCSV(f, result.Tasks, cfg); err != nil {
			return err
		}
		if err := f.Sync(); err != nil {
			return fmt.Errorf("writing export file: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Exported %d tasks to %s\n", len(result.Tasks), path)
		return nil
	}
	return board.WriteCSV(os.Stdout, result.Tasks, cfg)
}
