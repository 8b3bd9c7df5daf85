package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/twiced-technology-gmbh/taskdeck/internal/clierr"
	"github.com/twiced-technology-gmbh/taskdeck/internal/config"
	"github.com/twiced-technology-gmbh/taskdeck/internal/output"
	"github.com/twiced-technology-gmbh/taskdeck/internal/task"
)

var deleteCmd = &cobra.Command{
	Use:     "delete ID[,ID,...]",
	Aliases: []string{"rm"},
	Short:   "Delete a task",
	Long: `Soft-deletes a task by moving it to archived status. Prompts for confirmation in interactive mode.
Multiple IDs can be provided as a comma-separated list (requires --yes).`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().BoolP("yes", "y", false, "skip confirmation prompt")
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	ids, err := parseIDs(args[0])
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store := task.OpenStore(cfg.TasksPath())

	yes, _ := cmd.Flags().GetBool("yes")

	// Batch mode requires --yes.
	if len(ids) > 1 && !yes {
		return clierr.New(clierr.ConfirmationReq,
			"batch delete requires --yes")
	}

	if len(ids) == 1 {
		return deleteSingleTask(cfg, store, ids[0], yes)
	}

	return runBatch(ids, func(id int) error {
		t, err := store.Load(id)
		if err != nil {
			return err
		}
		return archiveAndLog(cfg, store, t)
	})
}

// deleteSingleTask handles a single task delete with confirmation and output.
func deleteSingleTask(cfg *config.Config, store *task.Store, id int, yes bool) error {
	t, err := store.Load(id)
	if err != nil {
		return err
	}

	ok, err := confirm(fmt.Sprintf("Delete task #%d %q?", t.ID, t.Name), yes)
	if err != nil || !ok {
		return err
	}

	if err := archiveAndLog(cfg, store, t); err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]interface{}{
			"status": "deleted",
			"id":     t.ID,
			"name":   t.Name,
		})
	}

	output.Messagef(os.Stdout, "Deleted task #%d: %s", t.ID, t.Name)
	return nil
}

// archiveAndLog moves the task to the archived status and logs the delete.
func archiveAndLog(cfg *config.Config, store *task.Store, t *task.Task) error {
	if cfg.IsArchivedStatus(t.Status) {
		return nil
	}

	repl := t.Clone()
	task.SetStatus(repl, config.ArchivedStatus, time.Now())
	if err := store.UpdateTask(repl); err != nil {
		return fmt.Errorf("archiving task: %w", err)
	}

	logActivity(cfg, "delete", t.ID, t.Name)
	return nil
}

// confirm asks a yes/no question on the terminal. Without a terminal the
// caller has to pass --yes.
func confirm(prompt string, yes bool) (bool, error) {
	if yes {
		return true, nil
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false, clierr.New(clierr.ConfirmationReq,
			"cannot prompt for confirmation (not a terminal); use --yes")
	}
	fmt.Fprintf(os.Stderr, "%s [y/N] ", prompt)
	reader := bufio.NewReader(os.Stdin)
	answer, _ := reader.ReadString('\n')
	answer = strings.TrimSpace(strings.ToLower(answer))
	if answer != "y" && answer != "yes" {
		fmt.Fprintln(os.Stderr, "Canceled.")
		return false, nil
	}
	return true, nil
}
