package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/taskdeck/internal/clierr"
	"github.com/twiced-technology-gmbh/taskdeck/internal/config"
	"github.com/twiced-technology-gmbh/taskdeck/internal/date"
	"github.com/twiced-technology-gmbh/taskdeck/internal/output"
	"github.com/twiced-technology-gmbh/taskdeck/internal/task"
	"github.com/twiced-technology-gmbh/taskdeck/internal/timer"
	"github.com/twiced-technology-gmbh/taskdeck/internal/timesheet"
)

var timerCmd = &cobra.Command{
	Use:   "timer",
	Short: "Track time on tasks",
	Long: `One timer runs at a time. Starting a timer for another task while one runs
does not switch immediately: the request waits until you confirm or cancel it.
Starting the running task again stops it. Stopped sessions are booked to the
timesheet and added to the task's tracked time.`,
	RunE: runTimerStatus,
}

var timerStartCmd = &cobra.Command{
	Use:   "start ID",
	Short: "Start a timer, or request a switch when one is running",
	Args:  cobra.ExactArgs(1),
	RunE:  runTimerStart,
}

var timerStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running timer and book the time",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		return timerTransition(func(_ *config.Config, m *timer.Manager) (timer.Outcome, error) {
			entry, ok := m.Stop()
			if !ok {
				return timer.Outcome{}, clierr.New(clierr.TimerIdle, "no timer running")
			}
			return timer.Outcome{State: timer.Idle, Stopped: &entry}, nil
		})
	},
}

var timerConfirmCmd = &cobra.Command{
	Use:   "confirm",
	Short: "Switch to the pending task",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		return timerTransition(func(_ *config.Config, m *timer.Manager) (timer.Outcome, error) {
			if m.State() != timer.PendingSwitch {
				return timer.Outcome{}, clierr.New(clierr.TimerNoPending, "no timer switch pending")
			}
			return m.Confirm(), nil
		})
	},
}

var timerCancelCmd = &cobra.Command{
	Use:   "cancel",
	Short: "Keep the running timer and drop the pending switch",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		return timerTransition(func(_ *config.Config, m *timer.Manager) (timer.Outcome, error) {
			if m.State() != timer.PendingSwitch {
				return timer.Outcome{}, clierr.New(clierr.TimerNoPending, "no timer switch pending")
			}
			return m.Cancel(), nil
		})
	},
}

var timerPauseCmd = &cobra.Command{
	Use:   "pause",
	Short: "Pause the running timer",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		return timerTransition(func(_ *config.Config, m *timer.Manager) (timer.Outcome, error) {
			if !m.Pause() {
				return timer.Outcome{}, clierr.New(clierr.TimerIdle, "no running timer to pause")
			}
			return timer.Outcome{State: m.State(), Started: m.Session()}, nil
		})
	},
}

var timerResumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Resume a paused timer",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		return timerTransition(func(_ *config.Config, m *timer.Manager) (timer.Outcome, error) {
			if !m.Resume() {
				return timer.Outcome{}, clierr.New(clierr.TimerIdle, "no paused timer to resume")
			}
			return timer.Outcome{State: m.State(), Started: m.Session()}, nil
		})
	},
}

var timerLogCmd = &cobra.Command{
	Use:   "log",
	Short: "List booked time entries",
	Args:  cobra.NoArgs,
	RunE:  runTimerLog,
}

func init() {
	timerLogCmd.Flags().Int("task", 0, "only entries of this task")
	timerLogCmd.Flags().String("project", "", "only entries of this project")
	timerLogCmd.Flags().String("since", "", "only entries started on or after this date (YYYY-MM-DD)")
	timerLogCmd.Flags().Bool("totals", false, "show booked time per task instead of entries")
	timerCmd.AddCommand(timerStartCmd, timerStopCmd, timerConfirmCmd, timerCancelCmd,
		timerPauseCmd, timerResumeCmd, timerLogCmd)
	rootCmd.AddCommand(timerCmd)
}

func runTimerStart(_ *cobra.Command, args []string) error {
	id, err := parseTaskID(args[0])
	if err != nil {
		return err
	}
	return timerTransition(func(cfg *config.Config, m *timer.Manager) (timer.Outcome, error) {
		t, err := task.OpenStore(cfg.TasksPath()).Load(id)
		if err != nil {
			return timer.Outcome{}, err
		}
		return m.Start(t.ID, t.ProjectID), nil
	})
}

// openTimer opens the board timesheet and restores the persisted timer.
func openTimer(cfg *config.Config) (*timesheet.Store, *timer.Manager, error) {
	sheet, err := timesheet.Open(cfg.Dir())
	if err != nil {
		return nil, nil, err
	}
	snap, err := sheet.LoadState()
	if err != nil {
		_ = sheet.Close()
		return nil, nil, err
	}
	m := timer.New()
	m.Restore(snap)
	return sheet, m, nil
}

// timerTransition runs fn against the persisted timer under the board lock,
// books any stopped session and saves the new state. A failed booking is
// reported as a warning; the new state is saved either way.
func timerTransition(fn func(cfg *config.Config, m *timer.Manager) (timer.Outcome, error)) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var out timer.Outcome
	var m *timer.Manager
	err = withBoardLock(cfg.Dir(), func() error {
		sheet, mgr, err := openTimer(cfg)
		if err != nil {
			return err
		}
		defer sheet.Close() //nolint:errcheck // state is saved before close
		m = mgr
		prev := m.Session()

		if out, err = fn(cfg, m); err != nil {
			return err
		}
		st, err := sheet.Settle(out, m.Snapshot(), task.OpenStore(cfg.TasksPath()), time.Now())
		if err != nil {
			return err
		}
		if out.Stopped != nil {
			if st.BookErr != nil {
				slog.Warn("booking time", "task", out.Stopped.TaskID, "entry", st.EntryID, "err", st.BookErr)
				fmt.Fprintf(os.Stderr, "Warning: booking time for #%d: %v\n", out.Stopped.TaskID, st.BookErr)
			}
			logActivity(cfg, "timer", out.Stopped.TaskID, "stopped after "+output.FormatSeconds(out.Stopped.Seconds))
		}
		if cur := m.Session(); cur != nil && (prev == nil || prev.TaskID != cur.TaskID) {
			logActivity(cfg, "timer", cur.TaskID, "started")
		}
		return nil
	})
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, out)
	}
	if out.Stopped != nil {
		output.Messagef(os.Stdout, "Stopped #%d after %s", out.Stopped.TaskID, output.FormatSeconds(out.Stopped.Seconds))
	}
	if out.State == timer.PendingSwitch && out.Pending != nil {
		output.Messagef(os.Stdout, "Timer runs on #%d. Run \"taskdeck timer confirm\" to switch to #%d or \"taskdeck timer cancel\" to keep it.",
			out.Pending.FromTaskID, out.Pending.ToTaskID)
		return nil
	}
	output.TimerStatus(os.Stdout, timerView(cfg, m))
	return nil
}

func timerView(cfg *config.Config, m *timer.Manager) output.TimerView {
	v := output.TimerView{State: m.State(), Session: m.Session(), Pending: m.Pending(), Elapsed: m.Elapsed()}
	if v.Session != nil {
		if t, err := task.OpenStore(cfg.TasksPath()).Load(v.Session.TaskID); err == nil {
			v.TaskName = t.Name
		}
	}
	return v
}

func runTimerStatus(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	sheet, m, err := openTimer(cfg)
	if err != nil {
		return err
	}
	defer sheet.Close() //nolint:errcheck // read-only use

	v := timerView(cfg, m)
	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, v)
	}
	output.TimerStatus(os.Stdout, v)
	return nil
}

func runTimerLog(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	sheet, err := timesheet.Open(cfg.Dir())
	if err != nil {
		return err
	}
	defer sheet.Close() //nolint:errcheck // read-only use

	taskID, _ := cmd.Flags().GetInt("task")
	project, _ := cmd.Flags().GetString("project")
	since, _ := cmd.Flags().GetString("since")

	if totals, _ := cmd.Flags().GetBool("totals"); totals {
		sums, err := sheet.TotalByTask()
		if err != nil {
			return err
		}
		if outputFormat() == output.FormatJSON {
			return output.JSON(os.Stdout, sums)
		}
		output.TimeTotalsTable(os.Stdout, sums)
		return nil
	}

	var recs []timesheet.Record
	switch {
	case taskID > 0:
		recs, err = sheet.ByTask(taskID)
	case project != "":
		recs, err = sheet.ByProject(project)
	default:
		var from time.Time
		if since != "" {
			d, parseErr := date.ParseDay(since)
			if parseErr != nil {
				return clierr.New(clierr.InvalidDate, parseErr.Error())
			}
			from = d
		}
		recs, err = sheet.All(from)
	}
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		if recs == nil {
			recs = []timesheet.Record{}
		}
		return output.JSON(os.Stdout, recs)
	}
	output.TimeEntriesTable(os.Stdout, recs)
	return nil
}
