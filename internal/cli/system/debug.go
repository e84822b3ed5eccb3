package system

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/week"
)

// debugOut receives the JSON written by the debug commands.
var debugOut io.Writer = os.Stdout

type DebugCmd struct {
	DBPath       *DebugDBPathCmd       `cmd:"" help:"Show database path."`
	DumpHabit    *DebugDumpHabitCmd    `cmd:"" help:"Dump habit data as JSON."`
	DumpTriggers *DebugDumpTriggersCmd `cmd:"" help:"Dump pending reminders as JSON."`
	DumpWeek     *DebugDumpWeekCmd     `cmd:"" help:"Dump the current dashboard week as JSON."`
	DumpSettings *DebugDumpSettingsCmd `cmd:"" help:"Dump settings data as JSON."`
}

func writeJSON(v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = fmt.Fprintln(debugOut, string(jsonBytes))
	return err
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *cli.Context) error {
	return writeJSON(map[string]string{"path": ctx.Store.GetConfigPath()})
}

type DebugDumpHabitCmd struct {
	ID string `arg:"" help:"ID of the habit to dump."`
}

func (cmd *DebugDumpHabitCmd) Run(ctx *cli.Context) error {
	h, err := ctx.Store.GetHabit(cmd.ID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("habit not found: %s", cmd.ID)
		}
		return fmt.Errorf("failed to get habit: %w", err)
	}
	return writeJSON(h)
}

type DebugDumpTriggersCmd struct{}

func (cmd *DebugDumpTriggersCmd) Run(ctx *cli.Context) error {
	triggers, err := ctx.Store.GetAllTriggers()
	if err != nil {
		return fmt.Errorf("failed to get reminders: %w", err)
	}
	return writeJSON(triggers)
}

type DebugDumpWeekCmd struct{}

type weekDay struct {
	Name   string   `json:"name"`
	Date   string   `json:"date"`
	Habits []string `json:"habits"`
}

func (cmd *DebugDumpWeekCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	start, err := week.ParseWeekStart(settings.WeekStart)
	if err != nil {
		return err
	}
	habits, err := ctx.Store.GetAllHabits()
	if err != nil {
		return fmt.Errorf("failed to get habits: %w", err)
	}

	days := week.Project(ctx.Now(), start)
	out := make([]weekDay, len(days))
	for i, d := range days {
		out[i] = weekDay{Name: d.Name, Date: d.Date.Format("2006-01-02"), Habits: []string{}}
	}
	for _, h := range habits {
		for i, active := range week.Active(h, days) {
			if active {
				out[i].Habits = append(out[i].Habits, h.Name)
			}
		}
	}
	return writeJSON(out)
}

type DebugDumpSettingsCmd struct{}

func (cmd *DebugDumpSettingsCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	return writeJSON(settings)
}
