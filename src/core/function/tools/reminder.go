package tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/RSAKTHISABARISH/RubyAI/src/core/function"
)

// ReminderScheduler stores a reminder and fires it after the delay. The task
// manager implements this on top of its worker pool.
type ReminderScheduler interface {
	ScheduleReminder(ctx context.Context, text string, fireAt time.Time) error
}

// RegisterReminder adds the set_reminder tool.
func RegisterReminder(reg *function.Registry, sched ReminderScheduler) error {
	def := function.NewDefinition(
		"set_reminder",
		"Sets a reminder that will be spoken aloud after the given delay. Use minutes for delays under an hour.",
		function.Param{Name: "text", Description: "What to remind the user about.", Required: true},
		function.Param{Name: "minutes", Type: "number", Description: "Delay in minutes before the reminder fires.", Required: true},
	)
	return reg.Register(def, func(ctx context.Context, args map[string]interface{}) (string, error) {
		text, _ := args["text"].(string)
		if strings.TrimSpace(text) == "" {
			return "", fmt.Errorf("reminder text is empty")
		}

		minutes, ok := args["minutes"].(float64)
		if !ok || minutes <= 0 {
			return "", fmt.Errorf("minutes must be a positive number")
		}

		fireAt := time.Now().Add(time.Duration(minutes * float64(time.Minute)))
		if err := sched.ScheduleReminder(ctx, text, fireAt); err != nil {
			return "", err
		}
		return fmt.Sprintf("Reminder set for %s.", fireAt.Format("3:04 PM")), nil
	})
}
