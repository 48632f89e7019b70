package tools

import (
	"fmt"

	"github.com/RSAKTHISABARISH/RubyAI/src/configs"
	"github.com/RSAKTHISABARISH/RubyAI/src/core/function"
	"github.com/RSAKTHISABARISH/RubyAI/src/core/search"
)

// Deps carries the collaborators the builtin tools need. Optional fields may
// be nil; the tools that depend on them are then skipped.
type Deps struct {
	Search    *search.Client
	Browser   BrowserOpener
	Language  LanguageController
	Reminders ReminderScheduler
	Documents DocumentQuerier
}

// RegisterBuiltins fills the registry with every builtin tool whose
// dependencies are available, then removes the names listed in
// cfg.Tools.Disabled.
func RegisterBuiltins(reg *function.Registry, cfg *configs.Config, deps Deps) error {
	registrations := []func(*function.Registry) error{
		RegisterCalculator,
		RegisterLocation,
		RegisterListWindows,
		RegisterOpenSystemApp,
		RegisterSystemControl,
		RegisterTerminal,
		RegisterSystemHealth,
	}
	for _, register := range registrations {
		if err := register(reg); err != nil {
			return err
		}
	}

	if cfg.Tools.SerialPort != "" {
		if err := RegisterArduinoSerial(reg, cfg.Tools.SerialPort, cfg.Tools.SerialBaud); err != nil {
			return err
		}
	}

	if deps.Search != nil {
		if err := RegisterWebSearch(reg, deps.Search); err != nil {
			return err
		}
		if err := RegisterLatestNews(reg, deps.Search); err != nil {
			return err
		}
	}
	if deps.Browser != nil {
		if err := RegisterWebNavigation(reg, deps.Browser); err != nil {
			return err
		}
		if err := RegisterYouTubePlayer(reg, deps.Browser); err != nil {
			return err
		}
	}
	if deps.Language != nil {
		if err := RegisterLanguageTools(reg, deps.Language); err != nil {
			return err
		}
	}
	if deps.Reminders != nil {
		if err := RegisterReminder(reg, deps.Reminders); err != nil {
			return err
		}
	}
	if deps.Documents != nil {
		if err := RegisterDocumentQuery(reg, deps.Documents); err != nil {
			return err
		}
	}

	for _, name := range cfg.Tools.Disabled {
		if err := reg.Unregister(name); err != nil {
			return fmt.Errorf("disable tool %s: %w", name, err)
		}
	}
	return nil
}
