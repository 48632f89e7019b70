package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/RSAKTHISABARISH/RubyAI/src/core/function"
)

// LanguageController switches the active speech language of the session.
// Implemented by the session orchestrator.
type LanguageController interface {
	SupportedLanguages() []string
	SwitchLanguage(tag string) error
}

type languageCtrlKey struct{}

// WithLanguageController returns a context that routes the language
// tools to ctrl. The registry is shared across sessions, so each turn
// must carry its own session here or a switch would land on whichever
// session the tools were registered with.
func WithLanguageController(ctx context.Context, ctrl LanguageController) context.Context {
	return context.WithValue(ctx, languageCtrlKey{}, ctrl)
}

func languageController(ctx context.Context, fallback LanguageController) LanguageController {
	if ctrl, ok := ctx.Value(languageCtrlKey{}).(LanguageController); ok && ctrl != nil {
		return ctrl
	}
	return fallback
}

// RegisterLanguageTools adds get_available_languages and switch_language.
// ctrl is the fallback target for calls whose context carries no session.
func RegisterLanguageTools(reg *function.Registry, ctrl LanguageController) error {
	availableDef := function.NewDefinition(
		"get_available_languages",
		"Returns the language IDs currently supported by the speech engines. Use this before attempting a language switch or when the user asks which languages are supported.",
	)
	err := reg.Register(availableDef, func(ctx context.Context, args map[string]interface{}) (string, error) {
		langs := languageController(ctx, ctrl).SupportedLanguages()
		if len(langs) == 0 {
			return "No languages available.", nil
		}
		return strings.Join(langs, ", "), nil
	})
	if err != nil {
		return err
	}

	switchDef := function.NewDefinition(
		"switch_language",
		"Switches the assistant's active language for both speech recognition and synthesis. Input must be a valid language ID from the available languages list. Do not guess language IDs.",
		function.Param{Name: "language", Description: "A language ID such as en-IN or ta-IN.", Required: true},
	)
	return reg.Register(switchDef, func(ctx context.Context, args map[string]interface{}) (string, error) {
		language, _ := args["language"].(string)
		if strings.TrimSpace(language) == "" {
			return "", fmt.Errorf("no language given")
		}
		if err := languageController(ctx, ctrl).SwitchLanguage(language); err != nil {
			return "", err
		}
		return fmt.Sprintf("Switched to %s", language), nil
	})
}
