package function

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestRegisterAndDispatch(t *testing.T) {
	r := NewRegistry()
	def := NewDefinition("echo", "echoes its input",
		Param{Name: "text", Required: true})

	err := r.Register(def, func(ctx context.Context, args map[string]interface{}) (string, error) {
		return fmt.Sprintf("echo: %v", args["text"]), nil
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	obs, err := r.Dispatch(context.Background(), "echo", map[string]interface{}{"text": "hello"})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if obs != "echo: hello" {
		t.Errorf("observation = %q, want %q", obs, "echo: hello")
	}
}

func TestDuplicateRegistrationFails(t *testing.T) {
	r := NewRegistry()
	def := NewDefinition("dup", "first")
	handler := func(ctx context.Context, args map[string]interface{}) (string, error) { return "", nil }

	if err := r.Register(def, handler); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	if err := r.Register(def, handler); err == nil {
		t.Fatal("second Register succeeded, want error")
	}
}

func TestDispatchUnknownTool(t *testing.T) {
	r := NewRegistry()
	_, err := r.Dispatch(context.Background(), "missing", nil)
	if !errors.Is(err, ErrToolNotFound) {
		t.Errorf("err = %v, want ErrToolNotFound", err)
	}
}

func TestToolFailureBecomesObservation(t *testing.T) {
	r := NewRegistry()

	t.Run("handler error", func(t *testing.T) {
		def := NewDefinition("failing", "always errors")
		r.Register(def, func(ctx context.Context, args map[string]interface{}) (string, error) {
			return "", errors.New("port unavailable")
		})

		obs, err := r.Dispatch(context.Background(), "failing", nil)
		if err != nil {
			t.Fatalf("Dispatch returned error: %v", err)
		}
		if !strings.Contains(obs, "port unavailable") {
			t.Errorf("observation %q does not carry the failure text", obs)
		}
	})

	t.Run("handler panic", func(t *testing.T) {
		def := NewDefinition("panicking", "always panics")
		r.Register(def, func(ctx context.Context, args map[string]interface{}) (string, error) {
			panic("index out of range")
		})

		obs, err := r.Dispatch(context.Background(), "panicking", nil)
		if err != nil {
			t.Fatalf("Dispatch returned error: %v", err)
		}
		if !strings.Contains(obs, "index out of range") {
			t.Errorf("observation %q does not carry the panic text", obs)
		}
	})
}

func TestDefinitionsSortedByName(t *testing.T) {
	r := NewRegistry()
	handler := func(ctx context.Context, args map[string]interface{}) (string, error) { return "", nil }
	for _, name := range []string{"zeta", "alpha", "mid"} {
		if err := r.Register(NewDefinition(name, name), handler); err != nil {
			t.Fatalf("Register %s: %v", name, err)
		}
	}

	defs := r.Definitions()
	got := make([]string, len(defs))
	for i, d := range defs {
		got[i] = d.Function.Name
	}
	want := []string{"alpha", "mid", "zeta"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Definitions order = %v, want %v", got, want)
		}
	}
}
