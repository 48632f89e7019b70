package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/RSAKTHISABARISH/RubyAI/src/core/function"
)

const locationEndpoint = "http://ip-api.com/json/"

// RegisterLocation adds the IP-based geolocation tool.
func RegisterLocation(reg *function.Registry) error {
	def := function.NewDefinition(
		"get_current_location",
		"Gets the current physical location of the user (City, Region, Coordinates).",
	)

	client := &http.Client{Timeout: 10 * time.Second}
	return reg.Register(def, func(ctx context.Context, args map[string]interface{}) (string, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, locationEndpoint, nil)
		if err != nil {
			return "", err
		}
		resp, err := client.Do(req)
		if err != nil {
			return "", fmt.Errorf("could not determine location via IP: %v", err)
		}
		defer resp.Body.Close()

		var payload struct {
			Status     string  `json:"status"`
			City       string  `json:"city"`
			RegionName string  `json:"regionName"`
			Country    string  `json:"country"`
			Lat        float64 `json:"lat"`
			Lon        float64 `json:"lon"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			return "", err
		}
		if payload.Status != "success" {
			return "", fmt.Errorf("could not determine location via IP")
		}
		return fmt.Sprintf("Current Location: %s, %s, %s (Lat/Lng: [%v, %v])",
			payload.City, payload.RegionName, payload.Country, payload.Lat, payload.Lon), nil
	})
}

// RegisterListWindows adds the open-windows listing tool.
func RegisterListWindows(reg *function.Registry) error {
	def := function.NewDefinition(
		"list_open_windows",
		"Lists all visible application windows currently open on the computer.",
	)

	return reg.Register(def, func(ctx context.Context, args map[string]interface{}) (string, error) {
		var cmd *exec.Cmd
		switch runtime.GOOS {
		case "windows":
			cmd = exec.CommandContext(ctx, "tasklist", "/v", "/fo", "csv")
		case "darwin":
			cmd = exec.CommandContext(ctx, "osascript", "-e",
				`tell application "System Events" to get name of every process whose visible is true`)
		default:
			cmd = exec.CommandContext(ctx, "wmctrl", "-l")
		}

		out, err := cmd.Output()
		if err != nil {
			return "", fmt.Errorf("listing windows failed: %v", err)
		}

		titles := parseWindowTitles(runtime.GOOS, string(out))
		if len(titles) == 0 {
			return "No visible windows found.", nil
		}
		return "Open Windows: " + strings.Join(titles, ", "), nil
	})
}

func parseWindowTitles(goos, raw string) []string {
	seen := make(map[string]bool)
	var titles []string
	add := func(title string) {
		title = strings.TrimSpace(title)
		if title != "" && !seen[title] {
			seen[title] = true
			titles = append(titles, title)
		}
	}

	switch goos {
	case "darwin":
		for _, name := range strings.Split(raw, ",") {
			add(name)
		}
	case "windows":
		for i, line := range strings.Split(raw, "\n") {
			if i == 0 {
				continue // header row
			}
			fields := strings.Split(line, "\",\"")
			if len(fields) > 0 {
				add(strings.Trim(fields[0], "\""))
			}
		}
	default:
		// wmctrl: ID DESKTOP HOST TITLE...
		for _, line := range strings.Split(raw, "\n") {
			fields := strings.Fields(line)
			if len(fields) >= 4 {
				add(strings.Join(fields[3:], " "))
			}
		}
	}
	return titles
}

// RegisterOpenSystemApp adds the local application launcher tool.
func RegisterOpenSystemApp(reg *function.Registry) error {
	def := function.NewDefinition(
		"open_system_app",
		"Opens a system application by name (e.g. 'notepad', 'chrome', 'camera', 'calculator').",
		function.Param{Name: "app_name", Description: "Name of the application to launch.", Required: true},
	)

	return reg.Register(def, func(ctx context.Context, args map[string]interface{}) (string, error) {
		appName, _ := args["app_name"].(string)
		appName = strings.TrimSpace(appName)
		if appName == "" {
			return "", fmt.Errorf("no application name given")
		}

		var cmd *exec.Cmd
		switch runtime.GOOS {
		case "windows":
			cmd = exec.Command("cmd", "/c", "start", "", appName)
		case "darwin":
			cmd = exec.Command("open", "-a", appName)
		default:
			cmd = exec.Command(strings.ToLower(appName))
		}

		if err := cmd.Start(); err != nil {
			return "", fmt.Errorf("failed to open %s: %v", appName, err)
		}
		return fmt.Sprintf("Successfully attempted to launch: %s", appName), nil
	})
}

// RegisterSystemControl adds the volume/mute control tool.
func RegisterSystemControl(reg *function.Registry) error {
	def := function.NewDefinition(
		"system_control",
		"Controls system settings. Actions: 'volume_up', 'volume_down', 'mute'.",
		function.Param{Name: "action", Description: "One of volume_up, volume_down, mute.", Required: true},
	)

	return reg.Register(def, func(ctx context.Context, args map[string]interface{}) (string, error) {
		action, _ := args["action"].(string)

		var cmd *exec.Cmd
		var response string
		switch action {
		case "volume_up":
			cmd, response = volumeCommand(ctx, "+10%"), "Increased volume."
		case "volume_down":
			cmd, response = volumeCommand(ctx, "-10%"), "Decreased volume."
		case "mute":
			cmd, response = muteCommand(ctx), "Toggled mute."
		default:
			return "Unknown system action.", nil
		}

		if err := cmd.Run(); err != nil {
			return "", fmt.Errorf("system control error: %v", err)
		}
		return response, nil
	})
}

func volumeCommand(ctx context.Context, delta string) *exec.Cmd {
	switch runtime.GOOS {
	case "darwin":
		step := "10"
		if strings.HasPrefix(delta, "-") {
			step = "-10"
		}
		return exec.CommandContext(ctx, "osascript", "-e",
			fmt.Sprintf("set volume output volume ((output volume of (get volume settings)) + %s)", step))
	case "windows":
		return exec.CommandContext(ctx, "nircmd", "changesysvolume", delta)
	default:
		arg := "10%+"
		if strings.HasPrefix(delta, "-") {
			arg = "10%-"
		}
		return exec.CommandContext(ctx, "amixer", "-q", "set", "Master", arg)
	}
}

func muteCommand(ctx context.Context) *exec.Cmd {
	switch runtime.GOOS {
	case "darwin":
		return exec.CommandContext(ctx, "osascript", "-e", "set volume with output muted")
	case "windows":
		return exec.CommandContext(ctx, "nircmd", "mutesysvolume", "2")
	default:
		return exec.CommandContext(ctx, "amixer", "-q", "set", "Master", "toggle")
	}
}

// RegisterTerminal adds the shell-command execution tool.
func RegisterTerminal(reg *function.Registry) error {
	def := function.NewDefinition(
		"run_terminal_command",
		"Executes a terminal command and returns the output. Use for tasks like checking directory contents or running simple scripts.",
		function.Param{Name: "command", Description: "The shell command to run.", Required: true},
	)

	return reg.Register(def, func(ctx context.Context, args map[string]interface{}) (string, error) {
		command, _ := args["command"].(string)
		if strings.TrimSpace(command) == "" {
			return "", fmt.Errorf("no command given")
		}

		runCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()

		var cmd *exec.Cmd
		if runtime.GOOS == "windows" {
			cmd = exec.CommandContext(runCtx, "cmd", "/c", command)
		} else {
			cmd = exec.CommandContext(runCtx, "sh", "-c", command)
		}

		out, err := cmd.CombinedOutput()
		if err != nil {
			return "", fmt.Errorf("error running command: %v\n%s", err, out)
		}
		return fmt.Sprintf("Command Output:\n%s", out), nil
	})
}
