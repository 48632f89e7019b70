package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/RSAKTHISABARISH/RubyAI/src/core/function"
)

// RegisterSystemHealth adds the CPU/RAM/uptime report tool.
func RegisterSystemHealth(reg *function.Registry) error {
	def := function.NewDefinition(
		"get_system_health",
		"Checks the computer's health: CPU usage, RAM levels, and uptime.",
	)

	return reg.Register(def, func(ctx context.Context, args map[string]interface{}) (string, error) {
		cpuPercents, err := cpu.PercentWithContext(ctx, time.Second, false)
		if err != nil || len(cpuPercents) == 0 {
			return "", fmt.Errorf("could not fetch CPU usage: %v", err)
		}

		vm, err := mem.VirtualMemoryWithContext(ctx)
		if err != nil {
			return "", fmt.Errorf("could not fetch RAM usage: %v", err)
		}

		uptimeStr := "not available"
		if uptime, err := host.UptimeWithContext(ctx); err == nil {
			uptimeStr = (time.Duration(uptime) * time.Second).Round(time.Minute).String()
		}

		return fmt.Sprintf("System Health Update:\nCPU Usage: %.1f%%\nRAM Usage: %.1f%%\nUptime: %s",
			cpuPercents[0], vm.UsedPercent, uptimeStr), nil
	})
}
