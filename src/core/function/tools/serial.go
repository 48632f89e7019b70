package tools

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"go.bug.st/serial"

	"github.com/RSAKTHISABARISH/RubyAI/src/core/function"
)

// RegisterArduinoSerial adds the hardware serial communication tool.
func RegisterArduinoSerial(reg *function.Registry, port string, baud int) error {
	if port == "" {
		if runtime.GOOS == "windows" {
			port = "COM3"
		} else {
			port = "/dev/ttyUSB0"
		}
	}
	if baud == 0 {
		baud = 9600
	}

	def := function.NewDefinition(
		"arduino_serial",
		"Communicates with an Arduino device via serial connection.",
		function.Param{Name: "query", Description: "The command string to send over serial.", Required: true},
	)

	return reg.Register(def, func(ctx context.Context, args map[string]interface{}) (string, error) {
		query, _ := args["query"].(string)
		if query == "" {
			return "", fmt.Errorf("no serial command given")
		}

		conn, err := serial.Open(port, &serial.Mode{BaudRate: baud})
		if err != nil {
			return "", fmt.Errorf("serial error on %s: %v", port, err)
		}
		defer conn.Close()

		// the board resets on connect; give the bootloader a moment
		time.Sleep(2 * time.Second)

		if _, err := conn.Write([]byte(query)); err != nil {
			return "", fmt.Errorf("serial write on %s: %v", port, err)
		}
		return fmt.Sprintf("Arduino Serial Communication Successful on %s", port), nil
	})
}
