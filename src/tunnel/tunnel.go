package tunnel

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/RSAKTHISABARISH/RubyAI/src/configs"
	"github.com/RSAKTHISABARISH/RubyAI/src/core/utils"
)

// urlWait bounds how long we watch tunnel output for the public URL
// before giving up. The tunnel itself keeps running either way.
const urlWait = 10 * time.Second

// Tunnel exposes the local web port through localtunnel or ngrok so the
// dashboard is reachable off-network. The tunnel process is optional
// infrastructure; failures are logged and never take the server down.
type Tunnel struct {
	config *configs.Config
	logger *utils.TaggedLogger

	mu        sync.Mutex
	cmd       *exec.Cmd
	publicURL string
}

func NewTunnel(config *configs.Config, logger *utils.Logger) *Tunnel {
	return &Tunnel{
		config: config,
		logger: logger.WithTag("tunnel"),
	}
}

// Start launches the configured tunnel command and watches its output
// for the public URL. A disabled tunnel is a no-op success.
func (t *Tunnel) Start(ctx context.Context) error {
	if !t.config.Tunnel.Enabled {
		return nil
	}

	port := t.config.Web.Port
	name, args := commandFor(t.config.Tunnel.Command, port)

	cmd := exec.CommandContext(ctx, name, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("tunnel stdout: %v", err)
	}
	cmd.Stderr = cmd.Stdout

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %v", name, err)
	}

	t.mu.Lock()
	t.cmd = cmd
	t.mu.Unlock()

	t.logger.FormatInfo("local access http://localhost:%d, wifi access http://%s:%d", port, LocalIP(), port)

	go t.watchOutput(stdout)
	go func() {
		if err := cmd.Wait(); err != nil && ctx.Err() == nil {
			t.logger.Warn(fmt.Sprintf("tunnel process exited: %v", err))
		}
	}()
	return nil
}

// watchOutput scans the tunnel's output for its URL announcement.
// localtunnel prints "your url is: https://...".
func (t *Tunnel) watchOutput(r io.Reader) {
	deadline := time.Now().Add(urlWait)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if url, ok := ParseTunnelURL(scanner.Text()); ok {
			t.mu.Lock()
			t.publicURL = url
			t.mu.Unlock()
			t.logger.FormatInfo("public url: %s", url)
			break
		}
		if time.Now().After(deadline) {
			t.logger.Warn("tunnel gave no public url yet, check its output manually")
			break
		}
	}
	// Drain so the child never blocks on a full pipe.
	io.Copy(io.Discard, r)
}

// ParseTunnelURL extracts the public URL from a tunnel output line.
func ParseTunnelURL(line string) (string, bool) {
	lower := strings.ToLower(line)
	idx := strings.Index(lower, "url is:")
	if idx < 0 {
		return "", false
	}
	url := strings.TrimSpace(line[idx+len("url is:"):])
	if url == "" {
		return "", false
	}
	return url, true
}

// PublicURL returns the tunnel URL once announced, empty before that.
func (t *Tunnel) PublicURL() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.publicURL
}

// Stop terminates the tunnel process if one is running.
func (t *Tunnel) Stop() error {
	t.mu.Lock()
	cmd := t.cmd
	t.cmd = nil
	t.mu.Unlock()

	if cmd == nil || cmd.Process == nil {
		return nil
	}
	return cmd.Process.Kill()
}

func commandFor(kind string, port int) (string, []string) {
	switch kind {
	case "ngrok":
		return "ngrok", []string{"http", strconv.Itoa(port)}
	default:
		return "lt", []string{"--port", strconv.Itoa(port)}
	}
}

// LocalIP finds the address a LAN client would reach us on. Falls back
// to loopback when there is no route out.
func LocalIP() string {
	conn, err := net.Dial("udp", "8.8.8.8:1")
	if err != nil {
		return "127.0.0.1"
	}
	defer conn.Close()
	if addr, ok := conn.LocalAddr().(*net.UDPAddr); ok {
		return addr.IP.String()
	}
	return "127.0.0.1"
}
