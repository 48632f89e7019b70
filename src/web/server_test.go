package web

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/RSAKTHISABARISH/RubyAI/src/configs"
	"github.com/RSAKTHISABARISH/RubyAI/src/core"
	"github.com/RSAKTHISABARISH/RubyAI/src/core/brain"
	"github.com/RSAKTHISABARISH/RubyAI/src/core/types"
	"github.com/RSAKTHISABARISH/RubyAI/src/core/utils"

	"github.com/gin-gonic/gin"
)

type stubASR struct{ language string }

func (s *stubASR) Initialize() error { return nil }
func (s *stubASR) Cleanup() error    { return nil }
func (s *stubASR) Transcribe(ctx context.Context, audio []byte) (string, error) {
	return "turn on the lights", nil
}
func (s *stubASR) SetLanguage(tag string) error {
	s.language = tag
	return nil
}

type stubTTS struct{ voice string }

func (s *stubTTS) Initialize() error { return nil }
func (s *stubTTS) Cleanup() error    { return nil }
func (s *stubTTS) Synthesize(ctx context.Context, text string) ([]byte, error) {
	return []byte("mp3"), nil
}
func (s *stubTTS) SetVoice(voice, rate string) error {
	s.voice = voice
	return nil
}

type echoBrain struct{}

func (echoBrain) Name() string { return "echo" }
func (echoBrain) Converse(ctx context.Context, sessionID string, messages []types.Message) (string, error) {
	last := messages[len(messages)-1]
	return "You said: " + last.Content, nil
}

func newTestService(t *testing.T, authEnabled bool) (*Service, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &configs.Config{}
	cfg.Log.LogDir = t.TempDir()
	cfg.Log.LogFile = "test.log"
	cfg.Log.LogLevel = "info"
	cfg.DefaultPrompt = "You are Ruby."
	cfg.DefaultLanguage = "en-IN"
	cfg.Voices = map[string]configs.VoiceProfile{
		"en-IN": {Voice: "en-IN-NeerjaNeural", Rate: "+0%"},
		"ta-IN": {Voice: "ta-IN-PallaviNeural", Rate: "+0%"},
	}
	cfg.CMDExit = []string{"goodbye ruby"}
	cfg.Server.Auth.Enabled = authEnabled
	cfg.Server.Auth.Secret = "test-secret"

	logger, err := utils.NewLogger(cfg)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	t.Cleanup(func() { logger.Close() })

	session := core.NewSession(core.SessionOptions{
		Config: cfg,
		Logger: logger,
		ASR:    &stubASR{},
		TTS:    &stubTTS{},
		Brains: brain.NewChain(logger, echoBrain{}),
	})

	service := NewService(cfg, logger, session, nil)
	engine := gin.New()
	if err := service.Start(context.Background(), engine, engine.Group("/api")); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return service, engine
}

func postJSON(t *testing.T, engine *gin.Engine, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var got map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return got
}

func TestChatRoundTrip(t *testing.T) {
	_, engine := newTestService(t, false)

	rec := postJSON(t, engine, "/api/chat", map[string]string{"text": "hello"}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	got := decodeBody(t, rec)
	if got["reply"] != "You said: hello" {
		t.Errorf("reply = %q", got["reply"])
	}
	if got["state"] != "Idle" {
		t.Errorf("state = %q, want Idle", got["state"])
	}
}

func TestChatRequiresText(t *testing.T) {
	_, engine := newTestService(t, false)

	rec := postJSON(t, engine, "/api/chat", map[string]string{}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestAudioTurn(t *testing.T) {
	_, engine := newTestService(t, false)

	// Loud square wave so the silence gate does not swallow the turn.
	pcm := make([]byte, 3200)
	for i := 0; i < len(pcm); i += 2 {
		pcm[i] = 0x00
		pcm[i+1] = 0x40
	}
	req := httptest.NewRequest(http.MethodPost, "/api/audio", bytes.NewReader(pcm))
	req.Header.Set("Content-Type", "application/octet-stream")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	got := decodeBody(t, rec)
	if got["transcript"] != "turn on the lights" {
		t.Errorf("transcript = %q", got["transcript"])
	}
	if got["reply"] != "You said: turn on the lights" {
		t.Errorf("reply = %q", got["reply"])
	}
}

func TestStateAndLanguages(t *testing.T) {
	_, engine := newTestService(t, false)

	req := httptest.NewRequest(http.MethodGet, "/api/state", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("state status = %d", rec.Code)
	}
	if got := decodeBody(t, rec); got["language"] != "en-IN" {
		t.Errorf("language = %q, want en-IN", got["language"])
	}

	rec = postJSON(t, engine, "/api/language", map[string]string{"language": "ta-IN"}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("switch status = %d: %s", rec.Code, rec.Body.String())
	}
	if got := decodeBody(t, rec); got["language"] != "ta-IN" {
		t.Errorf("language after switch = %q", got["language"])
	}

	rec = postJSON(t, engine, "/api/language", map[string]string{"language": "fr-FR"}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown language status = %d, want 400", rec.Code)
	}
}

func TestAuthGuardsRoutes(t *testing.T) {
	_, engine := newTestService(t, true)

	rec := postJSON(t, engine, "/api/chat", map[string]string{"text": "hello"}, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated status = %d, want 401", rec.Code)
	}

	rec = postJSON(t, engine, "/api/token", map[string]string{"client_id": "browser-1"}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("token status = %d: %s", rec.Code, rec.Body.String())
	}
	token, _ := decodeBody(t, rec)["token"].(string)
	if token == "" {
		t.Fatal("empty token issued")
	}

	rec = postJSON(t, engine, "/api/chat", map[string]string{"text": "hello"},
		map[string]string{"Authorization": "Bearer " + token})
	if rec.Code != http.StatusOK {
		t.Fatalf("authenticated status = %d: %s", rec.Code, rec.Body.String())
	}
}

func TestDocumentsDisabled(t *testing.T) {
	_, engine := newTestService(t, false)

	req := httptest.NewRequest(http.MethodPost, "/api/documents", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
