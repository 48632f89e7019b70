package core

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/RSAKTHISABARISH/RubyAI/src/configs"
	"github.com/RSAKTHISABARISH/RubyAI/src/core/brain"
	"github.com/RSAKTHISABARISH/RubyAI/src/core/chat"
	"github.com/RSAKTHISABARISH/RubyAI/src/core/classifier"
	"github.com/RSAKTHISABARISH/RubyAI/src/core/function/tools"
	"github.com/RSAKTHISABARISH/RubyAI/src/core/providers"
	"github.com/RSAKTHISABARISH/RubyAI/src/core/types"
	"github.com/RSAKTHISABARISH/RubyAI/src/core/utils"

	"github.com/google/uuid"
)

// Replies hardwired ahead of the brain so they cannot drift with the
// model in use.
var identityOverrides = []struct {
	phrases []string
	reply   string
}{
	{
		phrases: []string{"who created you", "who developed you", "who is your creator", "who made you"},
		reply:   "I was developed by MR. DR. SIVA PRAKASH.",
	},
	{
		phrases: []string{"who is the hod of aiml", "head of aiml", "hod of ai and ml"},
		reply:   "The HOD of AIML is MR. DR. SIVA PRAKASH.",
	},
}

const farewellText = "Goodbye! Shutting down now."

// silenceCutoff is the silence ratio above which recorded audio is
// treated as nothing said. silenceThreshold is the per-sample amplitude
// below which a sample counts as silent.
const (
	silenceCutoff          = 0.97
	silenceThreshold int16 = 320
)

// Session orchestrates one conversation: audio in, transcript, brain,
// speech out. A session runs one turn at a time; concurrent turn requests
// queue on the turn lock.
type Session struct {
	config    *configs.Config
	logger    *utils.TaggedLogger
	sessionID string

	asr    providers.ASRProvider
	tts    providers.TTSProvider
	brains *brain.Chain
	intent *classifier.Classifier

	dialogue *chat.DialogueManager

	turnMu    sync.Mutex
	talkRound int

	stateMu sync.RWMutex
	state   types.ActivityState

	langMu   sync.Mutex
	language string

	listenerMu sync.RWMutex
	listeners  []types.EventListener

	closeOnce      sync.Once
	closeAfterChat bool
}

// SessionOptions carries the collaborators a session needs.
type SessionOptions struct {
	Config    *configs.Config
	Logger    *utils.Logger
	ASR       providers.ASRProvider
	TTS       providers.TTSProvider
	Brains    *brain.Chain
	Intent    *classifier.Classifier
	Memory    chat.MemoryInterface
	SessionID string
}

// NewSession builds a session in the Idle state with the persona prompt
// installed.
func NewSession(opts SessionOptions) *Session {
	sessionID := opts.SessionID
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	dialogue := chat.NewDialogueManager(opts.Logger, opts.Memory)
	dialogue.SetSystemMessage(opts.Config.DefaultPrompt)

	s := &Session{
		config:    opts.Config,
		logger:    opts.Logger.WithTag("session"),
		sessionID: sessionID,
		asr:       opts.ASR,
		tts:       opts.TTS,
		brains:    opts.Brains,
		intent:    opts.Intent,
		dialogue:  dialogue,
		state:     types.StateIdle,
		language:  opts.Config.DefaultLanguage,
	}
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.sessionID
}

// State returns the current activity state.
func (s *Session) State() types.ActivityState {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.state
}

// CloseRequested reports whether an exit phrase ended the conversation.
func (s *Session) CloseRequested() bool {
	s.turnMu.Lock()
	defer s.turnMu.Unlock()
	return s.closeAfterChat
}

// AddListener subscribes to turn-lifecycle events.
func (s *Session) AddListener(listener types.EventListener) {
	s.listenerMu.Lock()
	s.listeners = append(s.listeners, listener)
	s.listenerMu.Unlock()
}

func (s *Session) emit(ev types.Event) {
	s.listenerMu.RLock()
	listeners := s.listeners
	s.listenerMu.RUnlock()
	for _, l := range listeners {
		l.OnEvent(ev)
	}
}

func (s *Session) setState(state types.ActivityState) {
	s.stateMu.Lock()
	s.state = state
	s.stateMu.Unlock()
	s.emit(types.Event{Kind: types.EventStateChanged, State: state})
}

// RespondToAudio transcribes an utterance and answers it. Empty or silent
// audio yields an empty transcript and no brain call.
func (s *Session) RespondToAudio(ctx context.Context, pcm []byte) (transcript, reply string, err error) {
	s.setState(types.StateListening)

	if len(pcm) == 0 || utils.SilenceRatio(pcm, silenceThreshold) >= silenceCutoff {
		s.setState(types.StateIdle)
		return "", "", nil
	}

	transcript, err = s.asr.Transcribe(ctx, pcm)
	if err != nil {
		// Error holds until the next input starts a new turn.
		s.setState(types.StateError)
		return "", "", fmt.Errorf("transcribe: %v", err)
	}
	if strings.TrimSpace(transcript) == "" {
		s.setState(types.StateIdle)
		return "", "", nil
	}

	s.emit(types.Event{Kind: types.EventTranscriptReady, Sender: "User", Text: transcript})

	reply, err = s.RespondToText(ctx, transcript)
	return transcript, reply, err
}

// RespondToText runs one full turn for a typed or transcribed input.
func (s *Session) RespondToText(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		s.setState(types.StateIdle)
		return "", nil
	}

	s.turnMu.Lock()
	defer s.turnMu.Unlock()

	s.talkRound++
	round := s.talkRound
	turnStart := time.Now()
	s.emit(types.Event{Kind: types.EventTurnStarted, Sender: "User", Text: text})

	if utils.ContainsAny(text, s.config.CMDExit) {
		s.closeAfterChat = true
		s.finishTurn(ctx, text, farewellText)
		return farewellText, nil
	}

	if reply, ok := s.identityReply(text); ok {
		s.finishTurn(ctx, text, reply)
		return reply, nil
	}

	s.setState(types.StateThinking)

	if s.intent != nil {
		intent := s.intent.Classify(ctx, text)
		if intent != classifier.UnknownIntent {
			s.logger.Debug(fmt.Sprintf("intent %q for round %d", intent, round))
		}
	}

	s.dialogue.Put(chat.Message{Role: types.RoleUser, Content: text})

	// Tool calls made during this turn must act on this session, not on
	// whichever one the shared registry was wired with.
	turnCtx := tools.WithLanguageController(ctx, s)

	reply, source, err := s.brains.Invoke(turnCtx, s.sessionID, s.dialogue.GetLLMDialogue())
	if err != nil {
		s.setState(types.StateError)
		return "", fmt.Errorf("brain chain: %v", err)
	}

	reply = strings.TrimSpace(utils.RemoveMarkdownSyntax(reply))
	s.dialogue.Put(chat.Message{Role: types.RoleAssistant, Content: reply})
	if err := s.dialogue.Save(s.sessionID); err != nil {
		s.logger.Warn(fmt.Sprintf("save dialogue: %v", err))
	}

	s.logger.FormatInfo("round %d answered by %s in %s", round, source, time.Since(turnStart).Round(time.Millisecond))
	s.emit(types.Event{Kind: types.EventResponseReady, Sender: "Ruby", Text: reply})

	s.speak(ctx, reply)
	s.setState(types.StateIdle)
	return reply, nil
}

// finishTurn records a turn answered without the brain and speaks it.
func (s *Session) finishTurn(ctx context.Context, input, reply string) {
	s.dialogue.Put(chat.Message{Role: types.RoleUser, Content: input})
	s.dialogue.Put(chat.Message{Role: types.RoleAssistant, Content: reply})
	if err := s.dialogue.Save(s.sessionID); err != nil {
		s.logger.Warn(fmt.Sprintf("save dialogue: %v", err))
	}
	s.emit(types.Event{Kind: types.EventResponseReady, Sender: "Ruby", Text: reply})
	s.speak(ctx, reply)
	s.setState(types.StateIdle)
}

func (s *Session) identityReply(text string) (string, bool) {
	for _, override := range identityOverrides {
		if utils.ContainsAny(text, override.phrases) {
			return override.reply, true
		}
	}
	return "", false
}

// speak synthesizes the reply and hands the audio to listeners. Synthesis
// failures end the turn silently; the textual reply already went out.
func (s *Session) speak(ctx context.Context, text string) {
	if s.tts == nil || text == "" {
		return
	}

	s.setState(types.StateSpeaking)
	audio, err := s.tts.Synthesize(ctx, text)
	if err != nil {
		s.logger.Warn(fmt.Sprintf("synthesize: %v", err))
		return
	}
	s.emit(types.Event{Kind: types.EventAudioReady, Sender: "Ruby", Text: text, Audio: audio})
}

// Announce speaks a server-initiated message, such as a due reminder,
// outside any user turn.
func (s *Session) Announce(text string) {
	s.turnMu.Lock()
	defer s.turnMu.Unlock()

	s.emit(types.Event{Kind: types.EventResponseReady, Sender: "Ruby", Text: text})
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	s.speak(ctx, text)
	s.setState(types.StateIdle)
}

// SupportedLanguages lists the configured voice profiles.
func (s *Session) SupportedLanguages() []string {
	langs := make([]string, 0, len(s.config.Voices))
	for tag := range s.config.Voices {
		langs = append(langs, tag)
	}
	sort.Strings(langs)
	return langs
}

// SwitchLanguage changes recognition and synthesis language together.
// Switching to the active language is a no-op success.
func (s *Session) SwitchLanguage(tag string) error {
	profile, ok := s.config.Voices[tag]
	if !ok {
		return fmt.Errorf("language %s is not configured", tag)
	}

	s.langMu.Lock()
	defer s.langMu.Unlock()

	if s.language == tag {
		return nil
	}

	if err := s.asr.SetLanguage(tag); err != nil {
		return fmt.Errorf("switch recognition language: %v", err)
	}
	if err := s.tts.SetVoice(profile.Voice, profile.Rate); err != nil {
		return fmt.Errorf("switch voice: %v", err)
	}

	s.language = tag
	s.logger.FormatInfo("language switched to %s (%s)", tag, profile.Voice)
	return nil
}

// Language returns the active language tag.
func (s *Session) Language() string {
	s.langMu.Lock()
	defer s.langMu.Unlock()
	return s.language
}

// Reset clears the dialogue back to the persona prompt.
func (s *Session) Reset() {
	s.turnMu.Lock()
	defer s.turnMu.Unlock()
	s.dialogue.Clear()
	s.setState(types.StateIdle)
}

// Close releases the adapters. Safe to call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		if s.asr != nil {
			s.asr.Cleanup()
		}
		if s.tts != nil {
			s.tts.Cleanup()
		}
		s.logger.FormatInfo("session %s closed after %d rounds", s.sessionID, s.talkRound)
	})
}
