package types

// EventKind identifies a turn-lifecycle event emitted by the orchestrator.
type EventKind string

const (
	EventTurnStarted     EventKind = "turn_started"
	EventStateChanged    EventKind = "state_change"
	EventTranscriptReady EventKind = "transcript_ready"
	EventResponseReady   EventKind = "response_ready"
	EventAudioReady      EventKind = "audio_ready"
)

// Event is a typed notification from the orchestrator. Listeners (console,
// websocket transport) subscribe instead of wrapping orchestrator methods.
type Event struct {
	Kind   EventKind
	State  ActivityState // set for EventStateChanged
	Sender string        // "User" or "Ruby" for transcript/response events
	Text   string
	Audio  []byte // MP3 bytes for EventAudioReady
}

// EventListener receives orchestrator events. Implementations must not
// block; slow consumers should buffer on their side.
type EventListener interface {
	OnEvent(ev Event)
}

// EventFunc adapts a function to the EventListener interface.
type EventFunc func(ev Event)

func (f EventFunc) OnEvent(ev Event) { f(ev) }
