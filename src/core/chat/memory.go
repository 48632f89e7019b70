package chat

// MemoryInterface persists and recalls conversation history across
// sessions. A nil memory is valid: the dialogue then lives only in process
// memory for the session's lifetime.
type MemoryInterface interface {
	// QueryMemory returns recalled context relevant to the query, or "".
	QueryMemory(sessionID string, query string) (string, error)

	// SaveMemory persists the dialogue for the session.
	SaveMemory(sessionID string, dialogue []Message) error

	// ClearMemory drops everything stored for the session.
	ClearMemory(sessionID string) error
}
