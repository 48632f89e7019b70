package chat

import (
	"encoding/json"
	"sync"

	"github.com/RSAKTHISABARISH/RubyAI/src/core/types"
	"github.com/RSAKTHISABARISH/RubyAI/src/core/utils"
)

type Message = types.Message

// DialogueManager holds the append-only conversation history of one
// session. Index 0 is always the single system message; resets replace the
// whole sequence.
type DialogueManager struct {
	mu       sync.RWMutex
	logger   *utils.Logger
	dialogue []Message
	memory   MemoryInterface
}

// NewDialogueManager creates an empty dialogue with optional memory.
func NewDialogueManager(logger *utils.Logger, memory MemoryInterface) *DialogueManager {
	return &DialogueManager{
		logger:   logger,
		dialogue: make([]Message, 0),
		memory:   memory,
	}
}

// SetSystemMessage installs or replaces the system message at index 0.
func (dm *DialogueManager) SetSystemMessage(prompt string) {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	msg := Message{Role: types.RoleSystem, Content: prompt}
	if len(dm.dialogue) > 0 && dm.dialogue[0].Role == types.RoleSystem {
		dm.dialogue[0] = msg
		return
	}
	dm.dialogue = append([]Message{msg}, dm.dialogue...)
}

// Put appends a message to the dialogue.
func (dm *DialogueManager) Put(message Message) {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	dm.dialogue = append(dm.dialogue, message)
}

// GetLLMDialogue returns a copy of the full history.
func (dm *DialogueManager) GetLLMDialogue() []Message {
	dm.mu.RLock()
	defer dm.mu.RUnlock()

	out := make([]Message, len(dm.dialogue))
	copy(out, dm.dialogue)
	return out
}

// GetLLMDialogueWithMemory prepends recalled memory as an extra system
// message without mutating the stored history.
func (dm *DialogueManager) GetLLMDialogueWithMemory(memoryStr string) []Message {
	if memoryStr == "" {
		return dm.GetLLMDialogue()
	}

	dm.mu.RLock()
	defer dm.mu.RUnlock()

	memoryMsg := Message{
		Role:    types.RoleSystem,
		Content: memoryStr,
	}

	dialogue := make([]Message, 0, len(dm.dialogue)+1)
	dialogue = append(dialogue, memoryMsg)
	dialogue = append(dialogue, dm.dialogue...)

	return dialogue
}

// Len returns the number of stored messages.
func (dm *DialogueManager) Len() int {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	return len(dm.dialogue)
}

// Clear resets the history to the system message alone. The sequence is
// replaced as a whole, never partially truncated.
func (dm *DialogueManager) Clear() {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	var system *Message
	if len(dm.dialogue) > 0 && dm.dialogue[0].Role == types.RoleSystem {
		s := dm.dialogue[0]
		system = &s
	}

	dm.dialogue = make([]Message, 0)
	if system != nil {
		dm.dialogue = append(dm.dialogue, *system)
	}
}

// Save flushes the dialogue to the configured memory store, if any.
func (dm *DialogueManager) Save(sessionID string) error {
	if dm.memory == nil {
		return nil
	}
	return dm.memory.SaveMemory(sessionID, dm.GetLLMDialogue())
}

// ToJSON serializes the history.
func (dm *DialogueManager) ToJSON() (string, error) {
	dm.mu.RLock()
	defer dm.mu.RUnlock()

	bytes, err := json.Marshal(dm.dialogue)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// LoadFromJSON replaces the history with a previously serialized one.
func (dm *DialogueManager) LoadFromJSON(jsonStr string) error {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	return json.Unmarshal([]byte(jsonStr), &dm.dialogue)
}
