package core

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"testing"

	"github.com/gorilla/websocket"
)

// scriptedConn replays queued inbound frames and records what the
// handler writes back.
type scriptedConn struct {
	mu      sync.Mutex
	inbound []struct {
		messageType int
		data        []byte
	}
	written []serverMessage
	binary  int
	closed  bool
}

func (c *scriptedConn) queueText(t *testing.T, msg clientMessage) {
	t.Helper()
	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	c.inbound = append(c.inbound, struct {
		messageType int
		data        []byte
	}{websocket.TextMessage, data})
}

func (c *scriptedConn) queueBinary(data []byte) {
	c.inbound = append(c.inbound, struct {
		messageType int
		data        []byte
	}{websocket.BinaryMessage, data})
}

func (c *scriptedConn) ReadMessage() (int, []byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.inbound) == 0 {
		return 0, nil, io.EOF
	}
	frame := c.inbound[0]
	c.inbound = c.inbound[1:]
	return frame.messageType, frame.data, nil
}

func (c *scriptedConn) WriteMessage(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if messageType == websocket.BinaryMessage {
		c.binary++
		return nil
	}
	var msg serverMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return err
	}
	c.written = append(c.written, msg)
	return nil
}

func (c *scriptedConn) Close() error {
	c.closed = true
	return nil
}

func (c *scriptedConn) messagesOfType(kind string) []serverMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []serverMessage
	for _, msg := range c.written {
		if msg.Type == kind {
			out = append(out, msg)
		}
	}
	return out
}

func TestConnHandlerChatTurn(t *testing.T) {
	session, _, _, _ := newTestSession(t, &cannedBrain{reply: "Hello there."})
	conn := &scriptedConn{}
	conn.queueText(t, clientMessage{Type: "chat", Text: "hi"})

	handler := newConnHandler(conn, session, session.logger.Logger)
	handler.run(context.Background())

	if got := conn.messagesOfType("hello"); len(got) != 1 {
		t.Fatalf("hello messages = %d, want 1", len(got))
	}
	replies := conn.messagesOfType("reply")
	if len(replies) != 1 || replies[0].Text != "Hello there." {
		t.Fatalf("replies = %+v", replies)
	}
	if states := conn.messagesOfType("state"); len(states) == 0 {
		t.Error("no state messages forwarded")
	}
}

func TestConnHandlerExitPhraseEndsLoop(t *testing.T) {
	brain := &cannedBrain{reply: "should not be used"}
	session, _, _, _ := newTestSession(t, brain)
	conn := &scriptedConn{}
	conn.queueText(t, clientMessage{Type: "chat", Text: "goodbye ruby"})
	// A frame after the exit phrase must never be consumed.
	conn.queueText(t, clientMessage{Type: "chat", Text: "still there?"})

	handler := newConnHandler(conn, session, session.logger.Logger)
	handler.run(context.Background())

	if brain.calls != 0 {
		t.Errorf("brain calls = %d, want 0", brain.calls)
	}
	if !session.CloseRequested() {
		t.Error("session should request close after exit phrase")
	}
	if len(conn.inbound) != 1 {
		t.Errorf("frames left unread = %d, want 1", len(conn.inbound))
	}
}

func TestConnHandlerBinaryFrameRunsAudioTurn(t *testing.T) {
	session, asr, _, _ := newTestSession(t, &cannedBrain{reply: "Heard you."})
	asr.transcript = "hello ruby"

	// Loud square wave so the silence gate lets the utterance through.
	pcm := make([]byte, 3200)
	for i := 0; i < len(pcm); i += 2 {
		pcm[i+1] = 0x40
	}
	conn := &scriptedConn{}
	conn.queueBinary(pcm)

	handler := newConnHandler(conn, session, session.logger.Logger)
	handler.run(context.Background())

	transcripts := conn.messagesOfType("transcript")
	if len(transcripts) != 1 || transcripts[0].Text != "hello ruby" {
		t.Fatalf("transcripts = %+v", transcripts)
	}
	if replies := conn.messagesOfType("reply"); len(replies) != 1 {
		t.Errorf("replies = %+v", replies)
	}
}

func TestConnHandlerRejectsUnknownType(t *testing.T) {
	session, _, _, _ := newTestSession(t, &cannedBrain{reply: "x"})
	conn := &scriptedConn{}
	conn.queueText(t, clientMessage{Type: "dance"})

	handler := newConnHandler(conn, session, session.logger.Logger)
	handler.run(context.Background())

	if errs := conn.messagesOfType("error"); len(errs) != 1 {
		t.Errorf("error messages = %+v", errs)
	}
}
