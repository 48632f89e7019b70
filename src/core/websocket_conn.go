package core

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

var ErrConnectionClosed = errors.New("websocket connection is closed")

// websocketConn wraps a gorilla connection with serialized writes and an
// atomic closed flag, so event listeners on different goroutines can
// write safely.
type websocketConn struct {
	conn       *websocket.Conn
	writeMu    sync.Mutex
	closed     int32
	lastActive int64
}

func (w *websocketConn) ReadMessage() (messageType int, p []byte, err error) {
	if atomic.LoadInt32(&w.closed) == 1 {
		return 0, nil, ErrConnectionClosed
	}

	w.conn.SetReadDeadline(time.Now().Add(5 * time.Minute))

	messageType, p, err = w.conn.ReadMessage()
	if err != nil {
		atomic.StoreInt32(&w.closed, 1)
		return 0, nil, err
	}

	atomic.StoreInt64(&w.lastActive, time.Now().Unix())
	return messageType, p, nil
}

func (w *websocketConn) WriteMessage(messageType int, data []byte) error {
	if atomic.LoadInt32(&w.closed) == 1 {
		return ErrConnectionClosed
	}

	w.writeMu.Lock()
	defer w.writeMu.Unlock()

	if atomic.LoadInt32(&w.closed) == 1 {
		return ErrConnectionClosed
	}

	w.conn.SetWriteDeadline(time.Now().Add(30 * time.Second))
	if err := w.conn.WriteMessage(messageType, data); err != nil {
		atomic.StoreInt32(&w.closed, 1)
		return err
	}

	atomic.StoreInt64(&w.lastActive, time.Now().Unix())
	return nil
}

func (w *websocketConn) Close() error {
	if !atomic.CompareAndSwapInt32(&w.closed, 0, 1) {
		return nil
	}

	w.writeMu.Lock()
	defer w.writeMu.Unlock()

	closeMsg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "connection closed")
	w.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	w.conn.WriteMessage(websocket.CloseMessage, closeMsg)

	return w.conn.Close()
}

func (w *websocketConn) IsClosed() bool {
	return atomic.LoadInt32(&w.closed) == 1
}
