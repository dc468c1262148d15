package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/chakri0176/genAI-chatbot-with-sqldb/ai"
	"github.com/chakri0176/genAI-chatbot-with-sqldb/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait        = 10 * time.Second
	sendBuffer       = 64
	maxEventContent  = 2000
	progressTruncMsg = "... (truncated)"
)

// progressClient is one websocket subscriber. Only its writer goroutine
// writes to conn.
type progressClient struct {
	conn *websocket.Conn
	send chan []byte
}

func (pc *progressClient) writePump(onFail func()) {
	defer pc.conn.Close()
	for data := range pc.send {
		pc.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := pc.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			onFail()
			return
		}
	}
	pc.conn.SetWriteDeadline(time.Now().Add(writeWait))
	pc.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// ProgressHub fans agent progress out to the websocket clients of each session.
type ProgressHub struct {
	clients  map[string]map[*progressClient]bool
	mu       sync.Mutex
	upgrader websocket.Upgrader
}

func NewProgressHub() *ProgressHub {
	return &ProgressHub{
		clients: make(map[string]map[*progressClient]bool),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // CORS is handled by the router middleware
			},
		},
	}
}

func (p *ProgressHub) subscribe(sessionID string, conn *websocket.Conn) *progressClient {
	pc := &progressClient{conn: conn, send: make(chan []byte, sendBuffer)}
	p.add(sessionID, pc)
	go pc.writePump(func() { p.unsubscribe(sessionID, pc) })
	return pc
}

func (p *ProgressHub) add(sessionID string, pc *progressClient) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.clients[sessionID] == nil {
		p.clients[sessionID] = make(map[*progressClient]bool)
	}
	p.clients[sessionID][pc] = true
}

func (p *ProgressHub) unsubscribe(sessionID string, pc *progressClient) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.removeLocked(sessionID, pc)
}

// removeLocked closes the client's send channel; its writer then closes the connection.
func (p *ProgressHub) removeLocked(sessionID string, pc *progressClient) {
	clients, ok := p.clients[sessionID]
	if !ok || !clients[pc] {
		return
	}
	delete(clients, pc)
	close(pc.send)
	if len(clients) == 0 {
		delete(p.clients, sessionID)
	}
}

// Subscribers returns the number of open connections for a session.
func (p *ProgressHub) Subscribers(sessionID string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.clients[sessionID])
}

// Publish queues event for every client of the session without blocking.
// Clients whose queue is full are dropped.
func (p *ProgressHub) Publish(sessionID string, event models.ProgressEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("Error encoding progress event: %v", err)
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	for pc := range p.clients[sessionID] {
		select {
		case pc.send <- data:
		default:
			log.Printf("Dropping slow progress client for session %s", sessionID)
			p.removeLocked(sessionID, pc)
		}
	}
}

// Close disconnects every client.
func (p *ProgressHub) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for sessionID, clients := range p.clients {
		for pc := range clients {
			p.removeLocked(sessionID, pc)
		}
	}
}

// Observer returns an ai.Observer that publishes to the session's clients.
func (p *ProgressHub) Observer(sessionID string) ai.Observer {
	return sessionObserver{hub: p, sessionID: sessionID}
}

type sessionObserver struct {
	hub       *ProgressHub
	sessionID string
}

func (o sessionObserver) OnThought(_ context.Context, text string) {
	o.hub.Publish(o.sessionID, models.ProgressEvent{Type: "thought", Content: text})
}

func (o sessionObserver) OnToolStart(_ context.Context, tool, input string) {
	o.hub.Publish(o.sessionID, models.ProgressEvent{Type: "tool_start", Tool: tool, Content: clip(input)})
}

func (o sessionObserver) OnToolEnd(_ context.Context, tool, output string, err error) {
	event := models.ProgressEvent{Type: "tool_end", Tool: tool, Content: clip(output)}
	if err != nil {
		event.Error = err.Error()
	}
	o.hub.Publish(o.sessionID, event)
}

func (o sessionObserver) OnAnswer(_ context.Context, answer string) {
	o.hub.Publish(o.sessionID, models.ProgressEvent{Type: "answer", Content: answer})
}

func clip(s string) string {
	return ai.Truncate(s, maxEventContent, progressTruncMsg)
}

// ProgressWebSocketHandler streams agent progress for a session
// @Summary      Agent progress stream
// @Description  Upgrade to a websocket that receives thought, tool_start, tool_end and answer events while the session's questions are answered
// @Tags         Chat
// @Param        id   path  string  true  "Session ID"
// @Success      101
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/sessions/{id}/ws [get]
func (h *Handlers) ProgressWebSocketHandler(c *gin.Context) {
	sess, ok := h.loadSession(c)
	if !ok {
		return
	}

	conn, err := h.progress.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Websocket upgrade failed for session %s: %v", sess.ID, err)
		return
	}
	pc := h.progress.subscribe(sess.ID, conn)

	// Read loop only detects the client going away.
	go func() {
		defer h.progress.unsubscribe(sess.ID, pc)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
