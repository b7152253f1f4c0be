package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"aria/aria/agents/core"
	"aria/aria/config"
	"aria/aria/types"
	"aria/aria/utils/logging"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const toolTimeout = 10 * time.Second

// SessionController owns the live session channel: one websocket per call.
// The media gateway streams transcript events and tool invocations; the
// engine answers with tool results and mirrors the transcript back.
type SessionController struct {
	store      core.Store
	rates      config.RateTable
	summarizer core.Summarizer
	archive    core.TranscriptArchive
}

func NewSessionController(store core.Store, rates config.RateTable, summarizer core.Summarizer, archive core.TranscriptArchive) *SessionController {
	return &SessionController{
		store:      store,
		rates:      rates,
		summarizer: summarizer,
		archive:    archive,
	}
}

// wsBroadcaster mirrors transcript events to the connected front-end.
// Failures are dropped: observers are optional.
type wsBroadcaster struct {
	mu   sync.Mutex
	ctx  context.Context
	conn *websocket.Conn
}

func (b *wsBroadcaster) Broadcast(role, text string) {
	frame, err := json.Marshal(types.TranscriptBroadcast{Type: "transcript", Role: role, Text: text})
	if err != nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	_ = b.conn.Write(b.ctx, websocket.MessageText, frame)
}

func (c *SessionController) HandleSession(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
	if err != nil {
		return
	}
	defer conn.Close(websocket.StatusInternalError, "internal error")

	sessionID := "call-" + uuid.New().String()[:8]
	ctx := context.WithValue(r.Context(), logging.SessionIDKey, sessionID)

	session := core.NewSession(sessionID, c.store, c.rates)
	if c.summarizer != nil {
		session.AttachSummarizer(c.summarizer)
	}
	if c.archive != nil {
		session.AttachArchive(c.archive)
	}
	session.AttachBroadcaster(&wsBroadcaster{ctx: ctx, conn: conn})

	// Fixed greeting, spoken and recorded before the first caller turn.
	session.OnAgentText(core.Greeting)

	ended := false
	for {
		typ, data, err := conn.Read(ctx)
		if err != nil {
			break
		}
		if typ != websocket.MessageText {
			conn.Write(ctx, websocket.MessageText, []byte(`{"error":"unsupported data"}`))
			continue
		}

		var event types.SessionEvent
		if err := json.Unmarshal(data, &event); err != nil {
			conn.Write(ctx, websocket.MessageText, []byte(`{"error":"invalid json"}`))
			continue
		}

		switch event.Type {
		case "caller_text":
			session.OnCallerText(event.Text)
		case "agent_text":
			session.OnAgentText(event.Text)
		case "tool":
			result := c.invokeTool(ctx, session, event)
			if event.Tool == "end_conversation" && result.OK() {
				ended = true
			}
			frame, err := json.Marshal(result)
			if err != nil {
				logging.ErrorLogger.Error("tool result marshal error",
					zap.String("session_id", sessionID), zap.Error(err))
				continue
			}
			if err := conn.Write(ctx, websocket.MessageText, frame); err != nil {
				logging.ErrorLogger.Error("websocket write error",
					zap.String("session_id", sessionID), zap.Error(err))
				break
			}
		default:
			conn.Write(ctx, websocket.MessageText, []byte(`{"error":"unknown event type"}`))
		}
	}

	// Disconnect without a goodbye still produces the end-of-session record.
	// The request context is gone by now, so the teardown gets its own.
	if !ended {
		teardownCtx, cancel := context.WithTimeout(
			context.WithValue(context.Background(), logging.SessionIDKey, sessionID),
			toolTimeout,
		)
		session.EndConversation(teardownCtx, "auto")
		cancel()
	}

	conn.Close(websocket.StatusNormalClosure, "")
}

func (c *SessionController) invokeTool(ctx context.Context, session *core.Session, event types.SessionEvent) core.ToolResult {
	ctx, cancel := context.WithTimeout(ctx, toolTimeout)
	defer cancel()

	args := event.Args
	switch event.Tool {
	case "identify_user":
		return session.IdentifyUser(ctx, args.Phone, args.Name)
	case "fetch_slots":
		return session.FetchSlots(ctx, args.Date)
	case "book_appointment":
		return session.BookAppointment(ctx, args.Date, args.Time, args.Purpose)
	case "retrieve_appointments":
		return session.RetrieveAppointments(ctx, args.Status)
	case "cancel_appointment":
		return session.CancelAppointment(ctx, args.AppointmentID)
	case "modify_appointment":
		return session.ModifyAppointment(ctx, args.AppointmentID, args.NewDate, args.NewTime)
	case "capture_preference":
		return session.CapturePreference(ctx, args.Preference, args.Category)
	case "end_conversation":
		return session.EndConversation(ctx, args.Confirmation)
	default:
		return core.ToolResult{
			Tool:    event.Tool,
			Status:  core.StatusError,
			Message: "unknown tool",
			Kind:    core.ErrNotFound,
		}
	}
}
