package websocket

import (
	"context"
	"errors"
	"time"

	"tabnote-be/internal/auth"
	"tabnote-be/internal/dto"
	"tabnote-be/internal/editor"
	"tabnote-be/internal/pkg/logger"
	"tabnote-be/internal/service"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const (
	frameSnapshot = "snapshot"
	frameError    = "error"
	frameClosed   = "closed"
)

// EditorHandler runs one editor session per websocket connection: the
// client streams keystrokes and tab commands, the server answers with
// state snapshots.
type EditorHandler struct {
	notebooks  service.INotebookService
	tabs       service.ITabService
	notes      service.INoteService
	sessions   service.ISessionService
	users      service.IUserService
	subscriber message.Subscriber
	toucher    editor.Toucher
	hub        *Hub
	log        logger.ILogger
	debounce   time.Duration
}

func NewEditorHandler(
	notebooks service.INotebookService,
	tabs service.ITabService,
	notes service.INoteService,
	sessions service.ISessionService,
	users service.IUserService,
	subscriber message.Subscriber,
	toucher editor.Toucher,
	hub *Hub,
	log logger.ILogger,
	debounce time.Duration,
) *EditorHandler {
	return &EditorHandler{
		notebooks:  notebooks,
		tabs:       tabs,
		notes:      notes,
		sessions:   sessions,
		users:      users,
		subscriber: subscriber,
		toucher:    toucher,
		hub:        hub,
		log:        log,
		debounce:   debounce,
	}
}

// Handle owns the connection until the peer disconnects, the notebook is
// deleted, or the session signs out elsewhere.
func (h *EditorHandler) Handle(conn *websocket.Conn) {
	defer conn.Close()

	userIdStr, _ := conn.Locals("user_id").(string)
	sessionId, _ := conn.Locals("session_id").(string)
	userId, err := uuid.Parse(userIdStr)
	if err != nil {
		writeFrame(conn, dto.EditorServerFrame{Type: frameClosed, Message: "unauthorized"})
		return
	}

	notebookId, err := uuid.Parse(conn.Params("notebookId"))
	if err != nil {
		writeFrame(conn, dto.EditorServerFrame{Type: frameError, Message: "invalid notebook id"})
		return
	}

	mirror, err := auth.NewMirror(sessionId, h.sessions, h.users, h.subscriber, h.log)
	if err != nil {
		writeFrame(conn, dto.EditorServerFrame{Type: frameError, Message: "failed to start session"})
		return
	}
	defer mirror.Close()

	if _, ok := mirror.CurrentUser(); !ok {
		writeFrame(conn, dto.EditorServerFrame{Type: frameClosed, Message: "session expired"})
		return
	}

	ctx := context.Background()
	store := service.NewEditorStore(userId, h.notebooks, h.tabs, h.notes)
	session := editor.NewSession(store, h.toucher, h.log, h.debounce)
	defer session.Close()

	if err := session.Load(ctx, notebookId); err != nil {
		writeFrame(conn, dto.EditorServerFrame{Type: frameError, Message: err.Error()})
		return
	}
	writeFrame(conn, dto.EditorServerFrame{Type: frameSnapshot, Snapshot: session.Snapshot()})

	for {
		var event dto.EditorClientEvent
		if err := conn.ReadJSON(&event); err != nil {
			// Disconnect: pending keystrokes still flush.
			if flushErr := session.Flush(ctx); flushErr != nil {
				h.log.Warn("editor", "flush on disconnect failed", map[string]interface{}{
					"notebook_id": notebookId,
					"error":       flushErr.Error(),
				})
			}
			return
		}

		if _, ok := mirror.CurrentUser(); !ok {
			writeFrame(conn, dto.EditorServerFrame{Type: frameClosed, Message: "signed out"})
			return
		}

		closed := h.dispatch(ctx, conn, session, userId, &event)
		if closed {
			return
		}
	}
}

// dispatch applies one client event. It reports true when the connection
// should close.
func (h *EditorHandler) dispatch(ctx context.Context, conn *websocket.Conn, session *editor.Session, userId uuid.UUID, event *dto.EditorClientEvent) bool {
	var err error
	touched := false

	switch event.Type {
	case dto.EditorEventContentChange:
		err = session.SetContent(event.Content)

	case dto.EditorEventSwitchTab:
		err = session.SwitchTab(ctx, event.TabId)

	case dto.EditorEventAddTab:
		_, err = session.AddTab(ctx, event.Title)
		touched = err == nil

	case dto.EditorEventRenameTab:
		err = session.RenameTab(ctx, event.TabId, event.Title)
		touched = err == nil

	case dto.EditorEventDeleteTab:
		err = session.DeleteTab(ctx, event.TabId)
		touched = err == nil

	case dto.EditorEventRenameNotebook:
		err = session.RenameNotebook(ctx, event.Title)
		touched = err == nil

	case dto.EditorEventDeleteNotebook:
		if err = session.DeleteNotebook(ctx); err == nil {
			h.hub.Send(userId, "notebook_deleted", map[string]interface{}{"notebook_id": conn.Params("notebookId")})
			writeFrame(conn, dto.EditorServerFrame{Type: frameClosed, Message: "notebook deleted"})
			return true
		}

	case dto.EditorEventFlush:
		err = session.Flush(ctx)

	default:
		err = errors.New("unknown event type")
	}

	if err != nil {
		writeFrame(conn, dto.EditorServerFrame{Type: frameError, Message: err.Error()})
		if !recoverable(err) {
			return true
		}
		return false
	}

	if touched {
		// Other devices refresh their notebook list off this.
		h.hub.Send(userId, "notebook_touched", map[string]interface{}{"notebook_id": conn.Params("notebookId")})
	}

	writeFrame(conn, dto.EditorServerFrame{Type: frameSnapshot, Snapshot: session.Snapshot()})
	return false
}

// recoverable errors keep the connection alive; the client sees an error
// frame and the last good snapshot still stands.
func recoverable(err error) bool {
	return errors.Is(err, editor.ErrLastTab) ||
		errors.Is(err, editor.ErrTabNotFound) ||
		errors.Is(err, service.ErrEmptyTitle)
}

func writeFrame(conn *websocket.Conn, frame dto.EditorServerFrame) {
	if err := conn.WriteJSON(frame); err != nil {
		conn.Close()
	}
}
