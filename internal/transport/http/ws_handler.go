package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"curriculum-editor/internal/app"
	"curriculum-editor/internal/curriculum"
	"curriculum-editor/internal/domain"
	"curriculum-editor/internal/logger"
)

type WSHandler struct {
	service  *app.EditorService
	log      logger.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.EditorService, log logger.Logger) *WSHandler {
	if log == nil {
		log = logger.Nop{}
	}
	return &WSHandler{
		service: service,
		log:     log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Register mounts the websocket and the catalog endpoints on mux.
func (h *WSHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/ws", h.ServeWS)
	mux.HandleFunc("/bank/modules", h.serveBankModules)
	mux.HandleFunc("/bank/activities", h.serveBankActivities)
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// commandPayload is the union of every inbound command's fields.
type commandPayload struct {
	Path         curriculum.Path     `json:"path"`
	Field        string              `json:"field"`
	Value        string              `json:"value"`
	To           int                 `json:"to"`
	QuestionType domain.QuestionType `json:"questionType"`
	Module       int                 `json:"module"`
	BankID       string              `json:"bankId"`
	Name         string              `json:"name"`
	Data         []byte              `json:"data"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

type refreshedPayload struct {
	Updated int `json:"updated"`
}

// ServeWS opens an editor session for ?courseId= (blank course when absent) and streams its updates.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	courseID := r.URL.Query().Get("courseId")

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", err)
		return
	}
	defer conn.Close()

	ctx, stopPending := context.WithCancel(r.Context())
	defer stopPending()
	opened, err := h.service.Open(ctx, courseID)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	sessionID := opened.SessionID

	updates, cancel, err := h.service.Subscribe(ctx, sessionID)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	defer cancel()
	defer func() {
		// the request context is gone once the client disconnects
		if err := h.service.Close(context.Background(), sessionID); err != nil {
			h.log.Warn("close editor session", err, map[string]interface{}{"session": sessionID})
		}
	}()

	var pending sync.WaitGroup
	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				h.log.Warn("ws write error", err)
				return
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		for {
			select {
			case update, ok := <-updates:
				if !ok {
					return
				}
				select {
				case send <- outboundUpdate(update):
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		var cmd commandPayload
		if len(inbound.Payload) > 0 {
			if err := json.Unmarshal(inbound.Payload, &cmd); err != nil {
				send <- errorMessage("invalid " + inbound.Type + " payload")
				continue
			}
		}
		if !remoteCommands[inbound.Type] {
			if msg, ok := h.dispatch(ctx, sessionID, inbound.Type, cmd); ok {
				send <- msg
			}
			continue
		}
		// remote calls run beside the read loop so edits keep flowing while they wait
		pending.Add(1)
		go func(kind string, cmd commandPayload) {
			defer pending.Done()
			if msg, ok := h.dispatch(ctx, sessionID, kind, cmd); ok {
				select {
				case send <- msg:
				case <-closeSignals:
				}
			}
		}(inbound.Type, cmd)
	}

	stopPending()
	close(closeSignals)
	pending.Wait()
	<-updatesDone
	close(send)
	<-writerDone
}

// remoteCommands wait on the backend, the catalog or a video provider.
var remoteCommands = map[string]bool{
	"importModule":     true,
	"importActivity":   true,
	"refreshDuration":  true,
	"refreshDurations": true,
	"upload":           true,
	"save":             true,
}

// dispatch runs one command. State changes reach the client through the subscription,
// so only errors and command-specific results are returned here.
func (h *WSHandler) dispatch(ctx context.Context, sessionID, kind string, cmd commandPayload) (outboundMessage[any], bool) {
	var err error
	switch kind {
	case "set":
		_, err = h.service.SetField(ctx, sessionID, cmd.Path, cmd.Field, cmd.Value)
	case "add":
		_, err = h.service.Add(ctx, sessionID, cmd.Path, cmd.QuestionType)
	case "remove":
		_, err = h.service.Remove(ctx, sessionID, cmd.Path)
	case "move":
		_, err = h.service.Move(ctx, sessionID, cmd.Path, cmd.To)
	case "drag":
		_, err = h.service.BeginDrag(ctx, sessionID, cmd.Path)
	case "drop":
		_, err = h.service.Drop(ctx, sessionID, cmd.Path)
	case "cancelDrag":
		_, err = h.service.CancelDrag(ctx, sessionID)
	case "setCorrect":
		_, err = h.service.SetCorrect(ctx, sessionID, cmd.Path)
	case "toggle":
		_, err = h.service.Toggle(ctx, sessionID, cmd.Path)
	case "collapseAll":
		_, err = h.service.CollapseAll(ctx, sessionID)
	case "expandAll":
		_, err = h.service.ExpandAll(ctx, sessionID)
	case "importModule":
		_, err = h.service.ImportModule(ctx, sessionID, cmd.BankID)
	case "importActivity":
		_, err = h.service.ImportActivity(ctx, sessionID, cmd.Module, cmd.BankID)
	case "refreshDuration":
		_, err = h.service.RefreshVideoDuration(ctx, sessionID, cmd.Path)
	case "refreshDurations":
		var n int
		n, err = h.service.RefreshVideoDurations(ctx, sessionID)
		if err == nil {
			return outboundMessage[any]{Type: "refreshed", Payload: refreshedPayload{Updated: n}}, true
		}
	case "upload":
		_, err = h.service.Upload(ctx, sessionID, cmd.Path, cmd.Name, bytes.NewReader(cmd.Data))
	case "save":
		_, err = h.service.Save(ctx, sessionID)
	default:
		return errorMessage("unsupported message type"), true
	}
	if err == nil || surfaced(err) {
		return outboundMessage[any]{}, false
	}
	return errorMessage(err.Error()), true
}

// surfaced reports whether the session already turned err into a notification or field errors.
func surfaced(err error) bool {
	return !errors.Is(err, domain.ErrSessionNotFound) && !errors.Is(err, domain.ErrNotConfigured)
}

func outboundUpdate(u app.Update) outboundMessage[any] {
	switch u.Kind {
	case app.UpdateNotification:
		return outboundMessage[any]{Type: string(u.Kind), Payload: u.Notification}
	case app.UpdateFieldErrors:
		return outboundMessage[any]{Type: string(u.Kind), Payload: u.Fields}
	default:
		return outboundMessage[any]{Type: string(u.Kind), Payload: u.View}
	}
}

func errorMessage(msg string) outboundMessage[any] {
	return outboundMessage[any]{Type: "error", Payload: errorPayload{Message: msg}}
}

func (h *WSHandler) serveBankModules(w http.ResponseWriter, r *http.Request) {
	modules, err := h.service.BankModules(r.Context())
	writeJSON(w, h.log, modules, err)
}

func (h *WSHandler) serveBankActivities(w http.ResponseWriter, r *http.Request) {
	activities, err := h.service.BankActivities(r.Context())
	writeJSON(w, h.log, activities, err)
}

func writeJSON(w http.ResponseWriter, log logger.Logger, v interface{}, err error) {
	w.Header().Set("Content-Type", "application/json")
	if err != nil {
		log.Error("catalog request", err)
		w.WriteHeader(http.StatusBadGateway)
		_ = json.NewEncoder(w).Encode(errorPayload{Message: err.Error()})
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}
