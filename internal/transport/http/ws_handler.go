package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"dsa-mentor-service/internal/app"
	"dsa-mentor-service/internal/domain"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// WSHandler runs one assessment attempt per websocket connection.
type WSHandler struct {
	service        *app.MentorService
	defaultLearner string
	upgrader       websocket.Upgrader
	log            zerolog.Logger
}

func NewWSHandler(service *app.MentorService, defaultLearner string, allowedOrigins []string, log zerolog.Logger) *WSHandler {
	return &WSHandler{
		service:        service,
		defaultLearner: defaultLearner,
		log:            log.With().Str("component", "ws").Logger(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type selectPayload struct {
	Index  int    `json:"index"`
	Letter string `json:"letter"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Code    ErrCode `json:"code"`
	Message string  `json:"message"`
}

// ServeWS upgrades the request, starts an attempt for ?topic= and serves select/submit
// messages until the client goes away. The attempt is discarded on disconnect.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	topic := strings.TrimSpace(r.URL.Query().Get("topic"))
	learnerID := strings.TrimSpace(r.URL.Query().Get("learner"))
	if learnerID == "" {
		learnerID = h.defaultLearner
	}
	if topic == "" {
		http.Error(w, "missing topic", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("ws upgrade failed")
		return
	}
	defer conn.Close()

	session, err := h.service.StartAssessment(r.Context(), learnerID, topic)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: toErrorPayload(err)})
		return
	}
	defer h.service.Discard(r.Context(), session.ID())

	send := make(chan outboundMessage[any], 16)
	writerDone := make(chan struct{})

	// single writer; gorilla connections do not support concurrent writes
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				h.log.Debug().Err(err).Str("session_id", session.ID()).Msg("ws write error")
				return
			}
		}
	}()

	send <- outboundMessage[any]{Type: "session", Payload: session.View()}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "select":
			var payload selectPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Code: ErrInvalidPayload, Message: "invalid select payload"}}
				continue
			}
			view, err := h.service.SelectAnswer(r.Context(), session.ID(), payload.Index, payload.Letter)
			if err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: toErrorPayload(err)}
				continue
			}
			send <- outboundMessage[any]{Type: "session", Payload: view}
		case "submit":
			view, err := h.service.Submit(r.Context(), session.ID())
			switch {
			case errors.Is(err, domain.ErrPersistenceFailure):
				send <- outboundMessage[any]{Type: "submitFailed", Payload: view}
			case err != nil:
				send <- outboundMessage[any]{Type: "error", Payload: toErrorPayload(err)}
			default:
				send <- outboundMessage[any]{Type: "submitted", Payload: view}
			}
		case "view":
			send <- outboundMessage[any]{Type: "session", Payload: session.View()}
		default:
			send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Code: ErrInvalidPayload, Message: "unsupported message type"}}
		}
	}

	close(send)
	<-writerDone
}

func toErrorPayload(err error) errorPayload {
	_, code := classify(err)
	message := err.Error()
	if code == ErrInternal {
		message = "internal server error"
	}
	return errorPayload{Code: code, Message: message}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		set[o] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}
