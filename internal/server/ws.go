package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/anyquestionsgame/kingofhearts/pkg/http/ws"
)

// WSUpgrader handles WebSocket upgrades. The game runs on a living-room LAN;
// origin checking stays permissive.
var WSUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// NewWSHandler upgrades connections and subscribes clients to session event
// streams via the hub.
func NewWSHandler(hub *ws.Hub, logger zerolog.Logger) http.HandlerFunc {
	logger = logger.With().Str("component", "session_ws").Logger()

	return func(w http.ResponseWriter, r *http.Request) {
		raw, err := WSUpgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Warn().Err(err).Msg("websocket upgrade failed")
			return
		}

		clientID := uuid.New()
		conn := ws.NewConnection(raw, logger)
		hub.Register(clientID, conn)

		go conn.WritePump()
		go func() {
			defer hub.Unregister(clientID)
			conn.ReadPump(func(msg ws.Message) error {
				switch msg.Type {
				case ws.TypeJoinSession:
					var payload ws.JoinSessionPayload
					if err := json.Unmarshal(msg.Payload, &payload); err != nil {
						return err
					}
					hub.JoinSession(payload.SessionID, clientID)
					return nil
				case ws.TypePing:
					return conn.Send(ws.Message{Type: ws.TypePong})
				default:
					logger.Debug().Str("type", msg.Type).Msg("ignoring unknown message type")
					return nil
				}
			})
		}()
	}
}
