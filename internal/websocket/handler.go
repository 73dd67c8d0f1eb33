package websocket

import (
	"net/http"

	ws "github.com/coder/websocket"
)

// Handler upgrades the request and streams changes until the peer leaves.
// Any origin is accepted; the service has no authentication to protect.
func Handler(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := ws.Accept(w, r, &ws.AcceptOptions{InsecureSkipVerify: true})
		if err != nil {
			hub.logger.Warn("accept", "remote", r.RemoteAddr, "error", err)
			return
		}
		NewClient(hub, conn).Run(r.Context())
	}
}
