package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

type wsHub struct {
	mu    sync.Mutex
	roles map[string]map[*websocket.Conn]struct{}
}

func newWSHub() *wsHub {
	return &wsHub{
		roles: make(map[string]map[*websocket.Conn]struct{}),
	}
}

func (h *wsHub) Add(role string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	group := h.roles[role]
	if group == nil {
		group = make(map[*websocket.Conn]struct{})
		h.roles[role] = group
	}
	group[conn] = struct{}{}
}

func (h *wsHub) Remove(role string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	group := h.roles[role]
	if group == nil {
		return
	}
	delete(group, conn)
	_ = conn.Close()
	if len(group) == 0 {
		delete(h.roles, role)
	}
}

func (h *wsHub) Send(conn *websocket.Conn, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	_ = conn.WriteMessage(websocket.TextMessage, data)
}

func (h *wsHub) Broadcast(role string, payload any) {
	h.mu.Lock()
	group := h.roles[role]
	conns := make([]*websocket.Conn, 0, len(group))
	for conn := range group {
		conns = append(conns, conn)
	}
	h.mu.Unlock()

	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	for _, conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.Remove(role, conn)
		}
	}
}

func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	role := r.URL.Query().Get("role")
	switch role {
	case wsRoleControl, wsRoleDisplay, wsRoleAudience:
	default:
		role = wsRoleDisplay
	}
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	log.Printf("ws connected role=%s remote=%s", role, r.RemoteAddr)
	s.ws.Add(role, conn)
	s.ws.Send(conn, s.snapshotForRole(role))
	go s.readWS(role, conn)
}

func (s *Server) readWS(role string, conn *websocket.Conn) {
	defer s.ws.Remove(role, conn)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			log.Printf("ws disconnected role=%s error=%v", role, err)
			return
		}
	}
}

func (s *Server) broadcastShowUpdate() {
	if s.ws == nil {
		return
	}
	for _, role := range []string{wsRoleControl, wsRoleDisplay, wsRoleAudience} {
		s.ws.Broadcast(role, s.snapshotForRole(role))
	}
}

// broadcastAudienceReload tells audience clients to discard local state and
// refetch. It goes out when the voting window transitions closed to open,
// ahead of the snapshot that carries the open window.
func (s *Server) broadcastAudienceReload() {
	if s.ws == nil {
		return
	}
	s.ws.Broadcast(wsRoleAudience, map[string]any{"type": "reload"})
}
