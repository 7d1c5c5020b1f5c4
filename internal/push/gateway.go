package push

import (
	"log"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/fisker/zhr-backend/pkg/metrics"
)

// session 单个推送连接，写锁保证同一连接上的并发写串行化
type session struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *session) writeJSON(payload interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteJSON(payload)
}

// Gateway 管理活跃的通知推送会话
// 一个用户可以有多个连接（多端登录），推送按用户广播到全部连接
type Gateway struct {
	mu       sync.RWMutex
	sessions map[string]map[*websocket.Conn]*session // userID -> 连接集合
}

// NewGateway 创建推送网关
func NewGateway() *Gateway {
	return &Gateway{
		sessions: make(map[string]map[*websocket.Conn]*session),
	}
}

// AddConnection 登记一个用户连接
func (g *Gateway) AddConnection(userID string, conn *websocket.Conn) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.sessions[userID] == nil {
		g.sessions[userID] = make(map[*websocket.Conn]*session)
	}
	g.sessions[userID][conn] = &session{conn: conn}
	metrics.LivePushSessions.Inc()
	log.Printf("[PushGateway] Connection added for user %s", userID)
}

// RemoveConnection 移除一个用户连接
func (g *Gateway) RemoveConnection(userID string, conn *websocket.Conn) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if set, ok := g.sessions[userID]; ok {
		if _, exists := set[conn]; exists {
			delete(set, conn)
			metrics.LivePushSessions.Dec()
		}
		if len(set) == 0 {
			delete(g.sessions, userID)
		}
	}
	log.Printf("[PushGateway] Connection removed for user %s", userID)
}

// EmitToUser 向某用户的全部在线连接推送一条消息
// 尽力而为：写失败的连接直接关闭并移除，落库的通知仍可被拉取
func (g *Gateway) EmitToUser(userID string, payload interface{}) {
	g.mu.RLock()
	set := g.sessions[userID]
	targets := make([]*session, 0, len(set))
	for _, s := range set {
		targets = append(targets, s)
	}
	g.mu.RUnlock()

	for _, s := range targets {
		if err := s.writeJSON(payload); err != nil {
			log.Printf("[PushGateway] Write failed for user %s, dropping connection: %v", userID, err)
			s.conn.Close()
			g.RemoveConnection(userID, s.conn)
		}
	}
}

// ActiveUserCount 当前在线用户数
func (g *Gateway) ActiveUserCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.sessions)
}

// ActiveConnectionCount 当前在线连接数
func (g *Gateway) ActiveConnectionCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	count := 0
	for _, set := range g.sessions {
		count += len(set)
	}
	return count
}
