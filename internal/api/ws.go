package api

import (
	"context"
	"drone-dispatch-service/internal/services"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// DefaultBroadcastPeriod paces the tracking feed's tick loop.
const DefaultBroadcastPeriod = 250 * time.Millisecond

// Feed drives the simulation clock and pushes position updates to WebSocket
// subscribers. It is also the point where simulator status changes reach the
// order lifecycle.
type Feed struct {
	sim    *services.Simulator
	orders *services.OrderService
	period time.Duration
	logger *log.Logger

	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]bool
}

func NewFeed(sim *services.Simulator, orders *services.OrderService, period time.Duration, logger *log.Logger) *Feed {
	if period <= 0 {
		period = DefaultBroadcastPeriod
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Feed{
		sim:    sim,
		orders: orders,
		period: period,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		clients: make(map[*websocket.Conn]bool),
	}
}

// Run ticks the simulator until the context is cancelled. Every update is
// bridged onto the order store and broadcast to subscribers.
func (f *Feed) Run(ctx context.Context) {
	ticker := time.NewTicker(f.period)
	defer ticker.Stop()

	f.logger.Printf("feed: running period=%s", f.period)
	for {
		select {
		case <-ctx.Done():
			f.closeAll()
			f.logger.Printf("feed: stopped")
			return
		case <-ticker.C:
			for _, u := range f.sim.Tick() {
				f.orders.HandleStatusChange(ctx, u)
				f.broadcast(u)
			}
		}
	}
}

// Handle upgrades a subscriber connection. GET /ws/tracking.
func (f *Feed) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := f.upgrader.Upgrade(w, r, nil)
	if err != nil {
		f.logger.Printf("feed: upgrade failed err=%v", err)
		return
	}

	f.mu.Lock()
	f.clients[conn] = true
	n := len(f.clients)
	f.mu.Unlock()
	f.logger.Printf("feed: subscriber connected clients=%d", n)

	// Subscribers never send payloads; the read loop just notices the close.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				f.drop(conn)
				return
			}
		}
	}()
}

func (f *Feed) broadcast(u services.PositionUpdate) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for conn := range f.clients {
		if err := conn.WriteJSON(u); err != nil {
			conn.Close()
			delete(f.clients, conn)
		}
	}
}

func (f *Feed) drop(conn *websocket.Conn) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.clients[conn] {
		conn.Close()
		delete(f.clients, conn)
	}
}

func (f *Feed) closeAll() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for conn := range f.clients {
		conn.Close()
		delete(f.clients, conn)
	}
}
