package http

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/abhisek/lexicon/internal/store"
)

type outboundMessage struct {
	Type    string  `json:"type"`
	Payload []Entry `json:"payload"`
}

// watch upgrades to a websocket and pushes the ranked top-n on connect and
// after every leaderboard change. Clients only need to read.
func (s *Server) watch(c *gin.Context) {
	n, ok := topN(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid n"})
		return
	}

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("serve: ws upgrade: %v", err)
		return
	}
	defer conn.Close()

	ctx := c.Request.Context()

	// Latest snapshot wins; a slow client skips intermediate boards.
	updates := make(chan []store.LeaderboardEntry, 1)
	stop, err := s.board.Watch(ctx, n, func(entries []store.LeaderboardEntry) {
		for {
			select {
			case updates <- entries:
				return
			default:
			}
			select {
			case <-updates:
			default:
			}
		}
	})
	if err != nil {
		log.Printf("serve: ws watch: %v", err)
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "leaderboard unavailable"),
			time.Now().Add(writeWait))
		return
	}
	defer stop()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		select {
		case entries := <-updates:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(outboundMessage{Type: "leaderboard", Payload: toEntries(entries)}); err != nil {
				log.Printf("serve: ws write: %v", err)
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		case <-closed:
			return
		case <-ctx.Done():
			return
		}
	}
}
