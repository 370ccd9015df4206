// handlers/ws.go - Exam countdown stream
package handlers

import (
	"fmt"
	"os"
	"time"

	"pharmprep/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/golang-jwt/jwt/v5"
)

// WebSocketUpgrade rejects non-websocket requests before the upgrade.
func WebSocketUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// wsUserID authenticates the connection from a token query parameter,
// since browsers cannot set headers on websocket requests.
func wsUserID(conn *websocket.Conn) (uint, error) {
	tokenString := conn.Query("token")
	if tokenString == "" {
		return 0, fmt.Errorf("missing token")
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		return 0, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, fmt.Errorf("invalid claims")
	}
	id, ok := claims["user_id"].(float64)
	if !ok {
		return 0, fmt.Errorf("invalid user_id claim")
	}
	return uint(id), nil
}

type examTick struct {
	SessionID        string `json:"session_id"`
	RemainingSeconds int    `json:"remaining_seconds"`
	Answered         int    `json:"answered"`
	Total            int    `json:"total"`
	Submitted        bool   `json:"submitted"`
}

// ExamClock streams the remaining time of an exam session once a second.
// The countdown is derived from the server deadline each tick, so a
// dropped and reopened connection shows the true remaining time.
func ExamClock(conn *websocket.Conn) {
	defer conn.Close()

	userID, err := wsUserID(conn)
	if err != nil {
		conn.WriteJSON(fiber.Map{"error": err.Error()})
		return
	}

	sessionID := conn.Params("id")
	es := services.GetExamService()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for range ticker.C {
		session, err := es.GetSession(sessionID, userID)
		if err != nil {
			conn.WriteJSON(fiber.Map{"error": err.Error()})
			return
		}

		remaining, answered, total, submitted := session.Progress(time.Now())
		tick := examTick{
			SessionID:        session.ID,
			RemainingSeconds: remaining,
			Answered:         answered,
			Total:            total,
			Submitted:        submitted,
		}
		if err := conn.WriteJSON(tick); err != nil {
			return
		}
		if tick.Submitted || tick.RemainingSeconds == 0 {
			return
		}
	}
}
