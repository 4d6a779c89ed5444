package server

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prateekydv01/portfolio/internal/session"
)

const (
	sessionCookie = "portfolio_session"
	sessionKey    = "session_id"
)

func generateSalt() string {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		log.Fatal("Failed to generate hashing salt:", err)
	}
	return hex.EncodeToString(bytes)
}

// Hash IP address so logs never carry the raw address (consistent per IP
// for the lifetime of the process)
func (s *Server) hashIP(ip string) string {
	hash := sha256.New()
	hash.Write([]byte(ip + s.salt))
	return hex.EncodeToString(hash.Sum(nil))[:16]
}

// sessionMiddleware attaches the visitor's session id to the context, starting
// a new session when the cookie is missing or has expired.
func (s *Server) sessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		if id, err := c.Cookie(sessionCookie); err == nil && id != "" {
			_, err := s.store.Load(ctx, id)
			if err == nil {
				c.Set(sessionKey, id)
				c.Next()
				return
			}
			if !errors.Is(err, session.ErrNotFound) {
				log.Printf("Error loading session for %s: %v", s.hashIP(c.ClientIP()), err)
				c.AbortWithStatus(http.StatusInternalServerError)
				return
			}
		}

		id, _, err := s.store.Create(ctx)
		if err != nil {
			log.Printf("Error creating session for %s: %v", s.hashIP(c.ClientIP()), err)
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(sessionCookie, id, 0, "/", "", c.Request.TLS != nil, true)
		c.Set(sessionKey, id)
		c.Next()
	}
}
