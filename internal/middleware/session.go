package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// SessionHeader carries the opaque reader-session id. The server
	// mints one when the client does not send it and echoes it back.
	SessionHeader = "X-Session-ID"

	// UserHeader carries the opaque identity set by the external
	// identity collaborator. Absent for anonymous readers.
	UserHeader = "X-User-ID"

	// SessionIDKey is the gin context key for the resolved session id.
	SessionIDKey = "session_id"

	// UserIDKey is the gin context key for the optional user id.
	UserIDKey = "user_id"
)

// ReaderSession resolves the reader-session id and optional user id
// from request headers and stores them in the gin context.
func ReaderSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader(SessionHeader)
		if sessionID == "" {
			sessionID = uuid.NewString()
		}
		c.Header(SessionHeader, sessionID)
		c.Set(SessionIDKey, sessionID)

		if userID := c.GetHeader(UserHeader); userID != "" {
			c.Set(UserIDKey, userID)
		}

		c.Next()
	}
}

// SessionID returns the resolved session id for the request.
func SessionID(c *gin.Context) string {
	return c.GetString(SessionIDKey)
}

// UserID returns the optional user id, nil for anonymous readers.
func UserID(c *gin.Context) *string {
	if v := c.GetString(UserIDKey); v != "" {
		return &v
	}
	return nil
}
