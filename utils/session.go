package utils

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	RoleOwner = "owner"
	RoleStaff = "staff"
)

// Session is the per-request identity. It is built by the auth middleware
// and dropped when the request ends; nothing is kept in package state.
type Session struct {
	UserID   string `json:"user_id"`
	Role     string `json:"role"`
	Language string `json:"language"`
	Token    string `json:"-"`
}

func (s Session) IsOwner() bool { return s.Role == RoleOwner }

type sessionKey struct{}

const ginSessionKey = "session"

func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

func SessionFromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(Session)
	return s, ok
}

// SetSession stores the session on both the gin context and the request context.
func SetSession(c *gin.Context, s Session) {
	c.Set(ginSessionKey, s)
	c.Set("user_id", s.UserID)
	c.Set("role", s.Role)
	c.Request = c.Request.WithContext(WithSession(c.Request.Context(), s))
}

func GetSession(c *gin.Context) (Session, bool) {
	if v, ok := c.Get(ginSessionKey); ok {
		if s, ok := v.(Session); ok {
			return s, true
		}
	}
	return SessionFromContext(c.Request.Context())
}

// RequestLanguage negotiates en, fr or ar from ?lang, the lang cookie or
// Accept-Language. Anything else falls back to en.
func RequestLanguage(c *gin.Context) string {
	if lang := normalizeLanguage(c.Query("lang")); lang != "" {
		return lang
	}
	if cookie, err := c.Cookie("lang"); err == nil {
		if lang := normalizeLanguage(cookie); lang != "" {
			return lang
		}
	}
	for _, part := range strings.Split(c.GetHeader("Accept-Language"), ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if lang := normalizeLanguage(tag); lang != "" {
			return lang
		}
	}
	return LangEnglish
}

func normalizeLanguage(raw string) string {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if len(raw) > 2 {
		raw = raw[:2]
	}
	switch raw {
	case LangEnglish, LangFrench, LangArabic:
		return raw
	}
	return ""
}
