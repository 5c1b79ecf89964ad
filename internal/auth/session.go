package auth

import "github.com/gin-gonic/gin"

const (
	RoleStudent = "student"
	RoleStaff   = "staff"
	RoleAdmin   = "admin"
)

const sessionKey = "arena.session"

// Session identifies the authenticated caller of a request. Services receive
// it as an explicit argument; there is no package-level current user.
type Session struct {
	UserID int    `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

func (s Session) IsAdmin() bool {
	return s.Role == RoleAdmin
}

// CanActOn reports whether the session may manage a resource owned by ownerID.
func (s Session) CanActOn(ownerID int) bool {
	return s.IsAdmin() || s.UserID == ownerID
}

func ValidRole(role string) bool {
	switch role {
	case RoleStudent, RoleStaff, RoleAdmin:
		return true
	}
	return false
}

func SetSession(c *gin.Context, s Session) {
	c.Set(sessionKey, s)
}

// SessionFrom returns the session stored by AuthMiddleware.
func SessionFrom(c *gin.Context) (Session, bool) {
	v, exists := c.Get(sessionKey)
	if !exists {
		return Session{}, false
	}
	s, ok := v.(Session)
	return s, ok
}
