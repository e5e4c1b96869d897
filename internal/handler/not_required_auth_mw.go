package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const TOKEN_COOKIE = "__Secure-Token"

// notRequiredAuthMiddleware resolves a bearer token or the token cookie into
// a delegated identity if one is present; anonymous requests pass through.
func (h *Handler) notRequiredAuthMiddleware(c *gin.Context) {
	token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	if token == "" {
		if cookie, err := c.Cookie(TOKEN_COOKIE); err == nil {
			token = cookie
		}
	}
	if token == "" {
		c.Next()
		return
	}

	profile, err := h.identity.ProfileByToken(c.Request.Context(), token)
	if err != nil {
		c.Next()
		return
	}

	c.Set("profile", *profile)
	c.Next()
}
