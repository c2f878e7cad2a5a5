package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"hackathon-backend/errs"
	"hackathon-backend/service"
)

const adminKey = "admin"

func (h *Handler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	s, err := h.auth.Login(&req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *Handler) requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		username, err := h.verifyAdmin(c)
		if err != nil {
			fail(c, err)
			return
		}

		c.Set(adminKey, username)
		c.Next()
	}
}

// verifyAdmin accepts a bearer token, or a token query parameter for clients
// that cannot set headers, such as browser websockets and plain links.
func (h *Handler) verifyAdmin(c *gin.Context) (string, error) {
	token := c.Query("token")
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return "", errs.ErrUnauthorized
		}
		token = strings.TrimSpace(parts[1])
	}
	return h.auth.Verify(token)
}
