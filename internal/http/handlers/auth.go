package handlers

import (
	"sync"

	"github.com/gin-gonic/gin"

	"fleetfin/internal/auth"
	"fleetfin/internal/services"
)

var (
	tokensMu sync.RWMutex
	tokens   *auth.Tokens
)

// SetTokens installs the token issuer used by login.
func SetTokens(t *auth.Tokens) {
	tokensMu.Lock()
	defer tokensMu.Unlock()
	tokens = t
}

func userService() services.UserService {
	tokensMu.RLock()
	defer tokensMu.RUnlock()
	return services.UserService{Tokens: tokens}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// POST /api/v1/auth/login
func Login(c *gin.Context) {
	var req loginRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	res, err := userService().Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	ok(c, res)
}

// GET /api/v1/auth/me
func Me(c *gin.Context) {
	u, err := userService().Me(c.Request.Context(), actor(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	ok(c, u)
}
