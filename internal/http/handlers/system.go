package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	intconfig "fleetfin/internal/config"
	intdb "fleetfin/internal/db"
)

var (
	routerMu sync.RWMutex
	router   *gin.Engine
)

// SetRouter stores the active gin engine for later inspection (e.g., /api/v1/routes).
func SetRouter(r *gin.Engine) {
	routerMu.Lock()
	defer routerMu.Unlock()
	router = r
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// DBCheck pings the database and reports the applied migrations.
func DBCheck(c *gin.Context) {
	if intconfig.DB == nil {
		respondError(c, http.StatusServiceUnavailable, "internal_error", "database not connected")
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()
	if err := intconfig.EnsureDB(ctx); err != nil {
		respondError(c, http.StatusServiceUnavailable, "internal_error", "database ping failed: "+err.Error())
		return
	}
	versions, err := intdb.AppliedVersions(ctx, intconfig.DB)
	if err != nil {
		respondError(c, http.StatusServiceUnavailable, "internal_error", "read migrations: "+err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "driver": intconfig.Dialect(), "migrations": versions})
}

func Routes(c *gin.Context) {
	routerMu.RLock()
	r := router
	routerMu.RUnlock()
	if r == nil {
		respondError(c, http.StatusServiceUnavailable, "internal_error", "router not ready")
		return
	}

	routes := r.Routes()
	out := make([]gin.H, 0, len(routes))
	for _, rt := range routes {
		out = append(out, gin.H{"method": rt.Method, "path": rt.Path})
	}
	c.JSON(http.StatusOK, gin.H{"routes": out})
}
