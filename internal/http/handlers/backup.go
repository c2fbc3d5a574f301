package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"fleetfin/internal/services"
	"fleetfin/internal/utils"
)

// maxImportBytes bounds the request body of an import.
const maxImportBytes = 64 << 20

// GET /api/v1/backup/export?gzip=true
func ExportBackup(c *gin.Context) {
	compress := c.Query("gzip") == "true"
	var buf bytes.Buffer
	if _, err := (services.BackupService{}).Export(c.Request.Context(), &buf, compress); err != nil {
		RespondDomainError(c, err)
		return
	}
	name := fmt.Sprintf("fleetfin-backup-%s.json", strings.ReplaceAll(utils.Today(), "-", ""))
	ctype := "application/json"
	if compress {
		name += ".gz"
		ctype = "application/gzip"
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	c.Data(http.StatusOK, ctype, buf.Bytes())
}

// POST /api/v1/backup/import with the backup document (plain or gzip) as body.
func ImportBackup(c *gin.Context) {
	body := http.MaxBytesReader(c.Writer, c.Request.Body, maxImportBytes)
	counts, err := services.BackupService{}.Import(c.Request.Context(), actor(c), body)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	ok(c, gin.H{"imported": counts})
}
