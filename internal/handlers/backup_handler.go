package handlers

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cnds86/kiptrack/internal/models"
	"github.com/cnds86/kiptrack/internal/services"
)

// maxBackupBytes caps backup uploads.
const maxBackupBytes = 50 << 20

// BackupHandler handles backup export and restore.
type BackupHandler struct {
	backupService services.BackupServicer
	now           func() time.Time
}

// NewBackupHandler creates a new BackupHandler.
func NewBackupHandler(backupService services.BackupServicer) *BackupHandler {
	return &BackupHandler{backupService: backupService, now: time.Now}
}

// Export handles downloading the backup file
// @Summary     Export a backup
// @Description Pretty-printed JSON of every collection except notifications.
// @Tags        backup
// @Produce     json
// @Security    ApiKeyAuth
// @Success     200 {file} file
// @Router      /backup [get]
func (h *BackupHandler) Export(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.backupService.Export(&buf); err != nil {
		respondWithError(c, err)
		return
	}

	filename := "kiptrack_backup_" + models.FormatDate(h.now()) + ".json"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/json", buf.Bytes())
}

// ExportCSV handles downloading transactions as CSV
// @Summary     Export transactions as CSV
// @Tags        backup
// @Produce     text/csv
// @Security    ApiKeyAuth
// @Success     200 {file} file
// @Router      /backup/transactions.csv [get]
func (h *BackupHandler) ExportCSV(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.backupService.ExportTransactionsCSV(&buf); err != nil {
		respondWithError(c, err)
		return
	}

	filename := "kiptrack_transactions_" + models.FormatDate(h.now()) + ".csv"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// Import handles restoring a backup. Collections present in the file replace
// the current ones; absent collections are kept.
// @Summary     Import a backup
// @Tags        backup
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
// @Success     200 {object} map[string][]string "Restored collections"
// @Failure     400 {object} ErrorResponse "Malformed backup"
// @Router      /backup [post]
func (h *BackupHandler) Import(c *gin.Context) {
	body := http.MaxBytesReader(c.Writer, c.Request.Body, maxBackupBytes)

	restored, err := h.backupService.Import(body)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"restored": restored})
}
