package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"alcyxob/workout-tracker/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// BackupHandler exposes export, remote upload/download and restore.
type BackupHandler struct {
	backups service.BackupService
	prefs   service.PreferenceService
	log     logrus.FieldLogger
}

func NewBackupHandler(backups service.BackupService, prefs service.PreferenceService, log logrus.FieldLogger) *BackupHandler {
	return &BackupHandler{backups: backups, prefs: prefs, log: log}
}

// BackupRequest names the remote backup. Document is only read by upload and restore;
// upload exports the current store when it is omitted.
type BackupRequest struct {
	Identifier string          `json:"identifier"` // Defaults to the stored remote identifier
	Document   json.RawMessage `json:"document"`
}

type DownloadResponse struct {
	Identifier string          `json:"identifier"`
	Document   json.RawMessage `json:"document"`
}

func (h *BackupHandler) bind(c *gin.Context) (BackupRequest, bool) {
	var req BackupRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
			return req, false
		}
	}
	if strings.TrimSpace(req.Identifier) == "" {
		req.Identifier = h.prefs.Get().RemoteIdentifier
	}
	return req, true
}

// Export returns the backup document of the whole store.
func (h *BackupHandler) Export(c *gin.Context) {
	doc, err := h.backups.Export(c.Request.Context())
	if err != nil {
		abortWithServiceError(c, h.log, err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(doc))
}

func (h *BackupHandler) Upload(c *gin.Context) {
	req, ok := h.bind(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	doc := string(req.Document)
	if len(req.Document) == 0 {
		exported, err := h.backups.Export(ctx)
		if err != nil {
			abortWithServiceError(c, h.log, err)
			return
		}
		doc = exported
	}

	if err := h.backups.Upload(ctx, doc, req.Identifier); err != nil {
		abortWithServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"identifier": strings.TrimSpace(req.Identifier)})
}

func (h *BackupHandler) Download(c *gin.Context) {
	req, ok := h.bind(c)
	if !ok {
		return
	}
	doc, err := h.backups.Download(c.Request.Context(), req.Identifier)
	if err != nil {
		abortWithServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, DownloadResponse{Identifier: strings.TrimSpace(req.Identifier), Document: json.RawMessage(doc)})
}

// Restore replaces the whole store with the document in the body.
func (h *BackupHandler) Restore(c *gin.Context) {
	var req BackupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	if len(req.Document) == 0 {
		abortWithError(c, http.StatusBadRequest, "document is required")
		return
	}
	if err := h.backups.Restore(c.Request.Context(), string(req.Document)); err != nil {
		abortWithServiceError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Pull downloads a remote backup and restores it.
func (h *BackupHandler) Pull(c *gin.Context) {
	req, ok := h.bind(c)
	if !ok {
		return
	}
	if err := h.backups.Pull(c.Request.Context(), req.Identifier); err != nil {
		abortWithServiceError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
