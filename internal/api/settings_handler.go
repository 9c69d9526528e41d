package api

import (
	"net/http"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/service"
	"alcyxob/workout-tracker/internal/units"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// SettingsHandler serves preferences, remote backend configuration and the app lock.
type SettingsHandler struct {
	prefs  service.PreferenceService
	remote *service.RemoteManager
	lock   service.LockService
	log    logrus.FieldLogger
}

func NewSettingsHandler(prefs service.PreferenceService, remote *service.RemoteManager, lock service.LockService, log logrus.FieldLogger) *SettingsHandler {
	return &SettingsHandler{prefs: prefs, remote: remote, lock: lock, log: log}
}

type SettingsResponse struct {
	WeightUnit       units.WeightUnit     `json:"weightUnit"`
	ThemeMode        domain.ThemeMode     `json:"themeMode"`
	HighlightColor   string               `json:"highlightColor"`
	RemoteIdentifier string               `json:"remoteIdentifier"`
	RemoteBackend    domain.RemoteBackend `json:"remoteBackend,omitempty"` // Never the credentials themselves
	RemoteConnected  bool                 `json:"remoteConnected"`
	Unsynced         bool                 `json:"hasUnsyncedChanges"`
	Locked           bool                 `json:"passcodeEnabled"`
}

// UpdateSettingsRequest changes only the fields present.
type UpdateSettingsRequest struct {
	WeightUnit       *string `json:"weightUnit"`
	ThemeMode        *string `json:"themeMode"`
	HighlightColor   *string `json:"highlightColor"`
	RemoteIdentifier *string `json:"remoteIdentifier"`
}

type PasscodeRequest struct {
	Current  string `json:"current"`
	Passcode string `json:"passcode"` // Empty removes the lock
}

func (h *SettingsHandler) response() SettingsResponse {
	p := h.prefs.Get()
	resp := SettingsResponse{
		WeightUnit:       p.WeightUnit,
		ThemeMode:        p.ThemeMode,
		HighlightColor:   p.HighlightColor,
		RemoteIdentifier: p.RemoteIdentifier,
		RemoteConnected:  h.remote.Configured(),
		Unsynced:         p.Dirty,
		Locked:           h.lock.Enabled(),
	}
	if p.Remote != nil {
		resp.RemoteBackend = p.Remote.Backend
	}
	return resp
}

func (h *SettingsHandler) GetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, h.response())
}

func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	ctx := c.Request.Context()

	if req.WeightUnit != nil {
		unit, err := units.ParseUnit(*req.WeightUnit)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		if err := h.prefs.SetWeightUnit(ctx, unit); err != nil {
			abortWithServiceError(c, h.log, err)
			return
		}
	}
	if req.ThemeMode != nil {
		if err := h.prefs.SetThemeMode(ctx, domain.ThemeMode(*req.ThemeMode)); err != nil {
			abortWithServiceError(c, h.log, err)
			return
		}
	}
	if req.HighlightColor != nil {
		if err := h.prefs.SetHighlightColor(ctx, *req.HighlightColor); err != nil {
			abortWithServiceError(c, h.log, err)
			return
		}
	}
	if req.RemoteIdentifier != nil {
		if err := h.prefs.SetRemoteIdentifier(ctx, *req.RemoteIdentifier); err != nil {
			abortWithServiceError(c, h.log, err)
			return
		}
	}
	c.JSON(http.StatusOK, h.response())
}

// ConfigureRemote connects to the backup backend described in the body and remembers it.
func (h *SettingsHandler) ConfigureRemote(c *gin.Context) {
	var creds domain.RemoteCredentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	if err := h.remote.Configure(c.Request.Context(), creds); err != nil {
		abortWithServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, h.response())
}

func (h *SettingsHandler) SetPasscode(c *gin.Context) {
	var req PasscodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	if err := h.lock.SetPasscode(c.Request.Context(), req.Current, req.Passcode); err != nil {
		abortWithServiceError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, h.response())
}
