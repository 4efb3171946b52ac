package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync/atomic"

	"internfinder-engine/internal/config"
	"internfinder-engine/internal/secrets"
)

type SecretsHandler struct {
	CfgVal *atomic.Value // stores config.Config
}

// SetIMAPPassword stores the mailbox password in the OS keychain for the
// account named by the current config.
func (h SecretsHandler) SetIMAPPassword(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid JSON: "+err.Error(), 400)
		return
	}
	if strings.TrimSpace(body.Password) == "" {
		http.Error(w, "password is required", 400)
		return
	}

	cfg := h.CfgVal.Load().(config.Config)
	if err := secrets.SetEmailPassword(cfg, body.Password); err != nil {
		WriteError(w, r, http.StatusInternalServerError, "keyring_error", err.Error())
		return
	}
	writeJSON(w, map[string]any{"ok": true})
}
