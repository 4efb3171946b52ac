package httpapi

import (
	"context"
	"net/http"
	"sync/atomic"
)

type RunHandler struct {
	RunStatus *atomic.Value // httpapi.RunStatus
	RunOnce   func(ctx context.Context) (added int, err error)
}

func (h RunHandler) Status(w http.ResponseWriter, r *http.Request) {
	st := h.RunStatus.Load().(RunStatus)
	writeJSON(w, st)
}

// Trigger kicks off one reconciliation run in the background. RunOnce owns
// the status value and refuses overlap itself; the Running check here only
// gives the caller an immediate answer instead of a silently dropped run.
func (h RunHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	st := h.RunStatus.Load().(RunStatus)
	if st.Running {
		writeJSON(w, map[string]any{"ok": false, "msg": "already running"})
		return
	}

	go func() { _, _ = h.RunOnce(context.Background()) }()

	writeJSON(w, map[string]any{"ok": true})
}
