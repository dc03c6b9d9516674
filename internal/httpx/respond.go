package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/ariefcatur/go-shopify-facade/internal/apperr"
)

type errorBody struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err onto the taxonomy. Only the client-safe message is
// returned; the cause is logged with the request id.
func writeError(w http.ResponseWriter, r *http.Request, log logrus.FieldLogger, err error) {
	ae := apperr.From(err)
	status := ae.Kind.Status()

	entry := log.WithError(err).WithFields(logrus.Fields{
		"request_id": middleware.GetReqID(r.Context()),
		"kind":       ae.Kind.String(),
		"code":       ae.Code,
		"status":     status,
	})
	if status >= http.StatusInternalServerError {
		entry.Error("request failed")
	} else {
		entry.Info("request rejected")
	}

	writeJSON(w, status, errorBody{Status: "error", Message: ae.Message})
}
