package httpx

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/ariefcatur/go-shopify-facade/internal/apperr"
	"github.com/ariefcatur/go-shopify-facade/internal/notify"
	"github.com/ariefcatur/go-shopify-facade/internal/snapshot"
	"github.com/ariefcatur/go-shopify-facade/internal/webhook"
)

const maxWebhookBody = 5 << 20

var (
	errMissingHmac    = apperr.New(apperr.KindAuth, "missing_hmac", "Missing HMAC header")
	errInvalidHmac    = apperr.New(apperr.KindAuth, "invalid_hmac", "Invalid HMAC signature")
	errMissingBody    = apperr.New(apperr.KindClient, "missing_body", "Missing request body")
	errWebhookFailure = apperr.New(apperr.KindUnexpected, "webhook_failure", "Failed to process webhook")
)

type SignatureVerifier interface {
	Verify(signature string, body []byte) bool
}

type SnapshotUpserter interface {
	Upsert(ctx context.Context, p snapshot.Product) error
}

type WebhookHandler struct {
	Verifier  SignatureVerifier
	Snapshots SnapshotUpserter
	Dedup     webhook.Deduper // optional
	Log       logrus.FieldLogger
}

func (h *WebhookHandler) Register(r *chi.Mux) {
	r.Post("/webhook", h.handle)
}

func (h *WebhookHandler) handle(w http.ResponseWriter, r *http.Request) {
	sig := r.Header.Get(webhook.HeaderHmac)
	if sig == "" {
		writeError(w, r, h.Log, errMissingHmac)
		return
	}

	// the signature covers the exact bytes on the wire, so read before any decoding
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorBody{Status: "error", Message: "Request body too large"})
			return
		}
		writeError(w, r, h.Log, errMissingBody.WithCause(err))
		return
	}
	if len(body) == 0 {
		writeError(w, r, h.Log, errMissingBody)
		return
	}

	if !h.Verifier.Verify(sig, body) {
		writeError(w, r, h.Log, errInvalidHmac)
		return
	}

	topic := r.Header.Get(webhook.HeaderTopic)
	log := h.Log.WithFields(logrus.Fields{
		"request_id": middleware.GetReqID(r.Context()),
		"topic":      topic,
		"shop":       r.Header.Get(webhook.HeaderShop),
		"bytes":      len(body),
	})
	log.Info("webhook received")

	id := r.Header.Get(webhook.HeaderWebhookID)
	marked := false
	if id != "" && h.Dedup != nil {
		seen, err := h.Dedup.Seen(r.Context(), id)
		switch {
		case err != nil:
			log.WithError(err).Warn("webhook dedup unavailable")
		case seen:
			log.WithField("webhook_id", id).Info("duplicate webhook ignored")
			writeSuccess(w)
			return
		default:
			marked = true
		}
	}

	if err := h.process(r, topic, body); err != nil {
		if marked {
			if ferr := h.Dedup.Forget(r.Context(), id); ferr != nil {
				log.WithError(ferr).Warn("webhook dedup forget failed")
			}
		}
		writeError(w, r, h.Log, err)
		return
	}
	writeSuccess(w)
}

// process applies a verified delivery. Topics other than products/update are acknowledged as is.
func (h *WebhookHandler) process(r *http.Request, topic string, body []byte) error {
	if topic != webhook.TopicProductsUpdate {
		return nil
	}
	p, err := webhook.ParseProductUpdate(body)
	if err != nil {
		return err
	}
	ctx := notify.WithTraceID(r.Context(), middleware.GetReqID(r.Context()))
	if err := h.Snapshots.Upsert(ctx, p); err != nil {
		return errWebhookFailure.WithCause(err)
	}
	return nil
}

func writeSuccess(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "Webhook processed successfully",
	})
}
