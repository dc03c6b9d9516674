package apperr

import (
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind_Status(t *testing.T) {
	cases := map[Kind]int{
		KindClient:          http.StatusBadRequest,
		KindUpstreamRequest: http.StatusBadRequest,
		KindNotFound:        http.StatusNotFound,
		KindAuth:            http.StatusUnauthorized,
		KindUpstream:        http.StatusInternalServerError,
		KindNotification:    http.StatusInternalServerError,
		KindUnexpected:      http.StatusInternalServerError,
	}
	for k, want := range cases {
		assert.Equal(t, want, k.Status(), k.String())
	}
}

func TestIs_MatchesOnCodeThroughWrapping(t *testing.T) {
	sentinel := New(KindNotFound, "no_orders", "none")
	err := fmt.Errorf("lookup: %w", sentinel.WithCause(io.EOF))

	assert.ErrorIs(t, err, sentinel)
	assert.ErrorIs(t, err, io.EOF)
	assert.NotErrorIs(t, err, New(KindNotFound, "other", "none"))
}

func TestFrom_UnknownErrorIsUnexpected(t *testing.T) {
	ae := From(io.ErrUnexpectedEOF)

	assert.Equal(t, KindUnexpected, ae.Kind)
	assert.Equal(t, "Internal server error", ae.Message)
	assert.ErrorIs(t, ae, io.ErrUnexpectedEOF)
}

func TestFrom_KeepsTaxonomyErrors(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", New(KindAuth, "bad_sig", "Invalid HMAC signature"))

	assert.Equal(t, KindAuth, KindOf(err))
	assert.Equal(t, "Invalid HMAC signature", From(err).Message)
}
