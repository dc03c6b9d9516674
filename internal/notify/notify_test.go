package notify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariefcatur/go-shopify-facade/internal/events"
	kafkax "github.com/ariefcatur/go-shopify-facade/internal/kafka"
)

func sampleChange() PriceChange {
	return PriceChange{
		ProductID:    "gid://shopify/Product/1",
		ProductTitle: "Widget",
		VariantID:    "gid://shopify/ProductVariant/11",
		VariantTitle: "Default",
		SKU:          "W1",
		OldPrice:     decimal.RequireFromString("10.00"),
		NewPrice:     decimal.RequireFromString("7.00"),
		DetectedAt:   time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestSubject(t *testing.T) {
	assert.Equal(t, "Price Alert: Widget - 30.0% decrease", Subject(sampleChange()))

	c := sampleChange()
	c.NewPrice = decimal.RequireFromString("6.67")
	assert.Equal(t, "Price Alert: Widget - 33.3% decrease", Subject(c))
}

func TestRenderAlert(t *testing.T) {
	html, err := renderAlert(sampleChange())
	require.NoError(t, err)

	assert.Contains(t, html, "<strong>Product:</strong> Widget")
	assert.Contains(t, html, "<strong>SKU:</strong> W1")
	assert.Contains(t, html, "<strong>Old Price:</strong> $10.00")
	assert.Contains(t, html, "<strong>New Price:</strong> $7.00")
	assert.Contains(t, html, "<strong>Price Decrease:</strong> 30.0%")

	c := sampleChange()
	c.SKU = ""
	c.ProductTitle = "<b>x</b>"
	html, err = renderAlert(c)
	require.NoError(t, err)
	assert.NotContains(t, html, "SKU")
	assert.Contains(t, html, "&lt;b&gt;x&lt;/b&gt;")
}

func TestEmailNotifier_DisabledIsNoop(t *testing.T) {
	log, hook := test.NewNullLogger()
	n := NewEmailNotifier(EmailConfig{APIKey: "key"}, log)

	assert.False(t, n.Enabled())
	assert.NoError(t, n.SendPriceChangeAlert(context.Background(), sampleChange()))
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}

func TestEmailNotifier_PostsToSendGrid(t *testing.T) {
	var got sendgridMail
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/mail/send", r.URL.Path)
		assert.Equal(t, "Bearer SG.key", r.Header.Get("Authorization"))
		b, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(b, &got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	log, _ := test.NewNullLogger()
	n := NewEmailNotifier(EmailConfig{APIKey: "SG.key", From: "alerts@shop.test", To: "ops@shop.test", BaseURL: srv.URL}, log)

	require.NoError(t, n.SendPriceChangeAlert(context.Background(), sampleChange()))
	assert.Equal(t, "alerts@shop.test", got.From.Email)
	assert.Equal(t, "ops@shop.test", got.Personalizations[0].To[0].Email)
	assert.Equal(t, "Price Alert: Widget - 30.0% decrease", got.Subject)
	assert.Equal(t, "text/html", got.Content[0].Type)
}

func TestEmailNotifier_ProviderErrorIsNotificationFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"errors":[{"message":"forbidden"}]}`, http.StatusForbidden)
	}))
	defer srv.Close()

	log, _ := test.NewNullLogger()
	n := NewEmailNotifier(EmailConfig{APIKey: "k", From: "f@x", To: "t@x", BaseURL: srv.URL}, log)

	err := n.SendPriceChangeAlert(context.Background(), sampleChange())
	assert.ErrorIs(t, err, ErrNotification)
}

type fakePublisher struct {
	key     []byte
	value   []byte
	headers []kafka.Header
	err     error
}

func (p *fakePublisher) Publish(key, value []byte, headers ...kafka.Header) error {
	p.key, p.value, p.headers = key, value, headers
	return p.err
}

func TestEventNotifier_PublishesEnvelope(t *testing.T) {
	log, _ := test.NewNullLogger()
	pub := &fakePublisher{}
	n := NewEventNotifier(pub, "shopify-facade", log)

	ctx := WithTraceID(context.Background(), "req-1")
	require.NoError(t, n.SendPriceChangeAlert(ctx, sampleChange()))

	assert.Equal(t, "gid://shopify/Product/1", string(pub.key))
	assert.Equal(t, events.EventPriceDropped, kafkax.Header(kafka.Message{Headers: pub.headers}, kafkax.HeaderEventType))

	var env events.Envelope
	require.NoError(t, json.Unmarshal(pub.value, &env))
	assert.Equal(t, events.EventPriceDropped, env.EventType)
	assert.Equal(t, "req-1", env.TraceID)
	assert.NotEmpty(t, env.EventID)

	back, err := PriceChangeFromEvent(env)
	require.NoError(t, err)
	want := sampleChange()
	assert.Equal(t, want.VariantTitle, back.VariantTitle)
	assert.True(t, want.OldPrice.Equal(back.OldPrice))
	assert.True(t, want.NewPrice.Equal(back.NewPrice))
	assert.True(t, want.DetectedAt.Equal(back.DetectedAt))
}

func TestEventNotifier_PublishFailure(t *testing.T) {
	log, _ := test.NewNullLogger()
	n := NewEventNotifier(&fakePublisher{err: kafkax.ErrProducerClosed}, "svc", log)

	err := n.SendPriceChangeAlert(context.Background(), sampleChange())
	assert.ErrorIs(t, err, ErrNotification)
	assert.ErrorIs(t, err, kafkax.ErrProducerClosed)
}

type stubNotifier struct{ err error }

func (s stubNotifier) SendPriceChangeAlert(context.Context, PriceChange) error { return s.err }

func TestMulti_JoinsErrors(t *testing.T) {
	boom := errors.New("boom")
	m := Multi{stubNotifier{}, stubNotifier{err: boom}}

	assert.ErrorIs(t, m.SendPriceChangeAlert(context.Background(), sampleChange()), boom)
	assert.NoError(t, Multi{stubNotifier{}}.SendPriceChangeAlert(context.Background(), sampleChange()))
}

func TestDecreasePercent_ZeroOldPrice(t *testing.T) {
	c := sampleChange()
	c.OldPrice = decimal.Zero
	assert.True(t, c.DecreasePercent().IsZero())
}
