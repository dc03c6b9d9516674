package alerts

import (
	"context"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariefcatur/go-shopify-facade/internal/events"
	kafkax "github.com/ariefcatur/go-shopify-facade/internal/kafka"
	"github.com/ariefcatur/go-shopify-facade/internal/notify"
)

type memDedup struct{ seen map[string]bool }

func (d *memDedup) Seen(_ context.Context, id string) (bool, error) {
	if d.seen[id] {
		return true, nil
	}
	d.seen[id] = true
	return false, nil
}

func (d *memDedup) Forget(_ context.Context, id string) error {
	delete(d.seen, id)
	return nil
}

type countingNotifier struct {
	got []notify.PriceChange
	err error
}

func (n *countingNotifier) SendPriceChangeAlert(_ context.Context, c notify.PriceChange) error {
	n.got = append(n.got, c)
	return n.err
}

func priceDropped(t *testing.T) kafka.Message {
	t.Helper()
	env := events.NewEnvelope(events.EventPriceDropped, "test", "gid://shopify/Product/1", kafkax.MustMarshal(events.PriceDroppedPayload{
		ProductID:    "gid://shopify/Product/1",
		ProductTitle: "Widget",
		VariantID:    "gid://shopify/ProductVariant/11",
		VariantTitle: "Default",
		OldPrice:     "10.00",
		NewPrice:     "7.00",
		DecreasePct:  "30.0",
	}))
	return kafka.Message{Value: kafkax.MustMarshal(env)}
}

func newService(n notify.Notifier) (*Service, *memDedup) {
	log, _ := test.NewNullLogger()
	d := &memDedup{seen: map[string]bool{}}
	return &Service{Notifier: n, Dedup: d, Log: log}, d
}

func TestHandlePriceDropped_DeliversOnce(t *testing.T) {
	n := &countingNotifier{}
	s, _ := newService(n)
	m := priceDropped(t)

	require.NoError(t, s.HandlePriceDropped(context.Background(), m))
	require.NoError(t, s.HandlePriceDropped(context.Background(), m))

	require.Len(t, n.got, 1)
	assert.Equal(t, "Widget", n.got[0].ProductTitle)
	assert.Equal(t, "30.0", n.got[0].DecreasePercent().StringFixed(1))
}

func TestHandlePriceDropped_FailureIsRetryable(t *testing.T) {
	n := &countingNotifier{err: errors.New("smtp down")}
	s, d := newService(n)
	m := priceDropped(t)

	assert.Error(t, s.HandlePriceDropped(context.Background(), m))
	assert.Empty(t, d.seen)

	n.err = nil
	require.NoError(t, s.HandlePriceDropped(context.Background(), m))
	assert.Len(t, n.got, 2)
}

func TestHandlePriceDropped_SkipsForeignAndMalformed(t *testing.T) {
	n := &countingNotifier{}
	s, _ := newService(n)

	other := events.NewEnvelope("SomethingElse", "test", "x", []byte(`{}`))
	assert.NoError(t, s.HandlePriceDropped(context.Background(), kafka.Message{Value: kafkax.MustMarshal(other)}))
	assert.NoError(t, s.HandlePriceDropped(context.Background(), kafka.Message{Value: []byte(`not json`)}))

	bad := events.NewEnvelope(events.EventPriceDropped, "test", "x", []byte(`{"old_price":"ten","new_price":"1"}`))
	assert.NoError(t, s.HandlePriceDropped(context.Background(), kafka.Message{Value: kafkax.MustMarshal(bad)}))

	assert.Empty(t, n.got)
}
