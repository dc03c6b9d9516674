package httpx

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/ariefcatur/go-shopify-facade/internal/orders"
)

type OrderLookup interface {
	PastOrders(ctx context.Context, productID string, days int) ([]orders.Summary, error)
}

type OrdersHandler struct {
	Lookup OrderLookup
	Log    logrus.FieldLogger
}

func (h *OrdersHandler) Register(r *chi.Mux) {
	r.Get("/past-orders", h.pastOrders)
}

func (h *OrdersHandler) pastOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	days := parseDays(q.Get("days"), q.Get("daysBack"))

	ctx, cancel := context.WithTimeout(r.Context(), 12*time.Second)
	defer cancel()

	out, err := h.Lookup.PastOrders(ctx, q.Get("productId"), days)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// parseDays reads days, then daysBack. Missing, unparseable or zero values mean the default.
func parseDays(vals ...string) int {
	for _, v := range vals {
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n == 0 {
			return orders.DefaultDays
		}
		return n
	}
	return orders.DefaultDays
}
