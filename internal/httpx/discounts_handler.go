package httpx

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/ariefcatur/go-shopify-facade/internal/discount"
)

type DiscountService interface {
	Discounts(ctx context.Context, rawID string) ([]discount.Result, error)
}

type DiscountsHandler struct {
	Service DiscountService
	Log     logrus.FieldLogger
}

func (h *DiscountsHandler) Register(r *chi.Mux) {
	r.Get("/discounts", h.getDiscounts)
}

func (h *DiscountsHandler) getDiscounts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 12*time.Second)
	defer cancel()

	out, err := h.Service.Discounts(ctx, r.URL.Query().Get("discountId"))
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
