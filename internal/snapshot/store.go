package snapshot

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/ariefcatur/go-shopify-facade/internal/notify"
	"github.com/ariefcatur/go-shopify-facade/internal/shopify"
)

var DefaultThreshold = decimal.RequireFromString("0.20")

// Store keeps the product snapshot and raises an alert when a variant's price
// drops by more than the threshold between two updates.
type Store struct {
	backend   Backend
	api       shopify.Querier
	notifier  notify.Notifier
	threshold decimal.Decimal
	log       logrus.FieldLogger
	now       func() time.Time

	// mu serializes read-modify-write of the whole document.
	mu sync.Mutex
}

type Option func(*Store)

func WithThreshold(t decimal.Decimal) Option { return func(s *Store) { s.threshold = t } }

func NewStore(backend Backend, api shopify.Querier, notifier notify.Notifier, log logrus.FieldLogger, opts ...Option) *Store {
	s := &Store{
		backend:   backend,
		api:       api,
		notifier:  notifier,
		threshold: DefaultThreshold,
		log:       log,
		now:       time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Initialize replaces the document with the first page of products from Shopify.
func (s *Store) Initialize(ctx context.Context) error {
	var data productsData
	if err := s.api.Query(ctx, productsQuery, nil, &data); err != nil {
		return errors.Wrap(err, "fetch products")
	}

	products := make([]Product, 0, len(data.Products.Edges))
	for _, pe := range data.Products.Edges {
		p := Product{ID: pe.Node.ID, Title: pe.Node.Title, Variants: make([]Variant, 0, len(pe.Node.Variants.Edges))}
		for _, ve := range pe.Node.Variants.Edges {
			price, err := decimal.NewFromString(strings.TrimSpace(ve.Node.Price))
			if err != nil {
				return errors.Wrapf(err, "price of variant %s", ve.Node.ID)
			}
			p.Variants = append(p.Variants, Variant{
				ID:    ve.Node.ID,
				Title: ve.Node.Title,
				Price: price,
				SKU:   ve.Node.SKU,
			})
		}
		products = append(products, p)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.backend.Save(ctx, products); err != nil {
		return errors.Wrap(err, "save snapshot")
	}
	s.log.WithField("products", len(products)).Info("product snapshot initialized")
	return nil
}

// Upsert stores p, replacing any earlier record with the same id in full.
// Alerts for qualifying drops go out before the save; a failed alert is
// logged and does not stop the save.
func (s *Store) Upsert(ctx context.Context, p Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	products, err := s.backend.Load(ctx)
	if err != nil {
		return errors.Wrap(err, "load snapshot")
	}

	idx := -1
	for i := range products {
		if products[i].ID == p.ID {
			idx = i
			break
		}
	}

	if idx < 0 {
		products = append(products, p)
	} else {
		for _, c := range s.drops(products[idx], p) {
			if err := s.notifier.SendPriceChangeAlert(ctx, c); err != nil {
				s.log.WithError(err).WithFields(logrus.Fields{
					"product": c.ProductID,
					"variant": c.VariantID,
				}).Error("price alert failed")
			}
		}
		products[idx] = p
	}

	if err := s.backend.Save(ctx, products); err != nil {
		return errors.Wrap(err, "save snapshot")
	}
	s.log.WithFields(logrus.Fields{
		"product":  p.ID,
		"variants": len(p.Variants),
		"new":      idx < 0,
	}).Info("product snapshot updated")
	return nil
}

// drops lists the variants of next whose price fell by more than the threshold.
func (s *Store) drops(prev, next Product) []notify.PriceChange {
	var out []notify.PriceChange
	for _, nv := range next.Variants {
		ov, ok := prev.variant(nv.ID)
		if !ok || !ov.Price.IsPositive() {
			continue
		}
		decrease := ov.Price.Sub(nv.Price).Div(ov.Price)
		if !decrease.GreaterThan(s.threshold) {
			continue
		}
		out = append(out, notify.PriceChange{
			ProductID:    next.ID,
			ProductTitle: next.Title,
			VariantID:    nv.ID,
			VariantTitle: nv.Title,
			SKU:          nv.SKU,
			OldPrice:     ov.Price,
			NewPrice:     nv.Price,
			DetectedAt:   s.now(),
		})
	}
	return out
}

func (s *Store) List(ctx context.Context) ([]Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.backend.Load(ctx)
}

type productsData struct {
	Products struct {
		Edges []struct {
			Node struct {
				ID       string `json:"id"`
				Title    string `json:"title"`
				Variants struct {
					Edges []struct {
						Node struct {
							ID    string `json:"id"`
							Title string `json:"title"`
							SKU   string `json:"sku"`
							Price string `json:"price"`
						} `json:"node"`
					} `json:"edges"`
				} `json:"variants"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"products"`
}

const productsQuery = `{
  products(first: 100) {
    edges {
      node {
        id
        title
        variants(first: 100) {
          edges {
            node {
              id
              title
              sku
              price
            }
          }
        }
      }
    }
  }
}`
