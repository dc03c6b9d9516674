package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strings"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type EmailConfig struct {
	APIKey  string
	From    string
	To      string
	BaseURL string // https://api.sendgrid.com unless overridden
	Timeout time.Duration
}

// EmailNotifier sends alerts through the SendGrid v3 mail API. It is disabled
// when the key or either address is missing; a disabled notifier only logs.
type EmailNotifier struct {
	cfg     EmailConfig
	enabled bool
	http    *http.Client
	log     logrus.FieldLogger
}

func NewEmailNotifier(cfg EmailConfig, log logrus.FieldLogger) *EmailNotifier {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.sendgrid.com"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	n := &EmailNotifier{
		cfg:     cfg,
		enabled: cfg.APIKey != "" && cfg.From != "" && cfg.To != "",
		http:    &http.Client{Timeout: cfg.Timeout},
		log:     log,
	}
	switch {
	case cfg.APIKey == "":
		log.Warn("SendGrid API key not configured, price alerts disabled")
	case cfg.From == "" || cfg.To == "":
		log.Warn("notification email addresses not configured, price alerts disabled")
	}
	return n
}

func (n *EmailNotifier) Enabled() bool { return n.enabled }

func (n *EmailNotifier) SendPriceChangeAlert(ctx context.Context, c PriceChange) error {
	if !n.enabled {
		n.log.WithField("product", c.ProductTitle).Warn("email notifier disabled, skipping price alert")
		return nil
	}

	html, err := renderAlert(c)
	if err != nil {
		return ErrNotification.WithCause(err)
	}
	msg := sendgridMail{
		Personalizations: []personalization{{To: []address{{Email: n.cfg.To}}}},
		From:             address{Email: n.cfg.From},
		Subject:          Subject(c),
		Content:          []content{{Type: "text/html", Value: html}},
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return ErrNotification.WithCause(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(n.cfg.BaseURL, "/")+"/v3/mail/send", bytes.NewReader(body))
	if err != nil {
		return ErrNotification.WithCause(err)
	}
	req.Header.Set("Authorization", "Bearer "+n.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.http.Do(req)
	if err != nil {
		return ErrNotification.WithCause(pkgerrors.Wrap(err, "sendgrid request"))
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return ErrNotification.WithCause(pkgerrors.Errorf("sendgrid: %s: %s", resp.Status, b))
	}

	n.log.WithFields(logrus.Fields{
		"product": c.ProductTitle,
		"variant": c.VariantTitle,
	}).Info("price change alert sent")
	return nil
}

// Subject is "Price Alert: {title} - {pct}% decrease" with one decimal.
func Subject(c PriceChange) string {
	return fmt.Sprintf("Price Alert: %s - %s%% decrease", c.ProductTitle, c.DecreasePercent().StringFixed(1))
}

var alertTmpl = template.Must(template.New("alert").Parse(`<h2>Price Change Alert</h2>
<p><strong>Product:</strong> {{.ProductTitle}}</p>
<p><strong>Variant:</strong> {{.VariantTitle}}</p>
{{if .SKU}}<p><strong>SKU:</strong> {{.SKU}}</p>
{{end}}<p><strong>Old Price:</strong> ${{.OldPrice}}</p>
<p><strong>New Price:</strong> ${{.NewPrice}}</p>
<p><strong>Price Decrease:</strong> {{.Decrease}}%</p>
<p><strong>Time:</strong> {{.Time}}</p>
`))

func renderAlert(c PriceChange) (string, error) {
	at := c.DetectedAt
	if at.IsZero() {
		at = time.Now()
	}
	var buf bytes.Buffer
	err := alertTmpl.Execute(&buf, map[string]string{
		"ProductTitle": c.ProductTitle,
		"VariantTitle": c.VariantTitle,
		"SKU":          c.SKU,
		"OldPrice":     c.OldPrice.StringFixed(2),
		"NewPrice":     c.NewPrice.StringFixed(2),
		"Decrease":     c.DecreasePercent().StringFixed(1),
		"Time":         at.UTC().Format(time.RFC1123),
	})
	return buf.String(), err
}

type sendgridMail struct {
	Personalizations []personalization `json:"personalizations"`
	From             address           `json:"from"`
	Subject          string            `json:"subject"`
	Content          []content         `json:"content"`
}

type personalization struct {
	To []address `json:"to"`
}

type address struct {
	Email string `json:"email"`
}

type content struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}
