package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

// Source produces a fresh snapshot from an upstream feed.
type Source interface {
	Fetch(ctx context.Context) (Snapshot, error)
}

type bankRate struct {
	CC   string          `json:"cc"`
	Rate decimal.Decimal `json:"rate"`
}

// BankSource reads the national bank exchange feed, a JSON array of {cc, rate}. Calls go
// through a circuit breaker so a failing feed is skipped quickly until it recovers.
type BankSource struct {
	url     string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
}

func NewBankSource(url string, timeout time.Duration, log logrus.FieldLogger, metrics *Metrics) *BankSource {
	settings := gobreaker.Settings{
		Name:        "bank-rates",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("BankSource.Breaker.StateChange")
			metrics.recordBreakerState(to)
		},
	}

	return &BankSource{
		url:     url,
		client:  &http.Client{Timeout: timeout},
		breaker: gobreaker.NewCircuitBreaker(settings),
	}
}

func (b *BankSource) Fetch(ctx context.Context) (Snapshot, error) {
	result, err := b.breaker.Execute(func() (interface{}, error) {
		return b.fetch(ctx)
	})
	if err != nil {
		return nil, err
	}
	return result.(Snapshot), nil
}

func (b *BankSource) fetch(ctx context.Context) (Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("bank rates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("bank rates: unexpected status %d", resp.StatusCode)
	}

	var items []bankRate
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("bank rates: decode: %w", err)
	}

	snapshot := make(Snapshot, len(items)+2)
	for _, item := range items {
		code := strings.ToUpper(strings.TrimSpace(item.CC))
		if code == "" || !item.Rate.IsPositive() {
			continue
		}
		snapshot[code] = item.Rate
	}
	return snapshot.withPinned(), nil
}
