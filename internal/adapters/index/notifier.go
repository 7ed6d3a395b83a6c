// Package index contains the adapter that tells the external search
// index about record removals.
package index

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/example/driftwatch/internal/ports/secondary"
)

// HTTPNotifier posts removal notices to the index service. Notices are
// best-effort: the caller already committed the local delete, so the
// notifier retries briefly and then gives up, leaving cleanup to the
// index's own consistency sweep.
type HTTPNotifier struct {
	baseURL    string
	client     *http.Client
	maxElapsed time.Duration
}

// NewHTTPNotifier creates a notifier for the index service at baseURL.
func NewHTTPNotifier(baseURL string) *HTTPNotifier {
	return &HTTPNotifier{
		baseURL:    baseURL,
		client:     &http.Client{Timeout: 10 * time.Second},
		maxElapsed: 30 * time.Second,
	}
}

// NotifyRemoved tells the index to drop a record from a collection.
func (n *HTTPNotifier) NotifyRemoved(ctx context.Context, recordID, collection string) error {
	endpoint := fmt.Sprintf("%s/collections/%s/records/%s",
		n.baseURL, url.PathEscape(collection), url.PathEscape(recordID))

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
		if err != nil {
			return backoff.Permanent(err)
		}

		resp, err := n.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusNotFound:
			// Already gone from the index, nothing to do.
			return nil
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			return nil
		case resp.StatusCode >= 500:
			return fmt.Errorf("index returned status %d", resp.StatusCode)
		default:
			return backoff.Permanent(fmt.Errorf("index returned status %d", resp.StatusCode))
		}
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 500 * time.Millisecond
	policy.MaxElapsedTime = n.maxElapsed

	if err := backoff.Retry(operation, backoff.WithContext(policy, ctx)); err != nil {
		return fmt.Errorf("failed to notify index of removal of %s: %w", recordID, err)
	}
	return nil
}

// NoopNotifier is used when no index service is configured.
type NoopNotifier struct{}

// NotifyRemoved does nothing.
func (NoopNotifier) NotifyRemoved(_ context.Context, _, _ string) error {
	return nil
}

// Ensure both notifiers implement the interface
var (
	_ secondary.IndexNotifier = (*HTTPNotifier)(nil)
	_ secondary.IndexNotifier = NoopNotifier{}
)
