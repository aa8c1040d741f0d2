package product

import (
	"context"
	"fmt"
	"time"

	"orders-ms/internal/model"

	"github.com/rs/zerolog"
)

// ValidatePattern is the command understood by the product service.
const ValidatePattern = "validate"

// Client looks up products in the external catalogue.
type Client interface {
	// Validate returns the catalogue records for ids. Unknown ids are either
	// omitted from the result or reported as an error by the catalogue.
	Validate(ctx context.Context, ids []string) ([]model.Product, error)
}

// Caller sends a request to a queue and decodes the reply into out.
type Caller interface {
	Call(ctx context.Context, queue, pattern string, data, out any) error
}

// rpcClient implements Client over message-based RPC.
type rpcClient struct {
	caller  Caller
	queue   string
	timeout time.Duration
	logger  zerolog.Logger
}

// NewClient creates a product client that sends validate commands to queue.
// Each call is bounded by timeout.
func NewClient(caller Caller, queue string, timeout time.Duration, logger zerolog.Logger) Client {
	return &rpcClient{
		caller:  caller,
		queue:   queue,
		timeout: timeout,
		logger:  logger.With().Str("component", "product-client").Logger(),
	}
}

// Validate returns the catalogue records for ids.
func (c *rpcClient) Validate(ctx context.Context, ids []string) ([]model.Product, error) {
	if len(ids) == 0 {
		return []model.Product{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()

	var products []model.Product
	if err := c.caller.Call(ctx, c.queue, ValidatePattern, ids, &products); err != nil {
		c.logger.Error().
			Err(err).
			Strs("product_ids", ids).
			Dur("duration", time.Since(start)).
			Msg("product validation failed")
		return nil, fmt.Errorf("failed to validate products: %w", err)
	}

	c.logger.Debug().
		Int("requested", len(ids)).
		Int("returned", len(products)).
		Dur("duration", time.Since(start)).
		Msg("products validated")

	return products, nil
}
