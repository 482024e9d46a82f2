package port

import (
	"context"
	"encoding/json"
)

// GatewayClient executes one fixed document against the query gateway and
// returns the raw data fields keyed by top-level selection. It never
// retries; retry policy belongs to the scheduler.
type GatewayClient interface {
	Execute(ctx context.Context, document string, variables map[string]any) (map[string]json.RawMessage, error)
}
