package core

import (
	"context"
)

// ShutdownFunc is a cleanup handler run during graceful shutdown. The
// context may carry a deadline; implementations must be safe to call twice.
type ShutdownFunc func(ctx context.Context) error
