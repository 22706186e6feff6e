package browser

import (
	"context"
	"errors"
)

// ErrDriverNotConfigured is returned by UnconfiguredDriver, the
// placeholder a deploying process wires in until it supplies a real
// Driver backed by a CDP client or other automation backend.
var ErrDriverNotConfigured = errors.New("browser: no driver configured")

// UnconfiguredDriver satisfies Driver but refuses every connection
// attempt. It lets cmd/server start and serve health/metrics traffic
// without a concrete automation backend wired in, failing loudly and
// immediately the moment a workflow actually tries to open a browser.
type UnconfiguredDriver struct{}

func (UnconfiguredDriver) ConnectCDP(ctx context.Context, debugURL string) (Handle, error) {
	return nil, ErrDriverNotConfigured
}

func (UnconfiguredDriver) Launch(ctx context.Context, headless bool) (Handle, error) {
	return nil, ErrDriverNotConfigured
}

func (UnconfiguredDriver) Ping(ctx context.Context) error {
	return ErrDriverNotConfigured
}
