// Package browser implements the browser session manager (component
// C): attach-to-existing-browser vs. launch-ephemeral-browser
// connection, storage_state injection, and lifecycle cleanup.
//
// The core never drives a browser directly — it asks a Driver to.
// This is the seam spec_full.md calls out explicitly: "we specify
// what the core asks of it, not how it is implemented." A concrete
// Driver (backed by a CDP client, a remote-control protocol, or
// anything else) is supplied by the process wiring the engine
// together; pkg/browser/fakedriver is the in-repo test double.
package browser

import "context"

// Driver is the minimal contract the session manager needs from a
// concrete browser automation backend.
type Driver interface {
	// ConnectCDP attaches to an already-running browser's debug
	// endpoint, preserving whatever login state that browser holds.
	ConnectCDP(ctx context.Context, debugURL string) (Handle, error)

	// Launch starts a fresh, ephemeral browser instance.
	Launch(ctx context.Context, headless bool) (Handle, error)

	// Ping reports whether the driver is configured and able to reach
	// a browser, without opening a session of its own — the signal
	// the session manager's health check polls.
	Ping(ctx context.Context) error
}

// Handle is one connected browser, scoped to a single execution.
type Handle interface {
	// NewContext creates an isolated browsing context, optionally
	// seeded with a previously captured storage_state blob.
	NewContext(ctx context.Context, storageState []byte) (PageContext, error)

	// DefaultContext returns the browser's first existing context,
	// for the page-reuse path (attach mode, no storage_state).
	DefaultContext(ctx context.Context) (PageContext, error)

	// Closed reports when the underlying connection drops. Manager
	// does not watch it; a dropped connection surfaces as the error of
	// the next driver call.
	Closed() <-chan struct{}

	// Close tears down the browser connection. For an attached CDP
	// browser this only severs the connection; for a launched
	// browser it terminates the process.
	Close(ctx context.Context) error
}

// PageContext is one isolated cookie/storage scope within a browser.
type PageContext interface {
	NewPage(ctx context.Context) (Page, error)

	// Pages enumerates the context's currently open pages, letting the
	// session manager adopt an existing non-blank one (attach mode,
	// spec's page-reuse path) instead of always creating a fresh one.
	Pages(ctx context.Context) ([]Page, error)

	StorageState(ctx context.Context) ([]byte, error)
	Close(ctx context.Context) error
}

// Page is a single browser tab/page.
type Page interface {
	Navigate(ctx context.Context, url string) error
	Click(ctx context.Context, selector string) error
	Type(ctx context.Context, selector, text string) error
	WaitFor(ctx context.Context, selector string) error
	TextContent(ctx context.Context, selector string) (string, error)
	Screenshot(ctx context.Context) ([]byte, error)
	Evaluate(ctx context.Context, script string) (interface{}, error)

	// URL reports the page's current address, used to tell a blank
	// freshly-opened tab ("", "about:blank") apart from one already
	// navigated somewhere — the signal the reuse path adopts on.
	URL(ctx context.Context) (string, error)

	Close(ctx context.Context) error
}
