package browser

import (
	"context"
	"errors"
)

// Session is one execution's connected browser: the driver handle,
// the page it drives, and the bookkeeping the cleanup path needs to
// know what it's allowed to tear down.
//
// Grounded on original_source's BrowserManager.connect/cleanup: the
// _is_cdp/_reused_page flags there become IsCDP/ReusedPage here, and
// govern exactly the same decision at cleanup time — an attached CDP
// browser's default context is never closed, only a context this
// manager created itself.
type Session struct {
	Handle       Handle
	PageContext  PageContext
	Page         Page
	IsCDP        bool
	ReusedPage   bool
	ownedContext bool // true if PageContext was created by NewContext, not DefaultContext
}

// ConnectOptions configures Connect.
type ConnectOptions struct {
	// CDPDebugURL, if non-empty, is tried first; a failure falls back
	// to Launch. Left empty, Connect launches unconditionally — CDP
	// attach is opt-in, never auto-discovered, matching
	// original_source's settings-gated cdp_url_manual field rather
	// than spec.md's "probe well-known ports" framing.
	CDPDebugURL string
	Headless    bool
	// StorageState, if non-nil, seeds a new browsing context with
	// previously captured cookies/local storage.
	StorageState []byte
}

// Manager connects and tears down a browser session for one execution.
type Manager struct {
	driver Driver
}

// NewManager wraps a concrete Driver.
func NewManager(driver Driver) *Manager {
	return &Manager{driver: driver}
}

// Ping reports whether the manager's driver is configured and able to
// reach a browser, for the server's health check — it never opens a
// session of its own.
func (m *Manager) Ping(ctx context.Context) error {
	return m.driver.Ping(ctx)
}

// Connect establishes a browser session per opts, attaching over CDP
// when a debug URL is configured and falling back to an ephemeral
// launch otherwise. Calling Connect again on a session that already
// has a browser attached is a no-op that returns the existing
// session, mirroring original_source's reuse check.
func (m *Manager) Connect(ctx context.Context, existing *Session, opts ConnectOptions) (*Session, error) {
	if existing != nil && existing.Handle != nil {
		return existing, nil
	}

	if opts.CDPDebugURL != "" {
		session, err := m.connectCDP(ctx, opts)
		if err == nil {
			return session, nil
		}
		// Fall through to an ephemeral launch, matching
		// original_source's "CDP 连接失败...回退到独立浏览器" path.
	}

	return m.launch(ctx, opts)
}

func (m *Manager) connectCDP(ctx context.Context, opts ConnectOptions) (*Session, error) {
	handle, err := m.driver.ConnectCDP(ctx, opts.CDPDebugURL)
	if err != nil {
		return nil, err
	}

	if opts.StorageState != nil {
		pageCtx, err := handle.NewContext(ctx, opts.StorageState)
		if err != nil {
			return nil, err
		}
		page, err := pageCtx.NewPage(ctx)
		if err != nil {
			return nil, err
		}
		return &Session{Handle: handle, PageContext: pageCtx, Page: page, IsCDP: true, ownedContext: true}, nil
	}

	pageCtx, err := handle.DefaultContext(ctx)
	if err != nil {
		return nil, err
	}
	page, reused, err := adoptOrCreatePage(ctx, pageCtx)
	if err != nil {
		return nil, err
	}
	return &Session{Handle: handle, PageContext: pageCtx, Page: page, IsCDP: true, ReusedPage: reused}, nil
}

// adoptOrCreatePage enumerates pageCtx's existing pages and adopts the
// first non-blank one, preserving whatever login state it holds;
// finding none, it creates a new page inside the same context rather
// than a new one, since a new context would lose the attached
// browser's login state.
func adoptOrCreatePage(ctx context.Context, pageCtx PageContext) (page Page, reused bool, err error) {
	pages, err := pageCtx.Pages(ctx)
	if err != nil {
		return nil, false, err
	}
	for _, candidate := range pages {
		url, err := candidate.URL(ctx)
		if err != nil {
			continue
		}
		if url != "" && url != "about:blank" {
			return candidate, true, nil
		}
	}

	page, err = pageCtx.NewPage(ctx)
	if err != nil {
		return nil, false, err
	}
	return page, false, nil
}

func (m *Manager) launch(ctx context.Context, opts ConnectOptions) (*Session, error) {
	handle, err := m.driver.Launch(ctx, opts.Headless)
	if err != nil {
		return nil, ErrConnectFailed
	}

	pageCtx, err := handle.NewContext(ctx, opts.StorageState)
	if err != nil {
		return nil, err
	}
	page, err := pageCtx.NewPage(ctx)
	if err != nil {
		return nil, err
	}
	return &Session{Handle: handle, PageContext: pageCtx, Page: page, IsCDP: false, ownedContext: true}, nil
}

// OpenTab opens a new page within the session's current browsing
// context, preserving cookies/session state — the resolution to the
// open_tab Open Question in DESIGN.md.
func (m *Manager) OpenTab(ctx context.Context, session *Session) (Page, error) {
	if session == nil || session.PageContext == nil {
		return nil, ErrNoSession
	}
	return session.PageContext.NewPage(ctx)
}

// Cleanup releases the session's resources, per the three cases
// spec's reuse policy distinguishes:
//   - A custom context this manager created (launch, or CDP attach
//     with injected storage_state) is always closed, taking its pages
//     down with it.
//   - CDP attach with an adopted (reused) page: neither the page nor
//     its context were ours to begin with, so neither is closed — the
//     user's own browser windows are left alone.
//   - CDP attach with a page this manager created inside the
//     pre-existing context (no non-blank page was found to adopt):
//     the context stays open, but the page this manager opened is
//     ours to close.
func (m *Manager) Cleanup(ctx context.Context, session *Session) error {
	if session == nil {
		return nil
	}

	var errs []error
	switch {
	case session.ownedContext && session.PageContext != nil:
		if err := session.PageContext.Close(ctx); err != nil {
			errs = append(errs, err)
		}
	case !session.ReusedPage && session.Page != nil:
		if err := session.Page.Close(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if session.Handle != nil {
		if err := session.Handle.Close(ctx); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
