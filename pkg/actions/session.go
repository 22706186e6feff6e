package actions

import (
	"github.com/webauto/engine/pkg/browser"
	"github.com/webauto/engine/pkg/registry"
	"github.com/webauto/engine/pkg/types"
)

// ensureSession returns this execution's browser session, connecting
// one on first use via Deps.BrowserMgr. A session already stored on
// the context (by an earlier navigate/open_tab node) is reused as-is;
// Connect itself is a no-op for a session that already has a handle,
// so calling this repeatedly is cheap.
func ensureSession(ctx registry.ExecutionContext, deps Deps, node types.Node) (*browser.Session, error) {
	if deps.BrowserMgr == nil {
		return nil, ErrNoBrowser
	}

	existing, _ := ctx.GetBrowser().(*browser.Session)

	opts := browser.ConnectOptions{
		CDPDebugURL:  optionalString(node.Config, "cdp_debug_url"),
		Headless:     optionalBool(node.Config, "headless", true),
		StorageState: ctx.GetStorageState(),
	}

	session, err := deps.BrowserMgr.Connect(ctx, existing, opts)
	if err != nil {
		return nil, err
	}
	ctx.SetBrowser(session)
	return session, nil
}

// currentPage returns the active page of this execution's session,
// connecting a session first if none exists yet.
func currentPage(ctx registry.ExecutionContext, deps Deps, node types.Node) (browser.Page, *browser.Session, error) {
	session, err := ensureSession(ctx, deps, node)
	if err != nil {
		return nil, nil, err
	}
	return session.Page, session, nil
}
