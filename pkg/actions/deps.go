package actions

import (
	"net/http"

	"github.com/webauto/engine/pkg/browser"
	"github.com/webauto/engine/pkg/intervention"
	"github.com/webauto/engine/pkg/locator"
	"github.com/webauto/engine/pkg/registry"
	"github.com/webauto/engine/pkg/security"
)

// Deps carries every collaborator a built-in action needs, built once
// at process start and threaded through every execution. Nil fields
// are valid for actions that never reach them in tests (e.g. a
// registry exercising only set_var/condition needs no BrowserMgr).
type Deps struct {
	BrowserMgr   *browser.Manager
	Locator      *locator.Locator
	Intervention *intervention.Detector
	SSRF         *security.SSRFProtection
	HTTPClient   *http.Client
}

// DefaultRegistry builds the Registry the engine dispatches through in
// production, one Register call per built-in action —
// grounded on the teacher's enumerate-every-builtin-by-hand registry
// constructor rather than reflection-based discovery.
func DefaultRegistry(deps Deps) *registry.Registry {
	if deps.HTTPClient == nil {
		deps.HTTPClient = http.DefaultClient
	}
	if deps.SSRF == nil {
		deps.SSRF = security.NewSSRFProtection()
	}

	r := registry.NewRegistry()

	r.Register(startDefinition())
	r.Register(endDefinition())
	r.Register(navigateDefinition(deps))
	r.Register(clickDefinition(deps))
	r.Register(typeDefinition(deps))
	r.Register(waitDefinition(deps))
	r.Register(extractDefinition(deps))
	r.Register(screenshotDefinition(deps))
	r.Register(aiLocateDefinition(deps))
	r.Register(userInputDefinition())
	r.Register(setVarDefinition())
	r.Register(conditionDefinition())
	r.Register(httpRequestDefinition(deps))
	r.Register(storageStateGetDefinition())
	r.Register(openTabDefinition(deps))

	return r
}
