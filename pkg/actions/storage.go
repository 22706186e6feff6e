package actions

import (
	"encoding/base64"

	"github.com/webauto/engine/pkg/browser"
	"github.com/webauto/engine/pkg/registry"
	"github.com/webauto/engine/pkg/types"
)

func storageStateGetDefinition() *registry.ActionDefinition {
	return &registry.ActionDefinition{
		Name:        types.ActionStorageStateGet,
		Label:       "Get storage state",
		Description: "Reads the current browsing context's storage_state blob (cookies, local storage) for later reuse.",
		Category:    "browser",
		Run: func(ctx registry.ExecutionContext, node types.Node) (interface{}, error) {
			session, ok := ctx.GetBrowser().(*browser.Session)
			if !ok || session == nil || session.PageContext == nil {
				return nil, ErrNoBrowser
			}

			state, err := session.PageContext.StorageState(ctx)
			if err != nil {
				return nil, err
			}
			ctx.SetStorageState(state)

			return map[string]interface{}{
				"storage_state": base64.StdEncoding.EncodeToString(state),
			}, nil
		},
	}
}
