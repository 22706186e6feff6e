package actions

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/webauto/engine/pkg/registry"
	"github.com/webauto/engine/pkg/types"
)

func httpRequestDefinition(deps Deps) *registry.ActionDefinition {
	return &registry.ActionDefinition{
		Name:        types.ActionHTTPRequest,
		Label:       "HTTP request",
		Description: "Issues an outbound HTTP request through the zero-trust SSRF guard.",
		Category:    "data",
		Schema: map[string]interface{}{
			"url":     map[string]interface{}{"type": "string", "required": true},
			"method":  map[string]interface{}{"type": "string", "default": "GET"},
			"headers": map[string]interface{}{"type": "object"},
			"body":    map[string]interface{}{"type": "string"},
		},
		Run: func(ctx registry.ExecutionContext, node types.Node) (interface{}, error) {
			url, err := stringField(node.Config, "url")
			if err != nil {
				return nil, err
			}
			if err := deps.SSRF.ValidateURL(url); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrURLNotAllowed, err)
			}

			method := optionalString(node.Config, "method")
			if method == "" {
				method = http.MethodGet
			}

			var bodyReader io.Reader
			if body := optionalString(node.Config, "body"); body != "" {
				bodyReader = strings.NewReader(body)
			}

			req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
			if err != nil {
				return nil, err
			}
			for k, v := range optionalStringMap(node.Config, "headers") {
				req.Header.Set(k, v)
			}

			resp, err := deps.HTTPClient.Do(req)
			if err != nil {
				return nil, err
			}
			defer resp.Body.Close()

			respBody, err := io.ReadAll(io.LimitReader(resp.Body, ctx.GetConfig().MaxResponseSize))
			if err != nil {
				return nil, err
			}

			result := map[string]interface{}{
				"status_code": resp.StatusCode,
				"body":        string(respBody),
				"headers":     flattenHeader(resp.Header),
			}

			var parsed interface{}
			if json.Unmarshal(respBody, &parsed) == nil {
				result["json"] = parsed
			}

			return result, nil
		},
	}
}

func flattenHeader(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k := range h {
		out[k] = h.Get(k)
	}
	return out
}
