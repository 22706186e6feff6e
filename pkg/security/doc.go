// Package security provides the SSRF guard that the http_request action
// applies to outbound URLs.
//
// # Overview
//
// SSRFProtection validates a URL before a request is made. The package
// has no other controls: input sanitization, rate limiting, access
// control and resource limits are not implemented here.
//
// # Basic Usage
//
//	import "github.com/webauto/engine/pkg/security"
//
//	guard := security.NewSSRFProtection() // uses DefaultSSRFConfig
//
//	if err := guard.ValidateURL(rawURL); err != nil {
//	    return fmt.Errorf("URL not allowed: %w", err)
//	}
//
// # Configuration
//
//	cfg := security.DefaultSSRFConfig()
//	cfg.AllowedSchemes = []string{"https"}
//	cfg.AllowedDomains = []string{"api.example.com"}
//	cfg.BlockedDomains = []string{"internal.example.com"}
//	guard := security.NewSSRFProtectionWithConfig(cfg)
//
// DefaultSSRFConfig allows the http and https schemes, has empty domain
// lists, and blocks private, localhost, link-local and cloud-metadata
// addresses. An empty AllowedSchemes also allows http and https.
//
// # Checks
//
// ValidateURL checks, in order:
//
//   - the URL parses and its scheme is in AllowedSchemes
//   - the host is present and not in BlockedDomains
//   - the host is in AllowedDomains, when that list is non-empty (an
//     exact, case-insensitive host match; no wildcards)
//   - an IP-literal host is checked against the blocked address
//     classes: loopback and 0.0.0.0, private (10/8, 172.16/12,
//     192.168/16, fc00::/7), link-local (169.254/16, fe80::/10) and
//     cloud metadata (169.254.169.254, fd00:ec2::254)
//   - a host name is checked against the localhost and cloud-metadata
//     names, then resolved through DNS, and every resolved address is
//     checked as above; a name that does not resolve is accepted
//
// # Thread Safety
//
// An SSRFProtection is not modified after construction, so one value
// can be shared by concurrent goroutines.
package security
