package tenant

import (
	"net/url"
	"strings"
)

// ResolveSubdomain extracts the candidate tenant subdomain from a request's
// URL and Host header. Pure string work, no I/O, so it is testable with
// literal hosts alone. First match wins:
//
//  1. Local development: the label before ".localhost", taken from either
//     the URL's host or the Host header.
//  2. Preview deployments: hosts like "acme---branch.<previewDomain>"
//     resolve to the portion before the first "---".
//  3. Production: "<label>.<rootDomain>", excluding the bare root domain
//     and its "www." form.
//
// Returns "" when no subdomain can be determined.
func ResolveSubdomain(rawURL, host, rootDomain, previewDomain string) string {
	hostLabel := stripPort(host)

	if strings.Contains(rawURL, "localhost") || strings.Contains(hostLabel, "localhost") {
		for _, candidate := range []string{hostFromURL(rawURL), hostLabel} {
			if label, ok := strings.CutSuffix(candidate, ".localhost"); ok && label != "" {
				return label
			}
		}
		return ""
	}

	if previewDomain != "" && strings.Contains(hostLabel, "---") &&
		strings.HasSuffix(hostLabel, "."+previewDomain) {
		return hostLabel[:strings.Index(hostLabel, "---")]
	}

	if rootDomain != "" {
		if hostLabel == rootDomain || hostLabel == "www."+rootDomain {
			return ""
		}
		if label, ok := strings.CutSuffix(hostLabel, "."+rootDomain); ok &&
			label != "" && label != "www" {
			return label
		}
	}

	return ""
}

func hostFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

func stripPort(host string) string {
	if i := strings.LastIndex(host, ":"); i != -1 && !strings.Contains(host[i:], "]") {
		return host[:i]
	}
	return host
}
