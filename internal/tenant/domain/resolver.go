package domain

import (
	"net/http"
	"strings"

	"github.com/brewhub/brewhub/internal/config"
)

// versionMarker is the API version segment used by the path strategy. The
// tenant id is the segment immediately after it.
const versionMarker = "v1"

// Resolver derives the tenant id for a request using one statically
// configured strategy. Resolution failure is fatal to the request; the
// resolver never falls back to a default tenant.
type Resolver struct {
	strategy   string
	headerName string
	baseDomain string
}

// NewResolver builds a resolver from process configuration.
func NewResolver(cfg config.Config) *Resolver {
	return &Resolver{
		strategy:   cfg.TenantStrategy,
		headerName: cfg.TenantHeader,
		baseDomain: strings.ToLower(strings.TrimSpace(cfg.BaseDomain)),
	}
}

// Resolve extracts the tenant id from the request, or ErrTenantUnresolved.
func (r *Resolver) Resolve(req *http.Request) (string, error) {
	var tenantID string
	switch r.strategy {
	case config.TenantStrategyHeader:
		tenantID = r.fromHeader(req)
	case config.TenantStrategySubdomain:
		tenantID = r.fromSubdomain(req)
	case config.TenantStrategyPath:
		tenantID = r.fromPath(req)
	}

	if tenantID == "" {
		return "", ErrTenantUnresolved
	}
	return tenantID, nil
}

func (r *Resolver) fromHeader(req *http.Request) string {
	return strings.TrimSpace(req.Header.Get(r.headerName))
}

func (r *Resolver) fromSubdomain(req *http.Request) string {
	host := strings.ToLower(strings.TrimSpace(req.Host))
	if host == "" {
		return ""
	}
	if idx := strings.IndexByte(host, ':'); idx >= 0 {
		host = host[:idx]
	}
	if host == r.baseDomain {
		return ""
	}
	prefix, ok := strings.CutSuffix(host, "."+r.baseDomain)
	if !ok {
		return ""
	}

	// label immediately preceding the base domain
	labels := strings.Split(prefix, ".")
	sub := labels[len(labels)-1]
	if sub == "" || sub == "www" || sub == r.baseDomain {
		return ""
	}
	return sub
}

func (r *Resolver) fromPath(req *http.Request) string {
	path := req.URL.Path
	segments := make([]string, 0, 8)
	for _, s := range strings.Split(path, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	if len(segments) == 0 {
		return ""
	}

	for i, s := range segments {
		if s == versionMarker {
			if i+1 < len(segments) {
				return segments[i+1]
			}
			return ""
		}
	}
	return segments[0]
}

// CheckTenantMatch rejects a path-declared tenant that differs from the
// tenant claim embedded in the credential. When the credential carries no
// tenant claim the check passes; the membership lookup is the authority.
func CheckTenantMatch(pathTenantID, identityTenantID string) error {
	pathTenantID = strings.TrimSpace(pathTenantID)
	identityTenantID = strings.TrimSpace(identityTenantID)
	if pathTenantID == "" || identityTenantID == "" {
		return nil
	}
	if pathTenantID != identityTenantID {
		return ErrTenantMismatch
	}
	return nil
}
