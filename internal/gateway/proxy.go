package gateway

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	dErrors "darum/pkg/domain-errors"
	platformhttputil "darum/pkg/platform/httputil"
)

// Proxy routes each request to the internal service that owns its path.
// Identity-owned paths (auth, whoami, user lookups, role mutation) go to the
// identity service; employee paths to the employee service.
type Proxy struct {
	auth     *httputil.ReverseProxy
	employee *httputil.ReverseProxy
}

// NewProxy builds the reverse proxies for both upstreams.
func NewProxy(authURL, employeeURL string, logger *slog.Logger) (*Proxy, error) {
	auth, err := newReverseProxy(authURL, logger)
	if err != nil {
		return nil, fmt.Errorf("auth upstream: %w", err)
	}
	employee, err := newReverseProxy(employeeURL, logger)
	if err != nil {
		return nil, fmt.Errorf("employee upstream: %w", err)
	}
	return &Proxy{auth: auth, employee: employee}, nil
}

func newReverseProxy(rawURL string, logger *slog.Logger) (*httputil.ReverseProxy, error) {
	target, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse upstream URL %q: %w", rawURL, err)
	}
	proxy := httputil.NewSingleHostReverseProxy(target)
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		logger.Error("upstream unreachable",
			"upstream", target.Host,
			"path", r.URL.Path,
			"error", err,
		)
		platformhttputil.WriteError(w, dErrors.New(dErrors.CodeUpstreamUnavailable, "service unavailable"))
	}
	return proxy, nil
}

func (p *Proxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case strings.HasPrefix(r.URL.Path, "/employees"):
		p.employee.ServeHTTP(w, r)
	case strings.HasPrefix(r.URL.Path, "/api/auth"),
		strings.HasPrefix(r.URL.Path, "/whoami"),
		strings.HasPrefix(r.URL.Path, "/users"):
		p.auth.ServeHTTP(w, r)
	default:
		platformhttputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "no route for path"))
	}
}
