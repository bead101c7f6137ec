package http

import (
	"fmt"
	"net"
	"net/http"
)

// NewTrustedSubnetMiddleware returns a middleware that rejects requests
// whose X-Real-IP header does not fall inside the given CIDR. An empty
// CIDR disables the check. A malformed CIDR is a configuration error.
func NewTrustedSubnetMiddleware(cidr string) (func(http.Handler) http.Handler, error) {
	if cidr == "" {
		return func(next http.Handler) http.Handler { return next }, nil
	}

	_, trustedNet, err := net.ParseCIDR(cidr)
	if err != nil {
		return nil, fmt.Errorf("parse trusted subnet %q: %w", cidr, err)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := net.ParseIP(r.Header.Get("X-Real-IP"))
			if ip == nil || !trustedNet.Contains(ip) {
				w.WriteHeader(http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}, nil
}
