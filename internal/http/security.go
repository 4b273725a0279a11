package http

import (
	"net"
	"net/http"
	"strings"
	"sync"
)

// trustedProxies defines networks trusted to set forwarding headers.
// Private ranges are always trusted; deployments can add more via
// configuration.
var (
	proxyMu        sync.RWMutex
	trustedProxies = []*net.IPNet{
		mustParseCIDR("127.0.0.0/8"),
		mustParseCIDR("10.0.0.0/8"),
		mustParseCIDR("172.16.0.0/12"),
		mustParseCIDR("192.168.0.0/16"),
	}
)

func mustParseCIDR(cidr string) *net.IPNet {
	_, network, err := net.ParseCIDR(cidr)
	if err != nil {
		panic("parse trusted proxy CIDR " + cidr + ": " + err.Error())
	}
	return network
}

// configureTrustedProxies appends extra trusted networks. Entries that
// don't parse as CIDR are treated as single addresses.
func configureTrustedProxies(cidrs []string) {
	proxyMu.Lock()
	defer proxyMu.Unlock()
	for _, cidr := range cidrs {
		if _, network, err := net.ParseCIDR(cidr); err == nil {
			trustedProxies = append(trustedProxies, network)
			continue
		}
		if ip := net.ParseIP(cidr); ip != nil {
			bits := 32
			if ip.To4() == nil {
				bits = 128
			}
			trustedProxies = append(trustedProxies, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
		}
	}
}

func isTrustedProxy(ip net.IP) bool {
	proxyMu.RLock()
	defer proxyMu.RUnlock()
	for _, network := range trustedProxies {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}

// extractClientIP extracts the real client IP, honoring forwarding
// headers only when the direct peer is a trusted proxy.
func extractClientIP(r *http.Request) string {
	directIP, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		directIP = r.RemoteAddr
	}

	parsedDirectIP := net.ParseIP(directIP)
	if parsedDirectIP == nil {
		return directIP
	}

	if isTrustedProxy(parsedDirectIP) {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			ips := strings.Split(xff, ",")
			if len(ips) > 0 {
				clientIP := strings.TrimSpace(ips[0])
				if parsedIP := net.ParseIP(clientIP); parsedIP != nil {
					return clientIP
				}
			}
		}

		if xri := r.Header.Get("X-Real-IP"); xri != "" {
			if parsedIP := net.ParseIP(xri); parsedIP != nil {
				return xri
			}
		}
	}

	return directIP
}
