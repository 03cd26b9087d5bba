package provider

import (
	"strings"

	"github.com/lnget-cli/lnget/log"
)

// Rejected maps a hostname to the reason lnget refuses to download from it.
type Rejected map[string]string

var builtinRejected = Rejected{
	"anythingnovel.com":     "Site is closed",
	"lnmtl.com":             "Machine translations are not supported",
	"novelplanet.com":       "Site is closed",
	"www.readlightnovel.me": "Removed on request of the owner",
	"www.webnovel.com":      "Chapters are behind a paywall",
}

// DefaultRejected returns the built-in deny-list merged with extra host=reason entries.
// Malformed entries are logged and skipped.
func DefaultRejected(extra []string) Rejected {
	rejected := make(Rejected, len(builtinRejected)+len(extra))
	for host, reason := range builtinRejected {
		rejected[host] = reason
	}

	for _, e := range extra {
		host, reason, ok := strings.Cut(e, "=")
		host = strings.ToLower(strings.TrimSpace(host))
		if !ok || host == "" {
			log.Warnf("ignoring malformed rejected source %q", e)
			continue
		}
		reason = strings.TrimSpace(reason)
		if reason == "" {
			reason = "Rejected by configuration"
		}
		rejected[host] = reason
	}

	return rejected
}

// Reason returns why host is rejected. Hosts are compared case-insensitively
// and with or without a leading "www.".
func (r Rejected) Reason(host string) (string, bool) {
	host = strings.ToLower(host)
	if reason, ok := r[host]; ok {
		return reason, true
	}

	alt := "www." + host
	if trimmed, ok := strings.CutPrefix(host, "www."); ok {
		alt = trimmed
	}
	reason, ok := r[alt]
	return reason, ok
}
