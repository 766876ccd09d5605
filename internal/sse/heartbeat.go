package sse

import "github.com/tjfontaine/straico-gateway/internal/domain"

// Heartbeat characters a stream's keep-alive chunks carry as delta content.
// Selected once at startup, not per-request.
const (
	HeartbeatEmpty = ""
	HeartbeatZWSP  = "​"
	HeartbeatZWNJ  = "‌"
	HeartbeatWJ    = "⁠"
)

// ParseHeartbeatChar maps a configuration selector name to its character.
func ParseHeartbeatChar(name string) (string, error) {
	switch name {
	case "", "empty":
		return HeartbeatEmpty, nil
	case "zwsp":
		return HeartbeatZWSP, nil
	case "zwnj":
		return HeartbeatZWNJ, nil
	case "wj":
		return HeartbeatWJ, nil
	default:
		return "", domain.ErrServerConfiguration("unrecognized heartbeat character: " + name)
	}
}
