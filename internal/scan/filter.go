package scan

import "github.com/vietdv277/gatecert/pkg/types"

// FilterListeners returns the listeners eligible for a renewal check: HTTPS
// listeners with a hostname. Order is preserved.
func FilterListeners(listeners []types.Listener) []types.Listener {
	var eligible []types.Listener
	for _, l := range listeners {
		if isEligible(l) {
			eligible = append(eligible, l)
		}
	}
	return eligible
}

func isEligible(l types.Listener) bool {
	return l.HostName != "" && l.Protocol == types.ProtocolHTTPS
}
