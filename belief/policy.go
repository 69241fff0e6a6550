package belief

import "fmt"

// WumpusPolicy decides how an externally announced wumpus location interacts
// with local deduction.
type WumpusPolicy int

const (
	// TrustPeer accepts every announcement. The announced cell becomes the
	// wumpus cell even if local evidence had ruled it out, and a previously
	// localized wumpus elsewhere is discarded.
	TrustPeer WumpusPolicy = iota

	// TrustSelf rejects announcements that contradict local deduction: the
	// cell must still be a wumpus candidate and no other wumpus location may
	// have been established.
	TrustSelf
)

// String returns the configuration name of the policy.
func (p WumpusPolicy) String() string {
	switch p {
	case TrustPeer:
		return "trust-peer"
	case TrustSelf:
		return "trust-self"
	default:
		return fmt.Sprintf("WumpusPolicy(%d)", int(p))
	}
}

// ParseWumpusPolicy converts a configuration name into a policy.
func ParseWumpusPolicy(s string) (WumpusPolicy, error) {
	switch s {
	case "", "trust-peer":
		return TrustPeer, nil
	case "trust-self":
		return TrustSelf, nil
	default:
		return TrustPeer, fmt.Errorf("unknown wumpus policy %q", s)
	}
}
