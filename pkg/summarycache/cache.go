// Package summarycache caches finished summaries keyed by content
// fingerprint.
//
// The cache is an accelerator, not a source of truth: implementations
// absorb backend failures rather than surfacing them. A failed read is
// a miss; a failed write is logged and dropped. Concurrent writers may
// race on the same token, but every write for a token carries the same
// summary, so last-writer-wins is correctness-preserving.
package summarycache

import (
	"context"
	"time"

	"github.com/lexsum/lexsum/pkg/fingerprint"
)

// DefaultTTL is how long a cached summary stays valid.
const DefaultTTL = 24 * time.Hour

// Cache stores summary text by fingerprint token.
type Cache interface {
	// Get returns the cached summary for token. The second return is
	// false on a miss, an expired entry, or backend unavailability.
	Get(ctx context.Context, token fingerprint.Token) (string, bool)

	// Put stores summary under token. Best effort; failures are not
	// surfaced.
	Put(ctx context.Context, token fingerprint.Token, summary string)
}
