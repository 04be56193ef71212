package result

import (
	"crypto/rand"
	"sync"

	"github.com/oklog/ulid/v2"
)

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

func newRequestID() ulid.ULID {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Now(), entropy)
}

// Request describes one piece of auxiliary data the caller must fetch
// before evaluation can make further progress. Kind mirrors the loader
// kinds described in the engine's external interface ("assoc" for plain
// association lookups; hosts may define more).
type Request struct {
	ID        ulid.ULID
	Kind      string
	Container any
	Key       string
}

// NewRequest builds a Request with a freshly minted correlation id.
func NewRequest(kind string, container any, key string) Request {
	return Request{ID: newRequestID(), Kind: kind, Container: container, Key: key}
}

// Requests is the unordered multiset of pending data requests. Dedup is
// explicitly not the engine's job (spec §4.1); Concat is a plain append.
type Requests []Request

// Concat concatenates two request multisets without deduplication.
func (r Requests) Concat(other Requests) Requests {
	if len(other) == 0 {
		return r
	}
	if len(r) == 0 {
		return other
	}
	out := make(Requests, 0, len(r)+len(other))
	out = append(out, r...)
	out = append(out, other...)
	return out
}
