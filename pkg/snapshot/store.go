// Package snapshot persists serialized application state in independent,
// per-entity slots. A slot holds one JSON document; writes are fire-and-forget
// and last-writer-wins, reads happen once at startup.
package snapshot

import "context"

// Kind names one durable slot.
type Kind string

const (
	KindCart   Kind = "cart"
	KindUser   Kind = "user"
	KindOrders Kind = "orders"
	KindBooks  Kind = "books"
)

// Kinds lists every slot restored at startup.
var Kinds = []Kind{KindCart, KindUser, KindOrders, KindBooks}

// String implements fmt.Stringer.
func (k Kind) String() string {
	return string(k)
}

// Store is the persistence surface consumed by the state services.
type Store interface {
	// Save overwrites the slot with the provided serialized snapshot.
	Save(ctx context.Context, kind Kind, data []byte) error
	// Load returns the stored snapshot. ok is false when the slot is empty.
	Load(ctx context.Context, kind Kind) (data []byte, ok bool, err error)
	// Delete clears the slot. Deleting an empty slot is not an error.
	Delete(ctx context.Context, kind Kind) error
}
