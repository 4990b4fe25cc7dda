package types

import "github.com/google/uuid"

// CartItem is a single cart line. Quantity is always >= 1; a cart holds at
// most one line per book.
type CartItem struct {
	BookID   uuid.UUID `json:"book_id"`
	Quantity int       `json:"quantity"`
}

// CloneItems deep-copies cart lines so order snapshots stay frozen when the
// live cart keeps mutating.
func CloneItems(items []CartItem) []CartItem {
	if len(items) == 0 {
		return nil
	}
	cloned := make([]CartItem, len(items))
	copy(cloned, items)
	return cloned
}
