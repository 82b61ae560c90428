// Package store persists the two pieces of client state that outlive
// a navigation: the bearer token and the reservation draft.  Both are
// single-slot values — a write fully overwrites the previous value
// and there is no concurrent writer, matching one visitor's browser
// storage.
package store

import "github.com/cinephoria/cinephoria-go/internal/model"

// DraftStore is the durable single-slot reservation draft.  Load
// returns (nil, nil) when the slot is empty; Clear on an empty slot
// is a no-op.
type DraftStore interface {
    Save(draft model.ReservationDraft) error
    Load() (*model.ReservationDraft, error)
    Clear() error
}
