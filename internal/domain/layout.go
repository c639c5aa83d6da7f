package domain

import (
	"context"
	"time"
)

// LayoutRecord is the persisted desired geometry for a window, keyed by its
// handle. Records are created on the first move or resize command for a
// handle and mutated in place afterwards; there is no delete operation.
type LayoutRecord struct {
	Handle      Handle
	Title       string
	X           int32
	Y           int32
	Width       int32
	Height      int32
	LastUpdated time.Time
}

// LayoutRepository abstracts layout persistence. Upserts have last-write-wins
// semantics; there is no optimistic concurrency token.
type LayoutRepository interface {
	// GetByHandle returns ErrLayoutNotFound when no record exists.
	GetByHandle(ctx context.Context, handle Handle) (*LayoutRecord, error)
	// GetByHandles bulk-fetches the records whose handle is in the given set.
	// Handles without a record are simply absent from the result.
	GetByHandles(ctx context.Context, handles []Handle) (map[Handle]LayoutRecord, error)
	// UpsertPosition updates x/y/lastUpdated of an existing record, or creates
	// one with the given title/width/height when none exists.
	UpsertPosition(ctx context.Context, handle Handle, x, y int32, title string, width, height int32) error
	// UpsertSize updates width/height/lastUpdated of an existing record, or
	// creates one with the given title/x/y when none exists.
	UpsertSize(ctx context.Context, handle Handle, width, height int32, title string, x, y int32) error
}
