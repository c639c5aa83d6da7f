package domain

import "context"

// Handle identifies a live window. It is assigned by the window system at
// enumeration time and is not stable across a window's destruction or an
// application restart.
type Handle int64

// LiveWindow is one entry of a window enumeration. It is valid only for the
// enumeration call that produced it and is never persisted as-is.
type LiveWindow struct {
	Handle Handle
	Title  string
	X      int32
	Y      int32
	Width  int32
	Height int32
}

// ScreenSize is the current primary screen resolution in pixels.
type ScreenSize struct {
	Width  int32 `json:"width"`
	Height int32 `json:"height"`
}

// WindowSystem is the capability boundary over OS window enumeration and
// manipulation. Implementations talk to a real desktop; tests substitute an
// in-memory fake.
type WindowSystem interface {
	// ListWindows enumerates currently visible windows. Windows without a
	// title are excluded.
	ListWindows(ctx context.Context) ([]LiveWindow, error)
	Move(ctx context.Context, handle Handle, x, y int32) error
	Resize(ctx context.Context, handle Handle, width, height int32) error
	Close(ctx context.Context, handle Handle) error
	ScreenSize(ctx context.Context) (ScreenSize, error)
}

// Launcher spawns instances of the managed target application. Launches are
// fire-and-forget: the spawned processes are not tracked.
type Launcher interface {
	Launch(ctx context.Context, instances int) error
}
