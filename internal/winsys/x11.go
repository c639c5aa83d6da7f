//go:build linux

package winsys

import (
	"context"
	"fmt"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/pablodealeht/windowdeck/internal/domain"
)

// X11WindowSystem implements domain.WindowSystem over an X connection using
// EWMH requests, so the running window manager stays in charge of the actual
// placement.
type X11WindowSystem struct {
	mu sync.Mutex
	xu *xgbutil.XUtil
}

func NewX11WindowSystem() (*X11WindowSystem, error) {
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X server: %w", err)
	}
	return &X11WindowSystem{xu: xu}, nil
}

func (s *X11WindowSystem) ListWindows(_ context.Context) ([]domain.LiveWindow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	clients, err := ewmh.ClientListGet(s.xu)
	if err != nil {
		return nil, fmt.Errorf("failed to get client list: %w", err)
	}

	windows := make([]domain.LiveWindow, 0, len(clients))
	for _, client := range clients {
		title, err := ewmh.WmNameGet(s.xu, client)
		if err != nil || title == "" {
			continue
		}

		geom, err := xwindow.New(s.xu, client).DecorGeometry()
		if err != nil {
			continue
		}

		windows = append(windows, domain.LiveWindow{
			Handle: domain.Handle(client),
			Title:  title,
			X:      int32(geom.X()),
			Y:      int32(geom.Y()),
			Width:  int32(geom.Width()),
			Height: int32(geom.Height()),
		})
	}

	return windows, nil
}

func (s *X11WindowSystem) Move(_ context.Context, handle domain.Handle, x, y int32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	win := xproto.Window(handle)
	s.unmaximize(win)

	geom, err := xwindow.New(s.xu, win).DecorGeometry()
	if err != nil {
		return fmt.Errorf("failed to read window geometry: %w", err)
	}
	if err := ewmh.MoveresizeWindow(s.xu, win, int(x), int(y), geom.Width(), geom.Height()); err != nil {
		return fmt.Errorf("failed to move window %d: %w", handle, err)
	}
	return nil
}

func (s *X11WindowSystem) Resize(_ context.Context, handle domain.Handle, width, height int32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	win := xproto.Window(handle)
	s.unmaximize(win)

	geom, err := xwindow.New(s.xu, win).DecorGeometry()
	if err != nil {
		return fmt.Errorf("failed to read window geometry: %w", err)
	}
	if err := ewmh.MoveresizeWindow(s.xu, win, geom.X(), geom.Y(), int(width), int(height)); err != nil {
		return fmt.Errorf("failed to resize window %d: %w", handle, err)
	}
	return nil
}

func (s *X11WindowSystem) Close(_ context.Context, handle domain.Handle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ewmh.CloseWindow(s.xu, xproto.Window(handle)); err != nil {
		return fmt.Errorf("failed to close window %d: %w", handle, err)
	}
	return nil
}

func (s *X11WindowSystem) ScreenSize(_ context.Context) (domain.ScreenSize, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	screen := s.xu.Screen()
	if screen == nil {
		return domain.ScreenSize{}, fmt.Errorf("no default screen available")
	}
	return domain.ScreenSize{
		Width:  int32(screen.WidthInPixels),
		Height: int32(screen.HeightInPixels),
	}, nil
}

// unmaximize drops maximized state before an explicit geometry request;
// maximized windows ignore moveresize on most window managers.
func (s *X11WindowSystem) unmaximize(win xproto.Window) {
	states, err := ewmh.WmStateGet(s.xu, win)
	if err != nil {
		return
	}
	for _, state := range states {
		if state == "_NET_WM_STATE_MAXIMIZED_HORZ" || state == "_NET_WM_STATE_MAXIMIZED_VERT" {
			_ = ewmh.WmStateReq(s.xu, win, ewmh.StateRemove, state)
		}
	}
}
