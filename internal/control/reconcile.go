package control

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/pablodealeht/windowdeck/internal/domain"
	"github.com/pablodealeht/windowdeck/internal/metrics"
)

// WindowReport is one reported window in a layout listing.
type WindowReport struct {
	Handle int64  `json:"handle"`
	Title  string `json:"title"`
	X      int32  `json:"x"`
	Y      int32  `json:"y"`
	Width  int32  `json:"width"`
	Height int32  `json:"height"`
}

// LayoutReport is the list-windows response payload.
type LayoutReport struct {
	Screen  domain.ScreenSize `json:"screen"`
	Windows []WindowReport    `json:"windows"`
}

// Reconciler answers "what is the current layout?" by merging live window
// state with persisted intent. Persisted geometry is authoritative: every
// listing re-asserts it onto the live windows instead of relying on a
// background watcher.
type Reconciler struct {
	windows domain.WindowSystem
	layouts domain.LayoutRepository
	targets []string
}

func NewReconciler(windows domain.WindowSystem, layouts domain.LayoutRepository, targets []string) *Reconciler {
	return &Reconciler{windows: windows, layouts: layouts, targets: targets}
}

// matchesTarget reports whether title contains any configured target
// fragment, case-insensitive.
func (r *Reconciler) matchesTarget(title string) bool {
	lower := strings.ToLower(title)
	for _, fragment := range r.targets {
		if strings.Contains(lower, strings.ToLower(fragment)) {
			return true
		}
	}
	return false
}

// ListWindows produces the reconciled layout. Enumeration or screen-size
// failures fail the whole request; per-window correction failures are logged
// and counted but do not.
func (r *Reconciler) ListWindows(ctx context.Context) (*LayoutReport, error) {
	timer := prometheus.NewTimer(metrics.ReconcileDuration)
	defer timer.ObserveDuration()

	live, err := r.windows.ListWindows(ctx)
	if err != nil {
		metrics.WindowSystemErrors.WithLabelValues("list").Inc()
		return nil, fmt.Errorf("failed to enumerate windows: %w", err)
	}

	filtered := make([]domain.LiveWindow, 0, len(live))
	handles := make([]domain.Handle, 0, len(live))
	for _, w := range live {
		if r.matchesTarget(w.Title) {
			filtered = append(filtered, w)
			handles = append(handles, w.Handle)
		}
	}

	persisted, err := r.layouts.GetByHandles(ctx, handles)
	if err != nil {
		return nil, fmt.Errorf("failed to load persisted layout: %w", err)
	}

	reports := make([]WindowReport, 0, len(filtered))
	for _, w := range filtered {
		rec, ok := persisted[w.Handle]
		if !ok {
			reports = append(reports, WindowReport{
				Handle: int64(w.Handle), Title: w.Title,
				X: w.X, Y: w.Y, Width: w.Width, Height: w.Height,
			})
			continue
		}

		// Force the live window back to its persisted geometry. Report the
		// live title with the persisted geometry either way.
		slog.Debug("Reapplying persisted geometry",
			"handle", w.Handle, "title", w.Title,
			"x", rec.X, "y", rec.Y, "width", rec.Width, "height", rec.Height)
		if err := r.windows.Move(ctx, w.Handle, rec.X, rec.Y); err != nil {
			metrics.WindowSystemErrors.WithLabelValues("move").Inc()
			slog.Warn("Failed to reposition window", "handle", w.Handle, "error", err)
		}
		if err := r.windows.Resize(ctx, w.Handle, rec.Width, rec.Height); err != nil {
			metrics.WindowSystemErrors.WithLabelValues("resize").Inc()
			slog.Warn("Failed to resize window", "handle", w.Handle, "error", err)
		}
		metrics.ReconcileCorrections.Inc()

		reports = append(reports, WindowReport{
			Handle: int64(w.Handle), Title: w.Title,
			X: rec.X, Y: rec.Y, Width: rec.Width, Height: rec.Height,
		})
	}

	screen, err := r.windows.ScreenSize(ctx)
	if err != nil {
		metrics.WindowSystemErrors.WithLabelValues("screen_size").Inc()
		return nil, fmt.Errorf("failed to read screen resolution: %w", err)
	}

	return &LayoutReport{Screen: screen, Windows: reports}, nil
}
