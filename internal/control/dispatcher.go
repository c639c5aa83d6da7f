package control

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pablodealeht/windowdeck/internal/domain"
	"github.com/pablodealeht/windowdeck/internal/metrics"
)

// Plain-string commands are matched against the whole frame body before any
// JSON decoding is attempted.
const (
	cmdStart       = "start"
	cmdListWindows = "list-windows"
)

var ackFrame = []byte(`{"status":"ok"}`)

// Dispatcher classifies one inbound text frame and runs the matching
// handler. Per-command failures are returned to the session loop for
// logging; none of them terminate the session.
type Dispatcher struct {
	windows    domain.WindowSystem
	layouts    domain.LayoutRepository
	launcher   domain.Launcher
	reconciler *Reconciler
	instances  int
}

func NewDispatcher(windows domain.WindowSystem, layouts domain.LayoutRepository, launcher domain.Launcher, reconciler *Reconciler, launchInstances int) *Dispatcher {
	return &Dispatcher{
		windows:    windows,
		layouts:    layouts,
		launcher:   launcher,
		reconciler: reconciler,
		instances:  launchInstances,
	}
}

// Dispatch handles one frame and returns the response frame, or nil when the
// command is silent. Malformed and incomplete frames are logged and dropped
// here: they are expected input, not handler failures.
func (d *Dispatcher) Dispatch(ctx context.Context, payload []byte) ([]byte, error) {
	switch string(payload) {
	case cmdStart:
		if err := d.launcher.Launch(ctx, d.instances); err != nil {
			metrics.CommandsTotal.WithLabelValues(cmdStart, "error").Inc()
			return nil, fmt.Errorf("failed to launch instances: %w", err)
		}
		slog.Info("Launched target instances", "instances", d.instances)
		metrics.CommandsTotal.WithLabelValues(cmdStart, "ok").Inc()
		return nil, nil

	case cmdListWindows:
		report, err := d.reconciler.ListWindows(ctx)
		if err != nil {
			metrics.CommandsTotal.WithLabelValues(cmdListWindows, "error").Inc()
			return nil, err
		}
		data, err := json.Marshal(report)
		if err != nil {
			metrics.CommandsTotal.WithLabelValues(cmdListWindows, "error").Inc()
			return nil, fmt.Errorf("failed to marshal layout report: %w", err)
		}
		metrics.CommandsTotal.WithLabelValues(cmdListWindows, "ok").Inc()
		return data, nil
	}

	cmd, err := DecodeCommand(payload)
	switch {
	case errors.Is(err, ErrUnknownType):
		// Well-formed but unrecognized: acknowledge and move on.
		slog.Debug("Unrecognized command type", "error", err)
		return ackFrame, nil
	case errors.Is(err, ErrIncomplete):
		slog.Warn("Dropping incomplete command", "error", err)
		metrics.FramesDropped.WithLabelValues("incomplete").Inc()
		return nil, nil
	case err != nil:
		slog.Warn("Dropping malformed frame", "error", err)
		metrics.FramesDropped.WithLabelValues("malformed").Inc()
		return nil, nil
	}

	switch c := cmd.(type) {
	case CloseCommand:
		err = d.handleClose(ctx, c)
	case MoveCommand:
		err = d.handleMove(ctx, c)
	case ResizeCommand:
		err = d.handleResize(ctx, c)
	}
	name := commandName(cmd)
	if err != nil {
		metrics.CommandsTotal.WithLabelValues(name, "error").Inc()
		return nil, err
	}
	metrics.CommandsTotal.WithLabelValues(name, "ok").Inc()
	return nil, nil
}

func commandName(cmd Command) string {
	switch cmd.(type) {
	case CloseCommand:
		return "close"
	case MoveCommand:
		return "move"
	case ResizeCommand:
		return "resize"
	default:
		return "unknown"
	}
}

func (d *Dispatcher) handleClose(ctx context.Context, cmd CloseCommand) error {
	live, err := d.windows.ListWindows(ctx)
	if err != nil {
		return fmt.Errorf("failed to enumerate windows: %w", err)
	}

	needle := strings.ToLower(cmd.Title)
	for _, w := range live {
		if strings.Contains(strings.ToLower(w.Title), needle) {
			if err := d.windows.Close(ctx, w.Handle); err != nil {
				metrics.WindowSystemErrors.WithLabelValues("close").Inc()
				return fmt.Errorf("failed to close window %d: %w", w.Handle, err)
			}
			slog.Info("Window closed", "handle", w.Handle, "title", w.Title)
			return nil
		}
	}

	slog.Debug("No window matched close request", "title", cmd.Title)
	return nil
}

func (d *Dispatcher) handleMove(ctx context.Context, cmd MoveCommand) error {
	if err := d.windows.Move(ctx, cmd.Handle, cmd.X, cmd.Y); err != nil {
		// The window call is best-effort; persistence still records intent.
		metrics.WindowSystemErrors.WithLabelValues("move").Inc()
		slog.Warn("Failed to move window", "handle", cmd.Handle, "error", err)
	}
	slog.Info("Window moved", "handle", cmd.Handle, "x", cmd.X, "y", cmd.Y)

	live, err := d.lookupLive(ctx, cmd.Handle)
	if err != nil {
		return err
	}

	if err := d.layouts.UpsertPosition(ctx, cmd.Handle, cmd.X, cmd.Y, live.Title, live.Width, live.Height); err != nil {
		return fmt.Errorf("failed to persist window position: %w", err)
	}
	return nil
}

func (d *Dispatcher) handleResize(ctx context.Context, cmd ResizeCommand) error {
	if err := d.windows.Resize(ctx, cmd.Handle, cmd.Width, cmd.Height); err != nil {
		metrics.WindowSystemErrors.WithLabelValues("resize").Inc()
		slog.Warn("Failed to resize window", "handle", cmd.Handle, "error", err)
	}
	slog.Info("Window resized", "handle", cmd.Handle, "width", cmd.Width, "height", cmd.Height)

	live, err := d.lookupLive(ctx, cmd.Handle)
	if err != nil {
		return err
	}

	if err := d.layouts.UpsertSize(ctx, cmd.Handle, cmd.Width, cmd.Height, live.Title, live.X, live.Y); err != nil {
		return fmt.Errorf("failed to persist window size: %w", err)
	}
	return nil
}

// lookupLive re-reads the current state of one window. A handle that is no
// longer live yields a zero-valued window so that the upsert can still
// record the command's intent.
func (d *Dispatcher) lookupLive(ctx context.Context, handle domain.Handle) (domain.LiveWindow, error) {
	live, err := d.windows.ListWindows(ctx)
	if err != nil {
		return domain.LiveWindow{}, fmt.Errorf("failed to enumerate windows: %w", err)
	}
	for _, w := range live {
		if w.Handle == handle {
			return w, nil
		}
	}
	return domain.LiveWindow{Handle: handle}, nil
}
