package control

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/pablodealeht/windowdeck/internal/domain"
)

// fakeWindowSystem is an in-memory desktop. Move/Resize mutate the held
// windows so that successive enumerations see the effect, like a real
// window system would.
type fakeWindowSystem struct {
	mu      sync.Mutex
	windows []domain.LiveWindow
	screen  domain.ScreenSize

	listErr   error
	listPanic string
	screenErr error

	moves    []geometryCall
	resizes  []geometryCall
	closed   []domain.Handle
}

type geometryCall struct {
	handle domain.Handle
	a, b   int32
}

func newFakeWindowSystem(windows ...domain.LiveWindow) *fakeWindowSystem {
	return &fakeWindowSystem{
		windows: windows,
		screen:  domain.ScreenSize{Width: 1920, Height: 1080},
	}
}

func (f *fakeWindowSystem) ListWindows(_ context.Context) ([]domain.LiveWindow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listPanic != "" {
		panic(f.listPanic)
	}
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]domain.LiveWindow, len(f.windows))
	copy(out, f.windows)
	return out, nil
}

func (f *fakeWindowSystem) Move(_ context.Context, handle domain.Handle, x, y int32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.moves = append(f.moves, geometryCall{handle, x, y})
	for i := range f.windows {
		if f.windows[i].Handle == handle {
			f.windows[i].X, f.windows[i].Y = x, y
		}
	}
	return nil
}

func (f *fakeWindowSystem) Resize(_ context.Context, handle domain.Handle, width, height int32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resizes = append(f.resizes, geometryCall{handle, width, height})
	for i := range f.windows {
		if f.windows[i].Handle == handle {
			f.windows[i].Width, f.windows[i].Height = width, height
		}
	}
	return nil
}

func (f *fakeWindowSystem) Close(_ context.Context, handle domain.Handle) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = append(f.closed, handle)
	return nil
}

func (f *fakeWindowSystem) ScreenSize(_ context.Context) (domain.ScreenSize, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.screenErr != nil {
		return domain.ScreenSize{}, f.screenErr
	}
	return f.screen, nil
}

// memLayoutRepo implements domain.LayoutRepository in memory with the same
// create/update split as the PostgreSQL upserts.
type memLayoutRepo struct {
	mu      sync.Mutex
	records map[domain.Handle]domain.LayoutRecord
	clock   clockwork.Clock

	failNext error
}

func newMemLayoutRepo(clock clockwork.Clock) *memLayoutRepo {
	return &memLayoutRepo{
		records: make(map[domain.Handle]domain.LayoutRecord),
		clock:   clock,
	}
}

func (m *memLayoutRepo) takeErr() error {
	err := m.failNext
	m.failNext = nil
	return err
}

func (m *memLayoutRepo) GetByHandle(_ context.Context, handle domain.Handle) (*domain.LayoutRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[handle]
	if !ok {
		return nil, domain.ErrLayoutNotFound
	}
	return &rec, nil
}

func (m *memLayoutRepo) GetByHandles(_ context.Context, handles []domain.Handle) (map[domain.Handle]domain.LayoutRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeErr(); err != nil {
		return nil, err
	}
	out := make(map[domain.Handle]domain.LayoutRecord, len(handles))
	for _, h := range handles {
		if rec, ok := m.records[h]; ok {
			out[h] = rec
		}
	}
	return out, nil
}

func (m *memLayoutRepo) UpsertPosition(_ context.Context, handle domain.Handle, x, y int32, title string, width, height int32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeErr(); err != nil {
		return err
	}
	rec, ok := m.records[handle]
	if !ok {
		rec = domain.LayoutRecord{Handle: handle, Title: title, Width: width, Height: height}
	}
	rec.X, rec.Y = x, y
	rec.LastUpdated = m.clock.Now().UTC()
	m.records[handle] = rec
	return nil
}

func (m *memLayoutRepo) UpsertSize(_ context.Context, handle domain.Handle, width, height int32, title string, x, y int32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeErr(); err != nil {
		return err
	}
	rec, ok := m.records[handle]
	if !ok {
		rec = domain.LayoutRecord{Handle: handle, Title: title, X: x, Y: y}
	}
	rec.Width, rec.Height = width, height
	rec.LastUpdated = m.clock.Now().UTC()
	m.records[handle] = rec
	return nil
}

func (m *memLayoutRepo) get(handle domain.Handle) (domain.LayoutRecord, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[handle]
	return rec, ok
}

func (m *memLayoutRepo) put(rec domain.LayoutRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[rec.Handle] = rec
}

// fakeLauncher records launch requests.
type fakeLauncher struct {
	mu        sync.Mutex
	launches  []int
	launchErr error
}

func (f *fakeLauncher) Launch(_ context.Context, instances int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.launchErr != nil {
		return f.launchErr
	}
	f.launches = append(f.launches, instances)
	return nil
}

var testClockEpoch = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
