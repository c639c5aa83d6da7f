package control

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/pablodealeht/windowdeck/internal/domain"
)

// Decode errors. ErrMalformed and ErrIncomplete frames are logged and
// dropped without a response; ErrUnknownType falls through to the generic
// acknowledgment.
var (
	ErrMalformed   = errors.New("malformed command envelope")
	ErrMissingType = errors.New("missing type discriminator")
	ErrUnknownType = errors.New("unknown command type")
	ErrIncomplete  = errors.New("incomplete command")
)

// Command is one decoded structured command variant.
type Command interface{ isCommand() }

// CloseCommand closes the first live window whose title contains Title,
// case-insensitive.
type CloseCommand struct {
	Title string
}

// MoveCommand repositions the window identified by Handle.
type MoveCommand struct {
	Handle domain.Handle
	X      int32
	Y      int32
}

// ResizeCommand changes the size of the window identified by Handle.
type ResizeCommand struct {
	Handle domain.Handle
	Width  int32
	Height int32
}

func (CloseCommand) isCommand()  {}
func (MoveCommand) isCommand()   {}
func (ResizeCommand) isCommand() {}

// envelope mirrors the wire format. Pointer fields record presence so that
// the per-type required-field checks below stay explicit.
type envelope struct {
	Type   *string `json:"type"`
	Title  *string `json:"title"`
	Handle *int64  `json:"handle"`
	X      *int32  `json:"x"`
	Y      *int32  `json:"y"`
	Width  *int32  `json:"width"`
	Height *int32  `json:"height"`
}

// DecodeCommand decodes one structured frame into its command variant.
func DecodeCommand(payload []byte) (Command, error) {
	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if env.Type == nil {
		return nil, ErrMissingType
	}

	switch *env.Type {
	case "close":
		// A blank title would substring-match every live window; refuse it
		// rather than close an arbitrary one.
		if env.Title == nil || strings.TrimSpace(*env.Title) == "" {
			return nil, fmt.Errorf("%w: close requires a non-empty title", ErrIncomplete)
		}
		return CloseCommand{Title: *env.Title}, nil
	case "move":
		if env.Handle == nil || env.X == nil || env.Y == nil {
			return nil, fmt.Errorf("%w: move requires handle, x, y", ErrIncomplete)
		}
		return MoveCommand{Handle: domain.Handle(*env.Handle), X: *env.X, Y: *env.Y}, nil
	case "resize":
		if env.Handle == nil || env.Width == nil || env.Height == nil {
			return nil, fmt.Errorf("%w: resize requires handle, width, height", ErrIncomplete)
		}
		return ResizeCommand{Handle: domain.Handle(*env.Handle), Width: *env.Width, Height: *env.Height}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, *env.Type)
	}
}
