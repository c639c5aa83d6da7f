//go:build !linux

package winsys

import (
	"fmt"

	"github.com/pablodealeht/windowdeck/internal/domain"
)

func NewX11WindowSystem() (domain.WindowSystem, error) {
	return nil, fmt.Errorf("window management is only supported on linux/X11")
}
