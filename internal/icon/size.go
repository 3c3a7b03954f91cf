package icon

import (
	"errors"
	"fmt"
)

// Size names one of the fixed avatar renditions
type Size string

const (
	SizeTiny   Size = "tiny"
	SizeTopbar Size = "topbar"
	SizeSmall  Size = "small"
	SizeMedium Size = "medium"
	SizeLarge  Size = "large"
	SizeMaster Size = "master"
)

// DefaultSize is used when a caller does not ask for a specific size
const DefaultSize = SizeMedium

// ErrInvalidSize is returned when parsing an unknown size name
var ErrInvalidSize = errors.New("invalid icon size")

// Sizes lists every size, smallest first
var Sizes = []Size{SizeTiny, SizeTopbar, SizeSmall, SizeMedium, SizeLarge, SizeMaster}

// Valid reports whether s is one of the known sizes
func (s Size) Valid() bool {
	for _, known := range Sizes {
		if s == known {
			return true
		}
	}
	return false
}

// ParseSize converts a size name. An empty name yields DefaultSize.
func ParseSize(name string) (Size, error) {
	if name == "" {
		return DefaultSize, nil
	}
	s := Size(name)
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidSize, name)
	}
	return s, nil
}
