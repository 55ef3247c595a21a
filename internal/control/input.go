package control

import (
	"fmt"
	"math"

	"github.com/markusressel/steer2go/internal/configuration"
)

// InputMode defines how the cross-track error is fed into a controller
type InputMode int

const (
	// InputSigned feeds the cross-track error as is
	InputSigned InputMode = iota
	// InputAbsolute feeds |cte|, so the controller reacts to the distance from the track center only
	InputAbsolute
)

func (m InputMode) String() string {
	switch m {
	case InputSigned:
		return configuration.InputSigned
	case InputAbsolute:
		return configuration.InputAbsolute
	default:
		return fmt.Sprintf("InputMode(%d)", int(m))
	}
}

// Apply transforms the given cross-track error according to the input mode
func (m InputMode) Apply(cte float64) float64 {
	if m == InputAbsolute {
		return math.Abs(cte)
	}
	return cte
}

// ParseInputMode parses the configuration representation of an InputMode.
// An empty value selects a default based on the output the controller drives.
func ParseInputMode(input string, output string) (InputMode, error) {
	switch input {
	case configuration.InputSigned:
		return InputSigned, nil
	case configuration.InputAbsolute:
		return InputAbsolute, nil
	case "":
		if output == configuration.OutputThrottle {
			return InputAbsolute, nil
		}
		return InputSigned, nil
	default:
		return InputSigned, fmt.Errorf("unknown input mode: %s", input)
	}
}
