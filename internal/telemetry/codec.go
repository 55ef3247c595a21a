package telemetry

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/markusressel/steer2go/internal/control"
	"github.com/markusressel/steer2go/internal/util"
)

const (
	// socket.io "message" (4) + "event" (2)
	eventFramePrefix = "42"

	EventTelemetry = "telemetry"
	EventSteer     = "steer"
	EventManual    = "manual"
)

// ManualReply hands control back to the simulator
const ManualReply = eventFramePrefix + `["` + EventManual + `",{}]`

var ErrMissingField = errors.New("missing field")

// Frame is a decoded socket.io event frame
type Frame struct {
	// Event is the name of the event, empty if the frame carries no data
	Event string
	// Data is the raw JSON object of the event
	Data json.RawMessage
}

// HasData reports whether the frame carries event data
func (f Frame) HasData() bool {
	return len(f.Event) > 0
}

// DecodeFrame decodes a raw websocket message.
// ok is false if the message is not a socket.io event frame and should be ignored.
func DecodeFrame(message []byte) (frame Frame, ok bool, err error) {
	s := string(message)
	if len(s) <= len(eventFramePrefix) || !strings.HasPrefix(s, eventFramePrefix) {
		return frame, false, nil
	}

	payload := extractPayload(s)
	if len(payload) <= 0 {
		return frame, true, nil
	}

	var values []json.RawMessage
	if err = json.Unmarshal([]byte(payload), &values); err != nil {
		return frame, true, fmt.Errorf("invalid event payload: %w", err)
	}
	if len(values) < 1 {
		return frame, true, errors.New("invalid event payload: empty event")
	}
	if err = json.Unmarshal(values[0], &frame.Event); err != nil {
		return frame, true, fmt.Errorf("invalid event name: %w", err)
	}
	if len(values) > 1 {
		frame.Data = values[1]
	}
	return frame, true, nil
}

// extractPayload returns the JSON array of an event frame,
// or an empty string if there is none
func extractPayload(s string) string {
	if strings.Contains(s, "null") {
		return ""
	}
	start := strings.Index(s, "[")
	end := strings.LastIndex(s, "]")
	if start < 0 || end < start {
		return ""
	}
	return s[start : end+1]
}

// number accepts JSON numbers as well as strings containing a number
type number struct {
	value   float64
	present bool
}

func (n *number) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case float64:
		n.value = v
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("cannot parse %q as number: %w", v, err)
		}
		if !util.IsFinite(parsed) {
			return fmt.Errorf("%q is not a finite number", v)
		}
		n.value = parsed
	case nil:
		return nil
	default:
		return fmt.Errorf("unexpected value type %T", v)
	}
	n.present = true
	return nil
}

type telemetryData struct {
	Cte           number `json:"cte"`
	Speed         number `json:"speed"`
	SteeringAngle number `json:"steering_angle"`
}

// DecodeTelemetry decodes the data of a telemetry event
func DecodeTelemetry(data json.RawMessage) (control.Sample, error) {
	var sample control.Sample
	if len(data) <= 0 {
		return sample, fmt.Errorf("cte: %w", ErrMissingField)
	}

	var decoded telemetryData
	if err := json.Unmarshal(data, &decoded); err != nil {
		return sample, fmt.Errorf("invalid telemetry: %w", err)
	}
	if !decoded.Cte.present {
		return sample, fmt.Errorf("cte: %w", ErrMissingField)
	}

	sample.Cte = decoded.Cte.value
	sample.Speed = decoded.Speed.value
	sample.SteeringAngle = decoded.SteeringAngle.value
	return sample, nil
}

// EncodeCommand creates the "steer" event frame for the given command
func EncodeCommand(command control.Command) (string, error) {
	data, err := json.Marshal(command)
	if err != nil {
		return "", err
	}
	return eventFramePrefix + `["` + EventSteer + `",` + string(data) + `]`, nil
}
