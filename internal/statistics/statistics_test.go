package statistics

import (
	"strings"
	"testing"

	"github.com/markusressel/steer2go/internal/control"
	"github.com/markusressel/steer2go/internal/pid"
	"github.com/markusressel/steer2go/internal/tuner"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

type mockSnapshotSource struct {
	snapshots map[string]control.Snapshot
}

func (s mockSnapshotSource) Snapshots() map[string]control.Snapshot {
	return s.snapshots
}

type mockSampleSource struct {
	sample control.Sample
	count  uint64
}

func (s mockSampleSource) LastSample() (control.Sample, uint64) {
	return s.sample, s.count
}

type mockJournalSource struct {
	recorded uint64
	dropped  uint64
}

func (s mockJournalSource) Recorded() uint64 {
	return s.recorded
}

func (s mockJournalSource) Dropped() uint64 {
	return s.dropped
}

func createSnapshots() map[string]control.Snapshot {
	return map[string]control.Snapshot{
		"steering": {
			Id:         "steering",
			Output:     "steering",
			Gains:      pid.Gains{P: 1.1147, I: 0.000342, D: 12.9026},
			Ticks:      10,
			LastOutput: -0.25,
			CteMean:    0.5,
			CteMax:     1.5,
		},
		"throttle": {
			Id:     "throttle",
			Output: "throttle",
			Gains:  pid.Gains{P: 0.179356, I: 0.000771561, D: 5.65027},
			Ticks:  10,
			Tuner: &tuner.Snapshot{
				Enabled:     true,
				ActiveIndex: 1,
				SampleCount: 7,
				Error:       0.75,
				BestError:   0.5,
				BestGains:   pid.Gains{P: 0.179356, I: 0.000771561, D: 5.65027},
				Steps:       [3]float64{0.01, 0.0001, 0.1},
				Rollovers:   2,
			},
			Outcomes: map[string]uint64{
				"accepted": 3,
				"reverted": 1,
				"rollover": 2,
			},
		},
	}
}

func TestControllerCollector(t *testing.T) {
	// GIVEN
	collector := NewControllerCollector(mockSnapshotSource{snapshots: createSnapshots()})

	// WHEN
	count := testutil.CollectAndCount(collector)

	// THEN
	// 4 single value metrics + 3 gains + 4 errors per controller
	assert.Equal(t, 2*(4+3+4), count)

	expected := `
# HELP steer2go_controller_cte_max Max absolute cross-track error over the rolling window of this controller
# TYPE steer2go_controller_cte_max gauge
steer2go_controller_cte_max{id="steering"} 1.5
steer2go_controller_cte_max{id="throttle"} 0
`
	err := testutil.CollectAndCompare(collector, strings.NewReader(expected), "steer2go_controller_cte_max")
	assert.NoError(t, err)
}

func TestTunerCollector(t *testing.T) {
	// GIVEN
	collector := NewTunerCollector(mockSnapshotSource{snapshots: createSnapshots()})

	// WHEN
	count := testutil.CollectAndCount(collector)

	// THEN
	// only the throttle controller has a tuner:
	// 6 single value metrics + 3 steps + 3 best gains + 3 decision outcomes
	assert.Equal(t, 6+3+3+3, count)

	expected := `
# HELP steer2go_tuner_decision_count Number of trial decisions by outcome
# TYPE steer2go_tuner_decision_count counter
steer2go_tuner_decision_count{id="throttle",outcome="accepted"} 3
steer2go_tuner_decision_count{id="throttle",outcome="escalated"} 0
steer2go_tuner_decision_count{id="throttle",outcome="reverted"} 1
# HELP steer2go_tuner_best_error Lowest mean squared error achieved by the tuner of this controller
# TYPE steer2go_tuner_best_error gauge
steer2go_tuner_best_error{id="throttle"} 0.5
`
	err := testutil.CollectAndCompare(collector, strings.NewReader(expected),
		"steer2go_tuner_decision_count", "steer2go_tuner_best_error")
	assert.NoError(t, err)
}

func TestTelemetryCollector(t *testing.T) {
	// GIVEN
	collector := NewTelemetryCollector(mockSampleSource{
		sample: control.Sample{Cte: -0.25, Speed: 30, SteeringAngle: 2.5},
		count:  42,
	})

	expected := `
# HELP steer2go_telemetry_cte Last reported cross-track error
# TYPE steer2go_telemetry_cte gauge
steer2go_telemetry_cte -0.25
# HELP steer2go_telemetry_sample_count Number of telemetry samples received
# TYPE steer2go_telemetry_sample_count counter
steer2go_telemetry_sample_count 42
# HELP steer2go_telemetry_speed Last reported speed of the vehicle
# TYPE steer2go_telemetry_speed gauge
steer2go_telemetry_speed 30
# HELP steer2go_telemetry_steering_angle Last reported steering angle of the vehicle
# TYPE steer2go_telemetry_steering_angle gauge
steer2go_telemetry_steering_angle 2.5
`

	// WHEN
	err := testutil.CollectAndCompare(collector, strings.NewReader(expected))

	// THEN
	assert.NoError(t, err)
}

func TestJournalCollector(t *testing.T) {
	// GIVEN
	collector := NewJournalCollector(mockJournalSource{recorded: 12, dropped: 3})

	expected := `
# HELP steer2go_journal_dropped_count Number of tuner events dropped because the journal buffer was full
# TYPE steer2go_journal_dropped_count counter
steer2go_journal_dropped_count 3
# HELP steer2go_journal_recorded_count Number of tuner events written to the journal
# TYPE steer2go_journal_recorded_count counter
steer2go_journal_recorded_count 12
`

	// WHEN
	err := testutil.CollectAndCompare(collector, strings.NewReader(expected))

	// THEN
	assert.NoError(t, err)
}

func TestCollectorsWithRegistry(t *testing.T) {
	// GIVEN
	registry := control.NewRegistry()

	// WHEN
	collector := NewControllerCollector(registry)

	// THEN
	assert.Equal(t, 0, testutil.CollectAndCount(collector))
}
