package persistence

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/markusressel/steer2go/internal/pid"
	"github.com/markusressel/steer2go/internal/tuner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// helper function to create a persistence in a temporary directory
func createPersistence(t *testing.T) Persistence {
	p := NewPersistence(filepath.Join(t.TempDir(), "steer2go.db"))
	require.NoError(t, p.Init())
	return p
}

func createRecord(tick uint64, outcome tuner.Outcome) Record {
	return Record{
		Time: time.Date(2024, 5, 1, 12, 0, int(tick), 0, time.UTC),
		Event: tuner.Event{
			Outcome:   outcome,
			Tick:      tick,
			Index:     1,
			Error:     0.5,
			BestError: 0.25,
			Gains:     pid.Gains{P: 0.179356, I: 0.000771561, D: 5.65027},
			BestGains: pid.Gains{P: 0.179356, I: 0.000771561, D: 5.65027},
			Step:      0.0001,
		},
	}
}

func TestPersistence_Init_CreatesDirectory(t *testing.T) {
	// GIVEN
	dir := filepath.Join(t.TempDir(), "nested", "dir")
	p := NewPersistence(filepath.Join(dir, "steer2go.db"))

	// WHEN
	err := p.Init()

	// THEN
	assert.NoError(t, err)
	_, err = os.Stat(dir)
	assert.NoError(t, err)
}

func TestPersistence_SaveAndLoadEvents(t *testing.T) {
	// GIVEN
	p := createPersistence(t)
	expected := []Record{
		createRecord(51, tuner.OutcomeAccepted),
		createRecord(52, tuner.OutcomeEscalated),
	}

	// WHEN
	err := p.SaveEvents("throttle", expected[:1])
	require.NoError(t, err)
	err = p.SaveEvents("throttle", expected[1:])
	require.NoError(t, err)
	records, err := p.LoadEvents("throttle")

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, expected, records)
}

func TestPersistence_SaveEvents_SkipsUnencodableRecord(t *testing.T) {
	// GIVEN
	p := createPersistence(t)
	overflow := createRecord(52, tuner.OutcomeReverted)
	overflow.Error = math.Inf(1)
	records := []Record{
		createRecord(51, tuner.OutcomeEscalated),
		overflow,
		createRecord(53, tuner.OutcomeRollover),
	}

	// WHEN
	err := p.SaveEvents("throttle", records)
	require.NoError(t, err)
	loaded, err := p.LoadEvents("throttle")

	// THEN
	require.NoError(t, err)
	assert.Equal(t, []Record{records[0], records[2]}, loaded)
}

func TestPersistence_LoadEvents_Missing(t *testing.T) {
	// GIVEN
	p := createPersistence(t)

	// WHEN
	records, err := p.LoadEvents("throttle")

	// THEN
	assert.Nil(t, records)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestPersistence_DeleteEvents(t *testing.T) {
	// GIVEN
	p := createPersistence(t)
	err := p.SaveEvents("throttle", []Record{createRecord(51, tuner.OutcomeAccepted)})
	require.NoError(t, err)

	// WHEN
	err = p.DeleteEvents("throttle")
	assert.NoError(t, err)

	// THEN
	data, err := p.LoadEvents("throttle")
	assert.Nil(t, data)
	assert.Error(t, err)
}

func TestPersistence_DeleteEvents_Missing(t *testing.T) {
	// GIVEN
	p := createPersistence(t)

	// WHEN
	err := p.DeleteEvents("throttle")

	// THEN
	assert.NoError(t, err)
}

func TestPersistence_ControllerIds(t *testing.T) {
	// GIVEN
	p := createPersistence(t)
	require.NoError(t, p.SaveEvents("throttle", []Record{createRecord(51, tuner.OutcomeAccepted)}))
	require.NoError(t, p.SaveEvents("steering", []Record{createRecord(101, tuner.OutcomeRollover)}))

	// WHEN
	ids, err := p.ControllerIds()

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, []string{"steering", "throttle"}, ids)
}

func TestPersistence_SaveEvents_Empty(t *testing.T) {
	// GIVEN
	p := createPersistence(t)

	// WHEN
	err := p.SaveEvents("throttle", nil)

	// THEN
	assert.NoError(t, err)
	ids, err := p.ControllerIds()
	assert.NoError(t, err)
	assert.Empty(t, ids)
}
