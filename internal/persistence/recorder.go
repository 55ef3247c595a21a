package persistence

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/markusressel/steer2go/internal/tuner"
	"github.com/markusressel/steer2go/internal/ui"
)

type journalEntry struct {
	controllerId string
	record       Record
}

// Recorder writes tuner events to the journal in the background.
// Offer never blocks, events are dropped when the buffer is full.
type Recorder struct {
	persistence Persistence
	entries     chan journalEntry

	recorded atomic.Uint64
	dropped  atomic.Uint64
}

func NewRecorder(persistence Persistence, bufferSize int) *Recorder {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	return &Recorder{
		persistence: persistence,
		entries:     make(chan journalEntry, bufferSize),
	}
}

// Offer queues the given event for the journal of the given controller.
// It returns false if the event was dropped.
func (r *Recorder) Offer(controllerId string, event tuner.Event) bool {
	entry := journalEntry{
		controllerId: controllerId,
		record: Record{
			Time:  time.Now(),
			Event: event,
		},
	}
	select {
	case r.entries <- entry:
		return true
	default:
		r.dropped.Add(1)
		return false
	}
}

// Recorded returns the number of records written to the journal
func (r *Recorder) Recorded() uint64 {
	return r.recorded.Load()
}

// Dropped returns the number of events that did not fit into the buffer
func (r *Recorder) Dropped() uint64 {
	return r.dropped.Load()
}

// Run writes queued events until ctx is cancelled, then flushes what is left
func (r *Recorder) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			r.write(r.drain(nil))
			return nil
		case entry := <-r.entries:
			r.write(r.drain([]journalEntry{entry}))
		}
	}
}

// drain appends all currently queued entries to batch
func (r *Recorder) drain(batch []journalEntry) []journalEntry {
	for {
		select {
		case entry := <-r.entries:
			batch = append(batch, entry)
		default:
			return batch
		}
	}
}

func (r *Recorder) write(batch []journalEntry) {
	if len(batch) <= 0 {
		return
	}

	var order []string
	grouped := map[string][]Record{}
	for _, entry := range batch {
		if _, ok := grouped[entry.controllerId]; !ok {
			order = append(order, entry.controllerId)
		}
		grouped[entry.controllerId] = append(grouped[entry.controllerId], entry.record)
	}

	for _, controllerId := range order {
		records := grouped[controllerId]
		err := r.persistence.SaveEvents(controllerId, records)
		if err != nil {
			ui.Error("Unable to write %d journal entries of %s: %v", len(records), controllerId, err)
			continue
		}
		r.recorded.Add(uint64(len(records)))
	}
}
