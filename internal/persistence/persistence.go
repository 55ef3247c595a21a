package persistence

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/markusressel/steer2go/internal/tuner"
	"github.com/markusressel/steer2go/internal/ui"
	bolt "go.etcd.io/bbolt"
)

const (
	// BucketJournal holds one nested bucket of tuner events per controller
	BucketJournal = "journal"
)

// Record is a tuner.Event with the time it was recorded at
type Record struct {
	Time time.Time `json:"time"`
	tuner.Event
}

type Persistence interface {
	Init() error

	SaveEvents(controllerId string, records []Record) (err error)
	LoadEvents(controllerId string) ([]Record, error)
	DeleteEvents(controllerId string) (err error)

	// ControllerIds returns the ids of all controllers with journal entries
	ControllerIds() ([]string, error)
}

type persistence struct {
	dbPath string
}

func NewPersistence(dbPath string) Persistence {
	p := &persistence{
		dbPath: dbPath,
	}
	return p
}

func (p persistence) Init() (err error) {
	// get parent path of dbPath
	parentDir := filepath.Dir(p.dbPath)
	_, err = os.Stat(parentDir)
	if errors.Is(err, os.ErrNotExist) {
		// create directory
		ui.Info("Creating directory for db: %s", parentDir)
		err = os.MkdirAll(parentDir, 0755)
		if err != nil {
			return err
		}
	}
	return nil
}

func (p persistence) openPersistence() (db *bolt.DB, err error) {
	db, err = bolt.Open(p.dbPath, 0600, &bolt.Options{Timeout: 1 * time.Minute})
	if err != nil {
		return nil, err
	}
	return db, nil
}

// SaveEvents appends the given records to the journal of the given controller
func (p persistence) SaveEvents(controllerId string, records []Record) (err error) {
	if len(records) <= 0 {
		return nil
	}

	db, err := p.openPersistence()
	if err != nil {
		return err
	}
	defer func(db *bolt.DB) {
		_ = db.Close()
	}(db)

	return db.Update(func(tx *bolt.Tx) error {
		journal, err := tx.CreateBucketIfNotExists([]byte(BucketJournal))
		if err != nil {
			return fmt.Errorf("create bucket: %s", err)
		}
		b, err := journal.CreateBucketIfNotExists([]byte(controllerId))
		if err != nil {
			return fmt.Errorf("create bucket: %s", err)
		}

		for _, record := range records {
			data, err := json.Marshal(record)
			if err != nil {
				// skip it, so the rest of the batch is still stored
				ui.Warning("Skipping journal entry of %s at tick %d: %v", controllerId, record.Tick, err)
				continue
			}
			// sequence keys keep the insertion order when iterating
			seq, err := b.NextSequence()
			if err != nil {
				return err
			}
			err = b.Put(sequenceKey(seq), data)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// LoadEvents loads all records of the given controller, oldest first
func (p persistence) LoadEvents(controllerId string) ([]Record, error) {
	db, err := p.openPersistence()
	if err != nil {
		return nil, err
	}
	defer func(db *bolt.DB) {
		_ = db.Close()
	}(db)

	var records []Record
	err = db.Update(func(tx *bolt.Tx) error {
		b := controllerBucket(tx, controllerId)
		if b == nil {
			return os.ErrNotExist
		}

		var corrupt [][]byte
		err := b.ForEach(func(k, v []byte) error {
			var record Record
			err := json.Unmarshal(v, &record)
			if err != nil {
				ui.Warning("Unable to unmarshal journal entry %d of %s: %v", binary.BigEndian.Uint64(k), controllerId, err)
				corrupt = append(corrupt, append([]byte{}, k...))
				return nil
			}
			records = append(records, record)
			return nil
		})
		if err != nil {
			return err
		}

		// if we cannot read the saved data, delete it
		for _, key := range corrupt {
			err := b.Delete(key)
			if err != nil {
				ui.Error("Unable to delete corrupt journal entry of %s: %v", controllerId, err)
			}
		}
		return nil
	})

	return records, err
}

// DeleteEvents removes the whole journal of the given controller
func (p persistence) DeleteEvents(controllerId string) error {
	db, err := p.openPersistence()
	if err != nil {
		return err
	}
	defer func(db *bolt.DB) {
		_ = db.Close()
	}(db)

	return db.Update(func(tx *bolt.Tx) error {
		journal := tx.Bucket([]byte(BucketJournal))
		if journal == nil {
			// no journal yet
			return nil
		}
		if journal.Bucket([]byte(controllerId)) == nil {
			// no data for given controller
			return nil
		}
		return journal.DeleteBucket([]byte(controllerId))
	})
}

func (p persistence) ControllerIds() ([]string, error) {
	db, err := p.openPersistence()
	if err != nil {
		return nil, err
	}
	defer func(db *bolt.DB) {
		_ = db.Close()
	}(db)

	var ids []string
	err = db.View(func(tx *bolt.Tx) error {
		journal := tx.Bucket([]byte(BucketJournal))
		if journal == nil {
			return nil
		}
		return journal.ForEach(func(k, v []byte) error {
			// nested buckets have a nil value
			if v == nil {
				ids = append(ids, string(k))
			}
			return nil
		})
	})
	return ids, err
}

func controllerBucket(tx *bolt.Tx, controllerId string) *bolt.Bucket {
	journal := tx.Bucket([]byte(BucketJournal))
	if journal == nil {
		return nil
	}
	return journal.Bucket([]byte(controllerId))
}

func sequenceKey(seq uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, seq)
	return key
}
