package persistence

import (
	"encoding/json"
	"errors"
	"fmt"
	"github.com/markusressel/fanner/internal/ui"
	bolt "go.etcd.io/bbolt"
	"os"
	"path/filepath"
	"time"
)

const (
	BucketControllerState = "controllerState"
	BucketShutdown        = "shutdown"
)

// values of the shutdown marker of a controller
const (
	markerRunning = "running"
	markerClean   = "clean"
)

// ControllerState is the persisted form of the duty cycle state of a controller
type ControllerState struct {
	Current uint8     `json:"current"`
	Target  uint8     `json:"target"`
	SavedAt time.Time `json:"savedAt"`
}

type Persistence interface {
	Init() error

	LoadControllerState(controllerId string) (ControllerState, error)
	SaveControllerState(controllerId string, state ControllerState) (err error)
	DeleteControllerState(controllerId string) (err error)

	// MarkRunning records that the given controller is active until MarkCleanShutdown is called
	MarkRunning(controllerId string) (err error)
	MarkCleanShutdown(controllerId string) (err error)
	// WasCleanShutdown reports whether the last run of the given controller ended with
	// MarkCleanShutdown. A controller that never ran counts as shut down cleanly.
	WasCleanShutdown(controllerId string) (bool, error)
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

func (p persistence) put(bucket string, key string, value []byte) error {
	db, err := p.openPersistence()
	if err != nil {
		return err
	}
	defer func(db *bolt.DB) {
		_ = db.Close()
	}(db)

	return db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(bucket))
		if err != nil {
			return fmt.Errorf("create bucket: %s", err)
		}
		return b.Put([]byte(key), value)
	})
}

// get returns a copy of the value stored under key, or os.ErrNotExist
func (p persistence) get(bucket string, key string) ([]byte, error) {
	db, err := p.openPersistence()
	if err != nil {
		return nil, err
	}
	defer func(db *bolt.DB) {
		_ = db.Close()
	}(db)

	var result []byte
	err = db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return os.ErrNotExist
		}
		v := b.Get([]byte(key))
		if v == nil {
			return os.ErrNotExist
		}
		// v is only valid during the transaction
		result = append([]byte(nil), v...)
		return nil
	})
	return result, err
}

func (p persistence) delete(bucket string, key string) error {
	db, err := p.openPersistence()
	if err != nil {
		return err
	}
	defer func(db *bolt.DB) {
		_ = db.Close()
	}(db)

	return db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			// no bucket yet
			return nil
		}
		return b.Delete([]byte(key))
	})
}

// SaveControllerState saves the duty cycle state of the given controller
func (p persistence) SaveControllerState(controllerId string, state ControllerState) (err error) {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return p.put(BucketControllerState, controllerId, data)
}

// LoadControllerState loads the duty cycle state of the given controller
func (p persistence) LoadControllerState(controllerId string) (ControllerState, error) {
	var state ControllerState
	data, err := p.get(BucketControllerState, controllerId)
	if err != nil {
		return state, err
	}

	err = json.Unmarshal(data, &state)
	if err != nil {
		// if we cannot read the saved data, delete it
		ui.Warning("Unable to unmarshal saved state of controller %s: %v", controllerId, err)
		if err := p.DeleteControllerState(controllerId); err != nil {
			ui.Error("Unable to delete corrupt data key %s: %v", controllerId, err)
		}
		return ControllerState{}, os.ErrNotExist
	}
	return state, nil
}

func (p persistence) DeleteControllerState(controllerId string) error {
	return p.delete(BucketControllerState, controllerId)
}

func (p persistence) MarkRunning(controllerId string) error {
	return p.put(BucketShutdown, controllerId, []byte(markerRunning))
}

func (p persistence) MarkCleanShutdown(controllerId string) error {
	return p.put(BucketShutdown, controllerId, []byte(markerClean))
}

func (p persistence) WasCleanShutdown(controllerId string) (bool, error) {
	data, err := p.get(BucketShutdown, controllerId)
	if errors.Is(err, os.ErrNotExist) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return string(data) != markerRunning, nil
}
