package persistence

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vulnx/pankha/internal/fans"
	"github.com/vulnx/pankha/internal/ui"
	bolt "go.etcd.io/bbolt"
)

const (
	BucketOriginalState = "originalState"
)

// ErrNotFound is returned when no data is stored for a key
var ErrNotFound = os.ErrNotExist

// OriginalState is the state of a fan before pankha took control of it
type OriginalState struct {
	Mode    fans.ControlMode `json:"mode"`
	Speed   int              `json:"speed"`
	SavedAt time.Time        `json:"savedAt"`
}

type Persistence interface {
	Init() error

	// LoadOriginalState returns ErrNotFound if no state is stored for the fan
	LoadOriginalState(fanId string) (OriginalState, error)
	SaveOriginalState(fanId string, state OriginalState) error
	DeleteOriginalState(fanId string) error
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
	parentDir := filepath.Dir(p.dbPath)
	_, err = os.Stat(parentDir)
	if errors.Is(err, os.ErrNotExist) {
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

// SaveOriginalState stores the given state, replacing any previous one
func (p persistence) SaveOriginalState(fanId string, state OriginalState) error {
	db, err := p.openPersistence()
	if err != nil {
		return err
	}
	defer func(db *bolt.DB) {
		_ = db.Close()
	}(db)

	data, err := json.Marshal(state)
	if err != nil {
		return err
	}

	return db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(BucketOriginalState))
		if err != nil {
			return fmt.Errorf("create bucket: %w", err)
		}
		return b.Put([]byte(fanId), data)
	})
}

func (p persistence) LoadOriginalState(fanId string) (OriginalState, error) {
	var state OriginalState

	db, err := p.openPersistence()
	if err != nil {
		return state, err
	}
	defer func(db *bolt.DB) {
		_ = db.Close()
	}(db)

	corrupt := false
	err = db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(BucketOriginalState))
		if b == nil {
			return ErrNotFound
		}
		v := b.Get([]byte(fanId))
		if v == nil {
			return ErrNotFound
		}

		err := json.Unmarshal(v, &state)
		if err != nil {
			// if we cannot read the saved data, delete it
			ui.Warning("Unable to unmarshal saved state of %s: %v", fanId, err)
			err := b.Delete([]byte(fanId))
			if err != nil {
				ui.Error("Unable to delete corrupt data key %s: %v", fanId, err)
			}
			corrupt = true
		}
		return nil
	})
	if err == nil && corrupt {
		return OriginalState{}, ErrNotFound
	}

	return state, err
}

func (p persistence) DeleteOriginalState(fanId string) error {
	db, err := p.openPersistence()
	if err != nil {
		return err
	}
	defer func(db *bolt.DB) {
		_ = db.Close()
	}(db)

	return db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(BucketOriginalState))
		if b == nil {
			// no bucket yet
			return nil
		}
		return b.Delete([]byte(fanId))
	})
}
