// Package subsetdb caches subset fit results in a bolt database, so a
// subset shared by several schemes is analysed only once.
package subsetdb

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/op/go-logging"

	bolt "go.etcd.io/bbolt"
)

// log is the global logging variable.
var log = logging.MustGetLogger("subsetdb")

// SUBSETS is the bucket name for all subset records.
var SUBSETS = []byte("subsets")

// ErrNotFound is returned by Get for unknown subsets.
var ErrNotFound = errors.New("subsetdb: subset not found")

// Record is the fit of a single subset.
type Record struct {
	Name          string  `json:"name"`
	Model         string  `json:"model,omitempty"`
	ParamCount    float64 `json:"paramCount"`
	LogLikelihood float64 `json:"lnL"`
	SiteCount     int     `json:"siteCount"`
}

// DB is a subset result store. A nil *DB stores nothing and finds
// nothing.
type DB struct {
	db *bolt.DB
}

// Open opens (or creates) the database file.
func Open(path string) (*DB, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("subsetdb: opening %s: %w", path, err)
	}
	log.Debugf("Opened subset database %s", path)
	return &DB{db: db}, nil
}

// Close closes the database.
func (s *DB) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Put stores r under its name, replacing an older record.
func (s *DB) Put(r *Record) error {
	if r.Name == "" {
		return errors.New("subsetdb: record without name")
	}
	if s == nil {
		return nil
	}
	data, err := json.Marshal(r)
	if err != nil {
		log.Error("Error serializing subset", err)
		return err
	}
	err = SaveData(s.db, []byte(r.Name), data)
	if err != nil {
		log.Error("Error saving subset", err)
	}
	return err
}

// Get returns the record stored for subset name.
func (s *DB) Get(name string) (*Record, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	b, err := LoadData(s.db, []byte(name))
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	var r Record
	if err := json.Unmarshal(b, &r); err != nil {
		return nil, fmt.Errorf("subsetdb: decoding %s: %w", name, err)
	}
	log.Debugf("Found cached subset %s (lnL=%v)", name, r.LogLikelihood)
	return &r, nil
}

// List returns all the records ordered by name.
func (s *DB) List() (records []*Record, err error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	err = s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(SUBSETS)
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			var r Record
			if err := json.Unmarshal(v, &r); err != nil {
				return fmt.Errorf("subsetdb: decoding %s: %w", k, err)
			}
			records = append(records, &r)
			return nil
		})
	})
	return records, err
}

// SaveData saves values in bolt database.
func SaveData(db *bolt.DB, key []byte, data []byte) error {
	if db == nil {
		return nil
	}
	return db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(SUBSETS)
		if err != nil {
			return err
		}
		return b.Put(key, data)
	})
}

// LoadData loads data from bolt database. Missing keys give nil.
func LoadData(db *bolt.DB, key []byte) ([]byte, error) {
	var data []byte
	if db == nil {
		return nil, nil
	}
	err := db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(SUBSETS)
		if b == nil {
			return nil
		}
		// v is only valid inside the transaction
		if v := b.Get(key); v != nil {
			data = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}
