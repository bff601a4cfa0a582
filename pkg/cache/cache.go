// Package cache keeps the amplitudes of already analyzed MADA files in a bbolt database.
package cache

import (
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	mada "github.com/upic-daq/mada_reader/pkg"
)

const BucketName = "amplitudes"

// AmplitudeCache implements mada.AmplitudeCache. It is safe for concurrent use.
type AmplitudeCache struct {
	DB *bbolt.DB
}

func Open(path string) (*AmplitudeCache, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("error opening cache %s: %w", path, err)
	}
	if err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(BucketName))
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}
	return &AmplitudeCache{DB: db}, nil
}

func (c *AmplitudeCache) Close() error {
	return c.DB.Close()
}

func (c *AmplitudeCache) Get(key string) (mada.FileAmplitudes, bool, error) {
	var amps mada.FileAmplitudes
	found := false
	err := c.DB.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(BucketName))
		if b == nil {
			return fmt.Errorf("bucket not found: %s", BucketName)
		}
		value := b.Get([]byte(key))
		if value == nil {
			return nil
		}
		found = true
		return json.Unmarshal(value, &amps)
	})
	if err != nil {
		return mada.FileAmplitudes{}, false, err
	}
	return amps, found, nil
}

func (c *AmplitudeCache) Put(key string, amps mada.FileAmplitudes) error {
	value, err := json.Marshal(amps)
	if err != nil {
		return err
	}
	return c.DB.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(BucketName))
		if b == nil {
			return fmt.Errorf("bucket not found: %s", BucketName)
		}
		return b.Put([]byte(key), value)
	})
}

// Len returns the number of cached files.
func (c *AmplitudeCache) Len() (int, error) {
	n := 0
	err := c.DB.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(BucketName))
		if b == nil {
			return fmt.Errorf("bucket not found: %s", BucketName)
		}
		n = b.Stats().KeyN
		return nil
	})
	return n, err
}
