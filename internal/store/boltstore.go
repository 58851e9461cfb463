package store

import (
	"encoding/binary"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"

	"github.com/venueup/kassad/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	bucketSales   = []byte("sales")
	bucketLoyalty = []byte("loyalty")
	bucketBlobs   = []byte("blobs")
)

// BoltStore is the default backend: a single-file embedded document
// store under the workdir, one JSON document per record.
type BoltStore struct {
	db *bolt.DB
}

func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 3 * time.Second})
	if err != nil {
		return nil, errors.Wrap(err, "open bolt store")
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketSales, bucketLoyalty, bucketBlobs} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "init bolt buckets")
	}
	return &BoltStore{db: db}, nil
}

func txKey(id int64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, uint64(id))
	return key
}

func (s *BoltStore) Load() (*domain.State, error) {
	state := &domain.State{Blobs: make(map[string]string)}
	err := s.db.View(func(tx *bolt.Tx) error {
		if err := tx.Bucket(bucketSales).ForEach(func(_, v []byte) error {
			var t domain.Transaction
			if err := json.Unmarshal(v, &t); err != nil {
				return err
			}
			state.Transactions = append(state.Transactions, t)
			return nil
		}); err != nil {
			return err
		}
		if err := tx.Bucket(bucketLoyalty).ForEach(func(k, v []byte) error {
			var acc domain.LoyaltyAccount
			if err := json.Unmarshal(v, &acc); err != nil {
				return err
			}
			if acc.Name == "" {
				acc.Name = string(k)
			}
			state.Loyalty = append(state.Loyalty, acc)
			return nil
		}); err != nil {
			return err
		}
		return tx.Bucket(bucketBlobs).ForEach(func(k, v []byte) error {
			state.Blobs[string(k)] = string(v)
			return nil
		})
	})
	if err != nil {
		return nil, errors.Wrap(err, "load bolt state")
	}
	return state, nil
}

func (s *BoltStore) AppendTransaction(t domain.Transaction) error {
	data, err := json.Marshal(t)
	if err != nil {
		return errors.Wrap(err, "encode transaction")
	}
	return errors.Wrap(s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSales).Put(txKey(t.ID), data)
	}), "append transaction")
}

func (s *BoltStore) DeleteTransactions(ids []int64) error {
	return errors.Wrap(s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSales)
		for _, id := range ids {
			if err := b.Delete(txKey(id)); err != nil {
				return err
			}
		}
		return nil
	}), "delete transactions")
}

func (s *BoltStore) SaveLoyalty(account domain.LoyaltyAccount) error {
	data, err := json.Marshal(account)
	if err != nil {
		return errors.Wrap(err, "encode loyalty account")
	}
	return errors.Wrap(s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketLoyalty).Put([]byte(account.Name), data)
	}), "save loyalty account")
}

func (s *BoltStore) DeleteLoyalty(name string) error {
	return errors.Wrap(s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketLoyalty).Delete([]byte(name))
	}), "delete loyalty account")
}

func (s *BoltStore) SaveBlob(kind, value string) error {
	return errors.Wrap(s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketBlobs).Put([]byte(kind), []byte(value))
	}), "save blob")
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}
