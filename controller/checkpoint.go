package controller

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"path/filepath"

	"github.com/dgraph-io/badger/v4"
)

// checkpointStore is a small badger-backed record of per-N completion
// status: one key per N holding the schema hash it completed under, so a
// restarted Run can skip an N whose recorded hash matches. The output
// files themselves are not examined: a missing or altered artifact for a
// checkpointed N is not detected or rewritten.
type checkpointStore struct {
	db *badger.DB
}

// openCheckpointStore opens (creating if needed) the checkpoint db under
// dir/.checkpoint.
func openCheckpointStore(dir string) (*checkpointStore, error) {
	opts := badger.DefaultOptions(filepath.Join(dir, ".checkpoint"))
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("controller: opening checkpoint store: %w", err)
	}
	return &checkpointStore{db: db}, nil
}

func (c *checkpointStore) Close() error {
	return c.db.Close()
}

func checkpointKey(n int) []byte {
	k := make([]byte, 4)
	binary.BigEndian.PutUint32(k, uint32(n))
	return k
}

// schemaHash identifies the shape of work a given N represents: the
// requested N, the set of cycle ids to materialize at that N, and the
// member budget in force. Any change to these invalidates an existing
// checkpoint for that N.
func schemaHash(plan *Plan, n int) []byte {
	h := sha256.New()
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(n))
	h.Write(buf[:])
	for _, cid := range plan.cyclesForN(n) {
		binary.BigEndian.PutUint64(buf[:], uint64(cid))
		h.Write(buf[:])
	}
	binary.BigEndian.PutUint64(buf[:], uint64(plan.MemberBudget))
	h.Write(buf[:])
	return h.Sum(nil)
}

// isComplete reports whether N was previously checkpointed complete with
// the same schemaHash as would be computed for it now.
func (c *checkpointStore) isComplete(n int, wantHash []byte) (bool, error) {
	var done bool
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(checkpointKey(n))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(v []byte) error {
			if len(v) != len(wantHash) {
				return nil
			}
			for i := range v {
				if v[i] != wantHash[i] {
					return nil
				}
			}
			done = true
			return nil
		})
	})
	if err != nil {
		return false, fmt.Errorf("controller: reading checkpoint for n=%d: %w", n, err)
	}
	return done, nil
}

// markComplete records N as done under the given schema hash.
func (c *checkpointStore) markComplete(n int, hash []byte) error {
	err := c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(checkpointKey(n), hash)
	})
	if err != nil {
		return fmt.Errorf("controller: writing checkpoint for n=%d: %w", n, err)
	}
	return nil
}
