package kv

import (
	"github.com/syndtr/goleveldb/leveldb"
)

// LevelDBStore is the opt-in persistent backend (SPEC_FULL §4.1
// expansion): a chain that wants its KV contents to survive a process
// restart opens one of these instead of a MemStore. It implements the
// same Store contract, so Chain and the change-set layer are unaware of
// the difference.
type LevelDBStore struct {
	db *leveldb.DB
}

// OpenLevelDBStore opens (or creates) a LevelDB database at path.
func OpenLevelDBStore(path string) (*LevelDBStore, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, err
	}
	return &LevelDBStore{db: db}, nil
}

// Get implements Store.
func (s *LevelDBStore) Get(key []byte) ([]byte, bool, error) {
	v, err := s.db.Get(key, nil)
	if err != nil {
		if err == leveldb.ErrNotFound {
			return nil, false, nil
		}
		return nil, false, err
	}
	return v, true, nil
}

// Put implements Store.
func (s *LevelDBStore) Put(key []byte, value []byte) error {
	return s.db.Put(key, value, nil)
}

// Delete implements Store.
func (s *LevelDBStore) Delete(key []byte) error {
	return s.db.Delete(key, nil)
}

// Contains implements Store.
func (s *LevelDBStore) Contains(key []byte) (bool, error) {
	return s.db.Has(key, nil)
}

// Close releases the underlying database handle.
func (s *LevelDBStore) Close() error {
	return s.db.Close()
}
