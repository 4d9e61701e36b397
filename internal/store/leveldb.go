package store

import (
	"context"
	"errors"

	"github.com/syndtr/goleveldb/leveldb"
)

// LevelDB is the persistent backend for single-node deployments.
type LevelDB struct {
	db *leveldb.DB
}

// NewLevelDB creates or opens a LevelDB database at the specified path.
func NewLevelDB(path string) (*LevelDB, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, err
	}
	return &LevelDB{db: db}, nil
}

func (l *LevelDB) Get(_ context.Context, key []byte) ([]byte, bool, error) {
	value, err := l.db.Get(key, nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (l *LevelDB) Set(_ context.Context, key, value []byte) error {
	return l.db.Put(key, value, nil)
}

func (l *LevelDB) Remove(_ context.Context, key []byte) error {
	return l.db.Delete(key, nil)
}

func (l *LevelDB) Contains(_ context.Context, key []byte) (bool, error) {
	return l.db.Has(key, nil)
}

func (l *LevelDB) Close() error {
	return l.db.Close()
}
