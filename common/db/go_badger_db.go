// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package db

import (
	"path"

	"github.com/dgraph-io/badger"
)

func init() {
	dbCreator := func(name string, dir string) (DB, error) {
		return NewGoBadgerDB(name, dir)
	}
	registerDBCreator(GoBadgerDBBackendStr, dbCreator, false)
}

// GoBadgerDB badger
type GoBadgerDB struct {
	db *badger.DB
}

// NewGoBadgerDB new
func NewGoBadgerDB(name string, dir string) (*GoBadgerDB, error) {
	opts := badger.DefaultOptions(path.Join(dir, name+".badger"))
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &GoBadgerDB{db: db}, nil
}

// Get get
func (db *GoBadgerDB) Get(key []byte) ([]byte, error) {
	var val []byte
	err := db.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		val, err = item.ValueCopy(nil)
		return err
	})
	if err == badger.ErrKeyNotFound {
		return nil, ErrNotFoundInDb
	}
	if err != nil {
		dlog.Error("Get", "error", err)
		return nil, err
	}
	return val, nil
}

// Set set
func (db *GoBadgerDB) Set(key []byte, value []byte) error {
	err := db.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, value)
	})
	if err != nil {
		dlog.Error("Set", "error", err)
	}
	return err
}

// SetSync badger 默认同步写
func (db *GoBadgerDB) SetSync(key []byte, value []byte) error {
	return db.Set(key, value)
}

// Delete delete
func (db *GoBadgerDB) Delete(key []byte) error {
	err := db.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
	if err != nil {
		dlog.Error("Delete", "error", err)
	}
	return err
}

// Close close
func (db *GoBadgerDB) Close() {
	if err := db.db.Close(); err != nil {
		dlog.Error("Close", "error", err)
	}
}

// List list
func (db *GoBadgerDB) List(prefix []byte) ([][]byte, error) {
	var values [][]byte
	err := db.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			v, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			values = append(values, v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return values, nil
}

// NewBatch new batch
func (db *GoBadgerDB) NewBatch(sync bool) Batch {
	return &badgerBatch{db: db}
}

type badgerBatch struct {
	db     *GoBadgerDB
	writes []kv
}

func (b *badgerBatch) Set(key, value []byte) {
	b.writes = append(b.writes, kv{k: key, v: value})
}

func (b *badgerBatch) Delete(key []byte) {
	b.writes = append(b.writes, kv{k: key, del: true})
}

// Write 在一个badger事务里提交
func (b *badgerBatch) Write() error {
	err := b.db.db.Update(func(txn *badger.Txn) error {
		for _, w := range b.writes {
			var err error
			if w.del {
				err = txn.Delete(w.k)
			} else {
				err = txn.Set(w.k, w.v)
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		dlog.Error("Write", "error", err)
		return err
	}
	b.writes = nil
	return nil
}
