// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package db

import (
	"sort"
	"strings"
	"sync"

	"github.com/33cn/condition/common"
)

// memdb 应该无需区分同步与异步操作

func init() {
	dbCreator := func(name string, dir string) (DB, error) {
		return NewGoMemDB(name, dir)
	}
	registerDBCreator(MemDBBackendStr, dbCreator, false)
}

// GoMemDB 内存数据库, 主要用于测试
type GoMemDB struct {
	db   map[string][]byte
	lock sync.RWMutex
}

// NewGoMemDB new
func NewGoMemDB(name string, dir string) (*GoMemDB, error) {
	// memdb 不需要创建文件
	return &GoMemDB{
		db: make(map[string][]byte),
	}, nil
}

// Get get
func (db *GoMemDB) Get(key []byte) ([]byte, error) {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if entry, ok := db.db[string(key)]; ok {
		return common.CopyBytes(entry), nil
	}
	return nil, ErrNotFoundInDb
}

// Set set
func (db *GoMemDB) Set(key []byte, value []byte) error {
	db.lock.Lock()
	defer db.lock.Unlock()

	db.db[string(key)] = common.CopyBytes(value)
	return nil
}

// SetSync 与Set相同
func (db *GoMemDB) SetSync(key []byte, value []byte) error {
	return db.Set(key, value)
}

// Delete delete
func (db *GoMemDB) Delete(key []byte) error {
	db.lock.Lock()
	defer db.lock.Unlock()

	delete(db.db, string(key))
	return nil
}

// Close close
func (db *GoMemDB) Close() {
}

// List list
func (db *GoMemDB) List(prefix []byte) ([][]byte, error) {
	db.lock.RLock()
	defer db.lock.RUnlock()

	var keys []string
	for k := range db.db {
		if strings.HasPrefix(k, string(prefix)) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	values := make([][]byte, 0, len(keys))
	for _, k := range keys {
		values = append(values, common.CopyBytes(db.db[k]))
	}
	return values, nil
}

// NewBatch new batch
func (db *GoMemDB) NewBatch(sync bool) Batch {
	return &memBatch{db: db}
}

type kv struct {
	k, v []byte
	del  bool
}

type memBatch struct {
	db     *GoMemDB
	writes []kv
}

func (b *memBatch) Set(key, value []byte) {
	b.writes = append(b.writes, kv{k: common.CopyBytes(key), v: common.CopyBytes(value)})
}

func (b *memBatch) Delete(key []byte) {
	b.writes = append(b.writes, kv{k: common.CopyBytes(key), del: true})
}

func (b *memBatch) Write() error {
	b.db.lock.Lock()
	defer b.db.lock.Unlock()
	for _, w := range b.writes {
		if w.del {
			delete(b.db.db, string(w.k))
			continue
		}
		b.db.db[string(w.k)] = w.v
	}
	b.writes = nil
	return nil
}
