// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package db

import (
	"sync"

	"github.com/33cn/condition/common"
	"github.com/pkg/errors"
)

// ErrTxDone 事务已经提交或者回滚
var ErrTxDone = errors.New("ErrTxDone")

// StateDB 执行器使用的状态数据库，所有写操作都在事务内缓存，提交时一次性写入
type StateDB struct {
	db   DB
	txMu sync.Mutex
}

// NewStateDB new
func NewStateDB(db DB) *StateDB {
	return &StateDB{db: db}
}

// Get 读取已经提交的状态
func (s *StateDB) Get(key []byte) ([]byte, error) {
	return s.db.Get(key)
}

// Set 事务外直接写入, 等待正在执行的事务结束
func (s *StateDB) Set(key []byte, value []byte) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	return s.db.Set(key, value)
}

// List 列出已经提交的状态
func (s *StateDB) List(prefix []byte) ([][]byte, error) {
	return s.db.List(prefix)
}

// Begin 开始一个事务, 同一时间只有一个事务打开
func (s *StateDB) Begin() *Tx {
	s.txMu.Lock()
	return &Tx{s: s, cache: make(map[string]kv)}
}

// Tx 状态事务, 读操作可以看到本事务未提交的写
type Tx struct {
	s     *StateDB
	cache map[string]kv
	keys  []string
	done  bool
}

// Get get
func (tx *Tx) Get(key []byte) ([]byte, error) {
	if tx.done {
		return nil, ErrTxDone
	}
	if w, ok := tx.cache[string(key)]; ok {
		if w.del {
			return nil, ErrNotFoundInDb
		}
		return common.CopyBytes(w.v), nil
	}
	return tx.s.db.Get(key)
}

// Set set
func (tx *Tx) Set(key []byte, value []byte) error {
	if tx.done {
		return ErrTxDone
	}
	tx.put(kv{k: common.CopyBytes(key), v: common.CopyBytes(value)})
	return nil
}

// Delete delete
func (tx *Tx) Delete(key []byte) error {
	if tx.done {
		return ErrTxDone
	}
	tx.put(kv{k: common.CopyBytes(key), del: true})
	return nil
}

func (tx *Tx) put(w kv) {
	if _, ok := tx.cache[string(w.k)]; !ok {
		tx.keys = append(tx.keys, string(w.k))
	}
	tx.cache[string(w.k)] = w
}

// Commit 按写入顺序提交
func (tx *Tx) Commit() error {
	if tx.done {
		return ErrTxDone
	}
	defer tx.finish()
	batch := tx.s.db.NewBatch(true)
	for _, k := range tx.keys {
		w := tx.cache[k]
		if w.del {
			batch.Delete(w.k)
		} else {
			batch.Set(w.k, w.v)
		}
	}
	return batch.Write()
}

// Rollback 丢弃所有未提交的写, 已经结束的事务上调用无效果
func (tx *Tx) Rollback() {
	if tx.done {
		return
	}
	tx.finish()
}

func (tx *Tx) finish() {
	tx.done = true
	tx.cache = nil
	tx.keys = nil
	tx.s.txMu.Unlock()
}
