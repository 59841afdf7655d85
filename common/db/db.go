// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package db 数据库接口以及后端实现
package db

import (
	"github.com/33cn/condition/types"
	log "github.com/inconshreveable/log15"
	"github.com/pkg/errors"
)

var dlog = log.New("module", "db")

// ErrNotFoundInDb key不存在
var ErrNotFoundInDb = types.ErrNotFound

// KV 执行器读写状态的最小接口
type KV interface {
	Get(key []byte) ([]byte, error)
	Set(key []byte, value []byte) error
}

// DB 数据库后端接口
type DB interface {
	KV
	SetSync([]byte, []byte) error
	Delete([]byte) error
	Close()
	NewBatch(sync bool) Batch
	// List 返回所有以prefix开头的value, 按key升序
	List(prefix []byte) ([][]byte, error)
}

// Batch 批量写
type Batch interface {
	Set(key, value []byte)
	Delete(key []byte)
	Write() error
}

//-----------------------------------------------------------------------------

// 支持的后端
const (
	LevelDBBackendStr    = "leveldb" // legacy, defaults to goleveldb.
	GoLevelDBBackendStr  = "goleveldb"
	MemDBBackendStr      = "memdb"
	GoBadgerDBBackendStr = "gobadgerdb"
)

type dbCreator func(name string, dir string) (DB, error)

var backends = map[string]dbCreator{}

func registerDBCreator(backend string, creator dbCreator, force bool) {
	_, ok := backends[backend]
	if !force && ok {
		return
	}
	backends[backend] = creator
}

// NewDB 根据后端名字创建数据库
func NewDB(name string, backend string, dir string) (DB, error) {
	creator, ok := backends[backend]
	if !ok {
		return nil, errors.Errorf("unknown db backend %q", backend)
	}
	db, err := creator(name, dir)
	if err != nil {
		dlog.Error("NewDB", "backend", backend, "dir", dir, "err", err)
		return nil, errors.Wrapf(err, "open %s db", backend)
	}
	return db, nil
}
