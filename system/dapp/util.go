// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dapp

import (
	"github.com/33cn/condition/common/db"
	"github.com/33cn/condition/types"
)

//KVCreator 创建KV的辅助工具, 记录写入的kv用于receipt
type KVCreator struct {
	kvs  []*types.KeyValue
	kvdb db.KV
	err  error
}

//NewKVCreator 创建创建者
func NewKVCreator(kv db.KV) *KVCreator {
	return &KVCreator{kvdb: kv}
}

func (c *KVCreator) add(key, value []byte, set bool) *KVCreator {
	c.kvs = append(c.kvs, &types.KeyValue{Key: key, Value: value})
	if set && c.err == nil {
		c.err = c.kvdb.Set(key, value)
	}
	return c
}

//Add add and set to kvdb
func (c *KVCreator) Add(key, value []byte) *KVCreator {
	return c.add(key, value, true)
}

//AddEncode add and set to kvdb, value 使用 types.Encode 编码
func (c *KVCreator) AddEncode(key []byte, value interface{}) *KVCreator {
	return c.add(key, types.Encode(value), true)
}

//AddKV only add KV
func (c *KVCreator) AddKV(key, value []byte) *KVCreator {
	return c.add(key, value, false)
}

//KVList 读取所有的kv列表
func (c *KVCreator) KVList() []*types.KeyValue {
	return c.kvs
}

//Err 第一个写入错误
func (c *KVCreator) Err() error {
	return c.err
}
