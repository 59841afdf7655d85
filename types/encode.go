// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"
)

// Encode 编码, 状态数据只允许可 rlp 编码的结构体
func Encode(data interface{}) []byte {
	b, err := rlp.EncodeToBytes(data)
	if err != nil {
		panic(err)
	}
	return b
}

// Decode 解码
func Decode(data []byte, msg interface{}) error {
	if err := rlp.DecodeBytes(data, msg); err != nil {
		return errors.Wrap(ErrDecode, err.Error())
	}
	return nil
}

// DecodeLog 按日志类型解码 ReceiptLog
func DecodeLog(log *ReceiptLog, msg interface{}) error {
	if log == nil {
		return ErrNotFound
	}
	return Decode(log.Log, msg)
}
