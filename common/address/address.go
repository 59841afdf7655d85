// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package address 由绑定参数后的合约代码计算确定性地址
package address

import (
	"github.com/33cn/condition/types"
	ethcommon "github.com/ethereum/go-ethereum/common"
	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
)

// DefaultDriver 默认地址驱动
const DefaultDriver = Ripemd160Name

var addressCache *lru.Cache

func init() {
	addressCache, _ = lru.New(10240)
}

// Derive 使用指定驱动计算地址, 纯函数, 结果做一次cache
func Derive(name string, code []byte) (ethcommon.Address, error) {
	key := name + ":" + string(code)
	if value, ok := addressCache.Get(key); ok {
		return value.(ethcommon.Address), nil
	}
	d, err := LoadDriver(name)
	if err != nil {
		return ethcommon.Address{}, err
	}
	addr := d.CodeToAddr(code)
	addressCache.Add(key, addr)
	return addr, nil
}

// CodeAddress 默认驱动计算地址
func CodeAddress(code []byte) ethcommon.Address {
	addr, _ := Derive(DefaultDriver, code)
	return addr
}

// Validate 检查 hex 地址格式
func Validate(addr string) error {
	if !ethcommon.IsHexAddress(addr) {
		return errors.Wrapf(types.ErrInvalidAddress, "%q", addr)
	}
	return nil
}

// Parse hex -> address
func Parse(addr string) (ethcommon.Address, error) {
	if err := Validate(addr); err != nil {
		return ethcommon.Address{}, err
	}
	return ethcommon.HexToAddress(addr), nil
}

// MustParse 用于常量地址
func MustParse(addr string) ethcommon.Address {
	a, err := Parse(addr)
	if err != nil {
		panic(err)
	}
	return a
}
