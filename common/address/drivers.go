// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package address

import (
	"github.com/33cn/condition/common"
	ethcommon "github.com/ethereum/go-ethereum/common"
)

const (
	// Ripemd160Name plasma spending condition 地址: ripemd160(code)
	Ripemd160Name = "ripemd160"
	// Keccak256Name keccak256(code) 的后 20 字节
	Keccak256Name = "keccak256"
)

func init() {
	RegisterDriver(&ripemdDriver{})
	RegisterDriver(&keccakDriver{})
}

type ripemdDriver struct{}

func (d *ripemdDriver) CodeToAddr(code []byte) ethcommon.Address {
	return ethcommon.BytesToAddress(common.Ripemd160(code))
}

func (d *ripemdDriver) GetName() string { return Ripemd160Name }

type keccakDriver struct{}

func (d *keccakDriver) CodeToAddr(code []byte) ethcommon.Address {
	return ethcommon.BytesToAddress(common.Keccak256(code)[12:])
}

func (d *keccakDriver) GetName() string { return Keccak256Name }
