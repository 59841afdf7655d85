// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package template

import (
	"github.com/33cn/condition/types"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

// Address 20 字节地址参数
func Address(a ethcommon.Address) []byte {
	return a.Bytes()
}

// Hash 32 字节参数
func Hash(h [32]byte) []byte {
	return append([]byte(nil), h[:]...)
}

// Uint 大端定宽整数参数, 超出宽度返回 ErrTemplateMismatch
func Uint(v *uint256.Int, width int) ([]byte, error) {
	if width < 1 || width > 32 {
		return nil, errors.Wrapf(types.ErrTemplateMismatch, "uint width %d", width)
	}
	if (v.BitLen()+7)/8 > width {
		return nil, errors.Wrapf(types.ErrTemplateMismatch, "%s overflows %d bytes", v.ToBig(), width)
	}
	b := v.Bytes32()
	return append([]byte(nil), b[32-width:]...), nil
}

// Uint64 Uint 的 uint64 版本
func Uint64(v uint64, width int) ([]byte, error) {
	return Uint(uint256.NewInt(v), width)
}

// MustUint 用于常量占位符
func MustUint(v uint64, width int) []byte {
	b, err := Uint64(v, width)
	if err != nil {
		panic(err)
	}
	return b
}

// ToAddress 参数 -> 地址
func ToAddress(b []byte) (ethcommon.Address, error) {
	if len(b) != ethcommon.AddressLength {
		return ethcommon.Address{}, errors.Wrapf(types.ErrTemplateMismatch, "address of %d bytes", len(b))
	}
	return ethcommon.BytesToAddress(b), nil
}

// ToHash 参数 -> 32 字节
func ToHash(b []byte) ([32]byte, error) {
	var h [32]byte
	if len(b) != 32 {
		return h, errors.Wrapf(types.ErrTemplateMismatch, "hash of %d bytes", len(b))
	}
	copy(h[:], b)
	return h, nil
}

// ToUint 参数 -> 整数
func ToUint(b []byte) (*uint256.Int, error) {
	if len(b) == 0 || len(b) > 32 {
		return nil, errors.Wrapf(types.ErrTemplateMismatch, "uint of %d bytes", len(b))
	}
	return new(uint256.Int).SetBytes(b), nil
}
