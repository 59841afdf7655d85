// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package crypto

import (
	"fmt"

	"github.com/33cn/condition/common"
	"github.com/33cn/condition/types"
	"github.com/pkg/errors"
)

// SignatureLength r || s || v
const SignatureLength = 65

// Signature ECDSA 签名
type Signature struct {
	R [32]byte
	S [32]byte
	V byte
}

// SignatureFromBytes 65字节 r||s||v
func SignatureFromBytes(b []byte) (Signature, error) {
	var sig Signature
	if len(b) != SignatureLength {
		return sig, errors.Wrapf(types.ErrInvalidSignature, "length %d", len(b))
	}
	copy(sig.R[:], b[:32])
	copy(sig.S[:], b[32:64])
	sig.V = b[64]
	return sig, nil
}

// NewSignature 由 r, s, v 三个分量构造, r 和 s 最长32字节
func NewSignature(r, s []byte, v byte) (Signature, error) {
	var sig Signature
	if len(r) > 32 || len(s) > 32 {
		return sig, errors.Wrap(types.ErrInvalidSignature, "r/s longer than 32 bytes")
	}
	sig.R = common.LeftPad32(r)
	sig.S = common.LeftPad32(s)
	sig.V = v
	return sig, nil
}

// ParseSignature 解析 hex 形式的 r, s
func ParseSignature(r, s string, v byte) (Signature, error) {
	rb, err := common.FromHex(r)
	if err != nil {
		return Signature{}, errors.Wrap(types.ErrInvalidSignature, err.Error())
	}
	sb, err := common.FromHex(s)
	if err != nil {
		return Signature{}, errors.Wrap(types.ErrInvalidSignature, err.Error())
	}
	return NewSignature(rb, sb, v)
}

// Bytes 字节格式
func (sig Signature) Bytes() []byte {
	b := make([]byte, SignatureLength)
	copy(b[:32], sig.R[:])
	copy(b[32:64], sig.S[:])
	b[64] = sig.V
	return b
}

func (sig Signature) String() string {
	return fmt.Sprintf("r=%s s=%s v=%d", common.ToHex(sig.R[:]), common.ToHex(sig.S[:]), sig.V)
}
