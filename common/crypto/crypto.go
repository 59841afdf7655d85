// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package crypto secp256k1 签名与签名者恢复, 支持 raw / keccak / personal 三种摘要方式
package crypto

import (
	"crypto/ecdsa"
	"math/big"

	"github.com/33cn/condition/common"
	"github.com/33cn/condition/types"
	"github.com/ethereum/go-ethereum/accounts"
	ethcommon "github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

// Scheme 摘要方式, 由合约类型决定, 不由调用者选择
type Scheme string

const (
	// SchemeRaw 载荷(不超过32字节)左对齐拷贝到32字节摘要
	SchemeRaw Scheme = "raw"
	// SchemeKeccak keccak256(载荷)
	SchemeKeccak Scheme = "keccak"
	// SchemePersonal keccak256("\x19Ethereum Signed Message:\n" + len + 载荷)
	SchemePersonal Scheme = "personal"
)

// ParseScheme string -> Scheme
func ParseScheme(s string) (Scheme, error) {
	switch Scheme(s) {
	case SchemeRaw, SchemeKeccak, SchemePersonal:
		return Scheme(s), nil
	}
	return "", errors.Wrapf(types.ErrDigestScheme, "%q", s)
}

// Digest 计算待签名的32字节摘要
func Digest(scheme Scheme, msg []byte) ([]byte, error) {
	switch scheme {
	case SchemeRaw:
		if len(msg) > 32 {
			return nil, errors.Wrapf(types.ErrDigestScheme, "raw payload %d bytes", len(msg))
		}
		digest := make([]byte, 32)
		copy(digest, msg)
		return digest, nil
	case SchemeKeccak:
		return common.Keccak256(msg), nil
	case SchemePersonal:
		return accounts.TextHash(msg), nil
	}
	return nil, errors.Wrapf(types.ErrDigestScheme, "%q", scheme)
}

// Sign 签名, V 为 27/28
func Sign(scheme Scheme, key *ecdsa.PrivateKey, msg []byte) (Signature, error) {
	digest, err := Digest(scheme, msg)
	if err != nil {
		return Signature{}, err
	}
	raw, err := ethcrypto.Sign(digest, key)
	if err != nil {
		return Signature{}, errors.Wrap(err, "sign")
	}
	sig, err := SignatureFromBytes(raw)
	if err != nil {
		return Signature{}, err
	}
	sig.V += 27
	return sig, nil
}

// RecoverSigner 从签名恢复签名者地址
func RecoverSigner(scheme Scheme, msg []byte, sig Signature) (ethcommon.Address, error) {
	digest, err := Digest(scheme, msg)
	if err != nil {
		return ethcommon.Address{}, err
	}
	v := sig.V
	if v >= 27 {
		v -= 27
	}
	if v > 1 {
		return ethcommon.Address{}, errors.Wrapf(types.ErrInvalidSignature, "v=%d", sig.V)
	}
	r := new(big.Int).SetBytes(sig.R[:])
	s := new(big.Int).SetBytes(sig.S[:])
	if !ethcrypto.ValidateSignatureValues(v, r, s, true) {
		return ethcommon.Address{}, errors.Wrap(types.ErrInvalidSignature, "r/s out of range")
	}
	raw := make([]byte, 65)
	copy(raw[:32], sig.R[:])
	copy(raw[32:64], sig.S[:])
	raw[64] = v
	pub, err := ethcrypto.SigToPub(digest, raw)
	if err != nil {
		return ethcommon.Address{}, errors.Wrap(types.ErrInvalidSignature, err.Error())
	}
	return ethcrypto.PubkeyToAddress(*pub), nil
}
