// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package crypto

import (
	"crypto/ecdsa"

	"github.com/33cn/condition/common"
	secp256k1 "github.com/btcsuite/btcd/btcec/v2"
	ethcommon "github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

// GenKey 生成私钥
func GenKey() (*ecdsa.PrivateKey, error) {
	priv, err := secp256k1.NewPrivateKey()
	if err != nil {
		return nil, errors.Wrap(err, "GenKey")
	}
	return ethcrypto.ToECDSA(priv.Serialize())
}

// HexToKey hex 私钥, 可带 0x 前缀
func HexToKey(s string) (*ecdsa.PrivateKey, error) {
	b, err := common.FromHex(s)
	if err != nil {
		return nil, errors.Wrap(err, "HexToKey")
	}
	key, err := ethcrypto.ToECDSA(b)
	if err != nil {
		return nil, errors.Wrap(err, "HexToKey")
	}
	return key, nil
}

// KeyAddress 私钥对应的地址
func KeyAddress(key *ecdsa.PrivateKey) ethcommon.Address {
	return ethcrypto.PubkeyToAddress(key.PublicKey)
}

// KeyToHex 私钥 -> hex
func KeyToHex(key *ecdsa.PrivateKey) string {
	return common.ToHex(ethcrypto.FromECDSA(key))
}
