// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package account

import (
	"encoding/binary"

	"github.com/33cn/condition/types"
	"github.com/ethereum/go-ethereum/common"
)

// Allowance owner 授权给 spender 的额度
func (acc *DB) Allowance(owner, spender common.Address) uint64 {
	value, err := acc.db.Get(acc.AllowanceKey(owner, spender))
	if err != nil || len(value) != 8 {
		return 0
	}
	return binary.BigEndian.Uint64(value)
}

func (acc *DB) setAllowance(owner, spender common.Address, amount uint64) *types.KeyValue {
	value := make([]byte, 8)
	binary.BigEndian.PutUint64(value, amount)
	return &types.KeyValue{Key: acc.AllowanceKey(owner, spender), Value: value}
}

// Approve 覆盖授权额度, amount 为 0 表示取消授权
func (acc *DB) Approve(owner, spender common.Address, amount uint64) (*types.Receipt, error) {
	if owner == spender {
		return nil, types.ErrSendSameToRecv
	}
	kv := acc.setAllowance(owner, spender, amount)
	if err := acc.db.Set(kv.Key, kv.Value); err != nil {
		return nil, err
	}
	approve := &types.ReceiptApprove{Token: acc.token, Owner: owner, Spender: spender, Amount: amount}
	return &types.Receipt{
		Ty:   types.ExecOk,
		KV:   []*types.KeyValue{kv},
		Logs: []*types.ReceiptLog{{Ty: types.TyLogApprove, Log: types.Encode(approve)}},
	}, nil
}

// TransferFrom spender 使用 from 的授权额度转账到 to
func (acc *DB) TransferFrom(spender, from, to common.Address, amount uint64) (*types.Receipt, error) {
	allowance := acc.Allowance(from, spender)
	if allowance < amount {
		alog.Error("TransferFrom", "token", acc.token, "owner", from, "spender", spender, "allowance", allowance, "amount", amount)
		return nil, types.ErrAllowance
	}
	receipt, err := acc.Transfer(from, to, amount)
	if err != nil {
		return nil, err
	}
	kv := acc.setAllowance(from, spender, allowance-amount)
	if err := acc.db.Set(kv.Key, kv.Value); err != nil {
		return nil, err
	}
	receipt.KV = append(receipt.KV, kv)
	return receipt, nil
}
