// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dapp

import (
	"math"

	"github.com/33cn/condition/account"
	"github.com/33cn/condition/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

// Share 结算时某一方应得的份额
type Share struct {
	To     common.Address
	Amount uint64
}

// Settle 把托管地址的全部余额按 shares 顺序转出
// shares 之和必须等于当前余额, 数额为 0 的份额跳过, 结束后托管余额必须为 0
func Settle(ledger *account.DB, escrow common.Address, shares []Share) ([]*Disbursement, *types.Receipt, error) {
	balance := ledger.BalanceOf(escrow)
	var sum uint64
	for _, s := range shares {
		if sum > math.MaxUint64-s.Amount {
			return nil, nil, errors.Wrap(types.ErrSettleMismatch, "shares overflow")
		}
		sum += s.Amount
	}
	if sum != balance {
		return nil, nil, errors.Wrapf(types.ErrSettleMismatch, "shares %d, balance %d", sum, balance)
	}
	receipt := &types.Receipt{Ty: types.ExecOk}
	var disbursements []*Disbursement
	for _, s := range shares {
		if s.Amount == 0 {
			continue
		}
		r, err := ledger.Transfer(escrow, s.To, s.Amount)
		if err != nil {
			return nil, nil, err
		}
		receipt.Merge(r)
		disbursements = append(disbursements, &Disbursement{
			Token:  ledger.Token(),
			From:   escrow,
			To:     s.To,
			Amount: s.Amount,
		})
	}
	if remain := ledger.BalanceOf(escrow); remain != 0 {
		return nil, nil, errors.Wrapf(types.ErrSettleMismatch, "remain %d", remain)
	}
	return disbursements, receipt, nil
}

// SplitTie 平分余额, 奇数余额多出的 1 归 remainderToFirst 指定的一方, first 总是先转
func SplitTie(balance uint64, first, second common.Address, remainderToFirst bool) []Share {
	firstAmount := balance / 2
	secondAmount := balance / 2
	if balance%2 == 1 {
		if remainderToFirst {
			firstAmount++
		} else {
			secondAmount++
		}
	}
	return []Share{{To: first, Amount: firstAmount}, {To: second, Amount: secondAmount}}
}

// Winner 全部余额给一方
func Winner(balance uint64, to common.Address) []Share {
	return []Share{{To: to, Amount: balance}}
}
