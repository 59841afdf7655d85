// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package account 托管合约使用的 token 账本

每个 token 地址一个 DB, 提供 balanceOf / transfer / approve / transferFrom / mint,
所有写操作返回 receipt, 日志中带有变更前后的账户快照和可审计的转账记录.
*/
package account

import (
	"fmt"
	"math"
	"strings"

	dbm "github.com/33cn/condition/common/db"
	"github.com/33cn/condition/types"
	"github.com/ethereum/go-ethereum/common"
	log "github.com/inconshreveable/log15"
	"github.com/pkg/errors"
)

var alog = log.New("module", "account")

// DB for account
type DB struct {
	db                 dbm.KV
	token              common.Address
	accountKeyPrefix   []byte
	allowanceKeyPrefix []byte
}

// NewAccountDB 某个 token 的账本
func NewAccountDB(token common.Address, db dbm.KV) *DB {
	acc := &DB{token: token}
	acc.accountKeyPrefix = []byte(SymbolPrefix(token))
	acc.allowanceKeyPrefix = []byte(SymbolPrefix(token) + "allow-")
	acc.SetDB(db)
	return acc
}

// SymbolPrefix 账户 key 前缀
func SymbolPrefix(token common.Address) string {
	return fmt.Sprintf("mavl-token-%s-", strings.ToLower(token.Hex()))
}

// SetDB 切换底层 kv, 执行器在事务内使用
func (acc *DB) SetDB(db dbm.KV) *DB {
	acc.db = db
	return acc
}

// Token token 地址
func (acc *DB) Token() common.Address {
	return acc.token
}

// AccountKey return the key of address in DB
func (acc *DB) AccountKey(addr common.Address) (key []byte) {
	key = append(key, acc.accountKeyPrefix...)
	key = append(key, []byte(strings.ToLower(addr.Hex()))...)
	return key
}

// AllowanceKey owner 给 spender 的授权
func (acc *DB) AllowanceKey(owner, spender common.Address) (key []byte) {
	key = append(key, acc.allowanceKeyPrefix...)
	key = append(key, []byte(strings.ToLower(owner.Hex()))...)
	key = append(key, '-')
	key = append(key, []byte(strings.ToLower(spender.Hex()))...)
	return key
}

// LoadAccount 读取账户, 不存在时返回零余额账户
func (acc *DB) LoadAccount(addr common.Address) *types.Account {
	value, err := acc.db.Get(acc.AccountKey(addr))
	if err != nil {
		return &types.Account{Token: acc.token, Addr: addr}
	}
	var acc1 types.Account
	err = types.Decode(value, &acc1)
	if err != nil {
		panic(err) //数据库已经损坏
	}
	return &acc1
}

// BalanceOf 余额
func (acc *DB) BalanceOf(addr common.Address) uint64 {
	return acc.LoadAccount(addr).Balance
}

// CheckTransfer 检查是否可以转账
func (acc *DB) CheckTransfer(from, to common.Address, amount uint64) error {
	if amount == 0 {
		return types.ErrAmount
	}
	if from == to {
		return types.ErrSendSameToRecv
	}
	if acc.BalanceOf(from) < amount {
		return types.ErrNoBalance
	}
	if acc.BalanceOf(to) > math.MaxUint64-amount {
		return errors.Wrap(types.ErrAmount, "balance overflow")
	}
	return nil
}

// Transfer from -> to
func (acc *DB) Transfer(from, to common.Address, amount uint64) (*types.Receipt, error) {
	if err := acc.CheckTransfer(from, to, amount); err != nil {
		alog.Error("Transfer", "token", acc.token, "from", from, "to", to, "amount", amount, "err", err)
		return nil, err
	}
	accFrom := acc.LoadAccount(from)
	accTo := acc.LoadAccount(to)
	copyfrom := *accFrom
	copyto := *accTo

	accFrom.Balance -= amount
	accTo.Balance += amount

	receiptBalanceFrom := &types.ReceiptAccountTransfer{
		Prev:    &copyfrom,
		Current: accFrom,
	}
	receiptBalanceTo := &types.ReceiptAccountTransfer{
		Prev:    &copyto,
		Current: accTo,
	}
	if err := acc.SaveAccount(accFrom); err != nil {
		return nil, err
	}
	if err := acc.SaveAccount(accTo); err != nil {
		return nil, err
	}
	transfer := &types.ReceiptTransfer{Token: acc.token, From: from, To: to, Amount: amount}
	return acc.transferReceipt(transfer, accFrom, accTo, receiptBalanceFrom, receiptBalanceTo), nil
}

// Mint 增发到 to
func (acc *DB) Mint(to common.Address, amount uint64) (*types.Receipt, error) {
	if amount == 0 {
		return nil, types.ErrAmount
	}
	acc1 := acc.LoadAccount(to)
	if acc1.Balance > math.MaxUint64-amount {
		return nil, errors.Wrap(types.ErrAmount, "balance overflow")
	}
	copyacc := *acc1
	acc1.Balance += amount
	if err := acc.SaveAccount(acc1); err != nil {
		return nil, err
	}
	receiptBalance := &types.ReceiptAccountTransfer{
		Prev:    &copyacc,
		Current: acc1,
	}
	mint := &types.ReceiptTransfer{Token: acc.token, To: to, Amount: amount}
	return &types.Receipt{
		Ty: types.ExecOk,
		KV: acc.GetKVSet(acc1),
		Logs: []*types.ReceiptLog{
			{Ty: types.TyLogMint, Log: types.Encode(mint)},
			{Ty: types.TyLogBalance, Log: types.Encode(receiptBalance)},
		},
	}, nil
}

func (acc *DB) transferReceipt(transfer *types.ReceiptTransfer, accFrom, accTo *types.Account, receiptFrom, receiptTo *types.ReceiptAccountTransfer) *types.Receipt {
	kv := acc.GetKVSet(accFrom)
	kv = append(kv, acc.GetKVSet(accTo)...)
	return &types.Receipt{
		Ty: types.ExecOk,
		KV: kv,
		Logs: []*types.ReceiptLog{
			{Ty: types.TyLogTransfer, Log: types.Encode(transfer)},
			{Ty: types.TyLogBalance, Log: types.Encode(receiptFrom)},
			{Ty: types.TyLogBalance, Log: types.Encode(receiptTo)},
		},
	}
}

// SaveAccount 写入账户
func (acc *DB) SaveAccount(acc1 *types.Account) error {
	set := acc.GetKVSet(acc1)
	for i := 0; i < len(set); i++ {
		if err := acc.db.Set(set[i].Key, set[i].Value); err != nil {
			return err
		}
	}
	return nil
}

// GetKVSet 账户对应的 kv
func (acc *DB) GetKVSet(acc1 *types.Account) (kvset []*types.KeyValue) {
	value := types.Encode(acc1)
	kvset = append(kvset, &types.KeyValue{
		Key:   acc.AccountKey(acc1.Addr),
		Value: value,
	})
	return kvset
}

// LoadAccounts 批量读取
func (acc *DB) LoadAccounts(addrs []common.Address) []*types.Account {
	accs := make([]*types.Account, 0, len(addrs))
	for _, addr := range addrs {
		accs = append(accs, acc.LoadAccount(addr))
	}
	return accs
}

// GetTransfers 从 receipt 中取出转账记录, 保持顺序
func GetTransfers(receipt *types.Receipt) ([]*types.ReceiptTransfer, error) {
	var transfers []*types.ReceiptTransfer
	if receipt == nil {
		return nil, nil
	}
	for _, l := range receipt.Logs {
		if l.Ty != types.TyLogTransfer {
			continue
		}
		var t types.ReceiptTransfer
		if err := types.DecodeLog(l, &t); err != nil {
			return nil, err
		}
		transfers = append(transfers, &t)
	}
	return transfers, nil
}
