// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dapp 托管执行器的公共部分: 状态读写, 事务, 结算
package dapp

import (
	"sync"

	"github.com/33cn/condition/account"
	"github.com/33cn/condition/common/address"
	dbm "github.com/33cn/condition/common/db"
	"github.com/33cn/condition/types"
	"github.com/coder/quartz"
	"github.com/ethereum/go-ethereum/common"
	log "github.com/inconshreveable/log15"
	"github.com/pkg/errors"
	"github.com/rcrowley/go-metrics"
)

var blog = log.New("module", "execs.base")

// DriverBase 执行器基础结构, 每个托管实例上的调用互斥执行
type DriverBase struct {
	name          string
	addressDriver string
	statedb       *dbm.StateDB
	clock         quartz.Clock

	mu    sync.Mutex
	locks map[common.Address]*sync.Mutex

	registry  metrics.Registry
	settled   metrics.Counter
	rejected  metrics.Counter
	disbursed metrics.Counter
}

// NewDriverBase new
func NewDriverBase(name string, statedb *dbm.StateDB, clock quartz.Clock, addressDriver string) *DriverBase {
	if clock == nil {
		clock = quartz.NewReal()
	}
	if addressDriver == "" {
		addressDriver = address.DefaultDriver
	}
	registry := metrics.NewRegistry()
	return &DriverBase{
		name:          name,
		addressDriver: addressDriver,
		statedb:       statedb,
		clock:         clock,
		locks:         make(map[common.Address]*sync.Mutex),
		registry:      registry,
		settled:       metrics.GetOrRegisterCounter(name+"/settled", registry),
		rejected:      metrics.GetOrRegisterCounter(name+"/rejected", registry),
		disbursed:     metrics.GetOrRegisterCounter(name+"/disbursed", registry),
	}
}

// GetName 执行器名字
func (d *DriverBase) GetName() string { return d.name }

// GetStateDB statedb
func (d *DriverBase) GetStateDB() *dbm.StateDB { return d.statedb }

// GetClock 时钟
func (d *DriverBase) GetClock() quartz.Clock { return d.clock }

// GetBlockTime 当前时间, unix 秒
func (d *DriverBase) GetBlockTime() int64 { return d.clock.Now().Unix() }

// Metrics 计数器
func (d *DriverBase) Metrics() metrics.Registry { return d.registry }

// DeriveAddress 按执行器配置的地址驱动计算托管地址
func (d *DriverBase) DeriveAddress(code []byte) (common.Address, error) {
	return address.Derive(d.addressDriver, code)
}

// Query 读取已提交的托管状态
func (d *DriverBase) Query(addr common.Address) (*EscrowRecord, error) {
	return loadEscrow(d.statedb, d.name, addr)
}

// List 列出本执行器的全部托管
func (d *DriverBase) List() ([]*EscrowRecord, error) {
	values, err := d.statedb.List([]byte(EscrowPrefix(d.name)))
	if err != nil {
		return nil, err
	}
	recs := make([]*EscrowRecord, 0, len(values))
	for _, v := range values {
		var rec EscrowRecord
		if err := types.Decode(v, &rec); err != nil {
			return nil, err
		}
		recs = append(recs, &rec)
	}
	return recs, nil
}

// Balance 已提交状态下某地址的 token 余额
func (d *DriverBase) Balance(token, addr common.Address) uint64 {
	return account.NewAccountDB(token, d.statedb).BalanceOf(addr)
}

func (d *DriverBase) lock(addr common.Address) *sync.Mutex {
	d.mu.Lock()
	defer d.mu.Unlock()
	l, ok := d.locks[addr]
	if !ok {
		l = &sync.Mutex{}
		d.locks[addr] = l
	}
	return l
}

// Execute 在一个事务内执行对托管 addr 的调用, 出错时回滚, 不留下任何状态变化
func (d *DriverBase) Execute(addr common.Address, action string, fn func(ctx *Context) (*types.Receipt, error)) (*types.Receipt, error) {
	l := d.lock(addr)
	l.Lock()
	defer l.Unlock()

	tx := d.statedb.Begin()
	ctx := &Context{KV: tx, base: d, now: d.GetBlockTime()}
	receipt, err := fn(ctx)
	if err != nil {
		tx.Rollback()
		d.rejected.Inc(1)
		blog.Error("Execute", "exec", d.name, "action", action, "escrow", addr, "err", err)
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		d.rejected.Inc(1)
		blog.Error("Execute commit", "exec", d.name, "action", action, "escrow", addr, "err", err)
		return nil, err
	}
	if ctx.settled {
		d.settled.Inc(1)
		d.disbursed.Inc(int64(ctx.disbursed))
		blog.Info("escrow settled", "exec", d.name, "action", action, "escrow", addr, "amount", ctx.disbursed)
	}
	return receipt, nil
}

// Deploy 部署托管: 地址由代码计算, 同一地址只能部署一次
func (d *DriverBase) Deploy(code []byte, logTy int32, build func(addr common.Address) (*EscrowRecord, error)) (*EscrowRecord, *types.Receipt, error) {
	addr, err := d.DeriveAddress(code)
	if err != nil {
		return nil, nil, err
	}
	var rec *EscrowRecord
	receipt, err := d.Execute(addr, "deploy", func(ctx *Context) (*types.Receipt, error) {
		if _, err := ctx.LoadEscrow(addr); err == nil {
			return nil, errors.Wrapf(types.ErrEscrowExists, "%s", addr.Hex())
		} else if !errors.Is(err, types.ErrNotFound) {
			return nil, err
		}
		built, berr := build(addr)
		if berr != nil {
			return nil, berr
		}
		rec = built
		rec.CreatedAt = uint64(ctx.Now())
		kvs, err := ctx.SaveEscrow(rec)
		if err != nil {
			return nil, err
		}
		return &types.Receipt{
			Ty:   types.ExecOk,
			KV:   kvs,
			Logs: []*types.ReceiptLog{{Ty: logTy, Log: types.Encode(rec)}},
		}, nil
	})
	if err != nil {
		return nil, nil, err
	}
	blog.Info("escrow deployed", "exec", d.name, "escrow", addr, "token", rec.Token)
	return rec, receipt, nil
}

func loadEscrow(kv dbm.KV, kind string, addr common.Address) (*EscrowRecord, error) {
	value, err := kv.Get(EscrowKey(kind, addr))
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return nil, errors.Wrapf(types.ErrNotFound, "escrow %s", addr.Hex())
		}
		return nil, err
	}
	var rec EscrowRecord
	if err := types.Decode(value, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Context 一次调用的执行环境
type Context struct {
	KV        dbm.KV
	base      *DriverBase
	now       int64
	settled   bool
	disbursed uint64
}

// Now 调用时刻, 同一次调用内不变
func (c *Context) Now() int64 { return c.now }

// Ledger token 账本, 读写都在当前事务内
func (c *Context) Ledger(token common.Address) *account.DB {
	return account.NewAccountDB(token, c.KV)
}

// LoadEscrow 读取托管
func (c *Context) LoadEscrow(addr common.Address) (*EscrowRecord, error) {
	return loadEscrow(c.KV, c.base.name, addr)
}

// LoadOpenEscrow 读取托管, 已结算时返回 ErrAlreadySettled
func (c *Context) LoadOpenEscrow(addr common.Address) (*EscrowRecord, error) {
	rec, err := c.LoadEscrow(addr)
	if err != nil {
		return nil, err
	}
	if rec.IsSettled() {
		return nil, errors.Wrapf(types.ErrAlreadySettled, "escrow %s", addr.Hex())
	}
	return rec, nil
}

// SaveEscrow 写入托管
func (c *Context) SaveEscrow(rec *EscrowRecord) ([]*types.KeyValue, error) {
	kvc := NewKVCreator(c.KV).AddEncode(EscrowKey(c.base.name, rec.Address), rec)
	return kvc.KVList(), kvc.Err()
}

// Settle 按份额结算并把托管置为终态, 与调用在同一事务内
// 返回的 receipt 包含转账日志和托管状态 kv, 调用者追加自己的结算日志
func (c *Context) Settle(rec *EscrowRecord, outcome uint32, shares []Share) ([]*Disbursement, *types.Receipt, error) {
	if rec.IsSettled() {
		return nil, nil, errors.Wrapf(types.ErrAlreadySettled, "escrow %s", rec.Address.Hex())
	}
	ledger := c.Ledger(rec.Token)
	balance := ledger.BalanceOf(rec.Address)
	disbursements, receipt, err := Settle(ledger, rec.Address, shares)
	if err != nil {
		return nil, nil, err
	}
	rec.State = EscrowSettled
	rec.Outcome = outcome
	rec.Balance = balance
	rec.Disbursements = disbursements
	rec.SettledAt = uint64(c.now)
	kvs, err := c.SaveEscrow(rec)
	if err != nil {
		return nil, nil, err
	}
	receipt.KV = append(receipt.KV, kvs...)
	c.settled = true
	c.disbursed = balance
	return disbursements, receipt, nil
}
