// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import (
	"github.com/ethereum/go-ethereum/common"
)

// 执行结果
const (
	ExecErr  = 0
	ExecPack = 1
	ExecOk   = 2
)

// log type
const (
	TyLogErr = 1

	TyLogTransfer = 100
	TyLogApprove  = 101
	TyLogMint     = 102
	TyLogBalance  = 103

	TyLogGameCondDeploy = 700
	TyLogGameCondSettle = 701

	TyLogArbitrableDeploy    = 720
	TyLogArbitrableChallenge = 721
	TyLogArbitrableArbitrate = 722
	TyLogArbitrableSettle    = 723
)

var logName = map[int32]string{
	TyLogErr:                 "LogErr",
	TyLogTransfer:            "LogTransfer",
	TyLogApprove:             "LogApprove",
	TyLogMint:                "LogMint",
	TyLogBalance:             "LogBalance",
	TyLogGameCondDeploy:      "LogGameCondDeploy",
	TyLogGameCondSettle:      "LogGameCondSettle",
	TyLogArbitrableDeploy:    "LogArbitrableDeploy",
	TyLogArbitrableChallenge: "LogArbitrableChallenge",
	TyLogArbitrableArbitrate: "LogArbitrableArbitrate",
	TyLogArbitrableSettle:    "LogArbitrableSettle",
}

// GetLogName 日志类型名称
func GetLogName(ty int32) string {
	if name, ok := logName[ty]; ok {
		return name
	}
	return "LogReserved"
}

// KeyValue 状态数据库写入项, Value 为 nil 表示删除
type KeyValue struct {
	Key   []byte
	Value []byte
}

// ReceiptLog 单条执行日志, Log 为 Encode 后的结构体
type ReceiptLog struct {
	Ty  int32
	Log []byte
}

// Receipt 一次执行的全部状态变更与日志
type Receipt struct {
	Ty   int32
	KV   []*KeyValue
	Logs []*ReceiptLog
}

// Merge 追加另一个 receipt 的 kv 与 logs
func (r *Receipt) Merge(other *Receipt) {
	if other == nil {
		return
	}
	r.KV = append(r.KV, other.KV...)
	r.Logs = append(r.Logs, other.Logs...)
}

// Account 某个 token 下的账户
type Account struct {
	Token   common.Address
	Addr    common.Address
	Balance uint64
}

// ReceiptAccountTransfer 账户变更前后快照
type ReceiptAccountTransfer struct {
	Prev    *Account
	Current *Account
}

// ReceiptTransfer 可审计的转账记录
type ReceiptTransfer struct {
	Token  common.Address
	From   common.Address
	To     common.Address
	Amount uint64
}

// ReceiptApprove 授权记录
type ReceiptApprove struct {
	Token   common.Address
	Owner   common.Address
	Spender common.Address
	Amount  uint64
}
