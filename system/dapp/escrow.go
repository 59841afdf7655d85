// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dapp

import (
	"fmt"
	"strings"

	"github.com/33cn/condition/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/golang/snappy"
	"github.com/pkg/errors"
)

// EscrowState 托管状态
type EscrowState uint32

// 状态, Settled 为终态
const (
	EscrowOpen EscrowState = iota + 1
	EscrowChallenged
	EscrowSettled
)

func (s EscrowState) String() string {
	switch s {
	case EscrowOpen:
		return "Open"
	case EscrowChallenged:
		return "Challenged"
	case EscrowSettled:
		return "Settled"
	}
	return fmt.Sprintf("EscrowState(%d)", uint32(s))
}

// Disbursement 一笔已执行的结算转账
type Disbursement struct {
	Token  common.Address
	From   common.Address
	To     common.Address
	Amount uint64
}

// EscrowRecord 一个托管实例的全部状态, 只由结算流程修改
type EscrowRecord struct {
	Address common.Address
	Kind    string
	Token   common.Address
	State   EscrowState
	// Balance 结算时托管地址持有的余额
	Balance       uint64
	Outcome       uint32
	Code          []byte // snappy
	Params        []byte // rlp
	Disbursements []*Disbursement
	CreatedAt     uint64
	SettledAt     uint64
}

// NewEscrowRecord 新部署的托管
func NewEscrowRecord(kind string, addr, token common.Address, code []byte, params interface{}) *EscrowRecord {
	rec := &EscrowRecord{
		Address: addr,
		Kind:    kind,
		Token:   token,
		State:   EscrowOpen,
		Params:  types.Encode(params),
	}
	rec.SetCode(code)
	return rec
}

// SetCode 压缩保存绑定后的代码
func (r *EscrowRecord) SetCode(code []byte) {
	r.Code = snappy.Encode(nil, code)
}

// BoundCode 绑定后的代码
func (r *EscrowRecord) BoundCode() ([]byte, error) {
	code, err := snappy.Decode(nil, r.Code)
	if err != nil {
		return nil, errors.Wrap(types.ErrDecode, err.Error())
	}
	return code, nil
}

// DecodeParams 解码部署参数
func (r *EscrowRecord) DecodeParams(params interface{}) error {
	return types.Decode(r.Params, params)
}

// IsSettled 是否已经结算
func (r *EscrowRecord) IsSettled() bool {
	return r.State == EscrowSettled
}

// TotalDisbursed 已支付总额
func (r *EscrowRecord) TotalDisbursed() uint64 {
	var total uint64
	for _, d := range r.Disbursements {
		total += d.Amount
	}
	return total
}

// EscrowPrefix 某类托管的 key 前缀
func EscrowPrefix(kind string) string {
	return "mavl-" + kind + "-"
}

// EscrowKey 托管状态在 statedb 中的 key
func EscrowKey(kind string, addr common.Address) []byte {
	return []byte(EscrowPrefix(kind) + strings.ToLower(addr.Hex()))
}
