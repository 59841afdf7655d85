// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import (
	"fmt"

	"github.com/33cn/condition/common/template"
	"github.com/33cn/condition/system/dapp"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

// Decision 仲裁结果, 也用作托管的结算结果
type Decision uint32

// 结算给哪一方
const (
	DecisionSender Decision = iota + 1
	DecisionReceiver
)

func (d Decision) String() string {
	switch d {
	case DecisionSender:
		return "Sender"
	case DecisionReceiver:
		return "Receiver"
	}
	return fmt.Sprintf("Decision(%d)", uint32(d))
}

// Valid 是否是合法的仲裁结果
func (d Decision) Valid() bool {
	return d == DecisionSender || d == DecisionReceiver
}

// ParseDecision sender / receiver
func ParseDecision(s string) (Decision, error) {
	switch s {
	case "sender":
		return DecisionSender, nil
	case "receiver":
		return DecisionReceiver, nil
	}
	return 0, errors.Errorf("unknown decision %q", s)
}

// Params 绑定到合约代码中的参数
type Params struct {
	Token        ethcommon.Address
	Sender       ethcommon.Address
	Receiver     ethcommon.Address
	NST          ethcommon.Address
	NSTID        [32]byte
	Arbitrator   ethcommon.Address
	ChallengeEnd uint64
	Bridge       ethcommon.Address
}

// SetNSTID 设置 NST 编号
func (p *Params) SetNSTID(id *uint256.Int) {
	p.NSTID = id.Bytes32()
}

// NSTIDInt NST 编号
func (p *Params) NSTIDInt() *uint256.Int {
	return new(uint256.Int).SetBytes(p.NSTID[:])
}

// Values 模板绑定值
func (p *Params) Values() (map[string][]byte, error) {
	end, err := template.Uint64(p.ChallengeEnd, ChallengeEndWidth)
	if err != nil {
		return nil, err
	}
	return map[string][]byte{
		ParamToken:        template.Address(p.Token),
		ParamSender:       template.Address(p.Sender),
		ParamReceiver:     template.Address(p.Receiver),
		ParamNST:          template.Address(p.NST),
		ParamNSTID:        template.Hash(p.NSTID),
		ParamArbitrator:   template.Address(p.Arbitrator),
		ParamChallengeEnd: end,
		ParamBridge:       template.Address(p.Bridge),
	}, nil
}

// ParamsFromValues 从模板提取的值还原参数
func ParamsFromValues(values map[string][]byte) (*Params, error) {
	var p Params
	addrs := []struct {
		name string
		dst  *ethcommon.Address
	}{
		{ParamToken, &p.Token},
		{ParamSender, &p.Sender},
		{ParamReceiver, &p.Receiver},
		{ParamNST, &p.NST},
		{ParamArbitrator, &p.Arbitrator},
		{ParamBridge, &p.Bridge},
	}
	for _, a := range addrs {
		addr, err := template.ToAddress(values[a.name])
		if err != nil {
			return nil, errors.Wrap(err, a.name)
		}
		*a.dst = addr
	}
	id, err := template.ToUint(values[ParamNSTID])
	if err != nil {
		return nil, errors.Wrap(err, ParamNSTID)
	}
	p.SetNSTID(id)
	end, err := template.ToUint(values[ParamChallengeEnd])
	if err != nil {
		return nil, errors.Wrap(err, ParamChallengeEnd)
	}
	p.ChallengeEnd = end.Uint64()
	return &p, nil
}

// ArbitrationMessage 仲裁人签名的内容: 托管地址 || 结果
func ArbitrationMessage(escrow ethcommon.Address, decision Decision) []byte {
	return append(escrow.Bytes(), byte(decision))
}

// ReceiptChallenge 挑战日志
type ReceiptChallenge struct {
	Escrow       ethcommon.Address
	Challenger   ethcommon.Address
	ChallengeEnd uint64
	At           uint64
}

// ReceiptArbitrate 仲裁日志
type ReceiptArbitrate struct {
	Escrow     ethcommon.Address
	Arbitrator ethcommon.Address
	Decision   uint32
	At         uint64
}

// ReceiptSettle 结算日志
type ReceiptSettle struct {
	Escrow        ethcommon.Address
	Token         ethcommon.Address
	Decision      uint32
	Balance       uint64
	Disbursements []*dapp.Disbursement
}
