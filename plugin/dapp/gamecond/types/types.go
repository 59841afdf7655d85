// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import (
	"fmt"

	"github.com/33cn/condition/common"
	"github.com/33cn/condition/common/crypto"
	"github.com/33cn/condition/common/template"
	"github.com/33cn/condition/system/dapp"
	"github.com/33cn/condition/types"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

// Outcome 牌局结果
type Outcome uint32

// 结果
const (
	HouseWins Outcome = iota + 1
	PlayerWins
	Tie
)

func (o Outcome) String() string {
	switch o {
	case HouseWins:
		return "HouseWins"
	case PlayerWins:
		return "PlayerWins"
	case Tie:
		return "Tie"
	}
	return fmt.Sprintf("Outcome(%d)", uint32(o))
}

// Rule 比牌规则
type Rule string

// 比牌规则
const (
	// RuleHighCard 点数从大到小排序后比较
	RuleHighCard Rule = "highcard"
	// RulePositional 按位置逐张比较, 赢的张数多者胜
	RulePositional Rule = "positional"
)

// TieBreak 最大点数相同时的处理
type TieBreak string

// tie break
const (
	TieBreakKicker TieBreak = "kicker"
	TieBreakSuit   TieBreak = "suit"
	TieBreakNone   TieBreak = "none"
)

// SplitPolicy 平局时奇数余额多出的 1 归谁
type SplitPolicy string

// split
const (
	SplitHouse  SplitPolicy = "house"
	SplitPlayer SplitPolicy = "player"
)

// ParseRule 配置中的比牌规则
func ParseRule(s string) (Rule, error) {
	switch r := Rule(s); r {
	case RuleHighCard, RulePositional:
		return r, nil
	}
	return "", errors.Errorf("unknown rule %q", s)
}

// ParseTieBreak 配置中的 tie break
func ParseTieBreak(s string) (TieBreak, error) {
	switch tb := TieBreak(s); tb {
	case TieBreakKicker, TieBreakSuit, TieBreakNone:
		return tb, nil
	}
	return "", errors.Errorf("unknown tie break %q", s)
}

// ParseSplitPolicy 配置中的余数归属
func ParseSplitPolicy(s string) (SplitPolicy, error) {
	switch sp := SplitPolicy(s); sp {
	case SplitHouse, SplitPlayer:
		return sp, nil
	}
	return "", errors.Errorf("unknown split policy %q", s)
}

// Params 绑定到合约代码中的参数
type Params struct {
	Token  ethcommon.Address
	Cards  [32]byte
	House  ethcommon.Address
	Player ethcommon.Address
}

// Values 模板绑定值
func (p *Params) Values() map[string][]byte {
	return map[string][]byte{
		ParamToken:  template.Address(p.Token),
		ParamCards:  template.Hash(p.Cards),
		ParamHouse:  template.Address(p.House),
		ParamPlayer: template.Address(p.Player),
	}
}

// ParamsFromValues 从模板提取的值还原参数
func ParamsFromValues(values map[string][]byte) (*Params, error) {
	var p Params
	var err error
	if p.Token, err = template.ToAddress(values[ParamToken]); err != nil {
		return nil, err
	}
	if p.Cards, err = template.ToHash(values[ParamCards]); err != nil {
		return nil, err
	}
	if p.House, err = template.ToAddress(values[ParamHouse]); err != nil {
		return nil, err
	}
	if p.Player, err = template.ToAddress(values[ParamPlayer]); err != nil {
		return nil, err
	}
	return &p, nil
}

// Claim 玩家提交的排列和签名
type Claim struct {
	Permutation [32]byte
	Sig         crypto.Signature
}

// ParseClaim hex 形式的排列和 r, s, v
func ParseClaim(permutation, r, s string, v byte) (*Claim, error) {
	b, err := common.FromHex(permutation)
	if err != nil {
		return nil, errors.Wrapf(types.ErrInvalidPermutation, "hex %q: %v", permutation, err)
	}
	if len(b) > 32 {
		return nil, errors.Wrapf(types.ErrInvalidPermutation, "%d bytes", len(b))
	}
	sig, err := crypto.ParseSignature(r, s, v)
	if err != nil {
		return nil, err
	}
	return &Claim{Permutation: common.LeftPad32(b), Sig: sig}, nil
}

// ReceiptGameCondSettle 结算日志
type ReceiptGameCondSettle struct {
	Escrow        ethcommon.Address
	Token         ethcommon.Address
	House         ethcommon.Address
	Player        ethcommon.Address
	Outcome       uint32
	Permutation   [32]byte
	Balance       uint64
	Disbursements []*dapp.Disbursement
}
