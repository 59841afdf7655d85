// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import (
	"github.com/33cn/condition/common"
	"github.com/33cn/condition/common/template"
)

// GameCondX 执行器名字
const GameCondX = "gamecond"

// 模板参数名
const (
	ParamToken  = "token"
	ParamCards  = "cards"
	ParamHouse  = "house"
	ParamPlayer = "player"
)

// MaxHandSize 两手牌共 2*handSize 张, 每张 2 字节, 放在一个 32 字节字里
const MaxHandSize = 8

// 合约字节码中的占位符
var (
	TokenPlaceholder  = mustHex("1234111111111111111111111111111111111111")
	CardsPlaceholder  = mustHex("2345222222222222222222222222222222222222222222222222222222222222")
	HousePlaceholder  = mustHex("3456333333333333333333333333333333333333")
	PlayerPlaceholder = mustHex("4567444444444444444444444444444444444444")
)

// Placeholders 牌局条件合约模板的全部占位符
func Placeholders() []template.Placeholder {
	return []template.Placeholder{
		{Name: ParamToken, Pattern: TokenPlaceholder, Kind: template.KindAddress},
		{Name: ParamCards, Pattern: CardsPlaceholder, Kind: template.KindHash},
		{Name: ParamHouse, Pattern: HousePlaceholder, Kind: template.KindAddress},
		{Name: ParamPlayer, Pattern: PlayerPlaceholder, Kind: template.KindAddress},
	}
}

func mustHex(s string) []byte {
	b, err := common.FromHex(s)
	if err != nil {
		panic(err)
	}
	return b
}
