// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import (
	"github.com/33cn/condition/common"
	"github.com/33cn/condition/common/template"
)

// ArbitrableX 执行器名字
const ArbitrableX = "arbitrable"

// 模板参数名
const (
	ParamToken        = "token"
	ParamSender       = "sender"
	ParamReceiver     = "receiver"
	ParamNST          = "nst"
	ParamNSTID        = "nstId"
	ParamArbitrator   = "arbitrator"
	ParamChallengeEnd = "challengeEnd"
	ParamBridge       = "bridge"
)

// 整数参数的宽度
const (
	NSTIDWidth        = 32
	ChallengeEndWidth = 4
)

// 合约字节码中的占位符
var (
	TokenPlaceholder        = mustHex("1111111111111111111111111111111111111111")
	SenderPlaceholder       = mustHex("2222222222222222222222222222222222222222")
	ReceiverPlaceholder     = mustHex("3333333333333333333333333333333333333333")
	NSTPlaceholder          = mustHex("4444444444444444444444444444444444444444")
	NSTIDPlaceholder        = template.MustUint(123456789, NSTIDWidth)
	ArbitratorPlaceholder   = mustHex("5555555555555555555555555555555555555555")
	ChallengeEndPlaceholder = template.MustUint(99999, ChallengeEndWidth)
	BridgePlaceholder       = mustHex("6666666666666666666666666666666666666666")
)

// Placeholders 可仲裁交易条件合约模板的全部占位符
func Placeholders() []template.Placeholder {
	return []template.Placeholder{
		{Name: ParamToken, Pattern: TokenPlaceholder, Kind: template.KindAddress},
		{Name: ParamSender, Pattern: SenderPlaceholder, Kind: template.KindAddress},
		{Name: ParamReceiver, Pattern: ReceiverPlaceholder, Kind: template.KindAddress},
		{Name: ParamNST, Pattern: NSTPlaceholder, Kind: template.KindAddress},
		{Name: ParamNSTID, Pattern: NSTIDPlaceholder, Kind: template.KindUint},
		{Name: ParamArbitrator, Pattern: ArbitratorPlaceholder, Kind: template.KindAddress},
		{Name: ParamChallengeEnd, Pattern: ChallengeEndPlaceholder, Kind: template.KindUint},
		{Name: ParamBridge, Pattern: BridgePlaceholder, Kind: template.KindAddress},
	}
}

func mustHex(s string) []byte {
	b, err := common.FromHex(s)
	if err != nil {
		panic(err)
	}
	return b
}
