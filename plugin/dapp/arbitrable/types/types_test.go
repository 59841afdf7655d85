// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import (
	"testing"

	"github.com/33cn/condition/common/template"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, []byte{0x00, 0x01, 0x86, 0x9f}, ChallengeEndPlaceholder)
	assert.Len(t, NSTIDPlaceholder, 32)
	assert.Equal(t, []byte{0x07, 0x5b, 0xcd, 0x15}, NSTIDPlaceholder[28:])
	for _, p := range Placeholders() {
		assert.NotEmpty(t, p.Pattern, p.Name)
	}
}

func TestParamsValues(t *testing.T) {
	p := &Params{
		Token:        ethcommon.HexToAddress("0x01"),
		Sender:       ethcommon.HexToAddress("0x02"),
		Receiver:     ethcommon.HexToAddress("0x03"),
		NST:          ethcommon.HexToAddress("0x04"),
		Arbitrator:   ethcommon.HexToAddress("0x05"),
		ChallengeEnd: 1700000060,
		Bridge:       ethcommon.HexToAddress("0x06"),
	}
	p.SetNSTID(uint256.NewInt(42))
	values, err := p.Values()
	require.NoError(t, err)
	assert.Equal(t, template.MustUint(1700000060, ChallengeEndWidth), values[ParamChallengeEnd])
	back, err := ParamsFromValues(values)
	require.NoError(t, err)
	assert.Equal(t, p, back)

	delete(values, ParamBridge)
	_, err = ParamsFromValues(values)
	assert.Error(t, err)
}

func TestDecision(t *testing.T) {
	d, err := ParseDecision("sender")
	require.NoError(t, err)
	assert.Equal(t, DecisionSender, d)
	d, err = ParseDecision("receiver")
	require.NoError(t, err)
	assert.Equal(t, DecisionReceiver, d)
	_, err = ParseDecision("both")
	assert.Error(t, err)
	assert.False(t, Decision(0).Valid())
	assert.Equal(t, "Receiver", DecisionReceiver.String())

	escrow := ethcommon.HexToAddress("0x0a")
	msg := ArbitrationMessage(escrow, DecisionReceiver)
	assert.Len(t, msg, 21)
	assert.Equal(t, byte(2), msg[20])
}
