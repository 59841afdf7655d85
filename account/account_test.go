// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package account

import (
	"testing"

	"github.com/33cn/condition/common/db"
	"github.com/33cn/condition/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	token = common.HexToAddress("0x1234111111111111111111111111111111111111")
	addr1 = common.HexToAddress("0x1000000000000000000000000000000000000001")
	addr2 = common.HexToAddress("0x2000000000000000000000000000000000000002")
	addr3 = common.HexToAddress("0x3000000000000000000000000000000000000003")
)

func genAccDB(t *testing.T) *DB {
	mem, err := db.NewGoMemDB("gomemdb", "test")
	require.NoError(t, err)
	acc := NewAccountDB(token, mem)
	_, err = acc.Mint(addr1, 1000)
	require.NoError(t, err)
	_, err = acc.Mint(addr2, 900)
	require.NoError(t, err)
	return acc
}

func TestTransfer(t *testing.T) {
	acc := genAccDB(t)
	receipt, err := acc.Transfer(addr1, addr3, 300)
	require.NoError(t, err)
	assert.Equal(t, uint64(700), acc.BalanceOf(addr1))
	assert.Equal(t, uint64(300), acc.BalanceOf(addr3))
	require.Len(t, receipt.Logs, 3)
	assert.Len(t, receipt.KV, 2)

	transfers, err := GetTransfers(receipt)
	require.NoError(t, err)
	require.Len(t, transfers, 1)
	assert.Equal(t, types.ReceiptTransfer{Token: token, From: addr1, To: addr3, Amount: 300}, *transfers[0])

	var from types.ReceiptAccountTransfer
	require.NoError(t, types.DecodeLog(receipt.Logs[1], &from))
	assert.Equal(t, uint64(1000), from.Prev.Balance)
	assert.Equal(t, uint64(700), from.Current.Balance)
	var to types.ReceiptAccountTransfer
	require.NoError(t, types.DecodeLog(receipt.Logs[2], &to))
	assert.Equal(t, uint64(0), to.Prev.Balance)
	assert.Equal(t, uint64(300), to.Current.Balance)
	assert.Equal(t, addr3, to.Current.Addr)
}

func TestTransferErrors(t *testing.T) {
	acc := genAccDB(t)
	_, err := acc.Transfer(addr1, addr3, 1001)
	assert.Equal(t, types.ErrNoBalance, err)
	_, err = acc.Transfer(addr1, addr3, 0)
	assert.Equal(t, types.ErrAmount, err)
	_, err = acc.Transfer(addr1, addr1, 1)
	assert.Equal(t, types.ErrSendSameToRecv, err)
	assert.Equal(t, uint64(1000), acc.BalanceOf(addr1))

	_, err = acc.Mint(addr1, 0)
	assert.Equal(t, types.ErrAmount, err)
	_, err = acc.Mint(addr1, ^uint64(0))
	assert.True(t, errors.Is(err, types.ErrAmount))
}

func TestApproveTransferFrom(t *testing.T) {
	acc := genAccDB(t)
	receipt, err := acc.Approve(addr1, addr2, 500)
	require.NoError(t, err)
	require.Len(t, receipt.Logs, 1)
	assert.Equal(t, int32(types.TyLogApprove), receipt.Logs[0].Ty)
	assert.Equal(t, uint64(500), acc.Allowance(addr1, addr2))
	assert.Equal(t, uint64(0), acc.Allowance(addr2, addr1))

	_, err = acc.TransferFrom(addr2, addr1, addr3, 501)
	assert.Equal(t, types.ErrAllowance, err)

	receipt, err = acc.TransferFrom(addr2, addr1, addr3, 200)
	require.NoError(t, err)
	assert.Len(t, receipt.KV, 3)
	assert.Equal(t, uint64(300), acc.Allowance(addr1, addr2))
	assert.Equal(t, uint64(800), acc.BalanceOf(addr1))
	assert.Equal(t, uint64(200), acc.BalanceOf(addr3))

	_, err = acc.Approve(addr1, addr1, 1)
	assert.Equal(t, types.ErrSendSameToRecv, err)
}

func TestTokensAreIsolated(t *testing.T) {
	acc := genAccDB(t)
	other := NewAccountDB(common.HexToAddress("0x9999"), acc.db)
	assert.Equal(t, uint64(0), other.BalanceOf(addr1))
	accs := acc.LoadAccounts([]common.Address{addr1, addr3})
	assert.Equal(t, uint64(1000), accs[0].Balance)
	assert.Equal(t, uint64(0), accs[1].Balance)
	assert.Equal(t, token, acc.Token())
}

func TestAmount(t *testing.T) {
	assert.Equal(t, "10.5", FormatAmount(1050, 2))
	assert.Equal(t, "1000", FormatAmount(1000, 0))
	assert.Equal(t, "0.00000001", FormatAmount(1, 8))

	v, err := ParseAmount("10.5", 2)
	require.NoError(t, err)
	assert.Equal(t, uint64(1050), v)
	v, err = ParseAmount("1000", 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), v)

	for _, s := range []string{"10.555", "-1", "abc", "18446744073709551616"} {
		_, err = ParseAmount(s, 2)
		assert.True(t, errors.Is(err, types.ErrAmount), s)
	}
}
