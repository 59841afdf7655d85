// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dapp

import (
	"testing"
	"time"

	"github.com/33cn/condition/account"
	dbm "github.com/33cn/condition/common/db"
	"github.com/33cn/condition/types"
	"github.com/coder/quartz"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	token  = common.HexToAddress("0x1234111111111111111111111111111111111111")
	house  = common.HexToAddress("0x3456333333333333333333333333333333333333")
	player = common.HexToAddress("0x4567444444444444444444444444444444444444")
)

type testParams struct {
	House  common.Address
	Player common.Address
}

func newTestBase(t *testing.T) (*DriverBase, *quartz.Mock) {
	mem, err := dbm.NewGoMemDB("test", "")
	require.NoError(t, err)
	clock := quartz.NewMock(t)
	return NewDriverBase("testcond", dbm.NewStateDB(mem), clock, ""), clock
}

func deployFunded(t *testing.T, d *DriverBase, code []byte, amount uint64) *EscrowRecord {
	rec, receipt, err := d.Deploy(code, types.TyLogGameCondDeploy, func(addr common.Address) (*EscrowRecord, error) {
		return NewEscrowRecord(d.GetName(), addr, token, code, &testParams{House: house, Player: player}), nil
	})
	require.NoError(t, err)
	require.Len(t, receipt.Logs, 1)
	if amount > 0 {
		_, err = account.NewAccountDB(token, d.GetStateDB()).Mint(rec.Address, amount)
		require.NoError(t, err)
	}
	return rec
}

func TestSplitTie(t *testing.T) {
	shares := SplitTie(1000, house, player, true)
	assert.Equal(t, []Share{{house, 500}, {player, 500}}, shares)
	shares = SplitTie(1001, house, player, true)
	assert.Equal(t, []Share{{house, 501}, {player, 500}}, shares)
	shares = SplitTie(1001, house, player, false)
	assert.Equal(t, []Share{{house, 500}, {player, 501}}, shares)
	shares = SplitTie(1, house, player, false)
	assert.Equal(t, []Share{{house, 0}, {player, 1}}, shares)
	assert.Equal(t, []Share{{player, 7}}, Winner(7, player))
}

func TestSettle(t *testing.T) {
	mem, _ := dbm.NewGoMemDB("test", "")
	ledger := account.NewAccountDB(token, mem)
	escrow := common.HexToAddress("0xe5c0")
	_, err := ledger.Mint(escrow, 1001)
	require.NoError(t, err)

	_, _, err = Settle(ledger, escrow, SplitTie(1000, house, player, true))
	assert.True(t, errors.Is(err, types.ErrSettleMismatch))
	assert.Equal(t, uint64(1001), ledger.BalanceOf(escrow))

	disb, receipt, err := Settle(ledger, escrow, SplitTie(1001, house, player, false))
	require.NoError(t, err)
	require.Len(t, disb, 2)
	assert.Equal(t, Disbursement{Token: token, From: escrow, To: house, Amount: 500}, *disb[0])
	assert.Equal(t, Disbursement{Token: token, From: escrow, To: player, Amount: 501}, *disb[1])
	transfers, err := account.GetTransfers(receipt)
	require.NoError(t, err)
	require.Len(t, transfers, 2)
	assert.Equal(t, house, transfers[0].To)
	assert.Equal(t, uint64(0), ledger.BalanceOf(escrow))
}

func TestSettleSkipsZeroShare(t *testing.T) {
	mem, _ := dbm.NewGoMemDB("test", "")
	ledger := account.NewAccountDB(token, mem)
	escrow := common.HexToAddress("0xe5c0")
	_, err := ledger.Mint(escrow, 1)
	require.NoError(t, err)
	disb, _, err := Settle(ledger, escrow, SplitTie(1, house, player, false))
	require.NoError(t, err)
	require.Len(t, disb, 1)
	assert.Equal(t, player, disb[0].To)
}

func TestDeployOnce(t *testing.T) {
	d, _ := newTestBase(t)
	code := []byte{0x60, 0x80, 0x01}
	rec := deployFunded(t, d, code, 0)
	addr, err := d.DeriveAddress(code)
	require.NoError(t, err)
	assert.Equal(t, addr, rec.Address)

	_, _, err = d.Deploy(code, types.TyLogGameCondDeploy, func(addr common.Address) (*EscrowRecord, error) {
		return NewEscrowRecord(d.GetName(), addr, token, code, &testParams{}), nil
	})
	assert.True(t, errors.Is(err, types.ErrEscrowExists))

	got, err := d.Query(addr)
	require.NoError(t, err)
	assert.Equal(t, EscrowOpen, got.State)
	bound, err := got.BoundCode()
	require.NoError(t, err)
	assert.Equal(t, code, bound)
	var p testParams
	require.NoError(t, got.DecodeParams(&p))
	assert.Equal(t, house, p.House)

	_, err = d.Query(common.HexToAddress("0x01"))
	assert.True(t, errors.Is(err, types.ErrNotFound))

	list, err := d.List()
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestExecuteSettleOnce(t *testing.T) {
	d, clock := newTestBase(t)
	rec := deployFunded(t, d, []byte{0x60, 0x80, 0x02}, 1000)
	clock.Advance(time.Minute)

	settle := func(ctx *Context) (*types.Receipt, error) {
		r, err := ctx.LoadOpenEscrow(rec.Address)
		if err != nil {
			return nil, err
		}
		_, receipt, err := ctx.Settle(r, 2, SplitTie(1000, house, player, true))
		if err != nil {
			return nil, err
		}
		receipt.Logs = append(receipt.Logs, &types.ReceiptLog{Ty: types.TyLogGameCondSettle, Log: types.Encode(&testParams{House: house, Player: player})})
		return receipt, nil
	}
	receipt, err := d.Execute(rec.Address, "fulfill", settle)
	require.NoError(t, err)
	assert.Equal(t, int32(types.TyLogGameCondSettle), receipt.Logs[len(receipt.Logs)-1].Ty)

	_, err = d.Execute(rec.Address, "fulfill", settle)
	assert.True(t, errors.Is(err, types.ErrAlreadySettled))

	got, err := d.Query(rec.Address)
	require.NoError(t, err)
	assert.Equal(t, EscrowSettled, got.State)
	assert.Equal(t, uint64(1000), got.Balance)
	assert.Equal(t, uint64(1000), got.TotalDisbursed())
	assert.Equal(t, uint64(clock.Now().Unix()), got.SettledAt)
	assert.Equal(t, uint64(500), d.Balance(token, house))
	assert.Equal(t, uint64(0), d.Balance(token, rec.Address))

	assert.Equal(t, int64(1), d.settled.Count())
	assert.Equal(t, int64(1), d.rejected.Count())
	assert.Equal(t, int64(1000), d.disbursed.Count())
}

func TestExecuteRollback(t *testing.T) {
	d, _ := newTestBase(t)
	rec := deployFunded(t, d, []byte{0x60, 0x80, 0x03}, 1000)

	_, err := d.Execute(rec.Address, "fulfill", func(ctx *Context) (*types.Receipt, error) {
		r, err := ctx.LoadOpenEscrow(rec.Address)
		if err != nil {
			return nil, err
		}
		if _, _, err := ctx.Settle(r, 1, Winner(1000, house)); err != nil {
			return nil, err
		}
		return nil, types.ErrPermission
	})
	assert.Equal(t, types.ErrPermission, err)

	got, err := d.Query(rec.Address)
	require.NoError(t, err)
	assert.Equal(t, EscrowOpen, got.State)
	assert.Equal(t, uint64(1000), d.Balance(token, rec.Address))
	assert.Equal(t, uint64(0), d.Balance(token, house))
}

func TestEscrowState(t *testing.T) {
	assert.Equal(t, "Open", EscrowOpen.String())
	assert.Equal(t, "Challenged", EscrowChallenged.String())
	assert.Equal(t, "Settled", EscrowSettled.String())
	assert.Equal(t, "EscrowState(9)", EscrowState(9).String())
	assert.Equal(t, "mavl-gamecond-0x0000000000000000000000000000000000000001", string(EscrowKey("gamecond", common.HexToAddress("0x01"))))
}

type testDriver struct{ *DriverBase }

func TestRegister(t *testing.T) {
	Register("testcond", func(env *Env) (Driver, error) {
		return &testDriver{NewDriverBase("testcond", env.StateDB, env.Clock, env.Config.Game.AddressDriver)}, nil
	})
	assert.Panics(t, func() { Register("testcond", func(env *Env) (Driver, error) { return nil, nil }) })
	assert.Contains(t, GetDriverList(), "testcond")

	mem, _ := dbm.NewGoMemDB("test", "")
	d, err := LoadDriver("testcond", &Env{StateDB: dbm.NewStateDB(mem)})
	require.NoError(t, err)
	assert.Equal(t, "testcond", d.GetName())

	_, err = LoadDriver("none", &Env{})
	assert.True(t, errors.Is(err, types.ErrActionNotSupport))
}
