// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package commands

import (
	"github.com/33cn/condition/system/dapp"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// ParamsDecoder 把托管中的参数解码成可输出的结构
type ParamsDecoder func(rec *dapp.EscrowRecord) (interface{}, error)

// EscrowView 托管的输出格式
type EscrowView struct {
	Address       string               `json:"address"`
	Kind          string               `json:"kind"`
	Token         string               `json:"token"`
	State         string               `json:"state"`
	Balance       uint64               `json:"balance"`
	Outcome       uint32               `json:"outcome,omitempty"`
	Params        interface{}          `json:"params,omitempty"`
	Disbursements []*dapp.Disbursement `json:"disbursements,omitempty"`
	CreatedAt     uint64               `json:"createdAt"`
	SettledAt     uint64               `json:"settledAt,omitempty"`
}

// NewEscrowView balance 为托管地址当前持有的余额, 结算后为结算时的余额
func NewEscrowView(rec *dapp.EscrowRecord, balance uint64, decode ParamsDecoder) (*EscrowView, error) {
	view := &EscrowView{
		Address:       rec.Address.Hex(),
		Kind:          rec.Kind,
		Token:         rec.Token.Hex(),
		State:         rec.State.String(),
		Balance:       balance,
		Outcome:       rec.Outcome,
		Disbursements: rec.Disbursements,
		CreatedAt:     rec.CreatedAt,
		SettledAt:     rec.SettledAt,
	}
	if rec.IsSettled() {
		view.Balance = rec.Balance
	}
	if decode != nil {
		params, err := decode(rec)
		if err != nil {
			return nil, err
		}
		view.Params = params
	}
	return view, nil
}

type escrowReader interface {
	dapp.Driver
	Balance(token, addr ethcommon.Address) uint64
}

// ShowCmd 查看托管状态
func ShowCmd(execName string, decode ParamsDecoder) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show escrows in the local store",
		RunE: func(cmd *cobra.Command, args []string) error {
			return show(cmd, execName, decode)
		},
	}
	cmd.Flags().StringP("addr", "a", "", "escrow address, list all when empty")
	return cmd
}

func show(cmd *cobra.Command, execName string, decode ParamsDecoder) error {
	driver, closer, err := LoadExec(cmd, execName)
	if err != nil {
		return err
	}
	defer closer()
	reader, ok := driver.(escrowReader)
	if !ok {
		return errors.Errorf("executor %s can not be queried", execName)
	}
	var recs []*dapp.EscrowRecord
	if s, _ := cmd.Flags().GetString("addr"); s != "" {
		addr, err := AddressFlag(cmd, "addr")
		if err != nil {
			return err
		}
		rec, err := reader.Query(addr)
		if err != nil {
			return err
		}
		recs = append(recs, rec)
	} else if recs, err = reader.List(); err != nil {
		return err
	}
	views := make([]*EscrowView, 0, len(recs))
	for _, rec := range recs {
		view, err := NewEscrowView(rec, reader.Balance(rec.Token, rec.Address), decode)
		if err != nil {
			return err
		}
		views = append(views, view)
	}
	return PrintJSON(views)
}
