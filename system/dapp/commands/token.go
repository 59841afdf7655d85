// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package commands

import (
	"context"
	"fmt"

	"github.com/33cn/condition/account"
	"github.com/33cn/condition/common/address"
	"github.com/33cn/condition/rpc/tokenclient"
	"github.com/33cn/condition/types"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// TokenCmd token command
func TokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Local token ledger and remote ERC20 queries",
		Args:  cobra.MinimumNArgs(1),
	}
	cmd.PersistentFlags().Int32P("decimals", "d", 0, "token decimals used for amounts")
	cmd.AddCommand(
		MintCmd(),
		BalanceCmd(),
		TransferCmd(),
		ApproveCmd(),
		TransferFromCmd(),
		TokenInfoCmd(),
	)
	return cmd
}

func addTokenFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("token", "t", "", "token address")
	cmd.MarkFlagRequired("token")
}

func ledger(cmd *cobra.Command) (*account.DB, func(), error) {
	token, err := AddressFlag(cmd, "token")
	if err != nil {
		return nil, nil, err
	}
	env, closer, err := Env(cmd)
	if err != nil {
		return nil, nil, err
	}
	return account.NewAccountDB(token, env.StateDB), closer, nil
}

func amountFlag(cmd *cobra.Command) (uint64, error) {
	s, _ := cmd.Flags().GetString("amount")
	decimals, _ := cmd.Flags().GetInt32("decimals")
	return account.ParseAmount(s, decimals)
}

func printTransfers(receipt *types.Receipt, decimals int32) error {
	transfers, err := account.GetTransfers(receipt)
	if err != nil {
		return err
	}
	for _, t := range transfers {
		fmt.Printf("%s -> %s %s\n", t.From.Hex(), t.To.Hex(), account.FormatAmount(t.Amount, decimals))
	}
	return nil
}

// MintCmd 给地址增发, 用于本地测试
func MintCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mint",
		Short: "Mint tokens to an address in the local ledger",
		RunE:  mint,
	}
	addTokenFlag(cmd)
	cmd.Flags().StringP("to", "r", "", "receiver address")
	cmd.MarkFlagRequired("to")
	cmd.Flags().StringP("amount", "a", "", "amount")
	cmd.MarkFlagRequired("amount")
	return cmd
}

func mint(cmd *cobra.Command, args []string) error {
	to, err := AddressFlag(cmd, "to")
	if err != nil {
		return err
	}
	amount, err := amountFlag(cmd)
	if err != nil {
		return err
	}
	acc, closer, err := ledger(cmd)
	if err != nil {
		return err
	}
	defer closer()
	if _, err := acc.Mint(to, amount); err != nil {
		return err
	}
	decimals, _ := cmd.Flags().GetInt32("decimals")
	fmt.Println(to.Hex(), account.FormatAmount(acc.BalanceOf(to), decimals))
	return nil
}

// BalanceCmd 查询本地余额
func BalanceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Show balances in the local ledger",
		RunE:  balance,
	}
	addTokenFlag(cmd)
	cmd.Flags().StringSliceP("addr", "a", nil, "addresses")
	cmd.MarkFlagRequired("addr")
	return cmd
}

func balance(cmd *cobra.Command, args []string) error {
	list, _ := cmd.Flags().GetStringSlice("addr")
	acc, closer, err := ledger(cmd)
	if err != nil {
		return err
	}
	defer closer()
	decimals, _ := cmd.Flags().GetInt32("decimals")
	for _, s := range list {
		addr, err := address.Parse(s)
		if err != nil {
			return err
		}
		fmt.Println(addr.Hex(), account.FormatAmount(acc.BalanceOf(addr), decimals))
	}
	return nil
}

// TransferCmd 本地转账
func TransferCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Transfer tokens in the local ledger",
		RunE:  transfer,
	}
	addTokenFlag(cmd)
	cmd.Flags().StringP("from", "f", "", "sender address")
	cmd.MarkFlagRequired("from")
	cmd.Flags().StringP("to", "r", "", "receiver address")
	cmd.MarkFlagRequired("to")
	cmd.Flags().StringP("amount", "a", "", "amount")
	cmd.MarkFlagRequired("amount")
	return cmd
}

func transfer(cmd *cobra.Command, args []string) error {
	from, err := AddressFlag(cmd, "from")
	if err != nil {
		return err
	}
	to, err := AddressFlag(cmd, "to")
	if err != nil {
		return err
	}
	amount, err := amountFlag(cmd)
	if err != nil {
		return err
	}
	acc, closer, err := ledger(cmd)
	if err != nil {
		return err
	}
	defer closer()
	receipt, err := acc.Transfer(from, to, amount)
	if err != nil {
		return err
	}
	decimals, _ := cmd.Flags().GetInt32("decimals")
	return printTransfers(receipt, decimals)
}

// ApproveCmd 授权
func ApproveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "approve",
		Short: "Approve a spender in the local ledger",
		RunE:  approve,
	}
	addTokenFlag(cmd)
	cmd.Flags().StringP("owner", "o", "", "owner address")
	cmd.MarkFlagRequired("owner")
	cmd.Flags().StringP("spender", "s", "", "spender address")
	cmd.MarkFlagRequired("spender")
	cmd.Flags().StringP("amount", "a", "", "amount")
	cmd.MarkFlagRequired("amount")
	return cmd
}

func approve(cmd *cobra.Command, args []string) error {
	owner, err := AddressFlag(cmd, "owner")
	if err != nil {
		return err
	}
	spender, err := AddressFlag(cmd, "spender")
	if err != nil {
		return err
	}
	amount, err := amountFlag(cmd)
	if err != nil {
		return err
	}
	acc, closer, err := ledger(cmd)
	if err != nil {
		return err
	}
	defer closer()
	if _, err := acc.Approve(owner, spender, amount); err != nil {
		return err
	}
	decimals, _ := cmd.Flags().GetInt32("decimals")
	fmt.Println("allowance", account.FormatAmount(acc.Allowance(owner, spender), decimals))
	return nil
}

// TransferFromCmd 被授权方代为转账
func TransferFromCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transfer_from",
		Short: "Transfer approved tokens in the local ledger",
		RunE:  transferFrom,
	}
	addTokenFlag(cmd)
	cmd.Flags().StringP("spender", "s", "", "spender address")
	cmd.MarkFlagRequired("spender")
	cmd.Flags().StringP("from", "f", "", "owner address")
	cmd.MarkFlagRequired("from")
	cmd.Flags().StringP("to", "r", "", "receiver address")
	cmd.MarkFlagRequired("to")
	cmd.Flags().StringP("amount", "a", "", "amount")
	cmd.MarkFlagRequired("amount")
	return cmd
}

func transferFrom(cmd *cobra.Command, args []string) error {
	spender, err := AddressFlag(cmd, "spender")
	if err != nil {
		return err
	}
	from, err := AddressFlag(cmd, "from")
	if err != nil {
		return err
	}
	to, err := AddressFlag(cmd, "to")
	if err != nil {
		return err
	}
	amount, err := amountFlag(cmd)
	if err != nil {
		return err
	}
	acc, closer, err := ledger(cmd)
	if err != nil {
		return err
	}
	defer closer()
	receipt, err := acc.TransferFrom(spender, from, to, amount)
	if err != nil {
		return err
	}
	decimals, _ := cmd.Flags().GetInt32("decimals")
	return printTransfers(receipt, decimals)
}

// TokenInfoCmd 远端 ERC20 查询
func TokenInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Query symbol, decimals and balances of an ERC20 token over rpc",
		RunE:  tokenInfo,
	}
	addTokenFlag(cmd)
	cmd.Flags().StringSliceP("addr", "a", nil, "addresses")
	return cmd
}

func tokenInfo(cmd *cobra.Command, args []string) error {
	token, err := AddressFlag(cmd, "token")
	if err != nil {
		return err
	}
	list, _ := cmd.Flags().GetStringSlice("addr")
	cfg, err := LoadConfig(cmd)
	if err != nil {
		return err
	}
	ctx := context.Background()
	client, err := tokenclient.Dial(ctx, cfg.RPC.URL)
	if err != nil {
		return err
	}
	defer client.Close()
	symbol, err := client.Symbol(ctx, token)
	if err != nil {
		return err
	}
	decimals, err := client.Decimals(ctx, token)
	if err != nil {
		return err
	}
	fmt.Println("symbol", symbol, "decimals", decimals)
	for _, s := range list {
		addr, err := address.Parse(s)
		if err != nil {
			return err
		}
		bal, err := client.BalanceOf(ctx, token, addr)
		if err != nil {
			return err
		}
		fmt.Println(addr.Hex(), decimal.NewFromBigInt(bal, -int32(decimals)).String())
	}
	return nil
}
