// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package commands

import (
	"context"
	"fmt"

	"github.com/33cn/condition/account"
	"github.com/33cn/condition/common"
	"github.com/33cn/condition/common/address"
	"github.com/33cn/condition/common/crypto"
	"github.com/33cn/condition/plugin/dapp/arbitrable/executor"
	aty "github.com/33cn/condition/plugin/dapp/arbitrable/types"
	"github.com/33cn/condition/rpc/tokenclient"
	"github.com/33cn/condition/system/dapp"
	cmdtypes "github.com/33cn/condition/system/dapp/commands"
	"github.com/33cn/condition/types"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// ArbitrableCmd 可仲裁交易条件托管命令
func ArbitrableCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "arbitrable",
		Short: "Arbitrable transaction conditional escrow",
		Args:  cobra.MinimumNArgs(1),
	}
	cmd.PersistentFlags().String("artifact", "", "compiled contract json, overrides arbitrable.artifact in the config")
	cmd.AddCommand(
		AddressCmd(),
		DeployCmd(),
		ChallengeCmd(),
		SignCmd(),
		ArbitrateCmd(),
		FinalizeCmd(),
		cmdtypes.ShowCmd(executor.GetName(), decodeParams),
	)
	return cmd
}

func decodeParams(rec *dapp.EscrowRecord) (interface{}, error) {
	var p aty.Params
	if err := rec.DecodeParams(&p); err != nil {
		return nil, err
	}
	return map[string]interface{}{
		aty.ParamToken:        p.Token.Hex(),
		aty.ParamSender:       p.Sender.Hex(),
		aty.ParamReceiver:     p.Receiver.Hex(),
		aty.ParamNST:          p.NST.Hex(),
		aty.ParamNSTID:        p.NSTIDInt().ToBig().String(),
		aty.ParamArbitrator:   p.Arbitrator.Hex(),
		aty.ParamChallengeEnd: p.ChallengeEnd,
		aty.ParamBridge:       p.Bridge.Hex(),
	}, nil
}

func configOption(cmd *cobra.Command) cmdtypes.Option {
	artifact, _ := cmd.Flags().GetString("artifact")
	period, _ := cmd.Flags().GetInt64("period")
	bridge, _ := cmd.Flags().GetString("bridge")
	return func(cfg *types.Config) {
		if artifact != "" {
			cfg.Arbitrable.Artifact = artifact
		}
		if period > 0 {
			cfg.Arbitrable.ChallengePeriod = period
		}
		if bridge != "" {
			cfg.Arbitrable.Bridge = bridge
		}
	}
}

func loadArbitrable(cmd *cobra.Command) (*executor.Arbitrable, func(), error) {
	driver, closer, err := cmdtypes.LoadExec(cmd, executor.GetName(), configOption(cmd))
	if err != nil {
		return nil, nil, err
	}
	a, ok := driver.(*executor.Arbitrable)
	if !ok {
		closer()
		return nil, nil, errors.Errorf("executor %s is %T", executor.GetName(), driver)
	}
	return a, closer, nil
}

// ParseNSTID 十进制的 NST 编号
func ParseNSTID(s string) (*uint256.Int, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, errors.Wrapf(err, "nst id %q", s)
	}
	if d.IsNegative() || !d.Equal(d.Truncate(0)) {
		return nil, errors.Errorf("nst id %q is not a natural number", s)
	}
	id, overflow := uint256.FromBig(d.BigInt())
	if overflow {
		return nil, errors.Errorf("nst id %q overflows 256 bits", s)
	}
	return id, nil
}

// paramsArgs <token> <nst> <nstID> <sender> <receiver> <arbitrator>
func paramsArgs(a *executor.Arbitrable, args []string) (*aty.Params, error) {
	p := a.NewParams()
	addrs := []struct {
		arg string
		dst *ethcommon.Address
	}{
		{args[0], &p.Token},
		{args[1], &p.NST},
		{args[3], &p.Sender},
		{args[4], &p.Receiver},
		{args[5], &p.Arbitrator},
	}
	for _, x := range addrs {
		addr, err := address.Parse(x.arg)
		if err != nil {
			return nil, err
		}
		*x.dst = addr
	}
	id, err := ParseNSTID(args[2])
	if err != nil {
		return nil, err
	}
	p.SetNSTID(id)
	return p, nil
}

func addParamsFlags(cmd *cobra.Command) {
	cmd.Flags().Int64("period", 0, "challenge period in seconds, overrides arbitrable.challengePeriod")
	cmd.Flags().String("bridge", "", "plasma bridge address, overrides arbitrable.bridge")
}

const paramsUsage = "<token address> <nst address> <nst ID> <sender address> <receiver address> <arbitrator address>"

// AddressCmd 计算托管地址
func AddressCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "address " + paramsUsage,
		Short:   "Bind the parameters and print the escrow address",
		Example: "address 0xD2D0F8a6ADfF16C2098101087f9548465EC96C98 0x1111111111111111111111111111111111111111 0 0x1111111111111111111111111111111111111111 0x1111111111111111111111111111111111111111 0x1111111111111111111111111111111111111111",
		Args:    cobra.ExactArgs(6),
		RunE:    arbitrableAddress,
	}
	addParamsFlags(cmd)
	cmd.Flags().Bool("balance", false, "query the token balance of the escrow over rpc")
	cmd.Flags().Bool("code", false, "also print the bound code")
	return cmd
}

func arbitrableAddress(cmd *cobra.Command, args []string) error {
	cfg, err := cmdtypes.LoadConfig(cmd)
	if err != nil {
		return err
	}
	configOption(cmd)(cfg)
	driver, err := executor.Create(&dapp.Env{Config: cfg})
	if err != nil {
		return err
	}
	a := driver.(*executor.Arbitrable)
	params, err := paramsArgs(a, args)
	if err != nil {
		return err
	}
	code, addr, err := a.Bind(params)
	if err != nil {
		return err
	}
	fmt.Println("Send tokens and the NST to", addr.Hex())
	if withCode, _ := cmd.Flags().GetBool("code"); withCode {
		fmt.Println(common.ToHex(code))
	}
	if withBalance, _ := cmd.Flags().GetBool("balance"); withBalance {
		ctx := context.Background()
		client, err := tokenclient.Dial(ctx, cfg.RPC.URL)
		if err != nil {
			return err
		}
		defer client.Close()
		balance, err := client.BalanceOf(ctx, params.Token, addr)
		if err != nil {
			return err
		}
		fmt.Println("balance", balance.String())
	}
	return nil
}

// DeployCmd 本地部署
func DeployCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deploy " + paramsUsage,
		Short: "Deploy a bound escrow into the local store",
		Args:  cobra.ExactArgs(6),
		RunE:  arbitrableDeploy,
	}
	addParamsFlags(cmd)
	return cmd
}

func arbitrableDeploy(cmd *cobra.Command, args []string) error {
	a, closer, err := loadArbitrable(cmd)
	if err != nil {
		return err
	}
	defer closer()
	params, err := paramsArgs(a, args)
	if err != nil {
		return err
	}
	code, _, err := a.Bind(params)
	if err != nil {
		return err
	}
	rec, _, err := a.Deploy(code)
	if err != nil {
		return err
	}
	fmt.Println("Send tokens and the NST to", rec.Address.Hex())
	fmt.Println("challenge period ends at", params.ChallengeEnd)
	return nil
}

// ChallengeCmd 发送方发起挑战
func ChallengeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "challenge",
		Short: "Challenge the escrow as its sender",
		RunE:  arbitrableChallenge,
	}
	cmd.Flags().StringP("addr", "a", "", "escrow address")
	cmd.MarkFlagRequired("addr")
	cmd.Flags().StringP("from", "f", "", "caller address")
	cmd.MarkFlagRequired("from")
	return cmd
}

func arbitrableChallenge(cmd *cobra.Command, args []string) error {
	addr, err := cmdtypes.AddressFlag(cmd, "addr")
	if err != nil {
		return err
	}
	from, err := cmdtypes.AddressFlag(cmd, "from")
	if err != nil {
		return err
	}
	a, closer, err := loadArbitrable(cmd)
	if err != nil {
		return err
	}
	defer closer()
	if _, err := a.Challenge(addr, from); err != nil {
		return err
	}
	fmt.Println("challenged", addr.Hex())
	return nil
}

func addDecisionFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("addr", "a", "", "escrow address")
	cmd.MarkFlagRequired("addr")
	cmd.Flags().StringP("decision", "e", "", "sender or receiver")
	cmd.MarkFlagRequired("decision")
	cmd.Flags().StringP("key", "k", "", "arbitrator private key")
	cmd.Flags().String("digest", "", "digest scheme, defaults to arbitrable.digest in the config")
}

func signDecision(cmd *cobra.Command) (*crypto.Signature, error) {
	addr, err := cmdtypes.AddressFlag(cmd, "addr")
	if err != nil {
		return nil, err
	}
	decision, err := decisionFlag(cmd)
	if err != nil {
		return nil, err
	}
	keyHex, _ := cmd.Flags().GetString("key")
	key, err := crypto.HexToKey(keyHex)
	if err != nil {
		return nil, err
	}
	digest, _ := cmd.Flags().GetString("digest")
	if digest == "" {
		cfg, err := cmdtypes.LoadConfig(cmd)
		if err != nil {
			return nil, err
		}
		digest = cfg.Arbitrable.Digest
	}
	scheme, err := crypto.ParseScheme(digest)
	if err != nil {
		return nil, err
	}
	sig, err := crypto.Sign(scheme, key, aty.ArbitrationMessage(addr, decision))
	if err != nil {
		return nil, err
	}
	return &sig, nil
}

func decisionFlag(cmd *cobra.Command) (aty.Decision, error) {
	s, _ := cmd.Flags().GetString("decision")
	return aty.ParseDecision(s)
}

// SignCmd 仲裁人签名
func SignCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Sign an arbitration decision",
		RunE:  arbitrableSign,
	}
	addDecisionFlags(cmd)
	cmd.MarkFlagRequired("key")
	return cmd
}

func arbitrableSign(cmd *cobra.Command, args []string) error {
	sig, err := signDecision(cmd)
	if err != nil {
		return err
	}
	fmt.Println("r", common.ToHex(sig.R[:]))
	fmt.Println("s", common.ToHex(sig.S[:]))
	fmt.Println("v", sig.V)
	return nil
}

// ArbitrateCmd 提交仲裁结果
func ArbitrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "arbitrate",
		Short: "Submit the arbitrator decision and settle the escrow",
		RunE:  arbitrableArbitrate,
	}
	addDecisionFlags(cmd)
	cmd.Flags().StringP("r", "r", "", "signature r")
	cmd.Flags().StringP("s", "s", "", "signature s")
	cmd.Flags().Uint8P("v", "v", 0, "signature v")
	return cmd
}

func arbitrableArbitrate(cmd *cobra.Command, args []string) error {
	addr, err := cmdtypes.AddressFlag(cmd, "addr")
	if err != nil {
		return err
	}
	decision, err := decisionFlag(cmd)
	if err != nil {
		return err
	}
	var sig crypto.Signature
	if key, _ := cmd.Flags().GetString("key"); key != "" {
		s, err := signDecision(cmd)
		if err != nil {
			return err
		}
		sig = *s
	} else {
		r, _ := cmd.Flags().GetString("r")
		s, _ := cmd.Flags().GetString("s")
		v, _ := cmd.Flags().GetUint8("v")
		if sig, err = crypto.ParseSignature(r, s, v); err != nil {
			return err
		}
	}
	a, closer, err := loadArbitrable(cmd)
	if err != nil {
		return err
	}
	defer closer()
	receipt, err := a.Arbitrate(addr, decision, sig)
	if err != nil {
		return err
	}
	return printSettled(receipt, decision)
}

// FinalizeCmd 挑战期结束后结算给接收方
func FinalizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "finalize",
		Short: "Settle an unchallenged escrow to the receiver",
		RunE:  arbitrableFinalize,
	}
	cmd.Flags().StringP("addr", "a", "", "escrow address")
	cmd.MarkFlagRequired("addr")
	return cmd
}

func arbitrableFinalize(cmd *cobra.Command, args []string) error {
	addr, err := cmdtypes.AddressFlag(cmd, "addr")
	if err != nil {
		return err
	}
	a, closer, err := loadArbitrable(cmd)
	if err != nil {
		return err
	}
	defer closer()
	receipt, err := a.Finalize(addr)
	if err != nil {
		return err
	}
	return printSettled(receipt, aty.DecisionReceiver)
}

func printSettled(receipt *types.Receipt, decision aty.Decision) error {
	fmt.Println("decision", decision)
	transfers, err := account.GetTransfers(receipt)
	if err != nil {
		return err
	}
	for _, t := range transfers {
		fmt.Printf("%s -> %s %d\n", t.From.Hex(), t.To.Hex(), t.Amount)
	}
	return nil
}
