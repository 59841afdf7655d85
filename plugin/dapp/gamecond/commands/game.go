// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package commands

import (
	"fmt"

	"github.com/33cn/condition/account"
	"github.com/33cn/condition/common"
	"github.com/33cn/condition/common/crypto"
	"github.com/33cn/condition/plugin/dapp/gamecond/executor"
	gty "github.com/33cn/condition/plugin/dapp/gamecond/types"
	"github.com/33cn/condition/system/dapp"
	cmdtypes "github.com/33cn/condition/system/dapp/commands"
	"github.com/33cn/condition/types"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// GameCondCmd 牌局条件托管命令
func GameCondCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Card game conditional escrow",
		Args:  cobra.MinimumNArgs(1),
	}
	cmd.PersistentFlags().String("artifact", "", "compiled contract json, overrides game.artifact in the config")
	cmd.AddCommand(
		GameAddressCmd(),
		GameSignCmd(),
		GameDeployCmd(),
		GameFulfillCmd(),
		cmdtypes.ShowCmd(executor.GetName(), decodeParams),
	)
	return cmd
}

func decodeParams(rec *dapp.EscrowRecord) (interface{}, error) {
	var params gty.Params
	if err := rec.DecodeParams(&params); err != nil {
		return nil, err
	}
	return map[string]string{
		gty.ParamToken:  params.Token.Hex(),
		gty.ParamCards:  common.ToHex(params.Cards[:]),
		gty.ParamHouse:  params.House.Hex(),
		gty.ParamPlayer: params.Player.Hex(),
	}, nil
}

func artifactOption(cmd *cobra.Command) cmdtypes.Option {
	artifact, _ := cmd.Flags().GetString("artifact")
	return func(cfg *types.Config) {
		if artifact != "" {
			cfg.Game.Artifact = artifact
		}
	}
}

func loadGame(cmd *cobra.Command) (*executor.GameCond, func(), error) {
	driver, closer, err := cmdtypes.LoadExec(cmd, executor.GetName(), artifactOption(cmd))
	if err != nil {
		return nil, nil, err
	}
	g, ok := driver.(*executor.GameCond)
	if !ok {
		closer()
		return nil, nil, errors.Errorf("executor %s is %T", executor.GetName(), driver)
	}
	return g, closer, nil
}

func addParamsFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("token", "t", "", "token address")
	cmd.MarkFlagRequired("token")
	cmd.Flags().StringP("cards", "c", "", "32 byte card word, house hand then player hand")
	cmd.MarkFlagRequired("cards")
	cmd.Flags().StringP("house", "o", "", "house address")
	cmd.MarkFlagRequired("house")
	cmd.Flags().StringP("player", "p", "", "player address")
	cmd.MarkFlagRequired("player")
}

func paramsFlags(cmd *cobra.Command) (*gty.Params, error) {
	var p gty.Params
	var err error
	if p.Token, err = cmdtypes.AddressFlag(cmd, "token"); err != nil {
		return nil, err
	}
	if p.House, err = cmdtypes.AddressFlag(cmd, "house"); err != nil {
		return nil, err
	}
	if p.Player, err = cmdtypes.AddressFlag(cmd, "player"); err != nil {
		return nil, err
	}
	cards, _ := cmd.Flags().GetString("cards")
	b, err := common.FromHex(cards)
	if err != nil || len(b) > 32 {
		return nil, errors.Wrapf(types.ErrInvalidDeck, "--cards %q", cards)
	}
	p.Cards = common.LeftPad32(b)
	return &p, nil
}

// GameAddressCmd 计算托管地址
func GameAddressCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "address",
		Short: "Bind the parameters and print the escrow address",
		RunE:  gameAddress,
	}
	addParamsFlags(cmd)
	cmd.Flags().Bool("code", false, "also print the bound code")
	return cmd
}

func gameAddress(cmd *cobra.Command, args []string) error {
	params, err := paramsFlags(cmd)
	if err != nil {
		return err
	}
	cfg, err := cmdtypes.LoadConfig(cmd)
	if err != nil {
		return err
	}
	artifactOption(cmd)(cfg)
	driver, err := executor.Create(&dapp.Env{Config: cfg})
	if err != nil {
		return err
	}
	code, addr, err := driver.(*executor.GameCond).Bind(params)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Send tokens to", addr.Hex())
	if withCode, _ := cmd.Flags().GetBool("code"); withCode {
		fmt.Fprintln(cmd.OutOrStdout(), common.ToHex(code))
	}
	return nil
}

// GameSignCmd 玩家对排列签名
func GameSignCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Sign a permutation with the player key",
		RunE:  gameSign,
	}
	cmd.Flags().StringP("key", "k", "", "player private key")
	cmd.MarkFlagRequired("key")
	cmd.Flags().StringP("permutation", "m", "", "permutation of the player hand")
	cmd.MarkFlagRequired("permutation")
	cmd.Flags().String("digest", "", "digest scheme, defaults to game.digest in the config")
	return cmd
}

func scheme(cmd *cobra.Command) (crypto.Scheme, error) {
	digest, _ := cmd.Flags().GetString("digest")
	if digest == "" {
		cfg, err := cmdtypes.LoadConfig(cmd)
		if err != nil {
			return "", err
		}
		digest = cfg.Game.Digest
	}
	return crypto.ParseScheme(digest)
}

func signPermutation(cmd *cobra.Command, permutation string) (*gty.Claim, error) {
	keyHex, _ := cmd.Flags().GetString("key")
	key, err := crypto.HexToKey(keyHex)
	if err != nil {
		return nil, err
	}
	s, err := scheme(cmd)
	if err != nil {
		return nil, err
	}
	claim, err := gty.ParseClaim(permutation, "0x00", "0x00", 0)
	if err != nil {
		return nil, err
	}
	if claim.Sig, err = crypto.Sign(s, key, claim.Permutation[:]); err != nil {
		return nil, err
	}
	return claim, nil
}

func gameSign(cmd *cobra.Command, args []string) error {
	permutation, _ := cmd.Flags().GetString("permutation")
	claim, err := signPermutation(cmd, permutation)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "r", common.ToHex(claim.Sig.R[:]))
	fmt.Fprintln(cmd.OutOrStdout(), "s", common.ToHex(claim.Sig.S[:]))
	fmt.Fprintln(cmd.OutOrStdout(), "v", claim.Sig.V)
	return nil
}

// GameDeployCmd 本地部署
func GameDeployCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Deploy a bound escrow into the local store",
		RunE:  gameDeploy,
	}
	addParamsFlags(cmd)
	return cmd
}

func gameDeploy(cmd *cobra.Command, args []string) error {
	params, err := paramsFlags(cmd)
	if err != nil {
		return err
	}
	g, closer, err := loadGame(cmd)
	if err != nil {
		return err
	}
	defer closer()
	code, _, err := g.Bind(params)
	if err != nil {
		return err
	}
	rec, _, err := g.Deploy(code)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Send tokens to", rec.Address.Hex())
	return nil
}

// GameFulfillCmd 提交排列结算
func GameFulfillCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fulfill",
		Short: "Submit a signed permutation and settle the escrow",
		RunE:  gameFulfill,
	}
	cmd.Flags().StringP("addr", "a", "", "escrow address")
	cmd.MarkFlagRequired("addr")
	cmd.Flags().StringP("permutation", "m", "", "permutation of the player hand")
	cmd.MarkFlagRequired("permutation")
	cmd.Flags().StringP("r", "r", "", "signature r")
	cmd.Flags().StringP("s", "s", "", "signature s")
	cmd.Flags().Uint8P("v", "v", 0, "signature v")
	cmd.Flags().StringP("key", "k", "", "sign with this key instead of r, s, v")
	cmd.Flags().String("digest", "", "digest scheme used with --key")
	cmd.Flags().Int32P("decimals", "d", 0, "token decimals used for amounts")
	return cmd
}

func gameFulfill(cmd *cobra.Command, args []string) error {
	addr, err := cmdtypes.AddressFlag(cmd, "addr")
	if err != nil {
		return err
	}
	permutation, _ := cmd.Flags().GetString("permutation")
	var claim *gty.Claim
	if key, _ := cmd.Flags().GetString("key"); key != "" {
		claim, err = signPermutation(cmd, permutation)
	} else {
		r, _ := cmd.Flags().GetString("r")
		s, _ := cmd.Flags().GetString("s")
		v, _ := cmd.Flags().GetUint8("v")
		claim, err = gty.ParseClaim(permutation, r, s, v)
	}
	if err != nil {
		return err
	}
	g, closer, err := loadGame(cmd)
	if err != nil {
		return err
	}
	defer closer()
	receipt, err := g.Fulfill(addr, claim)
	if err != nil {
		return err
	}
	rec, err := g.Query(addr)
	if err != nil {
		return err
	}
	decimals, _ := cmd.Flags().GetInt32("decimals")
	fmt.Fprintln(cmd.OutOrStdout(), "outcome", executor.Outcome(rec))
	transfers, err := account.GetTransfers(receipt)
	if err != nil {
		return err
	}
	for _, t := range transfers {
		fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s %s\n", t.From.Hex(), t.To.Hex(), account.FormatAmount(t.Amount, decimals))
	}
	return nil
}
