// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package commands

import (
	"bytes"
	"fmt"
	"io/ioutil"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/33cn/condition/account"
	"github.com/33cn/condition/common"
	"github.com/33cn/condition/common/crypto"
	dbm "github.com/33cn/condition/common/db"
	"github.com/33cn/condition/common/template"
	"github.com/33cn/condition/plugin/dapp/gamecond/executor"
	gty "github.com/33cn/condition/plugin/dapp/gamecond/types"
	"github.com/33cn/condition/types"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	playerKeyHex = "0x278a5de700e29faae8e40e366ec5012b5ec63d36ec77e8a2417154cc1d25383f"
	tieCards     = "0x0105040603070208010901050206030704080409"
	tiePerm      = "0x04090206030704080105"
)

var (
	token  = ethcommon.HexToAddress("0x8f5d2a4c1b6e7f9a0b3c4d5e6f708192a3b4c5d6")
	house  = ethcommon.HexToAddress("0x0fa2b4c6d8e0f1a3b5c7d9e1f3a5b7c9d1e3f5a7")
	player = ethcommon.HexToAddress("0xF3beAC30C498D9E26865F34fCAa57dBB935b0D74")
)

func init() {
	executor.Init(gty.GameCondX)
}

func testCode() []byte {
	code := []byte{0x60, 0x80, 0x60, 0x40, 0x52, 0x73}
	code = append(code, gty.TokenPlaceholder...)
	code = append(code, 0x7f)
	code = append(code, gty.CardsPlaceholder...)
	code = append(code, 0x73)
	code = append(code, gty.HousePlaceholder...)
	code = append(code, 0x73)
	code = append(code, gty.PlayerPlaceholder...)
	return append(code, 0x56, 0x5b, 0x00)
}

type testEnv struct {
	conf     string
	artifact string
	dbPath   string
}

func newTestEnv(t *testing.T) *testEnv {
	dir := t.TempDir()
	env := &testEnv{
		conf:     filepath.Join(dir, "condition.toml"),
		artifact: filepath.Join(dir, "GameCondition.json"),
		dbPath:   filepath.Join(dir, "datadir"),
	}
	artifact := fmt.Sprintf(`{"contractName":"GameCondition","bytecode":"%s"}`, common.ToHex(testCode()))
	require.NoError(t, ioutil.WriteFile(env.artifact, []byte(artifact), 0644))
	conf := fmt.Sprintf(`
[log]
loglevel = "crit"
logConsoleLevel = "crit"

[store]
driver = "goleveldb"
dbPath = '%s'
name = "condition"
`, filepath.ToSlash(env.dbPath))
	require.NoError(t, ioutil.WriteFile(env.conf, []byte(conf), 0644))
	return env
}

func (env *testEnv) run(args ...string) (string, error) {
	root := &cobra.Command{Use: "condition-cli", SilenceUsage: true, SilenceErrors: true}
	root.PersistentFlags().String("conf", "", "")
	root.PersistentFlags().String("rpc_laddr", "", "")
	root.AddCommand(GameCondCmd())
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	args = append([]string{"game"}, args...)
	root.SetArgs(append(args, "--conf", env.conf, "--artifact", env.artifact))
	err := root.Execute()
	return out.String(), err
}

func (env *testEnv) mint(t *testing.T, to ethcommon.Address, amount uint64) {
	db, err := dbm.NewDB("condition", dbm.GoLevelDBBackendStr, env.dbPath)
	require.NoError(t, err)
	defer db.Close()
	_, err = account.NewAccountDB(token, dbm.NewStateDB(db)).Mint(to, amount)
	require.NoError(t, err)
}

func paramsArgs() []string {
	return []string{"-t", token.Hex(), "-c", tieCards, "-o", house.Hex(), "-p", player.Hex()}
}

func expectedAddress(t *testing.T) ethcommon.Address {
	tmpl, err := template.Locate(testCode(), gty.Placeholders())
	require.NoError(t, err)
	g, err := executor.NewGameCond(nil, nil, types.DefaultConfig().Game, tmpl)
	require.NoError(t, err)
	b, err := common.FromHex(tieCards)
	require.NoError(t, err)
	_, addr, err := g.Bind(&gty.Params{Token: token, Cards: common.LeftPad32(b), House: house, Player: player})
	require.NoError(t, err)
	return addr
}

// parseSig 解析 sign 命令输出的 r, s, v
func parseSig(t *testing.T, out string) map[string]string {
	sig := make(map[string]string)
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		fields := strings.Fields(line)
		require.Len(t, fields, 2, line)
		sig[fields[0]] = fields[1]
	}
	require.Len(t, sig, 3)
	return sig
}

func TestGameAddress(t *testing.T) {
	env := newTestEnv(t)
	addr := expectedAddress(t)

	out, err := env.run(append([]string{"address"}, paramsArgs()...)...)
	require.NoError(t, err)
	assert.Equal(t, "Send tokens to "+addr.Hex()+"\n", out)

	out, err = env.run(append([]string{"address", "--code"}, paramsArgs()...)...)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	code, err := common.FromHex(lines[1])
	require.NoError(t, err)
	assert.Len(t, code, len(testCode()))
	assert.Equal(t, player.Bytes(), code[len(code)-23:len(code)-3])

	_, err = env.run("address", "-t", token.Hex(), "-c", "0xzz", "-o", house.Hex(), "-p", player.Hex())
	assert.True(t, errors.Is(err, types.ErrInvalidDeck))
}

func TestGameSign(t *testing.T) {
	env := newTestEnv(t)
	out, err := env.run("sign", "-k", playerKeyHex, "-m", tiePerm)
	require.NoError(t, err)
	sig := parseSig(t, out)
	v, err := strconv.ParseUint(sig["v"], 10, 8)
	require.NoError(t, err)
	assert.True(t, v == 27 || v == 28)

	claim, err := gty.ParseClaim(tiePerm, sig["r"], sig["s"], byte(v))
	require.NoError(t, err)
	signer, err := crypto.RecoverSigner(crypto.SchemeRaw, claim.Permutation[:], claim.Sig)
	require.NoError(t, err)
	assert.Equal(t, player, signer)
}

func TestGameDeployFulfill(t *testing.T) {
	env := newTestEnv(t)
	addr := expectedAddress(t)

	out, err := env.run(append([]string{"deploy"}, paramsArgs()...)...)
	require.NoError(t, err)
	assert.Equal(t, "Send tokens to "+addr.Hex()+"\n", out)
	env.mint(t, addr, 1000)

	// 不是玩家的签名
	other, err := crypto.GenKey()
	require.NoError(t, err)
	_, err = env.run("fulfill", "-a", addr.Hex(), "-m", tiePerm, "-k", crypto.KeyToHex(other))
	assert.True(t, errors.Is(err, types.ErrUnauthorizedClaim))

	out, err = env.run("fulfill", "-a", addr.Hex(), "-m", tiePerm, "-k", playerKeyHex)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("outcome Tie\n%s -> %s 500\n%s -> %s 500\n",
		addr.Hex(), house.Hex(), addr.Hex(), player.Hex()), out)

	out, err = env.run("sign", "-k", playerKeyHex, "-m", tiePerm)
	require.NoError(t, err)
	sig := parseSig(t, out)
	_, err = env.run("fulfill", "-a", addr.Hex(), "-m", tiePerm, "-r", sig["r"], "-s", sig["s"], "-v", sig["v"])
	assert.True(t, errors.Is(err, types.ErrAlreadySettled))
}
