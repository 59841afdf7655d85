// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package commands 各执行器共用的命令行工具
package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/33cn/condition/common/address"
	dbm "github.com/33cn/condition/common/db"
	clog "github.com/33cn/condition/common/log"
	"github.com/33cn/condition/system/dapp"
	"github.com/33cn/condition/types"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// LoadConfig 读取 --conf 指定的配置, 没有指定时使用默认配置
func LoadConfig(cmd *cobra.Command) (*types.Config, error) {
	path, _ := cmd.Flags().GetString("conf")
	var cfg *types.Config
	if path == "" {
		cfg = types.DefaultConfig()
	} else {
		var err error
		if cfg, err = types.ReadConfig(path); err != nil {
			return nil, err
		}
	}
	cfg.ApplyEnv()
	if cmd.Flags().Changed("rpc_laddr") {
		cfg.RPC.URL, _ = cmd.Flags().GetString("rpc_laddr")
	}
	clog.SetFileLog(cfg.Log)
	return cfg, nil
}

// Option 命令行参数对配置的覆盖
type Option func(cfg *types.Config)

// Env 打开本地状态库, 返回的 close 必须调用
func Env(cmd *cobra.Command, opts ...Option) (*dapp.Env, func(), error) {
	cfg, err := LoadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	for _, opt := range opts {
		opt(cfg)
	}
	db, err := dbm.NewDB(cfg.Store.Name, cfg.Store.Driver, cfg.Store.DbPath)
	if err != nil {
		return nil, nil, err
	}
	env := &dapp.Env{StateDB: dbm.NewStateDB(db), Config: cfg}
	return env, db.Close, nil
}

// LoadExec 打开本地状态库并加载执行器
func LoadExec(cmd *cobra.Command, name string, opts ...Option) (dapp.Driver, func(), error) {
	env, closer, err := Env(cmd, opts...)
	if err != nil {
		return nil, nil, err
	}
	driver, err := dapp.LoadDriver(name, env)
	if err != nil {
		closer()
		return nil, nil, err
	}
	return driver, closer, nil
}

// AddressFlag 读取地址参数
func AddressFlag(cmd *cobra.Command, name string) (ethcommon.Address, error) {
	s, _ := cmd.Flags().GetString(name)
	addr, err := address.Parse(s)
	if err != nil {
		return ethcommon.Address{}, errors.Wrapf(err, "--%s", name)
	}
	return addr, nil
}

// PrintJSON 以 json 格式输出
func PrintJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, string(data))
	return nil
}
