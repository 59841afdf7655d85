// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cli 命令行入口, 插件的命令挂在根命令下
package cli

import (
	"fmt"
	"os"

	"github.com/33cn/condition/common/log"
	"github.com/33cn/condition/pluginmgr"
	"github.com/33cn/condition/system/dapp/commands"
	"github.com/33cn/condition/types"
	"github.com/spf13/cobra"
)

// NewRootCmd 根命令, 包含全部已注册插件的命令
func NewRootCmd(title string) *cobra.Command {
	if title == "" {
		title = types.DefaultTitle
	}
	rootCmd := &cobra.Command{
		Use:           title + "-cli",
		Short:         title + " client tools",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rpcURL := types.DefaultRPCURL
	if url := os.Getenv(types.EnvRPCURL); url != "" {
		rpcURL = url
	}
	rootCmd.PersistentFlags().String("rpc_laddr", rpcURL, "ethereum json rpc url, defaults to $"+types.EnvRPCURL)
	rootCmd.PersistentFlags().String("conf", "", "toml config file")
	rootCmd.AddCommand(
		commands.TokenCmd(),
		commands.VersionCmd(),
	)
	pluginmgr.InitExec()
	pluginmgr.AddCmd(rootCmd)
	return rootCmd
}

// Run 执行命令, 出错时退出码为 1
func Run(title string) {
	log.SetLogLevel("error")
	if err := NewRootCmd(title).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
