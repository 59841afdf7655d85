// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package arbitrable

import (
	"github.com/33cn/condition/plugin/dapp/arbitrable/commands"
	"github.com/33cn/condition/plugin/dapp/arbitrable/executor"
	aty "github.com/33cn/condition/plugin/dapp/arbitrable/types"
	"github.com/33cn/condition/pluginmgr"
)

func init() {
	pluginmgr.Register(&pluginmgr.PluginBase{
		Name:     aty.ArbitrableX,
		ExecName: executor.GetName(),
		Exec:     executor.Init,
		Cmd:      commands.ArbitrableCmd,
	})
}
