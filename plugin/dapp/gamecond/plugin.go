// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gamecond

import (
	"github.com/33cn/condition/plugin/dapp/gamecond/commands"
	"github.com/33cn/condition/plugin/dapp/gamecond/executor"
	gty "github.com/33cn/condition/plugin/dapp/gamecond/types"
	"github.com/33cn/condition/pluginmgr"
)

func init() {
	pluginmgr.Register(&pluginmgr.PluginBase{
		Name:     gty.GameCondX,
		ExecName: executor.GetName(),
		Exec:     executor.Init,
		Cmd:      commands.GameCondCmd,
	})
}
