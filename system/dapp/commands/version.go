// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package commands

import (
	"fmt"
	"strings"

	"github.com/33cn/condition/common/address"
	"github.com/33cn/condition/system/dapp"
	"github.com/33cn/condition/types"
	"github.com/spf13/cobra"
)

// VersionCmd version command
func VersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version, executors and address drivers",
		Run:   version,
	}

	return cmd
}

func version(cmd *cobra.Command, args []string) {
	fmt.Println("version", types.Version)
	fmt.Println("executors", strings.Join(dapp.GetDriverList(), ","))
	fmt.Println("address drivers", strings.Join(address.GetDriverList(), ","))
}
