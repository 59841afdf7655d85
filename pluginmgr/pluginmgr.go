// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pluginmgr 插件注册, 每个插件提供一个执行器和它的命令
package pluginmgr

import (
	"sort"
	"sync"

	log "github.com/inconshreveable/log15"
	"github.com/spf13/cobra"
)

var mlog = log.New("module", "plugin.manager")

// Plugin 插件接口
type Plugin interface {
	// 插件包名, 全局唯一
	GetName() string
	// 插件中执行器名
	GetExecutorName() string
	// 注册执行器
	InitExec()
	AddCmd(rootCmd *cobra.Command)
}

// PluginBase 插件的通用实现
type PluginBase struct {
	Name     string
	ExecName string
	Exec     func(name string)
	Cmd      func() *cobra.Command
}

// GetName 插件名
func (p *PluginBase) GetName() string {
	return p.Name
}

// GetExecutorName 执行器名
func (p *PluginBase) GetExecutorName() string {
	return p.ExecName
}

// InitExec 注册执行器
func (p *PluginBase) InitExec() {
	if p.Exec != nil {
		p.Exec(p.ExecName)
	}
}

// AddCmd 添加命令
func (p *PluginBase) AddCmd(rootCmd *cobra.Command) {
	if p.Cmd != nil {
		cmd := p.Cmd()
		if cmd == nil {
			return
		}
		rootCmd.AddCommand(cmd)
	}
}

var (
	pluginItems = make(map[string]Plugin)
	mu          sync.Mutex
	once        sync.Once
)

// Register 注册插件, 重名时 panic
func Register(p Plugin) {
	mu.Lock()
	defer mu.Unlock()
	if p == nil {
		panic("plugin param is nil")
	}
	packageName := p.GetName()
	if len(packageName) == 0 {
		panic("plugin package name is empty")
	}
	if _, ok := pluginItems[packageName]; ok {
		panic("execute plugin item is existed. name = " + packageName)
	}
	pluginItems[packageName] = p
	mlog.Debug("Register", "plugin", packageName)
}

func sorted() []Plugin {
	mu.Lock()
	defer mu.Unlock()
	names := make([]string, 0, len(pluginItems))
	for name := range pluginItems {
		names = append(names, name)
	}
	sort.Strings(names)
	items := make([]Plugin, 0, len(names))
	for _, name := range names {
		items = append(items, pluginItems[name])
	}
	return items
}

// InitExec 注册全部执行器, 只执行一次
func InitExec() {
	once.Do(func() {
		for _, item := range sorted() {
			item.InitExec()
		}
	})
}

// HasExec 是否有插件提供该执行器
func HasExec(name string) bool {
	for _, item := range sorted() {
		if item.GetExecutorName() == name {
			return true
		}
	}
	return false
}

// AddCmd 把全部插件的命令挂到 rootCmd
func AddCmd(rootCmd *cobra.Command) {
	for _, item := range sorted() {
		item.AddCmd(rootCmd)
	}
}
