// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package log 命令行工具的日志设置
//
// 控制台日志写到 stderr, stdout 只留给命令的输出结果.
// 配置了日志文件时, 同时写入按大小滚动的文件.
package log

import (
	"io"
	"os"
	"sync"

	"github.com/33cn/condition/types"
	log15 "github.com/inconshreveable/log15"
	"gopkg.in/natefinch/lumberjack.v2"
)

// DefaultLogFile 没有日志配置时使用的文件
const DefaultLogFile = "logs/condition.log"

// DefaultLevel 未配置或配置错误时的日志级别
const DefaultLevel = log15.LvlError

var (
	mu      sync.Mutex
	console io.Writer = os.Stderr
	rotate  *lumberjack.Logger
)

// SetLogLevel 只输出到控制台
func SetLogLevel(level string) {
	mu.Lock()
	defer mu.Unlock()
	closeFile()
	log15.Root().SetHandler(consoleHandler(level))
}

// SetFileLog 按配置设置控制台和文件日志, 没有配置日志文件时只输出到控制台
func SetFileLog(cfg *types.Log) {
	if cfg == nil {
		cfg = &types.Log{LogFile: DefaultLogFile}
	}
	withDefaults(cfg)
	if cfg.LogFile == "" {
		SetLogLevel(cfg.LogConsoleLevel)
		return
	}
	mu.Lock()
	defer mu.Unlock()
	closeFile()
	log15.Root().SetHandler(log15.MultiHandler(consoleHandler(cfg.LogConsoleLevel), fileHandler(cfg)))
}

func withDefaults(cfg *types.Log) {
	if cfg.Loglevel == "" {
		cfg.Loglevel = DefaultLevel.String()
	}
	if cfg.LogConsoleLevel == "" {
		cfg.LogConsoleLevel = DefaultLevel.String()
	}
}

func consoleHandler(level string) log15.Handler {
	format := log15.TerminalFormat()
	if os.PathSeparator == '\\' {
		format = log15.LogfmtFormat()
	}
	return log15.LvlFilterHandler(parseLevel(level), log15.StreamHandler(console, format))
}

func fileHandler(cfg *types.Log) log15.Handler {
	rotate = &lumberjack.Logger{
		Filename:   cfg.LogFile,
		MaxSize:    int(cfg.MaxFileSize),
		MaxBackups: int(cfg.MaxBackups),
		MaxAge:     int(cfg.MaxAge),
		LocalTime:  cfg.LocalTime,
		Compress:   cfg.Compress,
	}
	h := log15.LvlFilterHandler(parseLevel(cfg.Loglevel), log15.StreamHandler(rotate, log15.LogfmtFormat()))
	if cfg.CallerFile {
		h = log15.CallerFileHandler(h)
	}
	if cfg.CallerFunction {
		h = log15.CallerFuncHandler(h)
	}
	return h
}

// 切换日志设置时关闭上一次打开的文件
func closeFile() {
	if rotate != nil {
		rotate.Close()
		rotate = nil
	}
}

func parseLevel(level string) log15.Lvl {
	lvl, err := log15.LvlFromString(level)
	if err != nil {
		return DefaultLevel
	}
	return lvl
}

// New 带上下文的模块日志
func New(ctx ...interface{}) log15.Logger {
	return log15.Root().New(ctx...)
}
