// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import (
	"io/ioutil"
	"os"

	tml "github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// 默认配置
const (
	DefaultTitle           = "condition"
	DefaultRPCURL          = "https://testnet-node1.leapdao.org"
	DefaultBridge          = "0xEB13cc8F0904398d01D7faD8B98bff1FA2977470"
	DefaultChallengePeriod = int64(60)
	DefaultHandSize        = 5
	EnvRPCURL              = "RPC_URL"
)

// Config 配置文件结构
type Config struct {
	Title      string            `toml:"title"`
	Log        *Log              `toml:"log"`
	Store      *Store            `toml:"store"`
	RPC        *RPC              `toml:"rpc"`
	Game       *GameConfig       `toml:"game"`
	Arbitrable *ArbitrableConfig `toml:"arbitrable"`
}

// Log 日志配置
type Log struct {
	Loglevel        string `toml:"loglevel"`
	LogConsoleLevel string `toml:"logConsoleLevel"`
	LogFile         string `toml:"logFile"`
	MaxFileSize     uint32 `toml:"maxFileSize"`
	MaxBackups      uint32 `toml:"maxBackups"`
	MaxAge          uint32 `toml:"maxAge"`
	LocalTime       bool   `toml:"localTime"`
	Compress        bool   `toml:"compress"`
	CallerFile      bool   `toml:"callerFile"`
	CallerFunction  bool   `toml:"callerFunction"`
}

// Store 本地状态存储
type Store struct {
	Driver string `toml:"driver"`
	DbPath string `toml:"dbPath"`
	Name   string `toml:"name"`
}

// RPC 远端节点
type RPC struct {
	URL string `toml:"url"`
}

// GameConfig 牌局条件合约的固定配置
type GameConfig struct {
	HandSize      int    `toml:"handSize"`
	Rule          string `toml:"rule"`
	TieBreak      string `toml:"tieBreak"`
	Split         string `toml:"split"`
	Digest        string `toml:"digest"`
	AddressDriver string `toml:"addressDriver"`
	StrictDeck    bool   `toml:"strictDeck"`
	Artifact      string `toml:"artifact"`
	ArtifactField string `toml:"artifactField"`
}

// ArbitrableConfig 可仲裁交易条件合约的固定配置
type ArbitrableConfig struct {
	ChallengePeriod int64  `toml:"challengePeriod"`
	Bridge          string `toml:"bridge"`
	Digest          string `toml:"digest"`
	AddressDriver   string `toml:"addressDriver"`
	Artifact        string `toml:"artifact"`
	ArtifactField   string `toml:"artifactField"`
}

// DefaultConfig 全部使用默认值
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.FillDefault()
	return cfg
}

// ReadConfig 从文件读取配置
func ReadConfig(path string) (*Config, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read config %s", path)
	}
	return ParseConfig(string(data))
}

// ParseConfig 解析 toml 配置, 未配置的项填充默认值
func ParseConfig(cfgstring string) (*Config, error) {
	var cfg Config
	if _, err := tml.Decode(cfgstring, &cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	cfg.FillDefault()
	return &cfg, nil
}

// FillDefault 填充默认值
func (c *Config) FillDefault() {
	if c.Title == "" {
		c.Title = DefaultTitle
	}
	if c.Log == nil {
		c.Log = &Log{}
	}
	if c.Log.Loglevel == "" {
		c.Log.Loglevel = "error"
	}
	if c.Log.LogConsoleLevel == "" {
		c.Log.LogConsoleLevel = "error"
	}
	if c.Store == nil {
		c.Store = &Store{}
	}
	if c.Store.Driver == "" {
		c.Store.Driver = "memdb"
	}
	if c.Store.DbPath == "" {
		c.Store.DbPath = "datadir"
	}
	if c.Store.Name == "" {
		c.Store.Name = "condition"
	}
	if c.RPC == nil {
		c.RPC = &RPC{}
	}
	if c.RPC.URL == "" {
		c.RPC.URL = DefaultRPCURL
	}
	if c.Game == nil {
		c.Game = &GameConfig{}
	}
	if c.Game.HandSize == 0 {
		c.Game.HandSize = DefaultHandSize
	}
	if c.Game.Rule == "" {
		c.Game.Rule = "highcard"
	}
	if c.Game.TieBreak == "" {
		c.Game.TieBreak = "kicker"
	}
	if c.Game.Split == "" {
		c.Game.Split = "house"
	}
	if c.Game.Digest == "" {
		c.Game.Digest = "raw"
	}
	if c.Game.AddressDriver == "" {
		c.Game.AddressDriver = "ripemd160"
	}
	if c.Game.ArtifactField == "" {
		c.Game.ArtifactField = "bytecode"
	}
	if c.Arbitrable == nil {
		c.Arbitrable = &ArbitrableConfig{}
	}
	if c.Arbitrable.ChallengePeriod == 0 {
		c.Arbitrable.ChallengePeriod = DefaultChallengePeriod
	}
	if c.Arbitrable.Bridge == "" {
		c.Arbitrable.Bridge = DefaultBridge
	}
	if c.Arbitrable.Digest == "" {
		c.Arbitrable.Digest = "personal"
	}
	if c.Arbitrable.AddressDriver == "" {
		c.Arbitrable.AddressDriver = "ripemd160"
	}
	if c.Arbitrable.ArtifactField == "" {
		c.Arbitrable.ArtifactField = "deployedBytecode"
	}
}

// ApplyEnv 环境变量覆盖配置
func (c *Config) ApplyEnv() {
	if url := os.Getenv(EnvRPCURL); url != "" {
		c.RPC.URL = url
	}
}
