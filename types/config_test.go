// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCfg = `
title="local"

[log]
loglevel="debug"
logConsoleLevel="info"
logFile="logs/condition.log"
maxFileSize=300
callerFile=true

[store]
driver="leveldb"
dbPath="datadir"

[game]
handSize=3
rule="positional"
split="player"

[arbitrable]
challengePeriod=120
`

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig(testCfg)
	require.NoError(t, err)
	assert.Equal(t, "local", cfg.Title)
	assert.Equal(t, "debug", cfg.Log.Loglevel)
	assert.Equal(t, uint32(300), cfg.Log.MaxFileSize)
	assert.True(t, cfg.Log.CallerFile)
	assert.Equal(t, "leveldb", cfg.Store.Driver)
	assert.Equal(t, 3, cfg.Game.HandSize)
	assert.Equal(t, "positional", cfg.Game.Rule)
	assert.Equal(t, "kicker", cfg.Game.TieBreak)
	assert.Equal(t, "player", cfg.Game.Split)
	assert.Equal(t, "raw", cfg.Game.Digest)
	assert.Equal(t, int64(120), cfg.Arbitrable.ChallengePeriod)
	assert.Equal(t, DefaultBridge, cfg.Arbitrable.Bridge)
	assert.Equal(t, "personal", cfg.Arbitrable.Digest)
	assert.Equal(t, DefaultRPCURL, cfg.RPC.URL)
}

func TestParseConfigError(t *testing.T) {
	_, err := ParseConfig("title=")
	assert.Error(t, err)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, DefaultTitle, cfg.Title)
	assert.Equal(t, "memdb", cfg.Store.Driver)
	assert.Equal(t, DefaultHandSize, cfg.Game.HandSize)
	assert.Equal(t, "highcard", cfg.Game.Rule)
	assert.Equal(t, DefaultChallengePeriod, cfg.Arbitrable.ChallengePeriod)
	assert.Equal(t, "error", cfg.Log.Loglevel)
	assert.Equal(t, "bytecode", cfg.Game.ArtifactField)
	assert.Equal(t, "deployedBytecode", cfg.Arbitrable.ArtifactField)
	assert.False(t, cfg.Game.StrictDeck)
}

func TestReadConfigAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "condition.toml")
	require.NoError(t, os.WriteFile(path, []byte(testCfg), 0600))

	cfg, err := ReadConfig(path)
	require.NoError(t, err)

	t.Setenv(EnvRPCURL, "http://127.0.0.1:8545")
	cfg.ApplyEnv()
	assert.Equal(t, "http://127.0.0.1:8545", cfg.RPC.URL)

	_, err = ReadConfig(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)
}
