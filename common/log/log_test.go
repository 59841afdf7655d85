// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package log

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/33cn/condition/types"
	log15 "github.com/inconshreveable/log15"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureConsole(t *testing.T) *bytes.Buffer {
	var buf bytes.Buffer
	mu.Lock()
	console = &buf
	mu.Unlock()
	t.Cleanup(func() {
		SetLogLevel("crit")
		mu.Lock()
		console = os.Stderr
		mu.Unlock()
	})
	return &buf
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, log15.LvlDebug, parseLevel("debug"))
	assert.Equal(t, log15.LvlInfo, parseLevel("info"))
	assert.Equal(t, DefaultLevel, parseLevel("nonsense"))
}

func TestWithDefaults(t *testing.T) {
	l := &types.Log{}
	withDefaults(l)
	assert.Equal(t, "eror", l.Loglevel)
	assert.Equal(t, "eror", l.LogConsoleLevel)
}

func TestConsoleLevel(t *testing.T) {
	buf := captureConsole(t)
	SetLogLevel("warn")
	logger := New("module", "test")
	logger.Info("hidden")
	logger.Warn("challenge rejected", "escrow", "0x01")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "challenge rejected")
}

func TestSetFileLog(t *testing.T) {
	buf := captureConsole(t)
	file := filepath.Join(t.TempDir(), "condition.log")
	SetFileLog(&types.Log{
		Loglevel:        "debug",
		LogConsoleLevel: "crit",
		LogFile:         file,
		MaxFileSize:     1,
		CallerFile:      true,
	})

	New("module", "test").Info("settled", "escrow", "0x01", "amount", 1000)
	data, err := ioutil.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), "settled")
	assert.Contains(t, string(data), "module=test")
	assert.Empty(t, buf.String())
}
