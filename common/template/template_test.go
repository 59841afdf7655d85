// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package template

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/33cn/condition/types"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	patA = bytes.Repeat([]byte{0x11}, 20)
	patB = bytes.Repeat([]byte{0x22}, 32)
	patC = []byte{0x00, 0x01, 0x86, 0x9f}
)

func sampleCode() []byte {
	var code []byte
	code = append(code, 0x60, 0x80, 0x73)
	code = append(code, patA...)
	code = append(code, 0x7f)
	code = append(code, patB...)
	code = append(code, 0x63)
	code = append(code, patC...)
	code = append(code, 0x56, 0x00)
	return code
}

func samplePlaceholders() []Placeholder {
	return []Placeholder{
		{Name: "token", Pattern: patA, Kind: KindAddress},
		{Name: "cards", Pattern: patB, Kind: KindHash},
		{Name: "end", Pattern: patC, Kind: KindUint},
	}
}

func TestLocate(t *testing.T) {
	tpl, err := Locate(sampleCode(), samplePlaceholders())
	require.NoError(t, err)
	r, ok := tpl.Region("token")
	require.True(t, ok)
	assert.Equal(t, Region{Name: "token", Offset: 3, Length: 20, Kind: KindAddress}, r)
	r, _ = tpl.Region("cards")
	assert.Equal(t, 24, r.Offset)
	r, _ = tpl.Region("end")
	assert.Equal(t, 57, r.Offset)
	assert.Len(t, tpl.Regions(), 3)
	_, ok = tpl.Region("nothing")
	assert.False(t, ok)
}

func TestLocateErrors(t *testing.T) {
	code := sampleCode()
	// 不存在
	_, err := Locate(code, []Placeholder{{Name: "x", Pattern: bytes.Repeat([]byte{0x33}, 20), Kind: KindAddress}})
	assert.True(t, errors.Is(err, types.ErrTemplateMismatch))

	// 与自身重叠
	_, err = Locate(code, []Placeholder{{Name: "x", Pattern: []byte{0x11, 0x11}, Kind: KindUint}})
	assert.True(t, errors.Is(err, types.ErrTemplateMismatch))

	// 宽度与类型不符
	_, err = Locate(code, []Placeholder{{Name: "end", Pattern: patC, Kind: KindAddress}})
	assert.True(t, errors.Is(err, types.ErrTemplateMismatch))

	// 重叠
	_, err = Locate(code, []Placeholder{
		{Name: "a", Pattern: patA, Kind: KindAddress},
		{Name: "b", Pattern: append(bytes.Repeat([]byte{0x11}, 10), 0x7f), Kind: KindUint},
	})
	assert.True(t, errors.Is(err, types.ErrTemplateMismatch))

	_, err = Locate(code, []Placeholder{{Name: "e", Kind: KindUint}})
	assert.True(t, errors.Is(err, types.ErrTemplateMismatch))
	// 短占位符出现多次, 可能是无关常量
	dup := append(sampleCode(), 0x63)
	dup = append(dup, patC...)
	_, err = Locate(dup, samplePlaceholders())
	assert.True(t, errors.Is(err, types.ErrTemplateMismatch))
}

func TestNewErrors(t *testing.T) {
	code := sampleCode()
	_, err := New(code, []Region{{Name: "a", Offset: len(code) - 4, Length: 20, Kind: KindAddress}})
	assert.True(t, errors.Is(err, types.ErrTemplateMismatch))
	_, err = New(code, []Region{{Name: "a", Offset: 0, Length: 4, Kind: KindUint}, {Name: "a", Offset: 10, Length: 2, Kind: KindUint}})
	assert.True(t, errors.Is(err, types.ErrTemplateMismatch))
	_, err = New(code, []Region{{Offset: 0, Length: 4, Kind: KindUint}})
	assert.True(t, errors.Is(err, types.ErrTemplateMismatch))
	_, err = New(code, []Region{{Name: "a", Offset: 0, Length: 4, Kind: Kind(9)}})
	assert.True(t, errors.Is(err, types.ErrTemplateMismatch))
}

func TestBindExtract(t *testing.T) {
	code := sampleCode()
	tpl, err := Locate(code, samplePlaceholders())
	require.NoError(t, err)

	token := ethcommon.HexToAddress("0xF3beAC30C498D9E26865F34fCAa57dBB935b0D74")
	var cards [32]byte
	cards[31] = 0x09
	end, err := Uint64(1700000000, 4)
	require.NoError(t, err)
	values := map[string][]byte{
		"token": Address(token),
		"cards": Hash(cards),
		"end":   end,
	}
	bound, err := tpl.Bind(values)
	require.NoError(t, err)
	assert.Len(t, bound, len(code))
	assert.Equal(t, code, tpl.Code(), "template must stay pristine")
	assert.Equal(t, token.Bytes(), bound[3:23])

	got, err := tpl.Extract(bound)
	require.NoError(t, err)
	assert.Equal(t, values, got)

	a, err := ToAddress(got["token"])
	require.NoError(t, err)
	assert.Equal(t, token, a)
	h, err := ToHash(got["cards"])
	require.NoError(t, err)
	assert.Equal(t, cards, h)
	u, err := ToUint(got["end"])
	require.NoError(t, err)
	assert.Equal(t, uint64(1700000000), u.Uint64())

	// 绑定值中恰好含有其它占位符时不影响结果
	values["token"] = Address(ethcommon.BytesToAddress(patB[:20]))
	bound, err = tpl.Bind(values)
	require.NoError(t, err)
	assert.Equal(t, patB[:20], bound[3:23])
	assert.Equal(t, Hash(cards), bound[24:56])
}

func TestRepeatedPlaceholder(t *testing.T) {
	// 同一个常量在代码中出现两次
	code := append(sampleCode(), 0x73)
	code = append(code, patA...)
	tpl, err := Locate(code, samplePlaceholders())
	require.NoError(t, err)
	assert.Equal(t, 2, tpl.Occurrences("token"))
	assert.Equal(t, 1, tpl.Occurrences("end"))
	assert.Len(t, tpl.Regions(), 4)

	token := bytes.Repeat([]byte{0xab}, 20)
	values := map[string][]byte{"token": token, "cards": patB, "end": MustUint(7, 4)}
	bound, err := tpl.Bind(values)
	require.NoError(t, err)
	assert.Equal(t, token, bound[3:23])
	assert.Equal(t, token, bound[len(bound)-20:])

	got, err := tpl.Extract(bound)
	require.NoError(t, err)
	assert.Equal(t, values, got)

	// 两处绑定的值不一致
	bound[len(bound)-1] = 0xcd
	_, err = tpl.Extract(bound)
	assert.True(t, errors.Is(err, types.ErrTemplateMismatch))
}

func TestBindErrors(t *testing.T) {
	tpl, err := Locate(sampleCode(), samplePlaceholders())
	require.NoError(t, err)
	end := MustUint(5, 4)
	full := map[string][]byte{"token": patA, "cards": patB, "end": end}

	missing := map[string][]byte{"token": patA, "cards": patB}
	_, err = tpl.Bind(missing)
	assert.True(t, errors.Is(err, types.ErrTemplateMismatch))

	wrong := map[string][]byte{"token": patA[:19], "cards": patB, "end": end}
	_, err = tpl.Bind(wrong)
	assert.True(t, errors.Is(err, types.ErrTemplateMismatch))

	extra := map[string][]byte{"token": patA, "cards": patB, "end": end, "other": {1}}
	_, err = tpl.Bind(extra)
	assert.True(t, errors.Is(err, types.ErrTemplateMismatch))

	bound, err := tpl.Bind(full)
	require.NoError(t, err)
	bound[0] ^= 0xff
	_, err = tpl.Extract(bound)
	assert.True(t, errors.Is(err, types.ErrTemplateMismatch))
	bound[0] ^= 0xff
	bound[len(bound)-1] ^= 0xff
	assert.True(t, errors.Is(tpl.Verify(bound), types.ErrTemplateMismatch))
	assert.True(t, errors.Is(tpl.Verify(bound[1:]), types.ErrTemplateMismatch))
}

func TestUint(t *testing.T) {
	b, err := Uint64(99999, 4)
	require.NoError(t, err)
	assert.Equal(t, patC, b)
	_, err = Uint64(1<<32, 4)
	assert.True(t, errors.Is(err, types.ErrTemplateMismatch))
	_, err = Uint(uint256.NewInt(1), 33)
	assert.True(t, errors.Is(err, types.ErrTemplateMismatch))
	b, err = Uint(uint256.NewInt(123456789), 32)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x07, 0x5b, 0xcd, 0x15}, b[28:])
	assert.Panics(t, func() { MustUint(256, 1) })
}

func TestLoadArtifact(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Cond.json")
	data := `{"contractName":"Cond","bytecode":"0x6080","deployedBytecode":"0x60806040"}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0600))

	code, err := LoadArtifact(path, FieldDeployedBytecode)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x60, 0x80, 0x60, 0x40}, code)
	code, err = LoadArtifact(path, FieldBytecode)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x60, 0x80}, code)

	_, err = LoadArtifact(path, "abi")
	assert.Error(t, err)
	_, err = LoadArtifact(filepath.Join(dir, "none.json"), FieldBytecode)
	assert.Error(t, err)
	_, err = ParseArtifact([]byte(`{"bytecode":"0x"}`), FieldBytecode)
	assert.Error(t, err)
}
