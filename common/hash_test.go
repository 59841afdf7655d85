// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHex(t *testing.T) {
	assert.Equal(t, "", ToHex(nil))
	assert.Equal(t, "0x0102", ToHex([]byte{1, 2}))

	b, err := FromHex("0x102")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2}, b)

	b, err = FromHex("0X0a0b")
	require.NoError(t, err)
	assert.Equal(t, []byte{10, 11}, b)

	b, err = FromHex("")
	require.NoError(t, err)
	assert.Empty(t, b)

	_, err = FromHex("0xzz")
	assert.Error(t, err)

	assert.True(t, HasHexPrefix("0xab"))
	assert.False(t, HasHexPrefix("ab"))
}

func TestHashes(t *testing.T) {
	// well known vectors for the empty input
	assert.Equal(t, "0x9c1185a5c5e9fc54612808977ee8f548b2258d31", ToHex(Ripemd160(nil)))
	assert.Equal(t, "0xc5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470", ToHex(Keccak256(nil)))
	assert.Equal(t, "0xe3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", ToHex(Sha256(nil)))
}

func TestCopyAndPad(t *testing.T) {
	assert.Nil(t, CopyBytes(nil))
	src := []byte{1, 2, 3}
	dst := CopyBytes(src)
	dst[0] = 9
	assert.Equal(t, byte(1), src[0])

	p := LeftPad32([]byte{0xab, 0xcd})
	assert.Equal(t, byte(0xab), p[30])
	assert.Equal(t, byte(0xcd), p[31])
	assert.Equal(t, byte(0), p[0])

	long := make([]byte, 40)
	long[39] = 7
	p = LeftPad32(long)
	assert.Equal(t, byte(7), p[31])
}
