// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package account

import (
	"math/big"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/33cn/condition/types"
)

// FormatAmount 最小单位 -> 带小数的字符串
func FormatAmount(amount uint64, decimals int32) string {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(amount), -decimals).String()
}

// ParseAmount 带小数的字符串 -> 最小单位
func ParseAmount(s string, decimals int32) (uint64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, errors.Wrapf(types.ErrAmount, "%q: %v", s, err)
	}
	d = d.Shift(decimals)
	if d.IsNegative() || !d.Equal(d.Truncate(0)) {
		return 0, errors.Wrapf(types.ErrAmount, "%q with %d decimals", s, decimals)
	}
	b := d.BigInt()
	if !b.IsUint64() {
		return 0, errors.Wrapf(types.ErrAmount, "%q overflows", s)
	}
	return b.Uint64(), nil
}
