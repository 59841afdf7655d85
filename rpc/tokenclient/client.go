// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tokenclient 通过以太坊 json rpc 读取 ERC20 token 状态
package tokenclient

import (
	"context"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	log "github.com/inconshreveable/log15"
	"github.com/pkg/errors"
)

var tlog = log.New("module", "rpc.tokenclient")

// ERC20ABI 只包含读接口
const ERC20ABI = `[
{"constant":true,"inputs":[{"name":"owner","type":"address"}],"name":"balanceOf","outputs":[{"name":"","type":"uint256"}],"type":"function"},
{"constant":true,"inputs":[],"name":"decimals","outputs":[{"name":"","type":"uint8"}],"type":"function"},
{"constant":true,"inputs":[],"name":"symbol","outputs":[{"name":"","type":"string"}],"type":"function"}
]`

// Caller 执行 eth_call
type Caller interface {
	CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// Client ERC20 读客户端
type Client struct {
	caller Caller
	abi    abi.ABI
	close  func()
}

// Dial 连接节点
func Dial(ctx context.Context, url string) (*Client, error) {
	ec, err := ethclient.DialContext(ctx, url)
	if err != nil {
		return nil, errors.Wrapf(err, "dial %s", url)
	}
	c, err := NewClient(ec)
	if err != nil {
		ec.Close()
		return nil, err
	}
	c.close = ec.Close
	return c, nil
}

// NewClient new
func NewClient(caller Caller) (*Client, error) {
	parsed, err := abi.JSON(strings.NewReader(ERC20ABI))
	if err != nil {
		return nil, errors.Wrap(err, "parse erc20 abi")
	}
	return &Client{caller: caller, abi: parsed}, nil
}

// Close 关闭连接
func (c *Client) Close() {
	if c.close != nil {
		c.close()
	}
}

func (c *Client) call(ctx context.Context, token common.Address, method string, args ...interface{}) ([]interface{}, error) {
	data, err := c.abi.Pack(method, args...)
	if err != nil {
		return nil, errors.Wrapf(err, "pack %s", method)
	}
	out, err := c.caller.CallContract(ctx, ethereum.CallMsg{To: &token, Data: data}, nil)
	if err != nil {
		tlog.Error("call", "token", token, "method", method, "err", err)
		return nil, errors.Wrapf(err, "call %s", method)
	}
	values, err := c.abi.Unpack(method, out)
	if err != nil {
		return nil, errors.Wrapf(err, "unpack %s", method)
	}
	if len(values) != 1 {
		return nil, errors.Errorf("%s returned %d values", method, len(values))
	}
	return values, nil
}

// BalanceOf 地址的 token 余额
func (c *Client) BalanceOf(ctx context.Context, token, owner common.Address) (*big.Int, error) {
	values, err := c.call(ctx, token, "balanceOf", owner)
	if err != nil {
		return nil, err
	}
	balance, ok := values[0].(*big.Int)
	if !ok {
		return nil, errors.Errorf("balanceOf returned %T", values[0])
	}
	return balance, nil
}

// Decimals token 精度
func (c *Client) Decimals(ctx context.Context, token common.Address) (uint8, error) {
	values, err := c.call(ctx, token, "decimals")
	if err != nil {
		return 0, err
	}
	decimals, ok := values[0].(uint8)
	if !ok {
		return 0, errors.Errorf("decimals returned %T", values[0])
	}
	return decimals, nil
}

// Symbol token 符号
func (c *Client) Symbol(ctx context.Context, token common.Address) (string, error) {
	values, err := c.call(ctx, token, "symbol")
	if err != nil {
		return "", err
	}
	symbol, ok := values[0].(string)
	if !ok {
		return "", errors.Errorf("symbol returned %T", values[0])
	}
	return symbol, nil
}
