// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import "errors"

// 模板与地址
var (
	ErrTemplateMismatch = errors.New("ErrTemplateMismatch")
	ErrAddressDriver    = errors.New("ErrAddressDriver")
	ErrInvalidAddress   = errors.New("ErrInvalidAddress")
)

// 签名与条件
var (
	ErrInvalidSignature   = errors.New("ErrInvalidSignature")
	ErrUnauthorizedClaim  = errors.New("ErrUnauthorizedClaim")
	ErrInvalidPermutation = errors.New("ErrInvalidPermutation")
	ErrInvalidDeck        = errors.New("ErrInvalidDeck")
	ErrDigestScheme       = errors.New("ErrDigestScheme")
)

// 托管状态机
var (
	ErrAlreadySettled        = errors.New("ErrAlreadySettled")
	ErrEscrowExists          = errors.New("ErrEscrowExists")
	ErrChallengePeriodActive = errors.New("ErrChallengePeriodActive")
	ErrChallengePeriodOver   = errors.New("ErrChallengePeriodOver")
	ErrNotChallenged         = errors.New("ErrNotChallenged")
	ErrAwaitingArbitration   = errors.New("ErrAwaitingArbitration")
	ErrPermission            = errors.New("ErrPermission")
	ErrSettleMismatch        = errors.New("ErrSettleMismatch")
	ErrActionNotSupport      = errors.New("ErrActionNotSupport")
)

// 账本
var (
	ErrNoBalance      = errors.New("ErrNoBalance")
	ErrAmount         = errors.New("ErrAmount")
	ErrAllowance      = errors.New("ErrAllowance")
	ErrSendSameToRecv = errors.New("ErrSendSameToRecv")
	ErrNotFound       = errors.New("ErrNotFound")
	ErrDecode         = errors.New("ErrDecode")
)
