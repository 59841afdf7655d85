// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import (
	"fmt"
	"sort"

	"github.com/33cn/condition/types"
	"github.com/pkg/errors"
)

// 花色 1..4, 点数 1..14
const (
	SuitMin = 1
	SuitMax = 4
	RankMin = 1
	RankMax = 14
	// cardOffset 花色在高字节
	cardOffset = 8
	cardMask   = 0xFF
	cardBytes  = 2
)

// Card 一张牌, 高字节花色, 低字节点数
type Card uint16

// NewCard new
func NewCard(suit, rank uint8) Card {
	return Card(uint16(suit)<<cardOffset | uint16(rank))
}

// Suit 花色
func (c Card) Suit() uint8 { return uint8(c >> cardOffset) }

// Rank 点数
func (c Card) Rank() uint8 { return uint8(c & cardMask) }

// Valid 花色和点数都在范围内
func (c Card) Valid() bool {
	return c.Suit() >= SuitMin && c.Suit() <= SuitMax && c.Rank() >= RankMin && c.Rank() <= RankMax
}

func (c Card) String() string {
	return fmt.Sprintf("%d/%d", c.Suit(), c.Rank())
}

// Hand 一手牌
type Hand []Card

// SameCards 两手牌是否是同一个多重集合
func (h Hand) SameCards(other Hand) bool {
	if len(h) != len(other) {
		return false
	}
	a := h.sorted()
	b := other.sorted()
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (h Hand) sorted() Hand {
	s := append(Hand(nil), h...)
	sort.Slice(s, func(i, j int) bool { return s[i] < s[j] })
	return s
}

func (h Hand) hasDuplicate() bool {
	s := h.sorted()
	for i := 1; i < len(s); i++ {
		if s[i] == s[i-1] {
			return true
		}
	}
	return false
}

func (h Hand) contains(c Card) bool {
	for _, x := range h {
		if x == c {
			return true
		}
	}
	return false
}

func checkHandSize(handSize int) error {
	if handSize < 1 || handSize > MaxHandSize {
		return errors.Wrapf(types.ErrInvalidDeck, "hand size %d", handSize)
	}
	return nil
}

// readCards 从 32 字节字的末尾读取 n 张牌, 之前的字节必须为 0
func readCards(word [32]byte, n int) (Hand, bool) {
	start := 32 - n*cardBytes
	for _, b := range word[:start] {
		if b != 0 {
			return nil, false
		}
	}
	hand := make(Hand, n)
	for i := 0; i < n; i++ {
		off := start + i*cardBytes
		hand[i] = Card(uint16(word[off])<<8 | uint16(word[off+1]))
	}
	return hand, true
}

// ParseDeck 解析绑定的牌: 前 handSize 张为庄家, 后 handSize 张为玩家
// strict 为 true 时两手牌不允许有相同的牌
func ParseDeck(word [32]byte, handSize int, strict bool) (house Hand, player Hand, err error) {
	if err := checkHandSize(handSize); err != nil {
		return nil, nil, err
	}
	cards, ok := readCards(word, 2*handSize)
	if !ok {
		return nil, nil, errors.Wrap(types.ErrInvalidDeck, "non zero padding")
	}
	for _, c := range cards {
		if !c.Valid() {
			return nil, nil, errors.Wrapf(types.ErrInvalidDeck, "card %s", c)
		}
	}
	house, player = cards[:handSize], cards[handSize:]
	if house.hasDuplicate() || player.hasDuplicate() {
		return nil, nil, errors.Wrap(types.ErrInvalidDeck, "duplicate card in hand")
	}
	if strict {
		for _, c := range player {
			if house.contains(c) {
				return nil, nil, errors.Wrapf(types.ErrInvalidDeck, "card %s in both hands", c)
			}
		}
	}
	return house, player, nil
}

// ParsePermutation 解析玩家提交的排列
func ParsePermutation(word [32]byte, handSize int) (Hand, error) {
	if handSize < 1 || handSize > MaxHandSize {
		return nil, errors.Wrapf(types.ErrInvalidPermutation, "hand size %d", handSize)
	}
	hand, ok := readCards(word, handSize)
	if !ok {
		return nil, errors.Wrap(types.ErrInvalidPermutation, "non zero padding")
	}
	for _, c := range hand {
		if !c.Valid() {
			return nil, errors.Wrapf(types.ErrInvalidPermutation, "card %s", c)
		}
	}
	return hand, nil
}

// EncodeHands 把两手牌编码为绑定用的 32 字节字
func EncodeHands(house, player Hand) ([32]byte, error) {
	var word [32]byte
	cards := append(append(Hand(nil), house...), player...)
	if len(house) != len(player) || len(cards) > 2*MaxHandSize {
		return word, errors.Wrap(types.ErrInvalidDeck, "hand sizes")
	}
	start := 32 - len(cards)*cardBytes
	for i, c := range cards {
		word[start+i*cardBytes] = byte(c >> 8)
		word[start+i*cardBytes+1] = byte(c)
	}
	return word, nil
}

// EncodePermutation 排列 -> 32 字节字
func EncodePermutation(hand Hand) ([32]byte, error) {
	var word [32]byte
	if len(hand) > MaxHandSize {
		return word, errors.Wrap(types.ErrInvalidPermutation, "hand size")
	}
	start := 32 - len(hand)*cardBytes
	for i, c := range hand {
		word[start+i*cardBytes] = byte(c >> 8)
		word[start+i*cardBytes+1] = byte(c)
	}
	return word, nil
}
