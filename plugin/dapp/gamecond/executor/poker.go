// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package executor

import (
	"sort"

	gty "github.com/33cn/condition/plugin/dapp/gamecond/types"
	"github.com/pkg/errors"
)

// Resolve 比较庄家和玩家的牌, 结果只取决于两手牌和规则
func Resolve(rule gty.Rule, tieBreak gty.TieBreak, house, player gty.Hand) (gty.Outcome, error) {
	if len(house) == 0 || len(house) != len(player) {
		return 0, errors.Errorf("hand size %d vs %d", len(house), len(player))
	}
	switch rule {
	case gty.RuleHighCard:
		return highCard(tieBreak, house, player)
	case gty.RulePositional:
		return positional(house, player), nil
	}
	return 0, errors.Errorf("unknown rule %q", rule)
}

func ranksDesc(h gty.Hand) []uint8 {
	ranks := make([]uint8, len(h))
	for i, c := range h {
		ranks[i] = c.Rank()
	}
	sort.Slice(ranks, func(i, j int) bool { return ranks[i] > ranks[j] })
	return ranks
}

// topCard 点数最大的牌, 点数相同取花色大的
func topCard(h gty.Hand) gty.Card {
	top := h[0]
	for _, c := range h[1:] {
		if c.Rank() > top.Rank() || (c.Rank() == top.Rank() && c.Suit() > top.Suit()) {
			top = c
		}
	}
	return top
}

func compare(house, player uint8) gty.Outcome {
	switch {
	case house > player:
		return gty.HouseWins
	case house < player:
		return gty.PlayerWins
	}
	return gty.Tie
}

func highCard(tieBreak gty.TieBreak, house, player gty.Hand) (gty.Outcome, error) {
	hr := ranksDesc(house)
	pr := ranksDesc(player)
	if result := compare(hr[0], pr[0]); result != gty.Tie {
		return result, nil
	}
	switch tieBreak {
	case gty.TieBreakKicker:
		for i := 1; i < len(hr); i++ {
			if result := compare(hr[i], pr[i]); result != gty.Tie {
				return result, nil
			}
		}
		return gty.Tie, nil
	case gty.TieBreakSuit:
		return compare(topCard(house).Suit(), topCard(player).Suit()), nil
	case gty.TieBreakNone:
		return gty.Tie, nil
	}
	return 0, errors.Errorf("unknown tie break %q", tieBreak)
}

func positional(house, player gty.Hand) gty.Outcome {
	var houseWins, playerWins int
	for i := range house {
		switch compare(house[i].Rank(), player[i].Rank()) {
		case gty.HouseWins:
			houseWins++
		case gty.PlayerWins:
			playerWins++
		}
	}
	switch {
	case houseWins > playerWins:
		return gty.HouseWins
	case houseWins < playerWins:
		return gty.PlayerWins
	}
	return gty.Tie
}
