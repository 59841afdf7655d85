// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package executor

import (
	"github.com/33cn/condition/common/crypto"
	dbm "github.com/33cn/condition/common/db"
	"github.com/33cn/condition/common/template"
	gty "github.com/33cn/condition/plugin/dapp/gamecond/types"
	"github.com/33cn/condition/system/dapp"
	"github.com/33cn/condition/types"
	"github.com/coder/quartz"
	"github.com/ethereum/go-ethereum/common"
	log "github.com/inconshreveable/log15"
	"github.com/pkg/errors"
)

var glog = log.New("module", "execs.gamecond")

var driverName = gty.GameCondX

// Init 注册执行器
func Init(name string) {
	driverName = name
	dapp.Register(name, Create)
}

// GetName 执行器名字
func GetName() string {
	return driverName
}

// GameCond 牌局条件托管
type GameCond struct {
	*dapp.DriverBase
	handSize int
	strict   bool
	rule     gty.Rule
	tieBreak gty.TieBreak
	split    gty.SplitPolicy
	scheme   crypto.Scheme
	tmpl     *template.Template
}

// Create 按配置创建, 配置了 artifact 时从中加载代码模板
func Create(env *dapp.Env) (dapp.Driver, error) {
	cfg := env.Config.Game
	var tmpl *template.Template
	if cfg.Artifact != "" {
		code, err := template.LoadArtifact(cfg.Artifact, cfg.ArtifactField)
		if err != nil {
			return nil, err
		}
		tmpl, err = template.Locate(code, gty.Placeholders())
		if err != nil {
			return nil, err
		}
	}
	return NewGameCond(env.StateDB, env.Clock, cfg, tmpl)
}

// NewGameCond new
func NewGameCond(statedb *dbm.StateDB, clock quartz.Clock, cfg *types.GameConfig, tmpl *template.Template) (*GameCond, error) {
	g := &GameCond{
		DriverBase: dapp.NewDriverBase(GetName(), statedb, clock, cfg.AddressDriver),
		handSize:   cfg.HandSize,
		strict:     cfg.StrictDeck,
		tmpl:       tmpl,
	}
	if cfg.HandSize < 1 || cfg.HandSize > gty.MaxHandSize {
		return nil, errors.Wrapf(types.ErrInvalidDeck, "hand size %d", cfg.HandSize)
	}
	var err error
	if g.rule, err = gty.ParseRule(cfg.Rule); err != nil {
		return nil, err
	}
	if g.tieBreak, err = gty.ParseTieBreak(cfg.TieBreak); err != nil {
		return nil, err
	}
	if g.split, err = gty.ParseSplitPolicy(cfg.Split); err != nil {
		return nil, err
	}
	if g.scheme, err = crypto.ParseScheme(cfg.Digest); err != nil {
		return nil, err
	}
	return g, nil
}

// Template 代码模板, 没有配置时为 nil
func (g *GameCond) Template() *template.Template {
	return g.tmpl
}

// Scheme 签名摘要方式
func (g *GameCond) Scheme() crypto.Scheme {
	return g.scheme
}

func (g *GameCond) codeTemplate() (*template.Template, error) {
	if g.tmpl == nil {
		return nil, errors.Wrap(types.ErrTemplateMismatch, "no code template")
	}
	return g.tmpl, nil
}

// Bind 绑定参数, 返回代码和托管地址
func (g *GameCond) Bind(params *gty.Params) ([]byte, common.Address, error) {
	if _, _, err := gty.ParseDeck(params.Cards, g.handSize, g.strict); err != nil {
		return nil, common.Address{}, err
	}
	tmpl, err := g.codeTemplate()
	if err != nil {
		return nil, common.Address{}, err
	}
	code, err := tmpl.Bind(params.Values())
	if err != nil {
		return nil, common.Address{}, err
	}
	addr, err := g.DeriveAddress(code)
	if err != nil {
		return nil, common.Address{}, err
	}
	return code, addr, nil
}

// Deploy 部署绑定后的代码, 参数从代码中提取
func (g *GameCond) Deploy(code []byte) (*dapp.EscrowRecord, *types.Receipt, error) {
	tmpl, err := g.codeTemplate()
	if err != nil {
		return nil, nil, err
	}
	values, err := tmpl.Extract(code)
	if err != nil {
		return nil, nil, err
	}
	params, err := gty.ParamsFromValues(values)
	if err != nil {
		return nil, nil, err
	}
	if _, _, err := gty.ParseDeck(params.Cards, g.handSize, g.strict); err != nil {
		return nil, nil, err
	}
	return g.DriverBase.Deploy(code, types.TyLogGameCondDeploy, func(addr common.Address) (*dapp.EscrowRecord, error) {
		return dapp.NewEscrowRecord(g.GetName(), addr, params.Token, code, params), nil
	})
}

// Params 托管绑定的参数
func (g *GameCond) Params(addr common.Address) (*gty.Params, error) {
	rec, err := g.Query(addr)
	if err != nil {
		return nil, err
	}
	var params gty.Params
	if err := rec.DecodeParams(&params); err != nil {
		return nil, err
	}
	return &params, nil
}

// Fulfill 玩家提交签名的排列, 校验通过后比牌并在同一事务内结算
func (g *GameCond) Fulfill(addr common.Address, claim *gty.Claim) (*types.Receipt, error) {
	return g.Execute(addr, "fulfill", func(ctx *dapp.Context) (*types.Receipt, error) {
		rec, err := ctx.LoadOpenEscrow(addr)
		if err != nil {
			return nil, err
		}
		var params gty.Params
		if err := rec.DecodeParams(&params); err != nil {
			return nil, err
		}
		signer, err := crypto.RecoverSigner(g.scheme, claim.Permutation[:], claim.Sig)
		if err != nil {
			return nil, err
		}
		if signer != params.Player {
			return nil, errors.Wrapf(types.ErrUnauthorizedClaim, "signer %s, player %s", signer.Hex(), params.Player.Hex())
		}
		house, player, err := gty.ParseDeck(params.Cards, g.handSize, g.strict)
		if err != nil {
			return nil, err
		}
		perm, err := gty.ParsePermutation(claim.Permutation, g.handSize)
		if err != nil {
			return nil, err
		}
		if !perm.SameCards(player) {
			return nil, errors.Wrap(types.ErrInvalidPermutation, "cards differ from the player hand")
		}
		outcome, err := Resolve(g.rule, g.tieBreak, house, perm)
		if err != nil {
			return nil, err
		}
		balance := ctx.Ledger(rec.Token).BalanceOf(addr)
		glog.Debug("fulfill", "escrow", addr, "outcome", outcome, "balance", balance)

		disbursements, receipt, err := ctx.Settle(rec, uint32(outcome), g.shares(outcome, balance, &params))
		if err != nil {
			return nil, err
		}
		settle := &gty.ReceiptGameCondSettle{
			Escrow:        addr,
			Token:         rec.Token,
			House:         params.House,
			Player:        params.Player,
			Outcome:       uint32(outcome),
			Permutation:   claim.Permutation,
			Balance:       balance,
			Disbursements: disbursements,
		}
		receipt.Logs = append(receipt.Logs, &types.ReceiptLog{Ty: types.TyLogGameCondSettle, Log: types.Encode(settle)})
		return receipt, nil
	})
}

func (g *GameCond) shares(outcome gty.Outcome, balance uint64, params *gty.Params) []dapp.Share {
	switch outcome {
	case gty.HouseWins:
		return dapp.Winner(balance, params.House)
	case gty.PlayerWins:
		return dapp.Winner(balance, params.Player)
	}
	return dapp.SplitTie(balance, params.House, params.Player, g.split == gty.SplitHouse)
}

// Outcome 已结算托管的结果
func Outcome(rec *dapp.EscrowRecord) gty.Outcome {
	return gty.Outcome(rec.Outcome)
}
