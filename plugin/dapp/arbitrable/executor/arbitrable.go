// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package executor

import (
	"github.com/33cn/condition/common/address"
	"github.com/33cn/condition/common/crypto"
	dbm "github.com/33cn/condition/common/db"
	"github.com/33cn/condition/common/template"
	aty "github.com/33cn/condition/plugin/dapp/arbitrable/types"
	"github.com/33cn/condition/system/dapp"
	"github.com/33cn/condition/types"
	"github.com/coder/quartz"
	"github.com/ethereum/go-ethereum/common"
	log "github.com/inconshreveable/log15"
	"github.com/pkg/errors"
)

var alog = log.New("module", "execs.arbitrable")

var driverName = aty.ArbitrableX

// Init 注册执行器
func Init(name string) {
	driverName = name
	dapp.Register(name, Create)
}

// GetName 执行器名字
func GetName() string {
	return driverName
}

// Arbitrable 可仲裁交易条件托管
type Arbitrable struct {
	*dapp.DriverBase
	period int64
	bridge common.Address
	scheme crypto.Scheme
	tmpl   *template.Template
}

// Create 按配置创建, 配置了 artifact 时从中加载代码模板
func Create(env *dapp.Env) (dapp.Driver, error) {
	cfg := env.Config.Arbitrable
	var tmpl *template.Template
	if cfg.Artifact != "" {
		code, err := template.LoadArtifact(cfg.Artifact, cfg.ArtifactField)
		if err != nil {
			return nil, err
		}
		tmpl, err = template.Locate(code, aty.Placeholders())
		if err != nil {
			return nil, err
		}
	}
	return NewArbitrable(env.StateDB, env.Clock, cfg, tmpl)
}

// NewArbitrable new
func NewArbitrable(statedb *dbm.StateDB, clock quartz.Clock, cfg *types.ArbitrableConfig, tmpl *template.Template) (*Arbitrable, error) {
	if cfg.ChallengePeriod <= 0 {
		return nil, errors.Errorf("challenge period %d", cfg.ChallengePeriod)
	}
	bridge, err := address.Parse(cfg.Bridge)
	if err != nil {
		return nil, err
	}
	scheme, err := crypto.ParseScheme(cfg.Digest)
	if err != nil {
		return nil, err
	}
	return &Arbitrable{
		DriverBase: dapp.NewDriverBase(GetName(), statedb, clock, cfg.AddressDriver),
		period:     cfg.ChallengePeriod,
		bridge:     bridge,
		scheme:     scheme,
		tmpl:       tmpl,
	}, nil
}

// Template 代码模板, 没有配置时为 nil
func (a *Arbitrable) Template() *template.Template {
	return a.tmpl
}

// Scheme 仲裁签名的摘要方式
func (a *Arbitrable) Scheme() crypto.Scheme {
	return a.scheme
}

// NewParams 以当前时间加挑战期作为截止时间, 使用配置的 bridge
func (a *Arbitrable) NewParams() *aty.Params {
	return &aty.Params{
		ChallengeEnd: uint64(a.GetBlockTime() + a.period),
		Bridge:       a.bridge,
	}
}

func (a *Arbitrable) codeTemplate() (*template.Template, error) {
	if a.tmpl == nil {
		return nil, errors.Wrap(types.ErrTemplateMismatch, "no code template")
	}
	return a.tmpl, nil
}

// Bind 绑定参数, 返回代码和托管地址
func (a *Arbitrable) Bind(params *aty.Params) ([]byte, common.Address, error) {
	tmpl, err := a.codeTemplate()
	if err != nil {
		return nil, common.Address{}, err
	}
	values, err := params.Values()
	if err != nil {
		return nil, common.Address{}, err
	}
	code, err := tmpl.Bind(values)
	if err != nil {
		return nil, common.Address{}, err
	}
	addr, err := a.DeriveAddress(code)
	if err != nil {
		return nil, common.Address{}, err
	}
	return code, addr, nil
}

// Deploy 部署绑定后的代码, 参数从代码中提取
func (a *Arbitrable) Deploy(code []byte) (*dapp.EscrowRecord, *types.Receipt, error) {
	tmpl, err := a.codeTemplate()
	if err != nil {
		return nil, nil, err
	}
	values, err := tmpl.Extract(code)
	if err != nil {
		return nil, nil, err
	}
	params, err := aty.ParamsFromValues(values)
	if err != nil {
		return nil, nil, err
	}
	return a.DriverBase.Deploy(code, types.TyLogArbitrableDeploy, func(addr common.Address) (*dapp.EscrowRecord, error) {
		return dapp.NewEscrowRecord(a.GetName(), addr, params.Token, code, params), nil
	})
}

// Params 托管绑定的参数
func (a *Arbitrable) Params(addr common.Address) (*aty.Params, error) {
	rec, err := a.Query(addr)
	if err != nil {
		return nil, err
	}
	return decodeParams(rec)
}

func decodeParams(rec *dapp.EscrowRecord) (*aty.Params, error) {
	var params aty.Params
	if err := rec.DecodeParams(&params); err != nil {
		return nil, err
	}
	return &params, nil
}

func load(ctx *dapp.Context, addr common.Address) (*dapp.EscrowRecord, *aty.Params, error) {
	rec, err := ctx.LoadOpenEscrow(addr)
	if err != nil {
		return nil, nil, err
	}
	params, err := decodeParams(rec)
	if err != nil {
		return nil, nil, err
	}
	return rec, params, nil
}

// Challenge 发送方在截止时间前发起挑战, 之后只能由仲裁人结算
func (a *Arbitrable) Challenge(addr, caller common.Address) (*types.Receipt, error) {
	return a.Execute(addr, "challenge", func(ctx *dapp.Context) (*types.Receipt, error) {
		rec, params, err := load(ctx, addr)
		if err != nil {
			return nil, err
		}
		if caller != params.Sender {
			return nil, errors.Wrapf(types.ErrPermission, "%s is not the sender", caller.Hex())
		}
		if rec.State == dapp.EscrowChallenged {
			return nil, errors.Wrap(types.ErrAwaitingArbitration, "already challenged")
		}
		if uint64(ctx.Now()) >= params.ChallengeEnd {
			return nil, errors.Wrapf(types.ErrChallengePeriodOver, "ended at %d", params.ChallengeEnd)
		}
		rec.State = dapp.EscrowChallenged
		kvs, err := ctx.SaveEscrow(rec)
		if err != nil {
			return nil, err
		}
		challenge := &aty.ReceiptChallenge{
			Escrow:       addr,
			Challenger:   caller,
			ChallengeEnd: params.ChallengeEnd,
			At:           uint64(ctx.Now()),
		}
		alog.Info("escrow challenged", "escrow", addr, "sender", caller)
		return &types.Receipt{
			Ty:   types.ExecOk,
			KV:   kvs,
			Logs: []*types.ReceiptLog{{Ty: types.TyLogArbitrableChallenge, Log: types.Encode(challenge)}},
		}, nil
	})
}

// Finalize 挑战期结束且没有挑战时结算给接收方
func (a *Arbitrable) Finalize(addr common.Address) (*types.Receipt, error) {
	return a.Execute(addr, "finalize", func(ctx *dapp.Context) (*types.Receipt, error) {
		rec, params, err := load(ctx, addr)
		if err != nil {
			return nil, err
		}
		if rec.State == dapp.EscrowChallenged {
			return nil, errors.Wrapf(types.ErrAwaitingArbitration, "escrow %s", addr.Hex())
		}
		if uint64(ctx.Now()) < params.ChallengeEnd {
			return nil, errors.Wrapf(types.ErrChallengePeriodActive, "ends at %d", params.ChallengeEnd)
		}
		return settle(ctx, rec, params, aty.DecisionReceiver)
	})
}

// Arbitrate 仲裁人对被挑战的托管给出结果并结算
func (a *Arbitrable) Arbitrate(addr common.Address, decision aty.Decision, sig crypto.Signature) (*types.Receipt, error) {
	return a.Execute(addr, "arbitrate", func(ctx *dapp.Context) (*types.Receipt, error) {
		rec, params, err := load(ctx, addr)
		if err != nil {
			return nil, err
		}
		if rec.State != dapp.EscrowChallenged {
			return nil, errors.Wrapf(types.ErrNotChallenged, "escrow %s", addr.Hex())
		}
		if !decision.Valid() {
			return nil, errors.Errorf("invalid decision %d", uint32(decision))
		}
		signer, err := crypto.RecoverSigner(a.scheme, aty.ArbitrationMessage(addr, decision), sig)
		if err != nil {
			return nil, err
		}
		if signer != params.Arbitrator {
			return nil, errors.Wrapf(types.ErrUnauthorizedClaim, "signer %s, arbitrator %s", signer.Hex(), params.Arbitrator.Hex())
		}
		arbitrate := &aty.ReceiptArbitrate{
			Escrow:     addr,
			Arbitrator: signer,
			Decision:   uint32(decision),
			At:         uint64(ctx.Now()),
		}
		receipt, err := settle(ctx, rec, params, decision)
		if err != nil {
			return nil, err
		}
		receipt.Logs = append([]*types.ReceiptLog{{Ty: types.TyLogArbitrableArbitrate, Log: types.Encode(arbitrate)}}, receipt.Logs...)
		return receipt, nil
	})
}

func settle(ctx *dapp.Context, rec *dapp.EscrowRecord, params *aty.Params, decision aty.Decision) (*types.Receipt, error) {
	to := params.Receiver
	if decision == aty.DecisionSender {
		to = params.Sender
	}
	balance := ctx.Ledger(rec.Token).BalanceOf(rec.Address)
	disbursements, receipt, err := ctx.Settle(rec, uint32(decision), dapp.Winner(balance, to))
	if err != nil {
		return nil, err
	}
	result := &aty.ReceiptSettle{
		Escrow:        rec.Address,
		Token:         rec.Token,
		Decision:      uint32(decision),
		Balance:       balance,
		Disbursements: disbursements,
	}
	receipt.Logs = append(receipt.Logs, &types.ReceiptLog{Ty: types.TyLogArbitrableSettle, Log: types.Encode(result)})
	return receipt, nil
}

// Decision 已结算托管的结果
func Decision(rec *dapp.EscrowRecord) aty.Decision {
	return aty.Decision(rec.Outcome)
}
