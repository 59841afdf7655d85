// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dapp

import (
	"sort"
	"sync"

	dbm "github.com/33cn/condition/common/db"
	"github.com/33cn/condition/types"
	"github.com/coder/quartz"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

// Driver 托管执行器
type Driver interface {
	GetName() string
	Query(addr common.Address) (*EscrowRecord, error)
	List() ([]*EscrowRecord, error)
}

// Env 创建执行器需要的环境
type Env struct {
	StateDB *dbm.StateDB
	Clock   quartz.Clock
	Config  *types.Config
}

// DriverCreate defines a drivercreate function
type DriverCreate func(env *Env) (Driver, error)

var (
	execDrivers = make(map[string]DriverCreate)
	driverMutex sync.RWMutex
)

// Register register driver
func Register(name string, create DriverCreate) {
	driverMutex.Lock()
	defer driverMutex.Unlock()
	if create == nil {
		panic("Execute: Register driver is nil")
	}
	if _, dup := execDrivers[name]; dup {
		panic("Execute: Register called twice for driver " + name)
	}
	execDrivers[name] = create
}

// LoadDriver load driver
func LoadDriver(name string, env *Env) (Driver, error) {
	driverMutex.RLock()
	create, ok := execDrivers[name]
	driverMutex.RUnlock()
	if !ok {
		blog.Debug("LoadDriver", "driver", name)
		return nil, errors.Wrapf(types.ErrActionNotSupport, "driver %s", name)
	}
	if env.Config == nil {
		env.Config = types.DefaultConfig()
	}
	return create(env)
}

// GetDriverList 已注册的执行器, 按名字排序
func GetDriverList() []string {
	driverMutex.RLock()
	defer driverMutex.RUnlock()
	names := make([]string, 0, len(execDrivers))
	for name := range execDrivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
