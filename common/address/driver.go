// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package address

import (
	"fmt"
	"sync"

	"github.com/33cn/condition/types"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

var (
	drivers     = make(map[string]Driver)
	driverMutex sync.RWMutex
)

// Driver 地址驱动, 由绑定后的合约代码计算地址
type Driver interface {
	// CodeToAddr bound code to address
	CodeToAddr(code []byte) ethcommon.Address
	// GetName get driver name
	GetName() string
}

// RegisterDriver 注册地址驱动
func RegisterDriver(driver Driver) {
	driverMutex.Lock()
	defer driverMutex.Unlock()
	name := driver.GetName()
	if _, ok := drivers[name]; ok {
		panic(fmt.Sprintf("Register duplicate address driver %s", name))
	}
	drivers[name] = driver
}

// LoadDriver 根据名字加载驱动
func LoadDriver(name string) (Driver, error) {
	driverMutex.RLock()
	defer driverMutex.RUnlock()
	d, ok := drivers[name]
	if !ok {
		return nil, errors.Wrapf(types.ErrAddressDriver, "unknown driver %q", name)
	}
	return d, nil
}

// GetDriverList get driver name list
func GetDriverList() []string {
	driverMutex.RLock()
	defer driverMutex.RUnlock()
	list := make([]string, 0, len(drivers))
	for name := range drivers {
		list = append(list, name)
	}
	return list
}
