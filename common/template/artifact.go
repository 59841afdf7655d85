// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package template

import (
	"encoding/json"
	"io/ioutil"

	"github.com/33cn/condition/common"
	"github.com/pkg/errors"
)

// 编译产物中的代码字段
const (
	FieldBytecode         = "bytecode"
	FieldDeployedBytecode = "deployedBytecode"
)

// LoadArtifact 读取合约编译产物 json 中的代码字段
func LoadArtifact(path, field string) ([]byte, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read artifact %s", path)
	}
	return ParseArtifact(data, field)
}

// ParseArtifact 解析编译产物
func ParseArtifact(data []byte, field string) ([]byte, error) {
	var artifact map[string]json.RawMessage
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, errors.Wrap(err, "decode artifact")
	}
	raw, ok := artifact[field]
	if !ok {
		return nil, errors.Errorf("artifact has no %s", field)
	}
	var code string
	if err := json.Unmarshal(raw, &code); err != nil {
		return nil, errors.Wrapf(err, "artifact field %s", field)
	}
	b, err := common.FromHex(code)
	if err != nil {
		return nil, errors.Wrapf(err, "artifact field %s", field)
	}
	if len(b) == 0 {
		return nil, errors.Errorf("artifact field %s is empty", field)
	}
	return b, nil
}
