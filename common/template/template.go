// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package template 合约代码模板, 按预先定位的区域把参数写入代码
//
// 模板在创建时一次性定位所有占位符, 得到 (offset, length, kind) 描述,
// 之后的绑定和提取都只按位置操作, 不再搜索代码.
package template

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/33cn/condition/types"
	"github.com/pkg/errors"
)

// Kind 参数语义类型
type Kind int32

// 参数类型
const (
	KindAddress Kind = iota + 1
	KindHash
	KindUint
)

func (k Kind) String() string {
	switch k {
	case KindAddress:
		return "address"
	case KindHash:
		return "hash"
	case KindUint:
		return "uint"
	}
	return fmt.Sprintf("Kind(%d)", int32(k))
}

func (k Kind) checkWidth(length int) bool {
	switch k {
	case KindAddress:
		return length == 20
	case KindHash:
		return length == 32
	case KindUint:
		return length >= 1 && length <= 32
	}
	return false
}

// Region 模板中的一个参数区域
type Region struct {
	Name   string
	Offset int
	Length int
	Kind   Kind
}

func (r Region) end() int { return r.Offset + r.Length }

// MinRepeatWidth 可以重复出现的占位符最小长度, 更短的占位符容易与代码中的其它常量重合, 只允许出现一次
const MinRepeatWidth = 20

// Placeholder 占位符, Pattern 在模板中至少出现一次, 每次出现都是同一个参数
type Placeholder struct {
	Name    string
	Pattern []byte
	Kind    Kind
}

// Template 不可变的代码模板
type Template struct {
	code    []byte
	regions []Region
	byName  map[string][]int
}

// New 由代码和区域描述创建模板, 同名区域表示同一个参数出现多次, 宽度和类型必须一致
func New(code []byte, regions []Region) (*Template, error) {
	t := &Template{
		code:    append([]byte(nil), code...),
		regions: append([]Region(nil), regions...),
		byName:  make(map[string][]int, len(regions)),
	}
	sort.Slice(t.regions, func(i, j int) bool { return t.regions[i].Offset < t.regions[j].Offset })
	for i, r := range t.regions {
		if r.Name == "" {
			return nil, errors.Wrap(types.ErrTemplateMismatch, "region without name")
		}
		if !r.Kind.checkWidth(r.Length) {
			return nil, errors.Wrapf(types.ErrTemplateMismatch, "region %s: %s of %d bytes", r.Name, r.Kind, r.Length)
		}
		if idx, ok := t.byName[r.Name]; ok {
			first := t.regions[idx[0]]
			if first.Length != r.Length || first.Kind != r.Kind {
				return nil, errors.Wrapf(types.ErrTemplateMismatch, "region %s declared with different shapes", r.Name)
			}
		}
		if r.Offset < 0 || r.end() > len(code) {
			return nil, errors.Wrapf(types.ErrTemplateMismatch, "region %s out of bounds", r.Name)
		}
		if i > 0 && t.regions[i-1].end() > r.Offset {
			return nil, errors.Wrapf(types.ErrTemplateMismatch, "region %s overlaps %s", r.Name, t.regions[i-1].Name)
		}
		t.byName[r.Name] = append(t.byName[r.Name], i)
	}
	return t, nil
}

// Locate 在模板代码中定位占位符, 只在创建模板时搜索一次
func Locate(code []byte, placeholders []Placeholder) (*Template, error) {
	var regions []Region
	for _, p := range placeholders {
		if len(p.Pattern) == 0 {
			return nil, errors.Wrapf(types.ErrTemplateMismatch, "placeholder %s is empty", p.Name)
		}
		found := 0
		last := -1
		for pos := 0; pos <= len(code)-len(p.Pattern); {
			idx := bytes.Index(code[pos:], p.Pattern)
			if idx < 0 {
				break
			}
			idx += pos
			if last >= 0 && idx < last+len(p.Pattern) {
				return nil, errors.Wrapf(types.ErrTemplateMismatch, "placeholder %s overlaps itself at %d", p.Name, idx)
			}
			regions = append(regions, Region{Name: p.Name, Offset: idx, Length: len(p.Pattern), Kind: p.Kind})
			found++
			last = idx
			pos = idx + 1
		}
		if found == 0 {
			return nil, errors.Wrapf(types.ErrTemplateMismatch, "placeholder %s not found", p.Name)
		}
		if found > 1 && len(p.Pattern) < MinRepeatWidth {
			return nil, errors.Wrapf(types.ErrTemplateMismatch, "placeholder %s (%d bytes) occurs %d times", p.Name, len(p.Pattern), found)
		}
	}
	return New(code, regions)
}

// Len 代码长度
func (t *Template) Len() int { return len(t.code) }

// Code 模板代码拷贝
func (t *Template) Code() []byte { return append([]byte(nil), t.code...) }

// Regions 按偏移排序的区域
func (t *Template) Regions() []Region { return append([]Region(nil), t.regions...) }

// Region 按名字查询区域, 多次出现时返回第一个
func (t *Template) Region(name string) (Region, bool) {
	idx, ok := t.byName[name]
	if !ok {
		return Region{}, false
	}
	return t.regions[idx[0]], true
}

// Occurrences 参数在代码中出现的次数
func (t *Template) Occurrences(name string) int {
	return len(t.byName[name])
}

// Bind 所有参数都必须绑定, 返回新的代码, 长度不变
func (t *Template) Bind(values map[string][]byte) ([]byte, error) {
	for name := range values {
		if _, ok := t.byName[name]; !ok {
			return nil, errors.Wrapf(types.ErrTemplateMismatch, "unknown parameter %s", name)
		}
	}
	bound := t.Code()
	for _, r := range t.regions {
		v, ok := values[r.Name]
		if !ok {
			return nil, errors.Wrapf(types.ErrTemplateMismatch, "parameter %s not bound", r.Name)
		}
		if len(v) != r.Length {
			return nil, errors.Wrapf(types.ErrTemplateMismatch, "parameter %s: want %d bytes, got %d", r.Name, r.Length, len(v))
		}
		copy(bound[r.Offset:r.end()], v)
	}
	return bound, nil
}

// Verify 检查代码中非参数区域与模板逐字节一致
func (t *Template) Verify(code []byte) error {
	if len(code) != len(t.code) {
		return errors.Wrapf(types.ErrTemplateMismatch, "code length %d, template %d", len(code), len(t.code))
	}
	pos := 0
	for _, r := range t.regions {
		if !bytes.Equal(code[pos:r.Offset], t.code[pos:r.Offset]) {
			return errors.Wrapf(types.ErrTemplateMismatch, "code differs before %s", r.Name)
		}
		pos = r.end()
	}
	if !bytes.Equal(code[pos:], t.code[pos:]) {
		return errors.Wrap(types.ErrTemplateMismatch, "code differs after last region")
	}
	return nil
}

// Extract 从绑定后的代码中取回参数, 同一参数的每次出现必须一致
func (t *Template) Extract(code []byte) (map[string][]byte, error) {
	if err := t.Verify(code); err != nil {
		return nil, err
	}
	values := make(map[string][]byte, len(t.byName))
	for _, r := range t.regions {
		v := code[r.Offset:r.end()]
		if prev, ok := values[r.Name]; ok {
			if !bytes.Equal(prev, v) {
				return nil, errors.Wrapf(types.ErrTemplateMismatch, "parameter %s bound inconsistently", r.Name)
			}
			continue
		}
		values[r.Name] = append([]byte(nil), v...)
	}
	return values, nil
}
