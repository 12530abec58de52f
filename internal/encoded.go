// Copyright (c) 2017 Tideflow Technologies, Inc.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package internal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
)

type (
	// Values extract values from encoded data.
	Values interface {
		// HasValues returns whether there are values encoded.
		HasValues() bool
		// Get extracts values into the given pointers.
		Get(valuePtr ...interface{}) error
	}

	// EncodedValues is a wrapper of encoded data.
	EncodedValues struct {
		values        []byte
		dataConverter DataConverter
	}

	// EncodedValue is a wrapper of a single encoded value.
	EncodedValue struct {
		value         []byte
		dataConverter DataConverter
	}

	// DataConverter is used by the framework to serialize and deserialize
	// inputs and results of workflows and activities. Implementations must be
	// safe for concurrent use.
	DataConverter interface {
		// ToData converts a list of values into binary data.
		ToData(value ...interface{}) ([]byte, error)
		// FromData converts binary data into the given value pointers.
		FromData(input []byte, valuePtr ...interface{}) error
	}

	// defaultDataConverter uses JSON, encoding multiple values as a stream of
	// JSON documents.
	defaultDataConverter struct{}
)

var defaultJSONDataConverter = &defaultDataConverter{}

// DefaultDataConverter is the JSON data converter used when none is supplied.
var DefaultDataConverter = getDefaultDataConverter()

func getDefaultDataConverter() DataConverter {
	return defaultJSONDataConverter
}

func (dc *defaultDataConverter) ToData(r ...interface{}) ([]byte, error) {
	encoded := &bytes.Buffer{}
	enc := json.NewEncoder(encoded)
	for i, obj := range r {
		if err := enc.Encode(obj); err != nil {
			return nil, fmt.Errorf(
				"unable to encode argument: %d, %v, with error: %v", i, reflect.TypeOf(obj), err)
		}
	}
	return encoded.Bytes(), nil
}

func (dc *defaultDataConverter) FromData(data []byte, to ...interface{}) error {
	dec := json.NewDecoder(bytes.NewBuffer(data))
	for i, obj := range to {
		if err := dec.Decode(obj); err != nil {
			return fmt.Errorf(
				"unable to decode argument: %d, %v, with error: %v", i, reflect.TypeOf(obj), err)
		}
	}
	return nil
}

func newEncodedValues(values []byte, dc DataConverter) Values {
	if dc == nil {
		dc = getDefaultDataConverter()
	}
	return &EncodedValues{values: values, dataConverter: dc}
}

// HasValues returns whether there are values encoded.
func (b *EncodedValues) HasValues() bool {
	return b.values != nil
}

// Get extracts values into the given pointers.
func (b *EncodedValues) Get(valuePtr ...interface{}) error {
	if !b.HasValues() {
		return ErrNoData
	}
	return b.dataConverter.FromData(b.values, valuePtr...)
}

func newEncodedValue(value []byte, dc DataConverter) Values {
	if dc == nil {
		dc = getDefaultDataConverter()
	}
	return &EncodedValue{value: value, dataConverter: dc}
}

// HasValues returns whether there is a value encoded.
func (b *EncodedValue) HasValues() bool {
	return b.value != nil
}

// Get extracts the value into the given pointer.
func (b *EncodedValue) Get(valuePtr ...interface{}) error {
	if !b.HasValues() {
		return ErrNoData
	}
	return b.dataConverter.FromData(b.value, valuePtr...)
}

// ErrorDetailsValues keeps not yet encoded error details.
type ErrorDetailsValues []interface{}

// HasValues returns whether there are values.
func (d ErrorDetailsValues) HasValues() bool {
	return d != nil && len(d) != 0
}

// Get extracts values into the given pointers.
func (d ErrorDetailsValues) Get(valuePtr ...interface{}) error {
	if !d.HasValues() {
		return ErrNoData
	}
	if len(valuePtr) > len(d) {
		return ErrTooManyArg
	}
	for i, item := range valuePtr {
		target := reflect.ValueOf(item).Elem()
		val := reflect.ValueOf(d[i])
		if !val.Type().AssignableTo(target.Type()) {
			return fmt.Errorf(
				"unable to decode argument: %d, %v, with value: %v", i, target.Type(), d[i])
		}
		target.Set(val)
	}
	return nil
}

func encodeArgs(dc DataConverter, args []interface{}) ([]byte, error) {
	if dc == nil {
		dc = getDefaultDataConverter()
	}
	return dc.ToData(args...)
}

func encodeArg(dc DataConverter, arg interface{}) ([]byte, error) {
	if dc == nil {
		dc = getDefaultDataConverter()
	}
	if arg == nil {
		return nil, nil
	}
	return dc.ToData(arg)
}
