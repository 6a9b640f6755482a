/*
 * Copyright 2021 National Library of Norway.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *       http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package warcproto

import (
	"fmt"
	"io"
	"strings"
)

type nameValue struct {
	Name  string
	Value string
}

func (n *nameValue) String() string {
	return n.Name + ": " + n.Value
}

// HeaderFields is an ordered list of header fields as they appeared in a record header.
//
// Names are matched case-insensitively. A name may occur more than once.
type HeaderFields []*nameValue

// Get gets the first value associated with the given name. It is case insensitive.
// If the name doesn't exist Get returns "".
// To access multiple values of a name, use GetAll.
func (hf *HeaderFields) Get(name string) string {
	v, _ := hf.lookup(name)
	return v
}

func (hf *HeaderFields) lookup(name string) (string, bool) {
	if hf == nil {
		return "", false
	}
	for _, nv := range *hf {
		if strings.EqualFold(nv.Name, name) {
			return nv.Value, true
		}
	}
	return "", false
}

func (hf *HeaderFields) GetAll(name string) []string {
	if hf == nil {
		return nil
	}
	var result []string
	for _, nv := range *hf {
		if strings.EqualFold(nv.Name, name) {
			result = append(result, nv.Value)
		}
	}
	return result
}

func (hf *HeaderFields) Has(name string) bool {
	_, ok := hf.lookup(name)
	return ok
}

func (hf *HeaderFields) Add(name string, value string) {
	*hf = append(*hf, &nameValue{Name: name, Value: value})
}

// Set replaces all values of name with value, keeping the position of the first occurrence.
func (hf *HeaderFields) Set(name string, value string) {
	isSet := false
	result := (*hf)[:0]
	for _, nv := range *hf {
		if strings.EqualFold(nv.Name, name) {
			if isSet {
				continue
			}
			nv.Value = value
			isSet = true
		}
		result = append(result, nv)
	}
	*hf = result
	if !isSet {
		hf.Add(name, value)
	}
}

func (hf *HeaderFields) Delete(name string) {
	var result HeaderFields
	for _, nv := range *hf {
		if !strings.EqualFold(nv.Name, name) {
			result = append(result, nv)
		}
	}
	*hf = result
}

func (hf *HeaderFields) Len() int {
	if hf == nil {
		return 0
	}
	return len(*hf)
}

// Names returns the field names in order of appearance, including repeats.
func (hf *HeaderFields) Names() []string {
	if hf == nil {
		return nil
	}
	names := make([]string, 0, hf.Len())
	for _, nv := range *hf {
		names = append(names, nv.Name)
	}
	return names
}

func (hf *HeaderFields) Write(w io.Writer) (bytesWritten int64, err error) {
	if hf == nil {
		return 0, nil
	}
	var n int
	for _, field := range *hf {
		n, err = fmt.Fprintf(w, "%s: %s\r\n", field.Name, field.Value)
		bytesWritten += int64(n)
		if err != nil {
			return
		}
	}
	return
}

func (hf *HeaderFields) String() string {
	sb := &strings.Builder{}
	if _, err := hf.Write(sb); err != nil {
		panic(err)
	}
	return sb.String()
}
