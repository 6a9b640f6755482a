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
	"strings"
)

// literal backslash followed by 't', seen in the wild as a continuation marker
const escapedTab = `\t`

// ParseHeaderFields reads header lines from lr until an empty line.
//
// Field names are lower-cased. A line starting with whitespace is a continuation of the previous field and is
// appended without separator. Only WARC-Concurrent-To may be repeated with a different value; other repeated
// fields must have identical values and the repeat is dropped.
//
// On error the fields parsed so far are returned together with the error.
func ParseHeaderFields(lr *LineReader) (*HeaderFields, error) {
	fields := &HeaderFields{}
	var last *nameValue

	for {
		line, ok, err := lr.ReadLine()
		if err != nil {
			return fields, err
		}
		if !ok {
			return fields, newSyntaxError("premature end of file", lr.LineNumber(), ErrPrematureEOF)
		}
		if line == "" {
			return fields, nil
		}

		if isContinuation(line) {
			if last == nil {
				return fields, newSyntaxError("missing header field for value: "+line, lr.LineNumber(), ErrMissingFieldForValue)
			}
			last.Value += trimContinuation(line)
			continue
		}

		name, value, found := strings.Cut(line, ":")
		if !found {
			return fields, newSyntaxError("invalid header field format: "+line, lr.LineNumber(), ErrInvalidHeaderField)
		}
		name = strings.ToLower(strings.TrimSpace(name))
		value = strings.TrimSpace(value)
		if name == "" {
			return fields, newSyntaxError("empty header field name: "+line, lr.LineNumber(), ErrEmptyHeaderField)
		}

		if name != fieldConcurrentTo {
			if existing := findField(fields, name); existing != nil {
				if existing.Value != value {
					return fields, newHeaderFieldErrorf(name, ErrDuplicateHeader, "duplicate header with value %q, previous value was %q", value, existing.Value)
				}
				last = existing
				continue
			}
		}
		last = &nameValue{Name: name, Value: value}
		*fields = append(*fields, last)
	}
}

func findField(fields *HeaderFields, name string) *nameValue {
	for _, nv := range *fields {
		if nv.Name == name {
			return nv
		}
	}
	return nil
}

func isContinuation(line string) bool {
	return line[0] == sp || strings.HasPrefix(line, escapedTab)
}

func trimContinuation(line string) string {
	line = strings.TrimRight(line, sphtcrlf)
	for {
		switch {
		case strings.HasPrefix(line, escapedTab):
			line = line[len(escapedTab):]
		case line != "" && line[0] == sp:
			line = line[1:]
		default:
			return line
		}
	}
}
