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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"syntax with line", newSyntaxError("bad line", 3, ErrInvalidHeaderField), "warcproto: bad line at line 3"},
		{"syntax without line", newSyntaxError("bad block", 0, ErrShortContentBlock), "warcproto: bad block"},
		{"header field", newHeaderFieldErrorf("warc-date", ErrInvalidFieldValue, "invalid date '%s'", "x"),
			"warcproto: invalid date 'x' at header warc-date"},
		{"record without fields", &RecordError{Err: newSyntaxError("bad", 1, ErrInvalidDeclaration)},
			"warcproto: bad at line 1"},
		{"record with fields", &RecordError{
			Fields: &HeaderFields{{Name: "warc-type", Value: "resource"}, {Name: "content-length", Value: "10"}},
			Err:    newSyntaxError("short", 0, ErrShortContentBlock),
		}, "warcproto: short\n\nHeaders:\n\nwarc-type: resource\ncontent-length: 10"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestErrorsUnwrap(t *testing.T) {
	err := &RecordError{Err: newHeaderFieldError("warc-type", ErrMissingMandatoryField, "missing")}
	assert.ErrorIs(t, err, ErrMissingMandatoryField)
	assert.NotErrorIs(t, err, ErrShortContentBlock)
}
