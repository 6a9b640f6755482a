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
	"errors"
	"fmt"
	"strings"
)

// Error categories. Every error returned while decoding a record wraps one of these and can be tested with errors.Is.
var (
	ErrInvalidDeclaration    = errors.New("invalid record declaration")
	ErrUnsupportedVersion    = errors.New("unsupported format version")
	ErrInvalidHeaderField    = errors.New("invalid header field format")
	ErrEmptyHeaderField      = errors.New("empty header field name")
	ErrMissingFieldForValue  = errors.New("missing header field for value")
	ErrDuplicateHeader       = errors.New("duplicate header")
	ErrMissingMandatoryField = errors.New("one of the mandatory header fields is missing")
	ErrShortContentBlock     = errors.New("content block shorter than expected length")
	ErrPrematureEOF          = errors.New("premature end of file")
	ErrUnsupportedRecordType = errors.New("unsupported record type")
	ErrOffsetOutOfRange      = errors.New("offset exceeds stream size")
	ErrUnsupportedDigest     = errors.New("unsupported digest algorithm")
	ErrInvalidFieldValue     = errors.New("invalid header field value")
	ErrDigestMismatch        = errors.New("digest mismatch")
)

// HeaderFieldError is used for violations of WARC header specification
type HeaderFieldError struct {
	fieldName string
	msg       string
	wrapped   error
}

func newHeaderFieldError(fieldName string, wrapped error, msg string) *HeaderFieldError {
	return &HeaderFieldError{fieldName: fieldName, msg: msg, wrapped: wrapped}
}

func newHeaderFieldErrorf(fieldName string, wrapped error, msg string, param ...interface{}) *HeaderFieldError {
	return &HeaderFieldError{fieldName: fieldName, msg: fmt.Sprintf(msg, param...), wrapped: wrapped}
}

// FieldName returns the lower-cased name of the offending field.
func (e *HeaderFieldError) FieldName() string {
	return e.fieldName
}

func (e *HeaderFieldError) Error() string {
	if e.fieldName != "" {
		return fmt.Sprintf("warcproto: %s at header %s", e.msg, e.fieldName)
	} else {
		return fmt.Sprintf("warcproto: %s", e.msg)
	}
}

func (e *HeaderFieldError) Unwrap() error {
	return e.wrapped
}

// SyntaxError is used for syntactical errors like malformed declarations and header lines
type SyntaxError struct {
	msg     string
	line    int
	wrapped error
}

func newSyntaxError(msg string, line int, wrapped error) *SyntaxError {
	return &SyntaxError{msg: msg, line: line, wrapped: wrapped}
}

// Line returns the line number where the error was detected, or 0 if unknown.
func (e *SyntaxError) Line() int {
	return e.line
}

func (e *SyntaxError) Error() string {
	if e.line > 0 {
		return fmt.Sprintf("warcproto: %s at line %d", e.msg, e.line)
	} else {
		return fmt.Sprintf("warcproto: %s", e.msg)
	}
}

func (e *SyntaxError) Unwrap() error {
	return e.wrapped
}

// RecordError is returned when a single record could not be decoded.
//
// Fields holds whatever header fields were parsed before the error occurred. It is nil if the error was
// detected before the header was parsed.
type RecordError struct {
	Offset int64
	Fields *HeaderFields
	Err    error
}

func (e *RecordError) Error() string {
	if e.Fields == nil || e.Fields.Len() == 0 {
		return e.Err.Error()
	}
	sb := &strings.Builder{}
	sb.WriteString(e.Err.Error())
	sb.WriteString("\n\nHeaders:\n\n")
	for i, nv := range *e.Fields {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(nv.String())
	}
	return sb.String()
}

func (e *RecordError) Unwrap() error {
	return e.Err
}
