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
	"bytes"
)

// PayloadTypeIdentifier locates the payload inside a content block and classifies it.
type PayloadTypeIdentifier interface {
	// Delimiter returns the byte sequence separating the record block from the payload.
	Delimiter() []byte
	// IndexOfPayload returns the index of the first occurrence of the delimiter in block, or -1 if there is none.
	IndexOfPayload(block []byte) int
	// Identify returns the media type of payload, or "" if it could not be identified.
	Identify(payload []byte) string
}

// DefaultPayloadTypeIdentifier splits on the first occurrence of its delimiter and does not classify payloads.
//
// Embed it in another type to supply a classifier while keeping the split.
type DefaultPayloadTypeIdentifier struct {
	delimiter []byte
}

// NewPayloadTypeIdentifier returns a DefaultPayloadTypeIdentifier using delimiter.
// An empty delimiter means CRLF CRLF.
func NewPayloadTypeIdentifier(delimiter []byte) *DefaultPayloadTypeIdentifier {
	if len(delimiter) == 0 {
		delimiter = []byte(crlfcrlf)
	}
	return &DefaultPayloadTypeIdentifier{delimiter: delimiter}
}

func (p *DefaultPayloadTypeIdentifier) Delimiter() []byte {
	if p == nil || len(p.delimiter) == 0 {
		return []byte(crlfcrlf)
	}
	return p.delimiter
}

func (p *DefaultPayloadTypeIdentifier) IndexOfPayload(block []byte) int {
	return bytes.Index(block, p.Delimiter())
}

func (p *DefaultPayloadTypeIdentifier) Identify([]byte) string {
	return ""
}

// splitBlock splits block around the first delimiter. found is false if the delimiter is absent, in which case
// the whole block is returned as head.
func splitBlock(pti PayloadTypeIdentifier, block []byte) (head []byte, payload []byte, found bool) {
	i := pti.IndexOfPayload(block)
	if i < 0 {
		return block, nil, false
	}
	return block[:i], block[i+len(pti.Delimiter()):], true
}
