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
	"time"
)

var warcinfoFields = lowerAll(WarcType, WarcRecordID, WarcDate, ContentLength, ContentType, WarcBlockDigest,
	WarcTruncated, WarcFilename)

// WarcinfoRecord describes the records that follow it in a WARC file.
type WarcinfoRecord struct {
	baseRecord
	contentType string
	filename    string
	block       string
}

func newWarcinfoRecord(version, id string, date time.Time, opts *recordOptions) *WarcinfoRecord {
	r := &WarcinfoRecord{}
	r.baseRecord = newBaseRecord(Warcinfo, version, id, date, warcinfoFields, opts)
	r.fields = newFieldTable(r.baseFields(), []fieldDef{
		stringDef(ContentType, &r.contentType),
		stringDef(WarcFilename, &r.filename),
	})
	return r
}

// NewWarcinfoRecord creates a warcinfo record. The block is usually formatted as warc-fields.
func NewWarcinfoRecord(date time.Time, block string, contentType string, opts ...RecordOption) (*WarcinfoRecord, error) {
	o, id, err := freshOptions(opts)
	if err != nil {
		return nil, err
	}
	r := newWarcinfoRecord(o.version, id, date, o)
	r.block = block
	if err := r.setContentBlock([]byte(block), false); err != nil {
		return nil, err
	}
	r.filename = o.filename
	r.contentType = contentTypeFor(contentType, []byte(block), r)
	return r, nil
}

func (r *WarcinfoRecord) ContentType() string { return r.contentType }
func (r *WarcinfoRecord) Filename() string    { return r.filename }

// Block returns the content block as text.
func (r *WarcinfoRecord) Block() string { return r.block }

// Fields parses the content block as warc-fields.
func (r *WarcinfoRecord) Fields() (*HeaderFields, error) {
	return parseWarcFieldsBlock(r.block)
}

func (r *WarcinfoRecord) BlockBytes() []byte {
	return textBytes(r.block)
}

func (r *WarcinfoRecord) setContentBlock(block []byte, isParsed bool) error {
	if err := r.baseRecord.setContentBlock(block, isParsed); err != nil {
		return err
	}
	if isParsed {
		r.block = decodeUTF8(block)
	}
	return nil
}

func textBytes(s string) []byte {
	if s == "" {
		return nil
	}
	return []byte(s)
}

// parseWarcFieldsBlock parses a content block formatted as application/warc-fields.
func parseWarcFieldsBlock(block string) (*HeaderFields, error) {
	return ParseHeaderFields(NewLineReader(strings.NewReader(block+crlfcrlf), nil))
}
