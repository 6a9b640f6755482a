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
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	sphtcrlf = " \t\r\n"  // Space, Tab, Carriage return, Newline
	sp       = ' '        // Space
	crlf     = "\r\n"     // Carriage return, Newline
	crlfcrlf = "\r\n\r\n" // Carriage return, Newline, Carriage return, Newline
)

// Supported WARC versions
const (
	V1_0 = "1.0"
	V1_1 = "1.1"
)

func isSupportedVersion(v string) bool {
	return v == V1_0 || v == V1_1
}

type RecordType uint16

const (
	Warcinfo     RecordType = 1
	Response     RecordType = 2
	Resource     RecordType = 4
	Request      RecordType = 8
	Metadata     RecordType = 16
	Revisit      RecordType = 32
	Conversion   RecordType = 64
	Continuation RecordType = 128
)

func (rt RecordType) String() string {
	switch rt {
	case Warcinfo:
		return "warcinfo"
	case Response:
		return "response"
	case Resource:
		return "resource"
	case Request:
		return "request"
	case Metadata:
		return "metadata"
	case Revisit:
		return "revisit"
	case Conversion:
		return "conversion"
	case Continuation:
		return "continuation"
	}
	return "unknown"
}

// ParseRecordType returns the RecordType for a WARC-Type value. The match is case-insensitive.
func ParseRecordType(s string) (RecordType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "warcinfo":
		return Warcinfo, true
	case "response":
		return Response, true
	case "resource":
		return Resource, true
	case "request":
		return Request, true
	case "metadata":
		return Metadata, true
	case "revisit":
		return Revisit, true
	case "conversion":
		return Conversion, true
	case "continuation":
		return Continuation, true
	}
	return 0, false
}

// Record is a WARC record.
//
// The set of implementations is closed: *WarcinfoRecord, *MetadataRecord, *ResourceRecord, *RequestRecord,
// *ResponseRecord, *RevisitRecord, *ConversionRecord and *ContinuationRecord. Use a type switch to access
// type specific fields.
//
// A Record is not modified after it is returned from a constructor or a Reader.
type Record interface {
	Version() string
	Type() RecordType
	ID() string
	Date() time.Time
	ContentLength() int64
	BlockDigest() string
	TruncatedReason() string
	// OrderedFields returns the lower-cased field names in the order they are rendered by Header.
	OrderedFields() []string
	// HeaderLine renders the header line(s) for a field, including line endings.
	// ok is false if the field is unknown to this record type or has no value.
	HeaderLine(field string) (line string, ok bool)
	// Header renders the record declaration and all header lines. If order is given, it replaces OrderedFields.
	Header(order ...string) string
	// BlockBytes returns the content block, or nil if there is none.
	BlockBytes() []byte

	set(field, value string) error
	setContentBlock(block []byte, isParsed bool) error
	base() *baseRecord
}

type baseRecord struct {
	version         string
	recordType      RecordType
	id              string
	date            time.Time
	contentLength   int64
	blockDigest     string
	truncatedReason string
	orderedFields   []string
	fields          fieldTable
	opts            *recordOptions
}

func newBaseRecord(recordType RecordType, version, id string, date time.Time, orderedFields []string, opts *recordOptions) baseRecord {
	return baseRecord{
		version:         strings.TrimSpace(version),
		recordType:      recordType,
		id:              removeBrackets(id),
		date:            date.UTC(),
		orderedFields:   orderedFields,
		truncatedReason: opts.truncatedReason,
		opts:            opts,
	}
}

func (r *baseRecord) Version() string         { return r.version }
func (r *baseRecord) Type() RecordType        { return r.recordType }
func (r *baseRecord) ID() string              { return r.id }
func (r *baseRecord) Date() time.Time         { return r.date }
func (r *baseRecord) ContentLength() int64    { return r.contentLength }
func (r *baseRecord) BlockDigest() string     { return r.blockDigest }
func (r *baseRecord) TruncatedReason() string { return r.truncatedReason }
func (r *baseRecord) base() *baseRecord       { return r }

func (r *baseRecord) OrderedFields() []string {
	return append([]string(nil), r.orderedFields...)
}

func (r *baseRecord) HeaderLine(field string) (string, bool) {
	return r.fields.line(field)
}

func (r *baseRecord) Header(order ...string) string {
	if len(order) == 0 {
		order = r.orderedFields
	}
	sb := &strings.Builder{}
	sb.WriteString("WARC/")
	sb.WriteString(r.version)
	sb.WriteString(crlf)
	for _, f := range order {
		if l, ok := r.fields.line(f); ok {
			sb.WriteString(l)
		}
	}
	return sb.String()
}

func (r *baseRecord) set(field, value string) error {
	return r.fields.set(field, value)
}

// setContentBlock computes length and block digest for fresh records. Parsed records trust their header.
func (r *baseRecord) setContentBlock(block []byte, isParsed bool) error {
	if isParsed {
		return nil
	}
	r.contentLength = int64(len(block))
	d, err := ComputeDigest(r.opts.digestProvider, r.opts.digestAlgorithm, block)
	if err != nil {
		return err
	}
	r.blockDigest = d
	return nil
}

// computePayloadDigest returns the given digest if set, otherwise the digest of payload.
func (r *baseRecord) computePayloadDigest(payload []byte) (string, error) {
	if r.opts.payloadDigest != "" {
		return r.opts.payloadDigest, nil
	}
	return ComputeDigest(r.opts.digestProvider, r.opts.digestAlgorithm, payload)
}

// baseFields returns the fields shared by all record types.
func (r *baseRecord) baseFields() []fieldDef {
	return []fieldDef{
		{
			name:   WarcType,
			set:    ignoreValue,
			render: func() []string { return []string{r.recordType.String()} },
		},
		{
			name:   WarcRecordID,
			set:    idSetter(WarcRecordID, &r.id),
			render: idRender(&r.id),
		},
		{
			name:   WarcDate,
			set:    dateSetter(WarcDate, &r.date),
			render: func() []string { return single(formatDate(r.date)) },
		},
		{
			name:   ContentLength,
			set:    int64Setter(ContentLength, &r.contentLength),
			render: func() []string { return []string{formatInt64(r.contentLength)} },
		},
		{
			name:   WarcBlockDigest,
			set:    stringSetter(&r.blockDigest),
			render: func() []string { return single(r.blockDigest) },
		},
		{
			name:   WarcTruncated,
			set:    stringSetter(&r.truncatedReason),
			render: func() []string { return single(r.truncatedReason) },
		},
	}
}

// contentTypeFor returns contentType for a fresh record, or "" if the block is empty. A missing content type is
// filled in by the record's ContentTypeIdentifier.
func contentTypeFor(contentType string, block []byte, rec Record) string {
	if len(block) == 0 {
		return ""
	}
	if contentType != "" {
		return contentType
	}
	if ci := rec.base().opts.contentTypeIdentifier; ci != nil {
		return ci.Identify(rec)
	}
	return ApplicationOctetStream
}

func newRecordID() string {
	return "urn:uuid:" + uuid.NewString()
}

// freshOptions resolves options for a record created by a producer rather than the parser.
func freshOptions(opts []RecordOption) (*recordOptions, string, error) {
	o := newRecordOptions(opts...)
	if !isSupportedVersion(o.version) {
		return nil, "", fmt.Errorf("warcproto: version '%s': %w", o.version, ErrUnsupportedVersion)
	}
	if o.recordID == "" {
		return o, newRecordID(), nil
	}
	id, err := parseID(WarcRecordID, o.recordID)
	if err != nil {
		return nil, "", err
	}
	return o, id, nil
}
