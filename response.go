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
	"net/netip"
	"time"
)

var responseFields = lowerAll(WarcType, WarcRecordID, WarcDate, ContentLength, ContentType, WarcConcurrentTo,
	WarcBlockDigest, WarcPayloadDigest, WarcIPAddress, WarcTargetURI, WarcTruncated, WarcWarcinfoID,
	WarcIdentifiedPayloadType, WarcSegmentNumber)

// ResponseRecord holds a complete response as received from a target URI.
//
// The content block is split at the first payload delimiter into a textual record block and a payload.
// Unlike RequestRecord, Payload is empty but not nil if the delimiter is absent.
type ResponseRecord struct {
	baseRecord
	contentType           string
	infoID                string
	targetURI             string
	payloadDigest         string
	identifiedPayloadType string
	ipAddress             netip.Addr
	segmentNumber         int64
	concurrentTo          concurrentTo
	contentBlock          []byte
	recordBlock           string
	payload               []byte
}

func newResponseRecord(version, id string, date time.Time, opts *recordOptions) *ResponseRecord {
	r := &ResponseRecord{concurrentTo: newConcurrentTo()}
	r.baseRecord = newBaseRecord(Response, version, id, date, responseFields, opts)
	r.fields = newFieldTable(r.baseFields(), []fieldDef{
		stringDef(ContentType, &r.contentType),
		r.concurrentTo.def(),
		stringDef(WarcPayloadDigest, &r.payloadDigest),
		ipDef(&r.ipAddress),
		r.uriDef(WarcTargetURI, &r.targetURI),
		idDef(WarcWarcinfoID, &r.infoID),
		identifiedPayloadTypeDef(&r.identifiedPayloadType),
		countDef(WarcSegmentNumber, &r.segmentNumber),
	})
	return r
}

// NewResponseRecord creates a response record. The payload digest is computed unless given with
// WithPayloadDigest.
func NewResponseRecord(date time.Time, block []byte, contentType string, infoID string, targetURI string, opts ...RecordOption) (*ResponseRecord, error) {
	o, id, err := freshOptions(opts)
	if err != nil {
		return nil, err
	}
	r := newResponseRecord(o.version, id, date, o)
	if err := r.setContentBlock(block, false); err != nil {
		return nil, err
	}
	if r.payloadDigest, err = r.computePayloadDigest(r.payload); err != nil {
		return nil, err
	}
	r.infoID = removeBrackets(infoID)
	r.targetURI = removeBrackets(targetURI)
	if r.ipAddress, err = parseOptionalIP(o.ipAddress); err != nil {
		return nil, err
	}
	for _, c := range o.concurrentTo {
		r.concurrentTo.add(c)
	}
	if o.segmented {
		r.segmentNumber = 1
	}
	r.contentType = contentTypeFor(contentType, block, r)
	return r, nil
}

func (r *ResponseRecord) ContentType() string           { return r.contentType }
func (r *ResponseRecord) InfoID() string                { return r.infoID }
func (r *ResponseRecord) TargetURI() string             { return r.targetURI }
func (r *ResponseRecord) PayloadDigest() string         { return r.payloadDigest }
func (r *ResponseRecord) IdentifiedPayloadType() string { return r.identifiedPayloadType }
func (r *ResponseRecord) IPAddress() netip.Addr         { return r.ipAddress }
func (r *ResponseRecord) SegmentNumber() int64          { return r.segmentNumber }
func (r *ResponseRecord) ConcurrentTo() []string        { return r.concurrentTo.values() }

// RecordBlock returns the part of the content block preceding the payload delimiter.
func (r *ResponseRecord) RecordBlock() string { return r.recordBlock }

// Payload returns the bytes following the payload delimiter. It is never nil.
func (r *ResponseRecord) Payload() []byte { return r.payload }

// IdentifyPayloadType runs the payload type identifier over the payload.
func (r *ResponseRecord) IdentifyPayloadType() string {
	return r.opts.payloadTypeIdentifier.Identify(r.payload)
}

func (r *ResponseRecord) BlockBytes() []byte {
	return r.contentBlock
}

func (r *ResponseRecord) setContentBlock(block []byte, isParsed bool) error {
	if err := r.baseRecord.setContentBlock(block, isParsed); err != nil {
		return err
	}
	head, payload, found := splitBlock(r.opts.payloadTypeIdentifier, block)
	r.contentBlock = block
	r.recordBlock = decodeUTF8(head)
	if found {
		r.payload = payload
	} else {
		r.payload = []byte{}
	}
	if !isParsed {
		r.identifiedPayloadType = identifyPayload(r.opts, r.payload)
	}
	return nil
}
