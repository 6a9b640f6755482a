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

var requestFields = lowerAll(WarcType, WarcRecordID, WarcDate, ContentLength, ContentType, WarcConcurrentTo,
	WarcBlockDigest, WarcPayloadDigest, WarcIPAddress, WarcTargetURI, WarcTruncated, WarcWarcinfoID,
	WarcIdentifiedPayloadType)

// RequestRecord holds a complete request as issued to a target URI.
//
// The content block is split at the first payload delimiter into a textual record block and a payload.
// Payload is nil if the delimiter is absent.
type RequestRecord struct {
	baseRecord
	contentType           string
	infoID                string
	targetURI             string
	payloadDigest         string
	identifiedPayloadType string
	ipAddress             netip.Addr
	concurrentTo          concurrentTo
	contentBlock          []byte
	recordBlock           string
	payload               []byte
}

func newRequestRecord(version, id string, date time.Time, opts *recordOptions) *RequestRecord {
	r := &RequestRecord{concurrentTo: newConcurrentTo()}
	r.baseRecord = newBaseRecord(Request, version, id, date, requestFields, opts)
	r.fields = newFieldTable(r.baseFields(), []fieldDef{
		stringDef(ContentType, &r.contentType),
		r.concurrentTo.def(),
		stringDef(WarcPayloadDigest, &r.payloadDigest),
		ipDef(&r.ipAddress),
		r.uriDef(WarcTargetURI, &r.targetURI),
		idDef(WarcWarcinfoID, &r.infoID),
		identifiedPayloadTypeDef(&r.identifiedPayloadType),
	})
	return r
}

// NewRequestRecord creates a request record. The payload digest is only set if given with WithPayloadDigest.
func NewRequestRecord(date time.Time, block []byte, contentType string, infoID string, targetURI string, opts ...RecordOption) (*RequestRecord, error) {
	o, id, err := freshOptions(opts)
	if err != nil {
		return nil, err
	}
	r := newRequestRecord(o.version, id, date, o)
	if err := r.setContentBlock(block, false); err != nil {
		return nil, err
	}
	r.payloadDigest = o.payloadDigest
	r.infoID = removeBrackets(infoID)
	r.targetURI = removeBrackets(targetURI)
	if r.ipAddress, err = parseOptionalIP(o.ipAddress); err != nil {
		return nil, err
	}
	for _, c := range o.concurrentTo {
		r.concurrentTo.add(c)
	}
	r.contentType = contentTypeFor(contentType, block, r)
	return r, nil
}

func (r *RequestRecord) ContentType() string           { return r.contentType }
func (r *RequestRecord) InfoID() string                { return r.infoID }
func (r *RequestRecord) TargetURI() string             { return r.targetURI }
func (r *RequestRecord) PayloadDigest() string         { return r.payloadDigest }
func (r *RequestRecord) IdentifiedPayloadType() string { return r.identifiedPayloadType }
func (r *RequestRecord) IPAddress() netip.Addr         { return r.ipAddress }
func (r *RequestRecord) ConcurrentTo() []string        { return r.concurrentTo.values() }

// RecordBlock returns the part of the content block preceding the payload delimiter.
func (r *RequestRecord) RecordBlock() string { return r.recordBlock }

// Payload returns the bytes following the payload delimiter, or nil if there is no delimiter.
func (r *RequestRecord) Payload() []byte { return r.payload }

// IdentifyPayloadType runs the payload type identifier over the payload.
func (r *RequestRecord) IdentifyPayloadType() string {
	return r.opts.payloadTypeIdentifier.Identify(r.payload)
}

func (r *RequestRecord) BlockBytes() []byte {
	return r.contentBlock
}

func (r *RequestRecord) setContentBlock(block []byte, isParsed bool) error {
	if err := r.baseRecord.setContentBlock(block, isParsed); err != nil {
		return err
	}
	head, payload, found := splitBlock(r.opts.payloadTypeIdentifier, block)
	r.contentBlock = block
	r.recordBlock = decodeUTF8(head)
	if found {
		r.payload = payload
	}
	if !isParsed {
		r.identifiedPayloadType = identifyPayload(r.opts, r.payload)
	}
	return nil
}

// identifyPayload classifies payload, falling back to the type given with WithIdentifiedPayloadType.
func identifyPayload(opts *recordOptions, payload []byte) string {
	if t := opts.payloadTypeIdentifier.Identify(payload); t != "" {
		return t
	}
	return opts.identifiedPayloadType
}
