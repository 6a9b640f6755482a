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

var resourceFields = lowerAll(WarcType, WarcRecordID, WarcDate, ContentLength, ContentType, WarcConcurrentTo,
	WarcBlockDigest, WarcPayloadDigest, WarcIPAddress, WarcTargetURI, WarcTruncated, WarcWarcinfoID,
	WarcIdentifiedPayloadType, WarcSegmentNumber)

// ResourceRecord holds a resource without protocol information. The whole content block is the payload.
type ResourceRecord struct {
	baseRecord
	contentType           string
	infoID                string
	targetURI             string
	payloadDigest         string
	identifiedPayloadType string
	ipAddress             netip.Addr
	segmentNumber         int64
	concurrentTo          concurrentTo
	block                 []byte
}

func newResourceRecord(version, id string, date time.Time, opts *recordOptions) *ResourceRecord {
	r := &ResourceRecord{concurrentTo: newConcurrentTo()}
	r.baseRecord = newBaseRecord(Resource, version, id, date, resourceFields, opts)
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

// NewResourceRecord creates a resource record. The payload digest is computed unless given with
// WithPayloadDigest.
func NewResourceRecord(date time.Time, block []byte, contentType string, infoID string, targetURI string, opts ...RecordOption) (*ResourceRecord, error) {
	o, id, err := freshOptions(opts)
	if err != nil {
		return nil, err
	}
	r := newResourceRecord(o.version, id, date, o)
	if err := r.setContentBlock(block, false); err != nil {
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

func (r *ResourceRecord) ContentType() string           { return r.contentType }
func (r *ResourceRecord) InfoID() string                { return r.infoID }
func (r *ResourceRecord) TargetURI() string             { return r.targetURI }
func (r *ResourceRecord) PayloadDigest() string         { return r.payloadDigest }
func (r *ResourceRecord) IdentifiedPayloadType() string { return r.identifiedPayloadType }
func (r *ResourceRecord) IPAddress() netip.Addr         { return r.ipAddress }
func (r *ResourceRecord) SegmentNumber() int64          { return r.segmentNumber }
func (r *ResourceRecord) ConcurrentTo() []string        { return r.concurrentTo.values() }

// Payload returns the content block.
func (r *ResourceRecord) Payload() []byte { return r.block }

// IdentifyPayloadType runs the payload type identifier over the payload.
func (r *ResourceRecord) IdentifyPayloadType() string {
	return r.opts.payloadTypeIdentifier.Identify(r.block)
}

func (r *ResourceRecord) BlockBytes() []byte {
	return r.block
}

func (r *ResourceRecord) setContentBlock(block []byte, isParsed bool) error {
	if err := r.baseRecord.setContentBlock(block, isParsed); err != nil {
		return err
	}
	r.block = block
	if isParsed {
		return nil
	}
	r.identifiedPayloadType = identifyPayload(r.opts, block)
	var err error
	r.payloadDigest, err = r.computePayloadDigest(block)
	return err
}
