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
	"time"
)

var conversionFields = lowerAll(WarcType, WarcRecordID, WarcDate, ContentLength, ContentType, WarcBlockDigest,
	WarcPayloadDigest, WarcRefersTo, WarcTargetURI, WarcTruncated, WarcWarcinfoID, WarcIdentifiedPayloadType,
	WarcSegmentNumber)

// ConversionRecord holds an alternative version of another record's content. The whole content block is the
// payload.
type ConversionRecord struct {
	baseRecord
	contentType           string
	infoID                string
	targetURI             string
	payloadDigest         string
	identifiedPayloadType string
	refersTo              string
	segmentNumber         int64
	block                 []byte
}

func newConversionRecord(version, id string, date time.Time, opts *recordOptions) *ConversionRecord {
	r := &ConversionRecord{}
	r.baseRecord = newBaseRecord(Conversion, version, id, date, conversionFields, opts)
	r.fields = newFieldTable(r.baseFields(), []fieldDef{
		stringDef(ContentType, &r.contentType),
		stringDef(WarcPayloadDigest, &r.payloadDigest),
		idDef(WarcRefersTo, &r.refersTo),
		r.uriDef(WarcTargetURI, &r.targetURI),
		idDef(WarcWarcinfoID, &r.infoID),
		identifiedPayloadTypeDef(&r.identifiedPayloadType),
		countDef(WarcSegmentNumber, &r.segmentNumber),
	})
	return r
}

// NewConversionRecord creates a conversion record. The payload digest is computed over the whole block unless
// given with WithPayloadDigest.
func NewConversionRecord(date time.Time, block []byte, contentType string, infoID string, targetURI string, opts ...RecordOption) (*ConversionRecord, error) {
	o, id, err := freshOptions(opts)
	if err != nil {
		return nil, err
	}
	r := newConversionRecord(o.version, id, date, o)
	if err := r.setContentBlock(block, false); err != nil {
		return nil, err
	}
	r.infoID = removeBrackets(infoID)
	r.targetURI = removeBrackets(targetURI)
	r.refersTo = removeBrackets(o.refersTo)
	if o.segmented {
		r.segmentNumber = 1
	}
	r.contentType = contentTypeFor(contentType, block, r)
	return r, nil
}

func (r *ConversionRecord) ContentType() string           { return r.contentType }
func (r *ConversionRecord) InfoID() string                { return r.infoID }
func (r *ConversionRecord) TargetURI() string             { return r.targetURI }
func (r *ConversionRecord) PayloadDigest() string         { return r.payloadDigest }
func (r *ConversionRecord) IdentifiedPayloadType() string { return r.identifiedPayloadType }
func (r *ConversionRecord) RefersTo() string              { return r.refersTo }
func (r *ConversionRecord) SegmentNumber() int64          { return r.segmentNumber }

// Payload returns the content block.
func (r *ConversionRecord) Payload() []byte { return r.block }

// IdentifyPayloadType runs the payload type identifier over the payload.
func (r *ConversionRecord) IdentifyPayloadType() string {
	return r.opts.payloadTypeIdentifier.Identify(r.block)
}

func (r *ConversionRecord) BlockBytes() []byte {
	return r.block
}

func (r *ConversionRecord) setContentBlock(block []byte, isParsed bool) error {
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
