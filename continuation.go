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

var continuationFields = lowerAll(WarcType, WarcRecordID, WarcDate, ContentLength, WarcBlockDigest,
	WarcPayloadDigest, WarcTargetURI, WarcTruncated, WarcWarcinfoID, WarcSegmentOriginID, WarcSegmentNumber,
	WarcSegmentTotalLength)

// ContinuationRecord holds a segment of a payload too large for a single record.
type ContinuationRecord struct {
	baseRecord
	infoID             string
	targetURI          string
	payloadDigest      string
	segmentOriginID    string
	segmentNumber      int64
	segmentTotalLength int64
	block              []byte
}

func newContinuationRecord(version, id string, date time.Time, opts *recordOptions) *ContinuationRecord {
	r := &ContinuationRecord{}
	r.baseRecord = newBaseRecord(Continuation, version, id, date, continuationFields, opts)
	r.fields = newFieldTable(r.baseFields(), []fieldDef{
		stringDef(WarcPayloadDigest, &r.payloadDigest),
		r.uriDef(WarcTargetURI, &r.targetURI),
		idDef(WarcWarcinfoID, &r.infoID),
		idDef(WarcSegmentOriginID, &r.segmentOriginID),
		countDef(WarcSegmentNumber, &r.segmentNumber),
		countDef(WarcSegmentTotalLength, &r.segmentTotalLength),
	})
	return r
}

// NewContinuationRecord creates a continuation record for segment number segmentNumber of the record
// identified by segmentOriginID. The payload digest must be that of the complete payload, as found in the
// origin record. Set the total length on the last segment with WithSegmentTotalLength.
func NewContinuationRecord(date time.Time, block []byte, payloadDigest string, infoID string, targetURI string, segmentOriginID string, segmentNumber int64, opts ...RecordOption) (*ContinuationRecord, error) {
	o, id, err := freshOptions(opts)
	if err != nil {
		return nil, err
	}
	r := newContinuationRecord(o.version, id, date, o)
	if err := r.setContentBlock(block, false); err != nil {
		return nil, err
	}
	r.payloadDigest = payloadDigest
	r.infoID = removeBrackets(infoID)
	r.targetURI = removeBrackets(targetURI)
	r.segmentOriginID = removeBrackets(segmentOriginID)
	r.segmentNumber = segmentNumber
	r.segmentTotalLength = o.segmentTotalLength
	return r, nil
}

func (r *ContinuationRecord) InfoID() string            { return r.infoID }
func (r *ContinuationRecord) TargetURI() string         { return r.targetURI }
func (r *ContinuationRecord) PayloadDigest() string     { return r.payloadDigest }
func (r *ContinuationRecord) SegmentOriginID() string   { return r.segmentOriginID }
func (r *ContinuationRecord) SegmentNumber() int64      { return r.segmentNumber }
func (r *ContinuationRecord) SegmentTotalLength() int64 { return r.segmentTotalLength }

// Block returns the raw segment bytes.
func (r *ContinuationRecord) Block() []byte { return r.block }

func (r *ContinuationRecord) BlockBytes() []byte {
	return r.block
}

func (r *ContinuationRecord) setContentBlock(block []byte, isParsed bool) error {
	if err := r.baseRecord.setContentBlock(block, isParsed); err != nil {
		return err
	}
	r.block = block
	return nil
}
