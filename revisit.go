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

// Revisit profiles defined by the WARC standard
const (
	ProfileIdenticalPayloadDigestV1_0 = "http://netpreserve.org/warc/1.0/revisit/identical-payload-digest"
	ProfileServerNotModifiedV1_0      = "http://netpreserve.org/warc/1.0/revisit/server-not-modified"
	ProfileIdenticalPayloadDigestV1_1 = "http://netpreserve.org/warc/1.1/revisit/identical-payload-digest"
	ProfileServerNotModifiedV1_1      = "http://netpreserve.org/warc/1.1/revisit/server-not-modified"
)

var revisitFields = lowerAll(WarcType, WarcRecordID, WarcDate, ContentLength, ContentType, WarcConcurrentTo,
	WarcBlockDigest, WarcPayloadDigest, WarcIPAddress, WarcRefersTo, WarcRefersToTargetURI, WarcRefersToDate,
	WarcTargetURI, WarcTruncated, WarcWarcinfoID, WarcProfile)

// RevisitRecord describes a revisitation of content already archived.
//
// The content block holds the record block only, typically the HTTP headers of the revisit.
type RevisitRecord struct {
	baseRecord
	contentType       string
	infoID            string
	targetURI         string
	profile           string
	payloadDigest     string
	ipAddress         netip.Addr
	refersTo          string
	refersToDate      time.Time
	refersToTargetURI string
	concurrentTo      concurrentTo
	block             string
}

func newRevisitRecord(version, id string, date time.Time, opts *recordOptions) *RevisitRecord {
	r := &RevisitRecord{concurrentTo: newConcurrentTo()}
	r.baseRecord = newBaseRecord(Revisit, version, id, date, revisitFields, opts)
	r.fields = newFieldTable(r.baseFields(), []fieldDef{
		stringDef(ContentType, &r.contentType),
		r.concurrentTo.def(),
		stringDef(WarcPayloadDigest, &r.payloadDigest),
		ipDef(&r.ipAddress),
		idDef(WarcRefersTo, &r.refersTo),
		{
			name:   WarcRefersToTargetURI,
			set:    uriSetter(WarcRefersToTargetURI, &r.refersToTargetURI),
			render: func() []string { return single(normalizeURI(r.refersToTargetURI)) },
		},
		dateDef(WarcRefersToDate, &r.refersToDate),
		r.uriDef(WarcTargetURI, &r.targetURI),
		idDef(WarcWarcinfoID, &r.infoID),
		r.uriDef(WarcProfile, &r.profile),
	})
	return r
}

// NewRevisitRecord creates a revisit record. Use one of the Profile constants for profile.
func NewRevisitRecord(date time.Time, block string, contentType string, infoID string, targetURI string, profile string, opts ...RecordOption) (*RevisitRecord, error) {
	o, id, err := freshOptions(opts)
	if err != nil {
		return nil, err
	}
	r := newRevisitRecord(o.version, id, date, o)
	r.block = block
	if err := r.setContentBlock([]byte(block), false); err != nil {
		return nil, err
	}
	r.infoID = removeBrackets(infoID)
	r.targetURI = removeBrackets(targetURI)
	r.profile = removeBrackets(profile)
	r.payloadDigest = o.payloadDigest
	r.refersTo = removeBrackets(o.refersTo)
	r.refersToDate = o.refersToDate.UTC()
	r.refersToTargetURI = o.refersToTargetURI
	if r.ipAddress, err = parseOptionalIP(o.ipAddress); err != nil {
		return nil, err
	}
	for _, c := range o.concurrentTo {
		r.concurrentTo.add(c)
	}
	r.contentType = contentTypeFor(contentType, []byte(block), r)
	return r, nil
}

func (r *RevisitRecord) ContentType() string       { return r.contentType }
func (r *RevisitRecord) InfoID() string            { return r.infoID }
func (r *RevisitRecord) TargetURI() string         { return r.targetURI }
func (r *RevisitRecord) Profile() string           { return r.profile }
func (r *RevisitRecord) PayloadDigest() string     { return r.payloadDigest }
func (r *RevisitRecord) IPAddress() netip.Addr     { return r.ipAddress }
func (r *RevisitRecord) RefersTo() string          { return r.refersTo }
func (r *RevisitRecord) RefersToDate() time.Time   { return r.refersToDate }
func (r *RevisitRecord) RefersToTargetURI() string { return r.refersToTargetURI }
func (r *RevisitRecord) ConcurrentTo() []string    { return r.concurrentTo.values() }

// Block returns the record block as text.
func (r *RevisitRecord) Block() string { return r.block }

func (r *RevisitRecord) BlockBytes() []byte {
	return textBytes(r.block)
}

func (r *RevisitRecord) setContentBlock(block []byte, isParsed bool) error {
	if err := r.baseRecord.setContentBlock(block, isParsed); err != nil {
		return err
	}
	if isParsed {
		r.block = decodeUTF8(block)
	}
	return nil
}
