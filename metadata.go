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

var metadataFields = lowerAll(WarcType, WarcRecordID, WarcDate, ContentLength, ContentType, WarcConcurrentTo,
	WarcBlockDigest, WarcIPAddress, WarcRefersTo, WarcTargetURI, WarcTruncated, WarcWarcinfoID)

// MetadataRecord describes, explains or accompanies a harvested resource.
type MetadataRecord struct {
	baseRecord
	contentType  string
	infoID       string
	targetURI    string
	ipAddress    netip.Addr
	refersTo     string
	concurrentTo concurrentTo
	block        string
}

func newMetadataRecord(version, id string, date time.Time, opts *recordOptions) *MetadataRecord {
	r := &MetadataRecord{concurrentTo: newConcurrentTo()}
	r.baseRecord = newBaseRecord(Metadata, version, id, date, metadataFields, opts)
	r.fields = newFieldTable(r.baseFields(), []fieldDef{
		stringDef(ContentType, &r.contentType),
		r.concurrentTo.def(),
		ipDef(&r.ipAddress),
		idDef(WarcRefersTo, &r.refersTo),
		r.uriDef(WarcTargetURI, &r.targetURI),
		idDef(WarcWarcinfoID, &r.infoID),
	})
	return r
}

// NewMetadataRecord creates a metadata record. Target URI, IP address, refers-to and concurrent-to are
// set with options.
func NewMetadataRecord(date time.Time, block string, contentType string, infoID string, opts ...RecordOption) (*MetadataRecord, error) {
	o, id, err := freshOptions(opts)
	if err != nil {
		return nil, err
	}
	r := newMetadataRecord(o.version, id, date, o)
	r.block = block
	if err := r.setContentBlock([]byte(block), false); err != nil {
		return nil, err
	}
	r.infoID = removeBrackets(infoID)
	r.targetURI = removeBrackets(o.targetURI)
	r.refersTo = removeBrackets(o.refersTo)
	if r.ipAddress, err = parseOptionalIP(o.ipAddress); err != nil {
		return nil, err
	}
	for _, c := range o.concurrentTo {
		r.concurrentTo.add(c)
	}
	r.contentType = contentTypeFor(contentType, []byte(block), r)
	return r, nil
}

func (r *MetadataRecord) ContentType() string    { return r.contentType }
func (r *MetadataRecord) InfoID() string         { return r.infoID }
func (r *MetadataRecord) TargetURI() string      { return r.targetURI }
func (r *MetadataRecord) IPAddress() netip.Addr  { return r.ipAddress }
func (r *MetadataRecord) RefersTo() string       { return r.refersTo }
func (r *MetadataRecord) ConcurrentTo() []string { return r.concurrentTo.values() }

// Block returns the content block as text.
func (r *MetadataRecord) Block() string { return r.block }

// Fields parses the content block as warc-fields.
func (r *MetadataRecord) Fields() (*HeaderFields, error) {
	return parseWarcFieldsBlock(r.block)
}

func (r *MetadataRecord) BlockBytes() []byte {
	return textBytes(r.block)
}

func (r *MetadataRecord) setContentBlock(block []byte, isParsed bool) error {
	if err := r.baseRecord.setContentBlock(block, isParsed); err != nil {
		return err
	}
	if isParsed {
		r.block = decodeUTF8(block)
	}
	return nil
}

func parseOptionalIP(s string) (netip.Addr, error) {
	if s == "" {
		return netip.Addr{}, nil
	}
	var ip netip.Addr
	err := ipSetter(&ip)(s)
	return ip, err
}
