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
	"time"
)

// RecordFactory instantiates bare records for the parser. The remaining header fields and the content block
// are set by the parser afterwards.
type RecordFactory interface {
	CreateRecord(version string, recordType string, id string, date time.Time) (Record, error)
}

// DefaultRecordFactory creates the eight standard record types. All records share the factory's digest
// provider, digest algorithm and payload type identifier.
type DefaultRecordFactory struct {
	opts *recordOptions
}

// NewRecordFactory creates a DefaultRecordFactory. Only WithDigestProvider, WithDigestAlgorithm and
// WithPayloadTypeIdentifier are relevant for parsed records.
func NewRecordFactory(opts ...RecordOption) *DefaultRecordFactory {
	o := newRecordOptions(opts...)
	return &DefaultRecordFactory{opts: &recordOptions{
		digestProvider:        o.digestProvider,
		digestAlgorithm:       o.digestAlgorithm,
		payloadTypeIdentifier: o.payloadTypeIdentifier,
		contentTypeIdentifier: o.contentTypeIdentifier,
	}}
}

func (f *DefaultRecordFactory) CreateRecord(version string, recordType string, id string, date time.Time) (Record, error) {
	rt, ok := ParseRecordType(recordType)
	if !ok {
		return nil, newHeaderFieldErrorf(fieldType, ErrUnsupportedRecordType, "unsupported record type '%s'", recordType)
	}
	return f.create(rt, version, id, date)
}

func (f *DefaultRecordFactory) create(rt RecordType, version string, id string, date time.Time) (Record, error) {
	o := f.opts
	switch rt {
	case Warcinfo:
		return newWarcinfoRecord(version, id, date, o), nil
	case Metadata:
		return newMetadataRecord(version, id, date, o), nil
	case Resource:
		return newResourceRecord(version, id, date, o), nil
	case Request:
		return newRequestRecord(version, id, date, o), nil
	case Response:
		return newResponseRecord(version, id, date, o), nil
	case Revisit:
		return newRevisitRecord(version, id, date, o), nil
	case Conversion:
		return newConversionRecord(version, id, date, o), nil
	case Continuation:
		return newContinuationRecord(version, id, date, o), nil
	}
	return nil, fmt.Errorf("warcproto: record type %d: %w", rt, ErrUnsupportedRecordType)
}
