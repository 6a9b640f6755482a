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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRecordFactory_CreateRecord(t *testing.T) {
	tests := []struct {
		tag  string
		want Record
	}{
		{"warcinfo", &WarcinfoRecord{}},
		{"response", &ResponseRecord{}},
		{"resource", &ResourceRecord{}},
		{"request", &RequestRecord{}},
		{"metadata", &MetadataRecord{}},
		{"revisit", &RevisitRecord{}},
		{"conversion", &ConversionRecord{}},
		{"continuation", &ContinuationRecord{}},
		{"Response", &ResponseRecord{}},
	}
	f := NewRecordFactory()
	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			r, err := f.CreateRecord(V1_0, tt.tag, "<urn:uuid:x>", testDate)
			require.NoError(t, err)
			assert.IsType(t, tt.want, r)
			assert.Equal(t, V1_0, r.Version())
			assert.Equal(t, "urn:uuid:x", r.ID())
			assert.Equal(t, testDate, r.Date())
		})
	}
}

func TestDefaultRecordFactory_Unsupported(t *testing.T) {
	_, err := NewRecordFactory().CreateRecord(V1_1, "bogus", "urn:uuid:x", testDate)
	assert.ErrorIs(t, err, ErrUnsupportedRecordType)
	var he *HeaderFieldError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, "warc-type", he.FieldName())
}

func TestDefaultRecordFactory_SharedOptions(t *testing.T) {
	f := NewRecordFactory(WithDigestAlgorithm("sha256"), WithTruncatedReason("length"))
	r, err := f.CreateRecord(V1_1, "resource", "urn:uuid:x", testDate)
	require.NoError(t, err)
	assert.Equal(t, "", r.TruncatedReason())
	assert.Equal(t, "sha256", r.base().opts.digestAlgorithm)
}
