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

package validate

import (
	"bytes"
	"errors"
	"testing"

	"github.com/fatih/color"
	"github.com/nlnwa/warcproto/cmd/warc/internal"
	"github.com/stretchr/testify/assert"
)

func TestPrintReport(t *testing.T) {
	color.NoColor = true

	tests := []struct {
		name    string
		report  *internal.Report
		verbose bool
		want    string
	}{
		{"valid", &internal.Report{FileName: "a.warc", Records: 3}, true, "a.warc: valid, 3 records\n"},
		{"invalid", &internal.Report{FileName: "b.warc", Records: 1, Chunks: []string{"junk\r\n"}, Errors: []error{errors.New("bad")}}, false,
			"b.warc: invalid, 1 records, 1 skipped chunks, 1 errors, 0 digest mismatches\n"},
		{"invalid verbose", &internal.Report{FileName: "b.warc", Records: 1, Chunks: []string{"junk\r\n"}, Errors: []error{errors.New("bad")}}, true,
			"b.warc: invalid, 1 records, 1 skipped chunks, 1 errors, 0 digest mismatches\n  skipped: \"junk\\r\\n\"\n  error: bad\n"},
		{"digest mismatch", &internal.Report{FileName: "c.warc", Records: 2, Digests: []error{errors.New("block: digest mismatch")}}, true,
			"c.warc: invalid, 2 records, 0 skipped chunks, 0 errors, 1 digest mismatches\n  digest: block: digest mismatch\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			PrintReport(buf, tt.report, tt.verbose)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}
