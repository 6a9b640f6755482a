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

package internal

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/nlnwa/warcproto"
	"github.com/spf13/afero"
)

// TargetURI returns the WARC-Target-URI of rec, or "" for record types without one.
func TargetURI(rec warcproto.Record) string {
	if t, ok := rec.(interface{ TargetURI() string }); ok {
		return t.TargetURI()
	}
	return ""
}

// ContainsID reports whether id is in ids. ids must be sorted.
func ContainsID(ids []string, id string) bool {
	i := sort.SearchStrings(ids, id)
	return i < len(ids) && ids[i] == id
}

// Report is the result of validating one file.
type Report struct {
	FileName string
	Records  int
	Chunks   []string
	Errors   []error
	// Digests holds block and payload digests that do not match the record content.
	Digests []error
}

func (r *Report) Valid() bool {
	return len(r.Chunks) == 0 && len(r.Errors) == 0 && len(r.Digests) == 0
}

type payloadRecord interface {
	Payload() []byte
	PayloadDigest() string
}

// VerifyDigests checks the block digest of rec and, for records carrying their whole payload, the payload
// digest. Truncated and segmented records are only checked against their block digest.
func VerifyDigests(rec warcproto.Record) []error {
	var errs []error
	provider := warcproto.DefaultDigestProvider{}
	if d := rec.BlockDigest(); d != "" {
		if err := warcproto.VerifyDigest(provider, d, rec.BlockBytes()); err != nil {
			errs = append(errs, fmt.Errorf("record %s: block: %w", rec.ID(), err))
		}
	}
	if rec.TruncatedReason() != "" {
		return errs
	}
	if s, ok := rec.(interface{ SegmentNumber() int64 }); ok && s.SegmentNumber() > 0 {
		return errs
	}
	if p, ok := rec.(payloadRecord); ok && p.PayloadDigest() != "" {
		if err := warcproto.VerifyDigest(provider, p.PayloadDigest(), p.Payload()); err != nil {
			errs = append(errs, fmt.Errorf("record %s: payload: %w", rec.ID(), err))
		}
	}
	return errs
}

// Validate reads every record in fileName. Structural problems and digest mismatches are collected in the
// report. The returned error is set only when the file could not be read to the end.
func Validate(ctx context.Context, fs afero.Fs, fileName string) (*Report, error) {
	pl := &warcproto.CollectingParseLog{}
	wf, err := warcproto.NewWarcFileReader(ctx, fileName, warcproto.WithReaderFs(fs), warcproto.WithParseLog(pl))
	if err != nil {
		return nil, err
	}
	defer func() { _ = wf.Close() }()

	report := &Report{FileName: fileName}
	for {
		rec, err := wf.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		report.Records++
		report.Digests = append(report.Digests, VerifyDigests(rec)...)
	}
	report.Chunks = pl.Chunks
	report.Errors = pl.Errors
	return report, nil
}
