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
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/nlnwa/warcproto"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestFile(t *testing.T, fs afero.Fs, name string) *warcproto.ResourceRecord {
	t.Helper()
	rec, err := warcproto.NewResourceRecord(time.Date(2021, 3, 1, 10, 0, 0, 0, time.UTC), []byte("content"),
		"text/plain", "", "http://example.com/")
	require.NoError(t, err)
	w, err := warcproto.NewWarcFileWriter(name, warcproto.WithWriterFs(fs))
	require.NoError(t, err)
	require.NoError(t, w.Write(rec, rec))
	require.NoError(t, w.Close())
	return rec
}

func TestValidate(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeTestFile(t, fs, "valid.warc.gz")

	report, err := Validate(context.Background(), fs, "valid.warc.gz")
	require.NoError(t, err)
	assert.Equal(t, "valid.warc.gz", report.FileName)
	assert.Equal(t, 2, report.Records)
	assert.True(t, report.Valid())
}

func TestValidateReportsProblems(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeTestFile(t, fs, "broken.warc")
	data, err := afero.ReadFile(fs, "broken.warc")
	require.NoError(t, err)
	data = append([]byte("junk\r\n"), data...)
	data = append(data, "WARC/1.1\r\nWARC-Type: resource\r\n\r\n"...)
	require.NoError(t, afero.WriteFile(fs, "broken.warc", data, 0644))

	report, err := Validate(context.Background(), fs, "broken.warc")
	require.NoError(t, err)
	assert.Equal(t, 2, report.Records)
	assert.False(t, report.Valid())
	assert.Equal(t, []string{"junk\r\n"}, report.Chunks)
	require.Len(t, report.Errors, 1)
	assert.ErrorIs(t, report.Errors[0], warcproto.ErrMissingMandatoryField)
}

func TestValidateReportsDigestMismatch(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeTestFile(t, fs, "altered.warc")
	data, err := afero.ReadFile(fs, "altered.warc")
	require.NoError(t, err)
	data = bytes.Replace(data, []byte("\r\n\r\ncontent\r\n"), []byte("\r\n\r\nCONTENT\r\n"), 1)
	require.NoError(t, afero.WriteFile(fs, "altered.warc", data, 0644))

	report, err := Validate(context.Background(), fs, "altered.warc")
	require.NoError(t, err)
	assert.Equal(t, 2, report.Records)
	assert.Empty(t, report.Errors)
	assert.False(t, report.Valid())
	require.Len(t, report.Digests, 2)
	for _, e := range report.Digests {
		assert.ErrorIs(t, e, warcproto.ErrDigestMismatch)
	}
}

func TestVerifyDigests(t *testing.T) {
	date := time.Date(2021, 3, 1, 10, 0, 0, 0, time.UTC)
	rec, err := warcproto.NewResponseRecord(date, []byte("HTTP/1.1 200 OK\r\n\r\nhello"), "", "", "http://example.com/")
	require.NoError(t, err)
	assert.Empty(t, VerifyDigests(rec))

	wrongPayload, err := warcproto.NewResponseRecord(date, []byte("HTTP/1.1 200 OK\r\n\r\nhello"), "", "", "http://example.com/",
		warcproto.WithPayloadDigest("sha1:0000000000000000000000000000000000000000"))
	require.NoError(t, err)
	errs := VerifyDigests(wrongPayload)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], warcproto.ErrDigestMismatch)

	truncated, err := warcproto.NewResponseRecord(date, []byte("HTTP/1.1 200 OK\r\n\r\nhel"), "", "", "http://example.com/",
		warcproto.WithPayloadDigest("sha1:0000000000000000000000000000000000000000"), warcproto.WithTruncatedReason("length"))
	require.NoError(t, err)
	assert.Empty(t, VerifyDigests(truncated))
}

func TestValidateMissingFile(t *testing.T) {
	_, err := Validate(context.Background(), afero.NewMemMapFs(), "missing.warc")
	assert.Error(t, err)
}

func TestTargetURI(t *testing.T) {
	rec, err := warcproto.NewResourceRecord(time.Now(), nil, "", "", "http://example.com/")
	require.NoError(t, err)
	assert.Equal(t, "http://example.com/", TargetURI(rec))

	info, err := warcproto.NewWarcinfoRecord(time.Now(), "software: test\r\n", "")
	require.NoError(t, err)
	assert.Equal(t, "", TargetURI(info))
}

func TestContainsID(t *testing.T) {
	ids := []string{"urn:uuid:a", "urn:uuid:c"}
	assert.True(t, ContainsID(ids, "urn:uuid:c"))
	assert.False(t, ContainsID(ids, "urn:uuid:b"))
	assert.False(t, ContainsID(nil, "urn:uuid:a"))
}
