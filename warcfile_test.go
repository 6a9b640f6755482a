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
	"context"
	"io"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWarcFileWriterAndReader(t *testing.T) {
	tests := []struct {
		name     string
		filename string
	}{
		{"compressed", "test.warc.gz"},
		{"compressed upper case suffix", "test.WARC.GZ"},
		{"uncompressed", "test.warc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			records := nineRecords(t)

			w, err := NewWarcFileWriter(tt.filename, WithWriterFs(fs))
			require.NoError(t, err)
			require.NoError(t, w.Write(records[:4]...))
			require.NoError(t, w.Write(records[4:]...))

			exists, _ := afero.Exists(fs, tt.filename+".open")
			assert.True(t, exists)
			exists, _ = afero.Exists(fs, tt.filename)
			assert.False(t, exists)

			require.NoError(t, w.Close())
			require.NoError(t, w.Close())
			exists, _ = afero.Exists(fs, tt.filename+".open")
			assert.False(t, exists)
			exists, _ = afero.Exists(fs, tt.filename)
			assert.True(t, exists)

			var want int64
			for _, r := range records {
				want += int64(len(r.Header())) + 2 + int64(len(r.BlockBytes())) + 4
			}
			assert.Equal(t, want, w.Length())

			data, err := afero.ReadFile(fs, tt.filename)
			require.NoError(t, err)
			if IsCompressedName(tt.filename) {
				assert.Equal(t, []byte{0x1f, 0x8b}, data[:2])
			} else {
				assert.Equal(t, "WARC/1.1\r\n", string(data[:10]))
			}

			r, err := NewWarcFileReader(context.Background(), tt.filename, WithReaderFs(fs))
			require.NoError(t, err)
			got, err := readAll(t, r.reader)
			require.NoError(t, err)
			require.NoError(t, r.Close())
			assertSameRecords(t, records, got)
		})
	}
}

func TestWarcFileWriter_Options(t *testing.T) {
	fs := afero.NewMemMapFs()
	rec, err := NewResourceRecord(testDate, []byte("foobar"), "", "", "")
	require.NoError(t, err)

	w, err := NewWarcFileWriter("plain.warc.gz", WithWriterFs(fs), WithCompression(false), WithOpenFileSuffix(".tmp"))
	require.NoError(t, err)
	exists, _ := afero.Exists(fs, "plain.warc.gz.tmp")
	assert.True(t, exists)
	require.NoError(t, w.Write(rec))
	require.NoError(t, w.Close())

	data, err := afero.ReadFile(fs, "plain.warc.gz")
	require.NoError(t, err)
	assert.Equal(t, "WARC/1.1\r\n", string(data[:10]))

	err = w.Write(rec)
	assert.Error(t, err)
}

func TestWarcFileWriter_RefusesExistingFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "busy.warc.open", []byte("x"), 0644))
	_, err := NewWarcFileWriter("busy.warc", WithWriterFs(fs))
	assert.Error(t, err)
}

func TestNewGeneratedWarcFileWriter(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("out", 0755))
	g := &PatternNameGenerator{Directory: "out", Prefix: "crawl-", Pattern: "%{prefix}s%04{serial}d.warc"}

	w, err := NewGeneratedWarcFileWriter(g, true, WithWriterFs(fs))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	assert.Equal(t, "out/crawl-0001.warc.gz", w.Name())
	exists, _ := afero.Exists(fs, "out/crawl-0001.warc.gz")
	assert.True(t, exists)

	w, err = NewGeneratedWarcFileWriter(g, false, WithWriterFs(fs))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	assert.Equal(t, "out/crawl-0002.warc", w.Name())
}

func TestPatternNameGenerator_Default(t *testing.T) {
	now = func() time.Time { return time.Date(2020, 1, 5, 10, 44, 25, 0, time.UTC) }
	defer func() { now = time.Now }()

	g := &PatternNameGenerator{Prefix: "p-"}
	dir, name := g.NewWarcfileName()
	assert.Equal(t, "", dir)
	assert.Regexp(t, `^p-20200105104425-0001-.+\.warc$`, name)
	_, name = g.NewWarcfileName()
	assert.Regexp(t, `^p-20200105104425-0002-.+\.warc$`, name)
}

func TestWarcFileReader_Offset(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "offset.warc", []byte(incorrectContentLength), 0644))

	lastOffset := int64(len(incorrectContentLength) - len("WARC/1.1\r\n"+
		"WARC-Date: 2001-01-01T12:34:56Z\r\n"+
		"WARC-Record-ID: <urn:uuid:1a59c5c8-d806-4cdb-83aa-b21495d11063>\r\n"+
		"WARC-Type: resource\r\n"+
		"Content-Length: 6\r\n"+
		"\r\n"+
		"foobar"+
		"\r\n\r\n"))

	r, err := NewWarcFileReader(context.Background(), "offset.warc", WithReaderFs(fs), WithByteOffset(lastOffset))
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	rec, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, testRecordID, rec.ID())
	assert.Equal(t, lastOffset, r.Offset())
	_, err = r.Next()
	assert.Equal(t, io.EOF, err)

	_, err = NewWarcFileReader(context.Background(), "offset.warc", WithReaderFs(fs),
		WithByteOffset(int64(len(incorrectContentLength))+1))
	assert.ErrorIs(t, err, ErrOffsetOutOfRange)
}

func TestWarcFileReader_Missing(t *testing.T) {
	_, err := NewWarcFileReader(context.Background(), "missing.warc", WithReaderFs(afero.NewMemMapFs()))
	assert.Error(t, err)
}
