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
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nlnwa/warcproto/internal"
	"github.com/nlnwa/warcproto/internal/timestamp"
	"github.com/prometheus/tsdb/fileutil"
	"github.com/spf13/afero"
)

const compressedFileSuffix = ".gz"

// WarcFileNameGenerator is the interface that wraps the NewWarcfileName function.
type WarcFileNameGenerator interface {
	// NewWarcfileName returns a directory (might be the empty string for current directory) and a file name
	NewWarcfileName() (string, string)
}

// PatternNameGenerator implements the WarcFileNameGenerator.
type PatternNameGenerator struct {
	Directory string // Directory to store warcfiles. Defaults to the empty string
	Prefix    string // Prefix available to be used in pattern. Defaults to the empty string
	Serial    int32  // Serial number available for use in pattern. It is atomically increased with every generated file name.
	Pattern   string // Pattern for generated file name. Defaults to: "%{prefix}s%{ts}s-%04{serial}d-%{host}s.warc"
}

const defaultPattern = "%{prefix}s%{ts}s-%04{serial}d-%{host}s.warc"

// Allow overriding of time.Now for tests
var now = time.Now

func (g *PatternNameGenerator) NewWarcfileName() (string, string) {
	pattern := g.Pattern
	if pattern == "" {
		pattern = defaultPattern
	}
	params := map[string]any{
		"prefix": g.Prefix,
		"ts":     timestamp.UTC14(now()),
		"serial": atomic.AddInt32(&g.Serial, 1),
		"host":   internal.GetHostNameOrIP(),
	}
	return g.Directory, internal.Sprintt(pattern, params)
}

// IsCompressedName reports whether filename has the suffix of a gzip compressed WARC file.
func IsCompressedName(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), compressedFileSuffix)
}

// WarcFileReader reads records from a WARC file. Files with a .gz suffix are decompressed.
type WarcFileReader struct {
	file   afero.File
	reader *Reader
}

// NewWarcFileReader opens filename for reading. The file system defaults to the OS file system, see
// WithReaderFs.
func NewWarcFileReader(ctx context.Context, filename string, opts ...ReaderOption) (*WarcFileReader, error) {
	o := defaultReaderOptions()
	for _, opt := range opts {
		opt.apply(&o)
	}
	fs := o.fs
	if fs == nil {
		fs = afero.NewOsFs()
	}

	file, err := fs.Open(filename)
	if err != nil {
		return nil, err
	}
	if IsCompressedName(filename) {
		opts = append(opts, WithCompressed(true))
	}
	r, err := NewReader(ctx, file, opts...)
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return &WarcFileReader{file: file, reader: r}, nil
}

// Next returns the next record. See Reader.Next.
func (wf *WarcFileReader) Next() (Record, error) {
	return wf.reader.Next()
}

// Records returns an iterator over the remaining records. See Reader.Records.
func (wf *WarcFileReader) Records() iter.Seq2[Record, error] {
	return wf.reader.Records()
}

// Offset returns the offset of the last record returned by Next.
func (wf *WarcFileReader) Offset() int64 {
	return wf.reader.Offset()
}

// Close closes the WarcFileReader.
func (wf *WarcFileReader) Close() error {
	rerr := wf.reader.Close()
	if err := wf.file.Close(); err != nil {
		return err
	}
	return rerr
}

// WarcFileWriter writes records to a WARC file.
//
// While open, the file carries an extra suffix (".open" by default) which is removed by Close.
// Records are compressed one by one if the file name ends in .gz, unless overridden by WithCompression.
type WarcFileWriter struct {
	fs       afero.Fs
	name     string
	openName string
	file     afero.File
	writer   *Writer
	length   int64
	lock     sync.Mutex
}

// NewWarcFileWriter creates filename with the open file suffix. It fails if the file already exists.
func NewWarcFileWriter(filename string, opts ...WriterOption) (*WarcFileWriter, error) {
	o := defaultWriterOptions()
	for _, opt := range opts {
		opt.apply(&o)
	}
	fs := o.fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	compress := IsCompressedName(filename)
	if o.compress != nil {
		compress = *o.compress
	}

	openName := filename + o.openFileSuffix
	file, err := fs.OpenFile(openName, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0666)
	if err != nil {
		return nil, err
	}
	return &WarcFileWriter{
		fs:       fs,
		name:     filename,
		openName: openName,
		file:     file,
		writer:   NewWriter(file, compress, WithWriterCompressionProvider(o.compressionProvider)),
	}, nil
}

// NewGeneratedWarcFileWriter creates a WarcFileWriter for a file named by g. The .gz suffix is added when
// compress is true.
func NewGeneratedWarcFileWriter(g WarcFileNameGenerator, compress bool, opts ...WriterOption) (*WarcFileWriter, error) {
	dir, name := g.NewWarcfileName()
	if compress {
		name += compressedFileSuffix
	}
	opts = append(opts, WithCompression(compress))
	return NewWarcFileWriter(filepath.Join(dir, name), opts...)
}

// Write writes records to the file.
func (w *WarcFileWriter) Write(records ...Record) error {
	w.lock.Lock()
	defer w.lock.Unlock()
	if w.file == nil {
		return fmt.Errorf("warcproto: write to closed file %s", w.name)
	}
	for _, r := range records {
		n, err := w.writer.Write(r)
		w.length += n
		if err != nil {
			return fmt.Errorf("failed writing record %s to %s: %w", r.ID(), w.name, err)
		}
	}
	return nil
}

// Length returns the number of uncompressed bytes written.
func (w *WarcFileWriter) Length() int64 {
	w.lock.Lock()
	defer w.lock.Unlock()
	return w.length
}

// Name returns the final name of the file.
func (w *WarcFileWriter) Name() string {
	return w.name
}

// Close closes the file and removes the open file suffix. Calling Close more than once is a no-op.
func (w *WarcFileWriter) Close() error {
	w.lock.Lock()
	defer w.lock.Unlock()
	if w.file == nil {
		return nil
	}
	f := w.file
	w.file = nil
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close file: %s: %w", w.openName, err)
	}
	if err := w.rename(); err != nil {
		return fmt.Errorf("failed to rename file: %s: %w", w.openName, err)
	}
	return nil
}

func (w *WarcFileWriter) rename() error {
	if w.openName == w.name {
		return nil
	}
	if _, ok := w.fs.(*afero.OsFs); ok {
		return fileutil.Rename(w.openName, w.name)
	}
	return w.fs.Rename(w.openName, w.name)
}
