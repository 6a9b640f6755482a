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
	"io"
)

// Writer encodes records to a stream.
type Writer struct {
	w        io.Writer
	compress bool
	opts     *writerOptions
}

// NewWriter creates a Writer for w. If compress is true, each record is written as a separate gzip member.
func NewWriter(w io.Writer, compress bool, opts ...WriterOption) *Writer {
	o := defaultWriterOptions()
	for _, opt := range opts {
		opt.apply(&o)
	}
	return &Writer{w: w, compress: compress, opts: &o}
}

// Write writes the declaration, header, content block and the record separator of record.
// It returns the number of uncompressed bytes written.
func (w *Writer) Write(record Record) (bytesWritten int64, err error) {
	out := w.w
	if w.compress {
		gz, gzErr := w.opts.compressionProvider.NewCompressor(w.w)
		if gzErr != nil {
			return 0, gzErr
		}
		defer func() {
			if cerr := gz.Close(); err == nil {
				err = cerr
			}
		}()
		out = gz
	}

	write := func(p []byte) error {
		n, err := out.Write(p)
		bytesWritten += int64(n)
		return err
	}
	if err = write([]byte(record.Header())); err != nil {
		return
	}
	if err = write([]byte(crlf)); err != nil {
		return
	}
	if block := record.BlockBytes(); len(block) > 0 {
		if err = write(block); err != nil {
			return
		}
	}
	err = write([]byte(crlfcrlf))
	return
}
