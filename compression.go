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

	"github.com/klauspost/compress/gzip"
)

// CompressionProvider wraps streams in compressing and decompressing streams.
//
// A decompressor must continue transparently across gzip member boundaries, so that a file compressed as a
// whole and a file compressed record by record read the same.
type CompressionProvider interface {
	NewDecompressor(r io.Reader) (io.ReadCloser, error)
	NewCompressor(w io.Writer) (io.WriteCloser, error)
}

// GzipCompressionProvider is the default CompressionProvider. The zero value compresses with
// gzip.DefaultCompression.
type GzipCompressionProvider struct {
	level    int
	hasLevel bool
}

// NewGzipCompressionProvider returns a GzipCompressionProvider compressing with level, which is one of the
// gzip package's levels, including gzip.NoCompression.
func NewGzipCompressionProvider(level int) GzipCompressionProvider {
	return GzipCompressionProvider{level: level, hasLevel: true}
}

func (GzipCompressionProvider) NewDecompressor(r io.Reader) (io.ReadCloser, error) {
	z, err := gzip.NewReader(r)
	if err == io.EOF {
		return io.NopCloser(eofReader{}), nil
	}
	if err != nil {
		return nil, err
	}
	z.Multistream(true)
	return z, nil
}

func (p GzipCompressionProvider) NewCompressor(w io.Writer) (io.WriteCloser, error) {
	if !p.hasLevel {
		return gzip.NewWriterLevel(w, gzip.DefaultCompression)
	}
	return gzip.NewWriterLevel(w, p.level)
}

type eofReader struct{}

func (eofReader) Read([]byte) (int, error) {
	return 0, io.EOF
}
