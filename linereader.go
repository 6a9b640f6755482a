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
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

const (
	lineReaderBufferSize = 64 * 1024
	skipChunkSize        = 1 << 20
)

// LineReader reads lines terminated by a configurable end-of-line sequence from an underlying stream.
//
// Bytes that are not consumed as lines can be read through the io.Reader interface. LineReader keeps track of
// the logical offset in the underlying stream, that is the number of bytes handed to the caller or skipped.
type LineReader struct {
	src        io.Reader
	r          *bufio.Reader
	eol        []byte
	line       []byte
	offset     int64
	lineNumber int
}

// NewLineReader returns a LineReader reading from r. If eol is empty, CRLF is used.
func NewLineReader(r io.Reader, eol []byte) *LineReader {
	if len(eol) == 0 {
		eol = []byte(crlf)
	}
	return &LineReader{
		src: r,
		r:   bufio.NewReaderSize(r, lineReaderBufferSize),
		eol: eol,
	}
}

// ReadLine returns the next line without its end-of-line sequence.
//
// ok is false when the stream is exhausted and no bytes were left. A partial line at end of stream is returned
// as if it was terminated.
func (l *LineReader) ReadLine() (line string, ok bool, err error) {
	l.line = l.line[:0]
	for {
		b, err := l.r.ReadByte()
		if err != nil {
			if err == io.EOF {
				if len(l.line) == 0 {
					return "", false, nil
				}
				l.lineNumber++
				return decodeUTF8(l.line), true, nil
			}
			return "", false, err
		}
		l.offset++
		l.line = append(l.line, b)
		if bytes.HasSuffix(l.line, l.eol) {
			l.lineNumber++
			return decodeUTF8(l.line[:len(l.line)-len(l.eol)]), true, nil
		}
	}
}

// Read implements io.Reader. It is used for reading content blocks.
func (l *LineReader) Read(p []byte) (int, error) {
	n, err := l.r.Read(p)
	l.offset += int64(n)
	return n, err
}

// Skip advances the reader n bytes.
//
// If the underlying stream can seek, Skip seeks. Otherwise the bytes are read and discarded. An io.Seeker that
// fails to report its position, like a pipe, is treated as not seekable.
// In both cases an error wrapping ErrOffsetOutOfRange is returned immediately if the stream is shorter than n.
func (l *LineReader) Skip(n int64) error {
	if n <= 0 {
		return nil
	}
	if s, ok := l.src.(io.Seeker); ok {
		if cur, err := s.Seek(0, io.SeekCurrent); err == nil {
			return l.seek(s, cur, n)
		}
	}

	remaining := n
	for remaining > 0 {
		chunk := remaining
		if chunk > skipChunkSize {
			chunk = skipChunkSize
		}
		d, err := l.r.Discard(int(chunk))
		l.offset += int64(d)
		remaining -= int64(d)
		if err == io.EOF {
			return offsetError(n, n-remaining)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (l *LineReader) seek(s io.Seeker, cur, n int64) error {
	pos := cur - int64(l.r.Buffered())
	end, err := s.Seek(0, io.SeekEnd)
	if err != nil {
		return err
	}
	if pos+n > end {
		if _, err := s.Seek(cur, io.SeekStart); err != nil {
			return err
		}
		return offsetError(n, end-pos)
	}
	if _, err := s.Seek(pos+n, io.SeekStart); err != nil {
		return err
	}
	l.r.Reset(l.src)
	l.offset += n
	return nil
}

func offsetError(offset, available int64) error {
	return fmt.Errorf("warcproto: cannot skip %d bytes, only %d available: %w", offset, available, ErrOffsetOutOfRange)
}

// Offset returns the number of bytes consumed from the start of the stream.
func (l *LineReader) Offset() int64 {
	return l.offset
}

// LineNumber returns the number of lines read so far.
func (l *LineReader) LineNumber() int {
	return l.lineNumber
}

// decodeUTF8 decodes p as UTF-8, replacing invalid sequences with U+FFFD.
func decodeUTF8(p []byte) string {
	if utf8.Valid(p) {
		return string(p)
	}
	s, err := unicode.UTF8.NewDecoder().Bytes(p)
	if err != nil {
		return string(p)
	}
	return string(s)
}
