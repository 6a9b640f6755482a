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
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/nlnwa/warcproto/internal/timestamp"
)

const (
	declarationPrefix = "WARC/"
	maxPreallocBlock  = 4 * 1024 * 1024
)

// Reader decodes WARC records from a stream.
//
// Reader resynchronizes on the next record declaration after content it does not recognize. Whether a
// malformed record ends parsing depends on the ParseLog option, see ParseLog.
//
// A content block shorter than its Content-Length is always an error for that record. The block then
// consumes the start of the following record, which is usually reported as skipped content.
type Reader struct {
	ctx     context.Context
	lr      *LineReader
	closer  io.Closer
	opts    *readerOptions
	factory RecordFactory
	offset  int64
	err     error
}

// NewReader creates a Reader for r. The byte offset option is applied immediately, so an offset beyond the
// end of the stream is reported here.
//
// Parsing stops with ctx.Err() if ctx is done before a record is started.
func NewReader(ctx context.Context, r io.Reader, opts ...ReaderOption) (*Reader, error) {
	o := defaultReaderOptions()
	for _, opt := range opts {
		opt.apply(&o)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	factory := o.recordFactory
	if factory == nil {
		factory = NewRecordFactory()
	}

	src := r
	var closer io.Closer
	if o.compressed {
		d, err := o.compressionProvider.NewDecompressor(r)
		if err != nil {
			return nil, fmt.Errorf("warcproto: could not open compressed stream: %w", err)
		}
		src, closer = d, d
	}

	lr := NewLineReader(src, o.eol)
	if err := lr.Skip(o.offset); err != nil {
		if closer != nil {
			_ = closer.Close()
		}
		return nil, err
	}

	return &Reader{
		ctx:     ctx,
		lr:      lr,
		closer:  closer,
		opts:    &o,
		factory: factory,
	}, nil
}

// Next returns the next record. At the end of the stream Next returns io.EOF.
//
// Once Next has returned an error, it returns the same error on every following call.
func (r *Reader) Next() (Record, error) {
	for {
		if r.err != nil {
			return nil, r.err
		}
		if err := r.ctx.Err(); err != nil {
			r.err = err
			return nil, err
		}

		rec, err := r.parseRecord()
		if err == nil {
			if rec == nil {
				r.err = io.EOF
				return nil, io.EOF
			}
			return rec, nil
		}

		var re *RecordError
		if r.opts.parseLog != nil && errors.As(err, &re) {
			r.opts.parseLog.ErrorEncountered(err)
			continue
		}
		r.err = err
		return nil, err
	}
}

// Records returns an iterator over the remaining records. Iteration stops after the first error, which is
// yielded with a nil Record. io.EOF is not yielded.
func (r *Reader) Records() iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {
		for {
			rec, err := r.Next()
			if err == io.EOF {
				return
			}
			if !yield(rec, err) || err != nil {
				return
			}
		}
	}
}

// Offset returns the offset of the declaration line of the last record returned by Next. For compressed
// streams this is an offset in the decompressed stream.
func (r *Reader) Offset() int64 {
	return r.offset
}

// Close releases the decompressor, if any. The underlying stream is not closed.
func (r *Reader) Close() error {
	if r.closer != nil {
		return r.closer.Close()
	}
	return nil
}

// parseRecord returns nil, nil at a clean end of stream.
func (r *Reader) parseRecord() (Record, error) {
	line, found, err := r.resync()
	if err != nil || !found {
		return nil, err
	}
	offset := r.offset

	version, err := parseDeclaration(line, r.lr.LineNumber())
	if err != nil {
		return nil, &RecordError{Offset: offset, Err: err}
	}

	fields, err := ParseHeaderFields(r.lr)
	if err != nil {
		return nil, r.recordError(offset, fields, err)
	}

	rec, err := r.newRecord(version, fields)
	if err != nil {
		return nil, r.recordError(offset, fields, err)
	}

	block, err := r.readBlock(rec.ContentLength())
	if err != nil {
		return nil, r.recordError(offset, fields, err)
	}
	if err := rec.setContentBlock(block, true); err != nil {
		return nil, r.recordError(offset, fields, err)
	}
	return rec, nil
}

// resync reads lines until a record declaration. found is false at end of stream.
func (r *Reader) resync() (line string, found bool, err error) {
	skipped := &strings.Builder{}
	for {
		start := r.lr.Offset()
		line, ok, err := r.lr.ReadLine()
		if err != nil {
			return "", false, err
		}
		if !ok {
			r.reportSkipped(skipped.String())
			return "", false, nil
		}
		if len(line) >= len(declarationPrefix) && strings.EqualFold(line[:len(declarationPrefix)], declarationPrefix) {
			r.reportSkipped(skipped.String())
			r.offset = start
			return line, true, nil
		}
		skipped.WriteString(line)
		skipped.WriteString(crlf)
	}
}

// reportSkipped reports chunk unless it is empty or just the separator left by the previous record.
func (r *Reader) reportSkipped(chunk string) {
	if r.opts.parseLog == nil || chunk == "" || chunk == crlfcrlf {
		return
	}
	r.opts.parseLog.ChunkSkipped(chunk)
}

func (r *Reader) newRecord(version string, fields *HeaderFields) (Record, error) {
	for _, f := range mandatoryFields {
		if !fields.Has(f) {
			return nil, newHeaderFieldError(f, ErrMissingMandatoryField, "one of the mandatory header fields is missing")
		}
	}
	date, err := timestamp.Parse(fields.Get(fieldDate))
	if err != nil {
		return nil, newHeaderFieldErrorf(fieldDate, ErrInvalidFieldValue, "invalid date '%s'", fields.Get(fieldDate))
	}

	rec, err := r.factory.CreateRecord(version, fields.Get(fieldType), removeBrackets(fields.Get(fieldRecordID)), date)
	if err != nil {
		return nil, err
	}
	for _, nv := range *fields {
		if nv.Name == fieldType {
			continue
		}
		if err := rec.set(nv.Name, nv.Value); err != nil {
			return nil, err
		}
	}
	return rec, nil
}

func (r *Reader) readBlock(length int64) ([]byte, error) {
	if length == 0 {
		return nil, nil
	}
	buf := &bytes.Buffer{}
	if length <= maxPreallocBlock {
		buf.Grow(int(length))
	}
	n, err := io.CopyN(buf, r.lr, length)
	if n < length {
		if err == nil || err == io.EOF {
			return nil, newSyntaxError(fmt.Sprintf("content block is %d bytes shorter than expected length (%d), only %d bytes read: %s",
				length-n, length, n, decodeUTF8(buf.Bytes())), 0, ErrShortContentBlock)
		}
		return nil, err
	}
	return buf.Bytes(), nil
}

// recordError wraps structural errors in a RecordError. Other errors come from the underlying stream and are
// returned as is.
func (r *Reader) recordError(offset int64, fields *HeaderFields, err error) error {
	var se *SyntaxError
	var he *HeaderFieldError
	if errors.As(err, &se) || errors.As(err, &he) {
		return &RecordError{Offset: offset, Fields: fields, Err: err}
	}
	return err
}

func parseDeclaration(line string, lineNumber int) (string, error) {
	tokens := strings.Split(line, "/")
	if len(tokens) != 2 {
		return "", newSyntaxError("invalid record declaration: "+line, lineNumber, ErrInvalidDeclaration)
	}
	version := strings.TrimSpace(tokens[1])
	if !isSupportedVersion(version) {
		return "", newSyntaxError("unsupported format version: "+line, lineNumber, ErrUnsupportedVersion)
	}
	return version, nil
}
