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
	"time"

	"github.com/spf13/afero"
)

type recordOptions struct {
	version               string
	recordID              string
	digestProvider        DigestProvider
	digestAlgorithm       string
	payloadTypeIdentifier PayloadTypeIdentifier
	contentTypeIdentifier ContentTypeIdentifier
	truncatedReason       string
	payloadDigest         string
	identifiedPayloadType string
	ipAddress             string
	concurrentTo          []string
	refersTo              string
	refersToDate          time.Time
	refersToTargetURI     string
	targetURI             string
	filename              string
	segmented             bool
	segmentTotalLength    int64
}

// RecordOption configures creation of WARC records.
type RecordOption interface {
	apply(*recordOptions)
}

// funcRecordOption wraps a function that modifies recordOptions into an
// implementation of the RecordOption interface.
type funcRecordOption struct {
	f func(*recordOptions)
}

func (fo *funcRecordOption) apply(po *recordOptions) {
	fo.f(po)
}

func newFuncRecordOption(f func(*recordOptions)) *funcRecordOption {
	return &funcRecordOption{
		f: f,
	}
}

func defaultRecordOptions() recordOptions {
	return recordOptions{
		version:               V1_1,
		digestProvider:        DefaultDigestProvider{},
		digestAlgorithm:       DefaultDigestAlgorithm,
		payloadTypeIdentifier: NewPayloadTypeIdentifier(nil),
		contentTypeIdentifier: DefaultContentTypeIdentifier{},
	}
}

func newRecordOptions(opts ...RecordOption) *recordOptions {
	o := defaultRecordOptions()
	for _, opt := range opts {
		opt.apply(&o)
	}
	return &o
}

// WithVersion sets the WARC version of created records. Defaults to 1.1.
func WithVersion(version string) RecordOption {
	return newFuncRecordOption(func(o *recordOptions) {
		o.version = version
	})
}

// WithRecordID sets the record id. Defaults to a generated urn:uuid.
func WithRecordID(id string) RecordOption {
	return newFuncRecordOption(func(o *recordOptions) {
		o.recordID = id
	})
}

// WithDigestProvider sets the provider used for block and payload digests.
func WithDigestProvider(p DigestProvider) RecordOption {
	return newFuncRecordOption(func(o *recordOptions) {
		o.digestProvider = p
	})
}

// WithDigestAlgorithm sets the algorithm used for block and payload digests. Defaults to sha1.
func WithDigestAlgorithm(algorithm string) RecordOption {
	return newFuncRecordOption(func(o *recordOptions) {
		o.digestAlgorithm = algorithm
	})
}

// WithPayloadTypeIdentifier sets the identifier used to split and classify payloads.
func WithPayloadTypeIdentifier(p PayloadTypeIdentifier) RecordOption {
	return newFuncRecordOption(func(o *recordOptions) {
		o.payloadTypeIdentifier = p
	})
}

// WithContentTypeIdentifier sets the identifier choosing the Content-Type of records created without one.
// Defaults to DefaultContentTypeIdentifier.
func WithContentTypeIdentifier(c ContentTypeIdentifier) RecordOption {
	return newFuncRecordOption(func(o *recordOptions) {
		o.contentTypeIdentifier = c
	})
}

// WithTruncatedReason sets the WARC-Truncated field.
func WithTruncatedReason(reason string) RecordOption {
	return newFuncRecordOption(func(o *recordOptions) {
		o.truncatedReason = reason
	})
}

// WithPayloadDigest sets the WARC-Payload-Digest instead of computing it.
func WithPayloadDigest(digest string) RecordOption {
	return newFuncRecordOption(func(o *recordOptions) {
		o.payloadDigest = digest
	})
}

// WithIdentifiedPayloadType is used when the payload type identifier cannot classify the payload.
func WithIdentifiedPayloadType(mediaType string) RecordOption {
	return newFuncRecordOption(func(o *recordOptions) {
		o.identifiedPayloadType = mediaType
	})
}

// WithIPAddress sets the WARC-IP-Address field.
func WithIPAddress(ip string) RecordOption {
	return newFuncRecordOption(func(o *recordOptions) {
		o.ipAddress = ip
	})
}

// WithConcurrentTo adds record ids to the WARC-Concurrent-To field.
func WithConcurrentTo(ids ...string) RecordOption {
	return newFuncRecordOption(func(o *recordOptions) {
		o.concurrentTo = append(o.concurrentTo, ids...)
	})
}

// WithRefersTo sets the WARC-Refers-To field.
func WithRefersTo(id string) RecordOption {
	return newFuncRecordOption(func(o *recordOptions) {
		o.refersTo = id
	})
}

// WithRefersToDate sets the WARC-Refers-To-Date field.
func WithRefersToDate(date time.Time) RecordOption {
	return newFuncRecordOption(func(o *recordOptions) {
		o.refersToDate = date
	})
}

// WithRefersToTargetURI sets the WARC-Refers-To-Target-URI field.
func WithRefersToTargetURI(uri string) RecordOption {
	return newFuncRecordOption(func(o *recordOptions) {
		o.refersToTargetURI = uri
	})
}

// WithTargetURI sets the WARC-Target-URI field on record types where it is optional.
func WithTargetURI(uri string) RecordOption {
	return newFuncRecordOption(func(o *recordOptions) {
		o.targetURI = uri
	})
}

// WithFilename sets the WARC-Filename field of warcinfo records.
func WithFilename(name string) RecordOption {
	return newFuncRecordOption(func(o *recordOptions) {
		o.filename = name
	})
}

// WithSegmented marks a record as the first segment of a segmented payload.
func WithSegmented() RecordOption {
	return newFuncRecordOption(func(o *recordOptions) {
		o.segmented = true
	})
}

// WithSegmentTotalLength sets the WARC-Segment-Total-Length of the last continuation record.
func WithSegmentTotalLength(length int64) RecordOption {
	return newFuncRecordOption(func(o *recordOptions) {
		o.segmentTotalLength = length
	})
}

type readerOptions struct {
	compressed          bool
	offset              int64
	parseLog            ParseLog
	recordFactory       RecordFactory
	compressionProvider CompressionProvider
	eol                 []byte
	fs                  afero.Fs
}

// ReaderOption configures parsing of WARC streams and files.
type ReaderOption interface {
	apply(*readerOptions)
}

type funcReaderOption struct {
	f func(*readerOptions)
}

func (fo *funcReaderOption) apply(po *readerOptions) {
	fo.f(po)
}

func newFuncReaderOption(f func(*readerOptions)) *funcReaderOption {
	return &funcReaderOption{
		f: f,
	}
}

func defaultReaderOptions() readerOptions {
	return readerOptions{
		compressionProvider: GzipCompressionProvider{},
		eol:                 []byte(crlf),
	}
}

// WithCompressed tells the reader that the stream is gzip compressed, either as a whole or per record.
// File readers detect this from the file name.
func WithCompressed(compressed bool) ReaderOption {
	return newFuncReaderOption(func(o *readerOptions) {
		o.compressed = compressed
	})
}

// WithByteOffset skips offset bytes of the (decompressed) stream before looking for the first record.
func WithByteOffset(offset int64) ReaderOption {
	return newFuncReaderOption(func(o *readerOptions) {
		o.offset = offset
	})
}

// WithParseLog makes structural errors recoverable. Errors and skipped content are reported to l and parsing
// continues with the next record.
func WithParseLog(l ParseLog) ReaderOption {
	return newFuncReaderOption(func(o *readerOptions) {
		o.parseLog = l
	})
}

// WithRecordFactory sets the factory used to instantiate parsed records.
func WithRecordFactory(f RecordFactory) ReaderOption {
	return newFuncReaderOption(func(o *readerOptions) {
		o.recordFactory = f
	})
}

// WithCompressionProvider sets the provider used to decompress compressed streams.
func WithCompressionProvider(p CompressionProvider) ReaderOption {
	return newFuncReaderOption(func(o *readerOptions) {
		o.compressionProvider = p
	})
}

// WithEndOfLine sets the end of line sequence used for the declaration and header lines. Defaults to CRLF.
func WithEndOfLine(eol []byte) ReaderOption {
	return newFuncReaderOption(func(o *readerOptions) {
		o.eol = eol
	})
}

// WithReaderFs sets the file system used by WarcFileReader. Defaults to the OS file system.
func WithReaderFs(fs afero.Fs) ReaderOption {
	return newFuncReaderOption(func(o *readerOptions) {
		o.fs = fs
	})
}

type writerOptions struct {
	compress            *bool
	compressionProvider CompressionProvider
	openFileSuffix      string
	fs                  afero.Fs
}

// WriterOption configures writing of WARC streams and files.
type WriterOption interface {
	apply(*writerOptions)
}

type funcWriterOption struct {
	f func(*writerOptions)
}

func (fo *funcWriterOption) apply(po *writerOptions) {
	fo.f(po)
}

func newFuncWriterOption(f func(*writerOptions)) *funcWriterOption {
	return &funcWriterOption{
		f: f,
	}
}

func defaultWriterOptions() writerOptions {
	return writerOptions{
		compressionProvider: GzipCompressionProvider{},
		openFileSuffix:      ".open",
	}
}

// WithCompression forces per record compression on or off for WarcFileWriter, overriding detection by
// file name.
func WithCompression(compress bool) WriterOption {
	return newFuncWriterOption(func(o *writerOptions) {
		o.compress = &compress
	})
}

// WithWriterCompressionProvider sets the provider used to compress records.
func WithWriterCompressionProvider(p CompressionProvider) WriterOption {
	return newFuncWriterOption(func(o *writerOptions) {
		o.compressionProvider = p
	})
}

// WithOpenFileSuffix sets the suffix added to the file name while WarcFileWriter is writing to it.
// An empty suffix writes directly to the final name.
func WithOpenFileSuffix(suffix string) WriterOption {
	return newFuncWriterOption(func(o *writerOptions) {
		o.openFileSuffix = suffix
	})
}

// WithWriterFs sets the file system used by WarcFileWriter. Defaults to the OS file system.
func WithWriterFs(fs afero.Fs) WriterOption {
	return newFuncWriterOption(func(o *writerOptions) {
		o.fs = fs
	})
}
