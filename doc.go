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

/*
Package warcproto reads and writes WARC records.

# WARC

The WARC format offers a standard way to structure, manage and store billions of resources collected from the web and elsewhere.
Versions 1.0 and 1.1 are supported.

To learn more about the WARC standard, read the specification at https://iipc.github.io/warc-specifications/specifications/warc-format/warc-1.1/

# Records

A [Record] is one of eight types, each with its own constructor, for example [NewResponseRecord] or [NewWarcinfoRecord].
Constructors generate a record id and compute Content-Length, WARC-Block-Digest and, where it applies, WARC-Payload-Digest.
Records are immutable once constructed.

# Reading

The [Reader] parses records from a stream, optionally gzip compressed. It is initialized with [NewReader].
Content that is not part of a record is skipped until the next "WARC/" declaration. With a [ParseLog], skipped content and
malformed records are reported and parsing continues. Without one the first malformed record ends parsing.

The [WarcFileReader] reads WARC files. It is initialized with [NewWarcFileReader].

# Writing

The [Writer] serializes records, compressing each record as a separate gzip member if asked to. The [WarcFileWriter] writes WARC
files and is initialized with [NewWarcFileWriter].
*/
package warcproto
