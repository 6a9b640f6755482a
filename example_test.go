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

package warcproto_test

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nlnwa/warcproto"
)

func ExampleNewResourceRecord() {
	date := time.Date(2006, 1, 2, 15, 4, 5, 0, time.UTC)
	record, err := warcproto.NewResourceRecord(date, []byte("This is the content"), "text/plain", "",
		"http://www.example.com/", warcproto.WithRecordID("urn:uuid:e9a0cecc-0221-11e7-adb1-0242ac120008"))
	if err != nil {
		panic(err)
	}
	fmt.Print(record.Header())

	// Output: WARC/1.1
	// WARC-Type: resource
	// WARC-Record-ID: <urn:uuid:e9a0cecc-0221-11e7-adb1-0242ac120008>
	// WARC-Date: 2006-01-02T15:04:05Z
	// Content-Length: 19
	// Content-Type: text/plain
	// WARC-Block-Digest: sha1:C37FFB221569C553A2476C22C7DAD429F3492977
	// WARC-Payload-Digest: sha1:C37FFB221569C553A2476C22C7DAD429F3492977
	// WARC-Target-URI: http://www.example.com/
}

func ExampleNewReader() {
	data := "WARC/1.1\r\n" +
		"WARC-Date: 2017-03-06T04:03:53Z\r\n" +
		"WARC-Record-ID: <urn:uuid:e9a0cecc-0221-11e7-adb1-0242ac120008>\r\n" +
		"WARC-Filename: temp-20170306040353.warc.gz\r\n" +
		"WARC-Type: warcinfo\r\n" +
		"Content-Type: application/warc-fields\r\n" +
		"Content-Length: 30\r\n" +
		"\r\n" +
		"format: WARC File Format 1.1\r\n" +
		"\r\n\r\n"

	reader, err := warcproto.NewReader(context.Background(), strings.NewReader(data))
	if err != nil {
		panic(err)
	}
	for record, err := range reader.Records() {
		if err != nil {
			fmt.Println("Error reading record:", err)
			return
		}
		fmt.Println(record.Type(), record.ID(), record.Date().Format(time.RFC3339))
		if info, ok := record.(*warcproto.WarcinfoRecord); ok {
			fields, _ := info.Fields()
			fmt.Println(fields.Get("format"))
		}
	}

	// Output: warcinfo urn:uuid:e9a0cecc-0221-11e7-adb1-0242ac120008 2017-03-06T04:03:53Z
	// WARC File Format 1.1
}

func ExampleWithParseLog() {
	data := "some garbage\r\n" +
		"WARC/1.1\r\n" +
		"WARC-Type: resource\r\n" +
		"WARC-Record-ID: <urn:uuid:e9a0cecc-0221-11e7-adb1-0242ac120008>\r\n" +
		"Content-Length: 3\r\n" +
		"\r\n" +
		"abc\r\n\r\n"

	parseLog := &warcproto.CollectingParseLog{}
	reader, err := warcproto.NewReader(context.Background(), strings.NewReader(data), warcproto.WithParseLog(parseLog))
	if err != nil {
		panic(err)
	}
	for range reader.Records() {
	}
	fmt.Printf("skipped: %q\n", parseLog.Chunks[0])
	fmt.Println(len(parseLog.Errors), "invalid record")

	// Output: skipped: "some garbage\r\n"
	// 1 invalid record
}

func ExampleWriter_Write() {
	date := time.Date(2006, 1, 2, 15, 4, 5, 0, time.UTC)
	record, err := warcproto.NewMetadataRecord(date, "via: http://www.example.com/\r\n", "", "",
		warcproto.WithRecordID("urn:uuid:e9a0cecc-0221-11e7-adb1-0242ac120008"))
	if err != nil {
		panic(err)
	}

	buf := &bytes.Buffer{}
	n, err := warcproto.NewWriter(buf, true).Write(record)
	if err != nil {
		panic(err)
	}
	fmt.Println(n, "bytes written before compression")

	// Output: 290 bytes written before compression
}
