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
	"strings"
)

const (
	ApplicationWarcFields   = "application/warc-fields"
	ApplicationHttpRequest  = "application/http;msgtype=request"
	ApplicationHttpResponse = "application/http;msgtype=response"
	ApplicationOctetStream  = "application/octet-stream"
	TextDNS                 = "text/dns"
)

// ContentTypeIdentifier chooses the Content-Type of a fresh record that was created with a content block but
// without a content type. Identify is called when all header fields except Content-Type are set.
type ContentTypeIdentifier interface {
	Identify(record Record) string
}

// DefaultContentTypeIdentifier derives the content type from the record type and the target URI scheme:
//
//	warcinfo, metadata          application/warc-fields
//	request, response (http*)   application/http;msgtype=request|response
//	resource (dns)              text/dns
//	anything else               application/octet-stream
type DefaultContentTypeIdentifier struct{}

func (DefaultContentTypeIdentifier) Identify(record Record) string {
	switch record.Type() {
	case Warcinfo, Metadata:
		return ApplicationWarcFields
	case Request, Response:
		if strings.HasPrefix(targetURIScheme(record), "http") {
			return "application/http;msgtype=" + record.Type().String()
		}
	case Resource:
		if targetURIScheme(record) == "dns" {
			return TextDNS
		}
	}
	return ApplicationOctetStream
}

// targetURIScheme returns the lower-cased scheme of the record's target URI, or "" if it has none.
func targetURIScheme(record Record) string {
	t, ok := record.(interface{ TargetURI() string })
	if !ok {
		return ""
	}
	scheme, _, found := strings.Cut(t.TargetURI(), ":")
	if !found {
		return ""
	}
	return strings.ToLower(scheme)
}
