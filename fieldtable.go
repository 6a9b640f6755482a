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
	"net/netip"
	"strconv"
	"strings"
	"time"

	"github.com/elliotchance/orderedmap/v3"
	"github.com/nlnwa/warcproto/internal/timestamp"
	"github.com/nlnwa/whatwg-url/url"
)

// Header field names as rendered
const (
	ContentLength             = "Content-Length"
	ContentType               = "Content-Type"
	WarcBlockDigest           = "WARC-Block-Digest"
	WarcConcurrentTo          = "WARC-Concurrent-To"
	WarcDate                  = "WARC-Date"
	WarcFilename              = "WARC-Filename"
	WarcIdentifiedPayloadType = "WARC-Identified-Payload-Type"
	WarcIPAddress             = "WARC-IP-Address"
	WarcPayloadDigest         = "WARC-Payload-Digest"
	WarcProfile               = "WARC-Profile"
	WarcRecordID              = "WARC-Record-ID"
	WarcRefersTo              = "WARC-Refers-To"
	WarcRefersToDate          = "WARC-Refers-To-Date"
	WarcRefersToTargetURI     = "WARC-Refers-To-Target-URI"
	WarcSegmentNumber         = "WARC-Segment-Number"
	WarcSegmentOriginID       = "WARC-Segment-Origin-ID"
	WarcSegmentTotalLength    = "WARC-Segment-Total-Length"
	WarcTargetURI             = "WARC-Target-URI"
	WarcTruncated             = "WARC-Truncated"
	WarcType                  = "WARC-Type"
	WarcWarcinfoID            = "WARC-Warcinfo-ID"
)

// Lower-cased field names as produced by the header parser
var (
	fieldContentLength = strings.ToLower(ContentLength)
	fieldConcurrentTo  = strings.ToLower(WarcConcurrentTo)
	fieldDate          = strings.ToLower(WarcDate)
	fieldRecordID      = strings.ToLower(WarcRecordID)
	fieldType          = strings.ToLower(WarcType)
)

// mandatoryFields must be present in every parsed header.
var mandatoryFields = []string{fieldType, fieldRecordID, fieldDate, fieldContentLength}

func lowerAll(names ...string) []string {
	r := make([]string, len(names))
	for i, n := range names {
		r[i] = strings.ToLower(n)
	}
	return r
}

type fieldDef struct {
	name   string
	set    func(value string) error
	render func() []string
}

// fieldTable maps a lower-cased field name to its definition.
type fieldTable map[string]fieldDef

func newFieldTable(groups ...[]fieldDef) fieldTable {
	t := fieldTable{}
	for _, g := range groups {
		for _, d := range g {
			t[strings.ToLower(d.name)] = d
		}
	}
	return t
}

// set dispatches value to the field's setter. Fields unknown to the table are dropped.
func (t fieldTable) set(field, value string) error {
	d, ok := t[strings.ToLower(field)]
	if !ok || d.set == nil {
		return nil
	}
	return d.set(value)
}

func (t fieldTable) line(field string) (string, bool) {
	d, ok := t[strings.ToLower(field)]
	if !ok {
		return "", false
	}
	values := d.render()
	if len(values) == 0 {
		return "", false
	}
	sb := &strings.Builder{}
	for _, v := range values {
		sb.WriteString(d.name)
		sb.WriteString(": ")
		sb.WriteString(v)
		sb.WriteString(crlf)
	}
	return sb.String(), true
}

func ignoreValue(string) error { return nil }

func single(v string) []string {
	if v == "" {
		return nil
	}
	return []string{v}
}

func stringSetter(p *string) func(string) error {
	return func(v string) error {
		*p = v
		return nil
	}
}

func idSetter(name string, p *string) func(string) error {
	return func(v string) error {
		id, err := parseID(name, v)
		if err != nil {
			return err
		}
		*p = id
		return nil
	}
}

// parseID removes the angle brackets from a record id and checks that the rest is an absolute URI.
func parseID(name, v string) (string, error) {
	id := removeBrackets(v)
	if _, err := url.Parse(id); err != nil {
		return "", newHeaderFieldErrorf(strings.ToLower(name), ErrInvalidFieldValue, "invalid record id '%s': %v", v, err)
	}
	return id, nil
}

func idRender(p *string) func() []string {
	return func() []string { return single(addBrackets(*p)) }
}

func uriSetter(name string, p *string) func(string) error {
	return func(v string) error {
		v = removeBrackets(v)
		if _, err := url.Parse(v); err != nil {
			return newHeaderFieldErrorf(strings.ToLower(name), ErrInvalidFieldValue, "invalid uri '%s': %v", v, err)
		}
		*p = v
		return nil
	}
}

func dateSetter(name string, p *time.Time) func(string) error {
	return func(v string) error {
		t, err := timestamp.Parse(v)
		if err != nil {
			return newHeaderFieldErrorf(strings.ToLower(name), ErrInvalidFieldValue, "invalid date '%s'", v)
		}
		*p = t
		return nil
	}
}

func int64Setter(name string, p *int64) func(string) error {
	return func(v string) error {
		i, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil || i < 0 {
			return newHeaderFieldErrorf(strings.ToLower(name), ErrInvalidFieldValue, "invalid number '%s'", v)
		}
		*p = i
		return nil
	}
}

func ipSetter(p *netip.Addr) func(string) error {
	return func(v string) error {
		ip, err := netip.ParseAddr(strings.TrimSpace(v))
		if err != nil {
			return newHeaderFieldErrorf(strings.ToLower(WarcIPAddress), ErrInvalidFieldValue, "invalid ip address '%s'", v)
		}
		*p = ip
		return nil
	}
}

func ipRender(p *netip.Addr) func() []string {
	return func() []string {
		if !p.IsValid() {
			return nil
		}
		return []string{p.String()}
	}
}

// concurrentTo is the ordered set of WARC-Concurrent-To record ids.
type concurrentTo struct {
	ids *orderedmap.OrderedMap[string, struct{}]
}

func newConcurrentTo(ids ...string) concurrentTo {
	c := concurrentTo{ids: orderedmap.NewOrderedMap[string, struct{}]()}
	for _, id := range ids {
		c.add(id)
	}
	return c
}

func (c concurrentTo) add(id string) {
	id = removeBrackets(id)
	if id != "" {
		c.ids.Set(id, struct{}{})
	}
}

func (c concurrentTo) values() []string {
	r := make([]string, 0, c.ids.Len())
	for el := c.ids.Front(); el != nil; el = el.Next() {
		r = append(r, el.Key)
	}
	return r
}

func (c concurrentTo) def() fieldDef {
	return fieldDef{
		name: WarcConcurrentTo,
		set: func(v string) error {
			id, err := parseID(WarcConcurrentTo, v)
			if err != nil {
				return err
			}
			c.add(id)
			return nil
		},
		render: func() []string {
			var r []string
			for _, id := range c.values() {
				r = append(r, addBrackets(id))
			}
			return r
		},
	}
}

func removeBrackets(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '<' && s[len(s)-1] == '>' {
		return s[1 : len(s)-1]
	}
	return s
}

func addBrackets(s string) string {
	if s == "" {
		return ""
	}
	return "<" + s + ">"
}

// renderURI renders a URI valued field. WARC/1.0 encloses URIs in angle brackets, WARC/1.1 renders them
// bare and percent-encoded.
func renderURI(version, uri string) string {
	if uri == "" {
		return ""
	}
	if version == V1_0 {
		return addBrackets(uri)
	}
	return normalizeURI(uri)
}

func normalizeURI(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return uri
	}
	return u.String()
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return timestamp.Format(t)
}

func formatInt64(i int64) string {
	return strconv.FormatInt(i, 10)
}

func formatOptionalInt(i int64) []string {
	if i <= 0 {
		return nil
	}
	return []string{strconv.FormatInt(i, 10)}
}

func stringRender(p *string) func() []string {
	return func() []string { return single(*p) }
}

func stringDef(name string, p *string) fieldDef {
	return fieldDef{name: name, set: stringSetter(p), render: stringRender(p)}
}

func idDef(name string, p *string) fieldDef {
	return fieldDef{name: name, set: idSetter(name, p), render: idRender(p)}
}

func countDef(name string, p *int64) fieldDef {
	return fieldDef{name: name, set: int64Setter(name, p), render: func() []string { return formatOptionalInt(*p) }}
}

func dateDef(name string, p *time.Time) fieldDef {
	return fieldDef{name: name, set: dateSetter(name, p), render: func() []string { return single(formatDate(*p)) }}
}

func ipDef(p *netip.Addr) fieldDef {
	return fieldDef{name: WarcIPAddress, set: ipSetter(p), render: ipRender(p)}
}

// uriDef defines a URI field rendered according to the version of r.
func (r *baseRecord) uriDef(name string, p *string) fieldDef {
	return fieldDef{name: name, set: uriSetter(name, p), render: func() []string { return single(renderURI(r.version, *p)) }}
}

// identifiedPayloadTypeDef is never set from a parsed header. The value is owned by the payload type identifier.
func identifiedPayloadTypeDef(p *string) fieldDef {
	return fieldDef{name: WarcIdentifiedPayloadType, set: ignoreValue, render: stringRender(p)}
}
