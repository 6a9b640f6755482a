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

// Package timestamp converts between time.Time and the date formats used in WARC headers and indexes.
package timestamp

import (
	"fmt"
	"time"
)

const (
	w3cIso8601 = "2006-01-02T15:04:05Z"
	digits14   = "20060102150405"
)

// Layouts accepted by Parse besides RFC 3339 with optional fractional seconds.
var fallbackLayouts = []string{
	"2006-01-02T15:04Z",
	"2006-01-02T15Z",
	"2006-01-02",
	"2006-01",
	"2006",
}

// Parse parses a WARC-Date or WARC-Refers-To-Date value. The result is in UTC.
func Parse(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("timestamp: cannot parse '%s' as a W3C-ISO8601 date", s)
}

// Format formats t as a W3C-ISO8601 date with second precision in UTC.
func Format(t time.Time) string {
	return t.UTC().Format(w3cIso8601)
}

// UTC14 formats t in the fourteen digit form used in generated file names.
func UTC14(t time.Time) string {
	return t.UTC().Format(digits14)
}
