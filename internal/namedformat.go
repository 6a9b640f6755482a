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

package internal

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Sprintt is like fmt.Sprintf, but takes named verbs like %{name}s with the arguments from params.
// Parameters not referenced by format are ignored.
//
//	internal.Sprintt("%{prefix}s-%04{serial}d.warc", map[string]any{"prefix": "crawl", "serial": 7})
//
// returns "crawl-0007.warc".
func Sprintt(format string, params map[string]any) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var args []any
	for _, key := range keys {
		ref := "{" + key + "}"
		if !strings.Contains(format, ref) {
			continue
		}
		args = append(args, params[key])
		format = strings.ReplaceAll(format, ref, "["+strconv.Itoa(len(args))+"]")
	}
	return fmt.Sprintf(format, args...)
}
