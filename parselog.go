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
	"errors"

	log "github.com/sirupsen/logrus"
)

// ParseLog receives the problems a Reader recovers from.
//
// When a Reader has a ParseLog, structural errors in a record are reported to ErrorEncountered and parsing
// continues with the next record declaration. Without a ParseLog the first such error ends parsing.
type ParseLog interface {
	// ChunkSkipped is called with content that was discarded while searching for the next record.
	ChunkSkipped(chunk string)
	// ErrorEncountered is called with a record that could not be decoded. The error is a *RecordError.
	ErrorEncountered(err error)
}

// LogrusParseLog reports to a logrus logger.
type LogrusParseLog struct {
	logger log.FieldLogger
}

// NewLogrusParseLog returns a ParseLog writing to logger. If logger is nil, the standard logrus logger is used.
func NewLogrusParseLog(logger log.FieldLogger) *LogrusParseLog {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &LogrusParseLog{logger: logger}
}

func (l *LogrusParseLog) ChunkSkipped(chunk string) {
	l.logger.WithField("bytes", len(chunk)).Debugf("skipped content: %q", chunk)
}

func (l *LogrusParseLog) ErrorEncountered(err error) {
	entry := l.logger.WithError(err)
	var re *RecordError
	if errors.As(err, &re) {
		entry = entry.WithField("offset", re.Offset)
	}
	entry.Warn("skipped invalid record")
}

// CollectingParseLog stores everything reported to it.
type CollectingParseLog struct {
	Chunks []string
	Errors []error
}

func (c *CollectingParseLog) ChunkSkipped(chunk string) {
	c.Chunks = append(c.Chunks, chunk)
}

func (c *CollectingParseLog) ErrorEncountered(err error) {
	c.Errors = append(c.Errors, err)
}
