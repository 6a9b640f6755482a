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

package cat

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/nlnwa/warcproto"
	"github.com/nlnwa/warcproto/cmd/warc/internal"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type conf struct {
	offset      int64
	recordCount int
	headerOnly  bool
	strict      bool
	fileName    string
	id          []string
}

var (
	declarationColor = color.New(color.FgYellow, color.Bold)
	nameColor        = color.New(color.FgCyan)
	separatorColor   = color.New(color.FgHiBlack)
)

func NewCommand() *cobra.Command {
	c := &conf{}
	var cmd = &cobra.Command{
		Use:   "cat <file>",
		Short: "Print header and content block of warc records",
		Long:  ``,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New("missing file name")
			}
			c.fileName = args[0]
			if c.offset >= 0 && c.recordCount == 0 {
				c.recordCount = 1
			}
			if c.offset < 0 {
				c.offset = 0
			}
			sort.Strings(c.id)
			return runE(cmd, c)
		},
	}

	cmd.Flags().Int64VarP(&c.offset, "offset", "o", -1, "record offset")
	cmd.Flags().IntVarP(&c.recordCount, "record-count", "c", 0, "The maximum number of records to show")
	cmd.Flags().BoolVar(&c.headerOnly, "header", false, "show header only")
	cmd.Flags().BoolVarP(&c.strict, "strict", "s", false, "stop at the first malformed record")
	cmd.Flags().StringArrayVar(&c.id, "id", []string{}, "only show records with this id")

	return cmd
}

func runE(cmd *cobra.Command, c *conf) error {
	opts := []warcproto.ReaderOption{warcproto.WithByteOffset(c.offset)}
	if !c.strict {
		opts = append(opts, warcproto.WithParseLog(warcproto.NewLogrusParseLog(log.StandardLogger())))
	}
	wf, err := warcproto.NewWarcFileReader(cmd.Context(), c.fileName, opts...)
	if err != nil {
		return err
	}
	defer func() { _ = wf.Close() }()

	out := cmd.OutOrStdout()
	count := 0
	for {
		rec, err := wf.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if len(c.id) > 0 && !internal.ContainsID(c.id, rec.ID()) {
			continue
		}
		count++
		printRecord(out, wf.Offset(), rec, c.headerOnly)

		if c.recordCount > 0 && count >= c.recordCount {
			return nil
		}
	}
}

func printRecord(w io.Writer, offset int64, rec warcproto.Record, headerOnly bool) {
	_, _ = separatorColor.Fprintf(w, "### offset %d\n", offset)
	_, _ = declarationColor.Fprintf(w, "WARC/%s\n", rec.Version())
	for _, f := range rec.OrderedFields() {
		line, ok := rec.HeaderLine(f)
		if !ok {
			continue
		}
		for _, l := range strings.Split(strings.TrimSuffix(line, "\r\n"), "\r\n") {
			name, value, _ := strings.Cut(l, ":")
			_, _ = fmt.Fprintf(w, "%s:%s\n", nameColor.Sprint(name), value)
		}
	}
	if headerOnly {
		return
	}
	_, _ = fmt.Fprintln(w)
	if b := rec.BlockBytes(); len(b) > 0 {
		_, _ = w.Write(b)
		_, _ = fmt.Fprintln(w)
	}
}
