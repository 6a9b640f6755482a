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

package ls

import (
	"errors"
	"io"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/nlnwa/warcproto"
	"github.com/nlnwa/warcproto/cmd/warc/internal"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type conf struct {
	offset      int64
	recordCount int
	strict      bool
	fileName    string
	id          []string
}

func NewCommand() *cobra.Command {
	c := &conf{}
	var cmd = &cobra.Command{
		Use:   "ls <file>",
		Short: "List records from warc files",
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

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Offset", "Type", "Id", "Target"})

	count := 0
	for {
		rec, err := wf.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Render()
			return err
		}
		if len(c.id) > 0 && !internal.ContainsID(c.id, rec.ID()) {
			continue
		}
		count++
		t.AppendRow(table.Row{wf.Offset(), rec.Type(), rec.ID(), internal.TargetURI(rec)})

		if c.recordCount > 0 && count >= c.recordCount {
			break
		}
	}
	t.AppendFooter(table.Row{"", "", "Count", count})
	t.Render()
	return nil
}
