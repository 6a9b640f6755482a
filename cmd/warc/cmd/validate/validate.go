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

package validate

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/nlnwa/warcproto/cmd/warc/internal"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

type conf struct {
	fileNames []string
	verbose   bool
}

func NewCommand() *cobra.Command {
	c := &conf{}
	var cmd = &cobra.Command{
		Use:   "validate <file>...",
		Short: "Check that warc files can be parsed",
		Long: `Parse every record in the given files and report content that had to be skipped, records
that could not be decoded and digests that do not match. The command fails if any file is invalid.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New("missing file name")
			}
			c.fileNames = args
			return runE(cmd, c)
		},
	}

	cmd.Flags().BoolVarP(&c.verbose, "verbose", "v", false, "print skipped content and every problem found")

	return cmd
}

func runE(cmd *cobra.Command, c *conf) error {
	fs := afero.NewOsFs()
	invalid := 0
	for _, fileName := range c.fileNames {
		report, err := internal.Validate(cmd.Context(), fs, fileName)
		if err != nil {
			invalid++
			_, _ = color.New(color.FgRed).Fprintf(cmd.OutOrStdout(), "%s: %v\n", fileName, err)
			continue
		}
		if !report.Valid() {
			invalid++
		}
		PrintReport(cmd.OutOrStdout(), report, c.verbose)
	}
	if invalid > 0 {
		return fmt.Errorf("%d of %d files are invalid", invalid, len(c.fileNames))
	}
	return nil
}

// PrintReport writes a one line summary of report, followed by the details if verbose is set.
func PrintReport(w io.Writer, report *internal.Report, verbose bool) {
	if report.Valid() {
		_, _ = fmt.Fprintf(w, "%s: %s, %d records\n", report.FileName, color.GreenString("valid"), report.Records)
		return
	}
	_, _ = fmt.Fprintf(w, "%s: %s, %d records, %d skipped chunks, %d errors, %d digest mismatches\n", report.FileName,
		color.RedString("invalid"), report.Records, len(report.Chunks), len(report.Errors), len(report.Digests))
	if !verbose {
		return
	}
	for _, chunk := range report.Chunks {
		_, _ = fmt.Fprintf(w, "  %s %q\n", color.YellowString("skipped:"), chunk)
	}
	for _, err := range report.Errors {
		_, _ = fmt.Fprintf(w, "  %s %v\n", color.RedString("error:"), err)
	}
	for _, err := range report.Digests {
		_, _ = fmt.Fprintf(w, "  %s %v\n", color.RedString("digest:"), err)
	}
}
