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

package recompress

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/nlnwa/warcproto"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type conf struct {
	fileNames []string
	output    string
	dir       string
	prefix    string
	compress  bool
	maxSize   int64
}

func NewCommand() *cobra.Command {
	c := &conf{}
	var cmd = &cobra.Command{
		Use:   "recompress <file>...",
		Short: "Rewrite warc files with one gzip member per record",
		Long: `Read the records of the given files and write them to new warc files. Compressed output has one gzip
member per record. Without --output the file names are generated from --prefix, a timestamp, a serial number
and the host name.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New("missing file name")
			}
			c.fileNames = args
			c.output = viper.GetString("recompress.output")
			c.dir = viper.GetString("recompress.dir")
			c.prefix = viper.GetString("recompress.prefix")
			c.compress = viper.GetBool("recompress.compress")
			c.maxSize = int64(viper.GetSizeInBytes("recompress.max-size"))
			if c.output != "" && len(c.fileNames) > 1 {
				return errors.New("--output can only be used with a single input file")
			}
			return runE(cmd.Context(), afero.NewOsFs(), c)
		},
	}

	cmd.Flags().StringP("output", "o", "", "output file name, compressed if it ends with .gz")
	cmd.Flags().StringP("dir", "d", ".", "directory for generated file names")
	cmd.Flags().StringP("prefix", "p", "", "prefix for generated file names")
	cmd.Flags().BoolP("compress", "z", true, "gzip generated files")
	cmd.Flags().StringP("max-size", "m", "1GB", "start a new generated file when this size is exceeded")
	for _, name := range []string{"output", "dir", "prefix", "compress", "max-size"} {
		if err := viper.BindPFlag("recompress."+name, cmd.Flags().Lookup(name)); err != nil {
			log.Fatalf("Failed to bind recompress flags: %v", err)
		}
	}

	return cmd
}

func runE(ctx context.Context, fs afero.Fs, c *conf) error {
	var out *rollingWriter
	if c.output != "" {
		w, err := warcproto.NewWarcFileWriter(c.output, warcproto.WithWriterFs(fs))
		if err != nil {
			return err
		}
		out = &rollingWriter{current: w}
	} else {
		out = &rollingWriter{
			fs:        fs,
			generator: &warcproto.PatternNameGenerator{Directory: c.dir, Prefix: c.prefix},
			compress:  c.compress,
			maxSize:   c.maxSize,
		}
	}

	for _, fileName := range c.fileNames {
		n, err := recompressFile(ctx, fs, fileName, out)
		if err != nil {
			_ = out.Close()
			return fmt.Errorf("%s: %w", fileName, err)
		}
		log.WithField("file", fileName).Infof("rewrote %d records", n)
	}
	return out.Close()
}

func recompressFile(ctx context.Context, fs afero.Fs, fileName string, out *rollingWriter) (int, error) {
	wf, err := warcproto.NewWarcFileReader(ctx, fileName, warcproto.WithReaderFs(fs))
	if err != nil {
		return 0, err
	}
	defer func() { _ = wf.Close() }()

	count := 0
	for {
		rec, err := wf.Next()
		if err == io.EOF {
			return count, nil
		}
		if err != nil {
			return count, err
		}
		if err := out.Write(rec); err != nil {
			return count, err
		}
		count++
	}
}

// rollingWriter writes to a fixed file, or to generated files that are closed when they exceed maxSize.
type rollingWriter struct {
	fs        afero.Fs
	generator warcproto.WarcFileNameGenerator
	compress  bool
	maxSize   int64
	current   *warcproto.WarcFileWriter
	names     []string
}

func (r *rollingWriter) Write(rec warcproto.Record) error {
	if r.current == nil {
		w, err := warcproto.NewGeneratedWarcFileWriter(r.generator, r.compress, warcproto.WithWriterFs(r.fs))
		if err != nil {
			return err
		}
		r.current = w
	}
	if err := r.current.Write(rec); err != nil {
		return err
	}
	if r.generator != nil && r.maxSize > 0 && r.current.Length() >= r.maxSize {
		return r.Close()
	}
	return nil
}

func (r *rollingWriter) Close() error {
	if r.current == nil {
		return nil
	}
	err := r.current.Close()
	r.names = append(r.names, r.current.Name())
	if r.generator != nil {
		r.current = nil
	}
	return err
}
