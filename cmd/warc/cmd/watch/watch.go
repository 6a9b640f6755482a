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

package watch

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/nlnwa/warcproto/cmd/warc/internal"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type conf struct {
	dirs       []string
	watchDepth int
	existing   bool
}

func NewCommand() *cobra.Command {
	c := &conf{}
	var cmd = &cobra.Command{
		Use:   "watch <dir>...",
		Short: "Validate warc files as they appear in directories",
		Long: `Watch directories for new warc files and validate each file when it is created or renamed into place.
Files still being written (with the .open suffix) are ignored until they are renamed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				viper.Set("watch.dir", args)
			}
			c.dirs = viper.GetStringSlice("watch.dir")
			c.watchDepth = viper.GetInt("watch.depth")
			c.existing = viper.GetBool("watch.existing")
			if len(c.dirs) == 0 {
				return errors.New("missing directory")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runE(ctx, c)
		},
	}

	cmd.Flags().StringSlice("dir", []string{"."}, "directories to watch")
	cmd.Flags().IntP("depth", "d", 4, "The maximum depth of subdirectories to watch")
	cmd.Flags().Bool("existing", false, "validate files already in the directories")
	for _, name := range []string{"dir", "depth", "existing"} {
		if err := viper.BindPFlag("watch."+name, cmd.Flags().Lookup(name)); err != nil {
			log.Fatalf("Failed to bind watch flags: %v", err)
		}
	}

	return cmd
}

func runE(ctx context.Context, c *conf) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	w := &dirWatcher{fs: afero.NewOsFs(), watcher: watcher, watchDepth: c.watchDepth}
	for _, dir := range c.dirs {
		if err := w.addDir(ctx, dir, 0, c.existing); err != nil {
			return err
		}
	}
	log.Infof("Watching %s", strings.Join(c.dirs, ", "))

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ctx, event)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.WithError(err).Error("watch error")
		}
	}
}

type dirWatcher struct {
	fs         afero.Fs
	watcher    *fsnotify.Watcher
	watchDepth int
	depth      map[string]int
}

// addDir adds path and its subdirectories down to watchDepth to the watcher.
func (w *dirWatcher) addDir(ctx context.Context, path string, currentDepth int, validateFiles bool) error {
	if w.watcher != nil {
		if err := w.watcher.Add(path); err != nil {
			return err
		}
	}
	if w.depth == nil {
		w.depth = map[string]int{}
	}
	w.depth[filepath.Clean(path)] = currentDepth

	files, err := afero.ReadDir(w.fs, path)
	if err != nil {
		return err
	}
	for _, file := range files {
		name := filepath.Join(path, file.Name())
		if file.IsDir() {
			if currentDepth < w.watchDepth {
				if err := w.addDir(ctx, name, currentDepth+1, validateFiles); err != nil {
					return err
				}
			}
		} else if validateFiles && isWarcFile(name) {
			w.validate(ctx, name)
		}
	}
	return nil
}

// handleEvent validates new warc files and starts watching new directories. It returns the report for a
// validated file, or nil if the event was not about a warc file.
func (w *dirWatcher) handleEvent(ctx context.Context, event fsnotify.Event) *internal.Report {
	if !event.Has(fsnotify.Create) {
		return nil
	}
	info, err := w.fs.Stat(event.Name)
	if err != nil {
		// Already renamed or removed.
		log.WithError(err).Debugf("ignoring %s", event.Name)
		return nil
	}
	if info.IsDir() {
		parentDepth, ok := w.depth[filepath.Dir(filepath.Clean(event.Name))]
		if ok && parentDepth < w.watchDepth {
			if err := w.addDir(ctx, event.Name, parentDepth+1, true); err != nil {
				log.WithError(err).Errorf("could not watch new directory '%s'", event.Name)
			}
		}
		return nil
	}
	if !isWarcFile(event.Name) {
		return nil
	}
	return w.validate(ctx, event.Name)
}

func (w *dirWatcher) validate(ctx context.Context, fileName string) *internal.Report {
	logger := log.WithField("file", fileName)
	report, err := internal.Validate(ctx, w.fs, fileName)
	if err != nil {
		logger.WithError(err).Error("could not read file")
		return nil
	}
	logger = logger.WithField("records", report.Records)
	if report.Valid() {
		logger.Info("valid")
		return report
	}
	for _, e := range report.Errors {
		logger.WithError(e).Warn("invalid record")
	}
	for _, e := range report.Digests {
		logger.WithError(e).Warn("digest mismatch")
	}
	logger.WithField("skipped", len(report.Chunks)).WithField("errors", len(report.Errors)).
		WithField("digests", len(report.Digests)).Warn("invalid")
	return report
}

func isWarcFile(name string) bool {
	name = strings.ToLower(filepath.Base(name))
	if strings.HasPrefix(name, ".") || strings.HasSuffix(name, "~") {
		return false
	}
	return strings.HasSuffix(name, ".warc") || strings.HasSuffix(name, ".warc.gz")
}
