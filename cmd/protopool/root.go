// Copyright 2020-2025 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/protopool/protopool"
	"github.com/protopool/protopool/descriptor"
	"github.com/protopool/protopool/reporter"
)

var errProblems = errors.New("problems were reported")

// rootCommand keeps what the subcommands share.
type rootCommand struct {
	fs     afero.Fs
	stdout io.Writer
	stderr io.Writer
	logger *logrus.Logger
	conf   config
	cmd    *cobra.Command
}

func newRootCommand(fsys afero.Fs, stdout, stderr io.Writer) *rootCommand {
	c := &rootCommand{
		fs:     fsys,
		stdout: stdout,
		stderr: stderr,
		logger: &logrus.Logger{
			Out:       stderr,
			Formatter: new(logrus.TextFormatter),
			Hooks:     make(logrus.LevelHooks),
			Level:     logrus.WarnLevel,
		},
	}
	c.cmd = &cobra.Command{
		Use:               "protopool",
		Short:             "load proto files and query their descriptors",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.persistentPreRunE,
	}
	c.cmd.SetOut(stdout)
	c.cmd.SetErr(stderr)
	c.cmd.PersistentFlags().AddFlagSet(configFlagSet())
	c.cmd.AddCommand(
		getDumpCmd(c),
		getLookupCmd(c),
		getExportCmd(c),
	)
	return c
}

func (c *rootCommand) persistentPreRunE(cmd *cobra.Command, _ []string) error {
	conf, err := getConfig(cmd.Flags())
	if err != nil {
		return err
	}
	level, err := conf.level()
	if err != nil {
		return err
	}
	c.conf = conf
	c.logger.SetLevel(level)
	c.logger.WithField("paths", conf.Paths).Debug("configured")
	return nil
}

// load builds the descriptors for the configured paths. Problems are
// collected while loading and rendered to stderr once the pool is
// finalized; they only fail the command in strict mode.
func (c *rootCommand) load(ctx context.Context) (*descriptor.Pool, error) {
	var diags []reporter.ErrorWithPos
	pool := protopool.New(c.conf.Paths, protopool.Options{
		FS:             c.fs,
		Logger:         c.logger,
		LenientImports: c.conf.LenientImports,
		Reporter: reporter.NewReporter(
			func(err reporter.ErrorWithPos) error {
				diags = append(diags, err)
				return nil
			},
			func(err reporter.ErrorWithPos) {
				diags = append(diags, warning{err})
			},
		),
	})
	if err := pool.LoadAll(ctx); err != nil {
		return nil, err
	}
	desc, err := pool.Finalize()
	if err != nil {
		return nil, err
	}
	for _, diag := range diags {
		if err := reporter.Render(c.stderr, diag, pool); err != nil {
			return nil, err
		}
	}
	if n := pool.ErrorCount(); n > 0 && c.conf.Strict {
		return nil, fmt.Errorf("%w: %d errors", errProblems, n)
	}
	return desc, nil
}

// warning prefixes the message of a diagnostic that is not an error.
type warning struct {
	reporter.ErrorWithPos
}

func (w warning) Error() string {
	return "warning: " + w.ErrorWithPos.Error()
}
