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
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

// config holds the settings shared by every command. Environment
// variables prefixed with PROTOPOOL_ provide defaults that flags override.
type config struct {
	Paths          []string `envconfig:"PATHS"`
	LogLevel       string   `envconfig:"LOG_LEVEL" default:"warning"`
	LenientImports bool     `envconfig:"LENIENT_IMPORTS"`
	Strict         bool     `envconfig:"STRICT"`
}

func configFlagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("", pflag.ContinueOnError)
	flags.SortFlags = false
	flags.StringArrayP("path", "I", nil, "directory to load proto files from (repeatable)")
	flags.String("log-level", "warning", "log level: debug, info, warning or error")
	flags.Bool("lenient-imports", false, "allow references to files that are not imported")
	flags.Bool("strict", false, "exit with an error if any problem was reported")
	return flags
}

// getConfig reads the environment, then applies the flags that were set.
func getConfig(flags *pflag.FlagSet) (config, error) {
	var conf config
	if err := envconfig.Process("protopool", &conf); err != nil {
		return conf, err
	}
	var err error
	if flags.Changed("path") {
		if conf.Paths, err = flags.GetStringArray("path"); err != nil {
			return conf, err
		}
	}
	if flags.Changed("log-level") {
		if conf.LogLevel, err = flags.GetString("log-level"); err != nil {
			return conf, err
		}
	}
	if flags.Changed("lenient-imports") {
		if conf.LenientImports, err = flags.GetBool("lenient-imports"); err != nil {
			return conf, err
		}
	}
	if flags.Changed("strict") {
		if conf.Strict, err = flags.GetBool("strict"); err != nil {
			return conf, err
		}
	}
	if len(conf.Paths) == 0 {
		conf.Paths = []string{"."}
	}
	return conf, nil
}

func (c config) level() (logrus.Level, error) {
	return logrus.ParseLevel(c.LogLevel)
}
