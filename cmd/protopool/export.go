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
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"google.golang.org/protobuf/proto"
)

func getExportCmd(c *rootCommand) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "write the loaded files as a binary FileDescriptorSet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			desc, err := c.load(cmd.Context())
			if err != nil {
				return err
			}
			data, err := proto.MarshalOptions{Deterministic: true}.Marshal(desc.ToFileDescriptorSet())
			if err != nil {
				return err
			}
			if out == "-" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := afero.WriteFile(c.fs, out, data, 0o644); err != nil {
				return err
			}
			c.logger.WithFields(logrus.Fields{"file": out, "bytes": len(data)}).Info("exported descriptors")
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", `file to write, or "-" for stdout`)
	_ = cmd.MarkFlagRequired("output")
	return cmd
}
