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
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/protopool/protopool/descriptor"
)

func getLookupCmd(c *rootCommand) *cobra.Command {
	return &cobra.Command{
		Use:   "lookup NAME",
		Short: "print the message, enum, service or method with a fully-qualified name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			desc, err := c.load(cmd.Context())
			if err != nil {
				return err
			}
			name := strings.TrimPrefix(args[0], ".")
			switch kind := desc.Lookup(name); kind {
			case descriptor.KindMessage:
				msg, _ := desc.FindMessageByName(name)
				return writeYAML(cmd, dumpMessage(msg))
			case descriptor.KindEnum:
				enum, _ := desc.FindEnumByName(name)
				return writeYAML(cmd, dumpEnum(enum))
			case descriptor.KindService:
				svc, _ := desc.FindServiceByName(name)
				return writeYAML(cmd, dumpService(svc))
			case descriptor.KindMethod:
				mtd, _ := desc.FindMethodByName(name)
				return writeYAML(cmd, dumpMethod(mtd))
			case descriptor.KindField:
				fld, _ := desc.FindFieldByName(name)
				return writeYAML(cmd, dumpField(fld))
			case descriptor.KindExtension:
				ext, _ := desc.FindExtensionByName(name)
				return writeYAML(cmd, dumpField(ext))
			case descriptor.KindNone:
				return fmt.Errorf("%s: not found", name)
			default:
				return fmt.Errorf("%s is %s, which cannot be printed", name, kind)
			}
		},
	}
}
