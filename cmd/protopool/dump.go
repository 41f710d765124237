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
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/protopool/protopool/descriptor"
)

type fileDump struct {
	Path       string        `yaml:"path"`
	Package    string        `yaml:"package,omitempty"`
	Syntax     string        `yaml:"syntax"`
	Imports    []string      `yaml:"imports,omitempty"`
	Messages   []messageDump `yaml:"messages,omitempty"`
	Enums      []enumDump    `yaml:"enums,omitempty"`
	Services   []serviceDump `yaml:"services,omitempty"`
	Extensions []fieldDump   `yaml:"extensions,omitempty"`
}

type messageDump struct {
	Name       string        `yaml:"name"`
	MapEntry   bool          `yaml:"map_entry,omitempty"`
	Fields     []fieldDump   `yaml:"fields,omitempty"`
	Messages   []messageDump `yaml:"messages,omitempty"`
	Enums      []enumDump    `yaml:"enums,omitempty"`
	Extensions []fieldDump   `yaml:"extensions,omitempty"`
}

type fieldDump struct {
	Name     string `yaml:"name"`
	Number   int32  `yaml:"number"`
	Label    string `yaml:"label"`
	Type     string `yaml:"type"`
	Extendee string `yaml:"extendee,omitempty"`
	Oneof    string `yaml:"oneof,omitempty"`
	JSONName string `yaml:"json_name"`
	Default  string `yaml:"default,omitempty"`
	Packed   bool   `yaml:"packed,omitempty"`
}

type enumDump struct {
	Name   string           `yaml:"name"`
	Values map[string]int32 `yaml:"values"`
}

type serviceDump struct {
	Name    string       `yaml:"name"`
	Methods []methodDump `yaml:"methods,omitempty"`
}

type methodDump struct {
	Name            string `yaml:"name"`
	Input           string `yaml:"input"`
	Output          string `yaml:"output"`
	ClientStreaming bool   `yaml:"client_streaming,omitempty"`
	ServerStreaming bool   `yaml:"server_streaming,omitempty"`
}

func getDumpCmd(c *rootCommand) *cobra.Command {
	return &cobra.Command{
		Use:   "dump",
		Short: "print every loaded file as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			desc, err := c.load(cmd.Context())
			if err != nil {
				return err
			}
			var files []fileDump
			for _, file := range desc.Files() {
				files = append(files, dumpFile(file))
			}
			return writeYAML(cmd, files)
		},
	}
}

func writeYAML(cmd *cobra.Command, v any) error {
	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func dumpFile(file descriptor.File) fileDump {
	fd := fileDump{
		Path:    file.Path(),
		Package: file.Package(),
		Syntax:  file.Syntax().String(),
	}
	for _, imp := range file.Imports() {
		fd.Imports = append(fd.Imports, imp.Path)
	}
	for _, msg := range file.Messages() {
		fd.Messages = append(fd.Messages, dumpMessage(msg))
	}
	for _, enum := range file.Enums() {
		fd.Enums = append(fd.Enums, dumpEnum(enum))
	}
	for _, svc := range file.Services() {
		fd.Services = append(fd.Services, dumpService(svc))
	}
	for _, ext := range file.Extensions() {
		fd.Extensions = append(fd.Extensions, dumpField(ext))
	}
	return fd
}

func dumpMessage(msg descriptor.Message) messageDump {
	md := messageDump{Name: msg.Name(), MapEntry: msg.IsMapEntry()}
	for _, fld := range msg.Fields() {
		md.Fields = append(md.Fields, dumpField(fld))
	}
	for _, nested := range msg.NestedMessages() {
		md.Messages = append(md.Messages, dumpMessage(nested))
	}
	for _, enum := range msg.NestedEnums() {
		md.Enums = append(md.Enums, dumpEnum(enum))
	}
	for _, ext := range msg.Extensions() {
		md.Extensions = append(md.Extensions, dumpField(ext))
	}
	return md
}

func dumpField(fld descriptor.Field) fieldDump {
	fd := fieldDump{
		Name:     fld.Name(),
		Number:   fld.Number(),
		Label:    fld.Label().String(),
		Type:     fld.TypeName(),
		Oneof:    fld.OneofName(),
		JSONName: fld.JSONName(),
		Packed:   fld.IsPacked(),
	}
	if fld.IsExtension() {
		if extendee, ok := fld.ContainingMessage(); ok {
			fd.Extendee = extendee.FullName()
		}
	}
	if fld.HasDefault() {
		fd.Default = fld.Default().String()
	}
	return fd
}

func dumpEnum(enum descriptor.Enum) enumDump {
	ed := enumDump{Name: enum.Name(), Values: map[string]int32{}}
	for _, val := range enum.Values() {
		ed.Values[val.Name()] = val.Number()
	}
	return ed
}

func dumpService(svc descriptor.Service) serviceDump {
	sd := serviceDump{Name: svc.Name()}
	for _, mtd := range svc.Methods() {
		sd.Methods = append(sd.Methods, dumpMethod(mtd))
	}
	return sd
}

func dumpMethod(mtd descriptor.Method) methodDump {
	return methodDump{
		Name:            mtd.Name(),
		Input:           mtd.InputTypeName(),
		Output:          mtd.OutputTypeName(),
		ClientStreaming: mtd.ClientStreaming(),
		ServerStreaming: mtd.ServerStreaming(),
	}
}
