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

// Command protopool loads the proto files under a set of directories and
// prints, looks up or exports the resulting descriptors.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/afero"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	c := newRootCommand(afero.NewOsFs(), os.Stdout, os.Stderr)
	if err := c.cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "protopool: %v\n", err)
		return 1
	}
	return 0
}
