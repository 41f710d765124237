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

// Package walk provides helper functions for traversing all declarations
// in a file's declaration tree, along with the fully-qualified name each
// declaration will have in a descriptor pool.
package walk

import (
	"errors"

	"github.com/protopool/protopool/ast"
)

// SkipChildren may be returned from an enter function to indicate that
// the children of the declaration should not be visited. The exit
// function is still called for the declaration.
var SkipChildren = errors.New("skip children")

// Decls walks all declarations in the given file using a depth-first
// traversal, calling the given function for every declaration. The
// traversal ends when fn returns a non-nil error, in which case that
// error is returned.
func Decls(file *ast.FileNode, fn func(fqn string, d ast.Decl) error) error {
	return DeclsEnterAndExit(file, fn, nil)
}

// DeclsEnterAndExit walks all declarations in the given file using a
// depth-first traversal, calling enter before visiting a declaration's
// children and exit afterwards. The exit function may be nil.
//
// Children slices are read after enter returns, so enter may remove
// elements from them.
//
// Extend blocks are visited with the fully-qualified name of the scope
// that encloses them. Extension fields are named relative to that scope,
// not to the extendee.
func DeclsEnterAndExit(file *ast.FileNode, enter, exit func(fqn string, d ast.Decl) error) error {
	w := &walker{enter: enter, exit: exit}
	for _, msg := range file.Messages {
		if err := w.message(file.Package, msg); err != nil {
			return err
		}
	}
	for _, en := range file.Enums {
		if err := w.enum(file.Package, en); err != nil {
			return err
		}
	}
	for _, ext := range file.Extends {
		if err := w.extend(file.Package, ext); err != nil {
			return err
		}
	}
	for _, svc := range file.Services {
		if err := w.service(file.Package, svc); err != nil {
			return err
		}
	}
	return nil
}

// Qualify joins a scope and a simple name.
func Qualify(scope, name string) string {
	if scope == "" {
		return name
	}
	return scope + "." + name
}

type walker struct {
	enter, exit func(fqn string, d ast.Decl) error
}

func (w *walker) visit(fqn string, d ast.Decl, children func() error) error {
	err := w.enter(fqn, d)
	switch {
	case errors.Is(err, SkipChildren):
	case err != nil:
		return err
	case children != nil:
		if err := children(); err != nil {
			return err
		}
	}
	if w.exit != nil {
		return w.exit(fqn, d)
	}
	return nil
}

func (w *walker) message(scope string, msg *ast.MessageNode) error {
	fqn := Qualify(scope, msg.Name)
	return w.visit(fqn, msg, func() error {
		for _, fld := range msg.Fields {
			if err := w.visit(Qualify(fqn, fld.Name), fld, nil); err != nil {
				return err
			}
		}
		for _, nested := range msg.Messages {
			if err := w.message(fqn, nested); err != nil {
				return err
			}
		}
		for _, en := range msg.Enums {
			if err := w.enum(fqn, en); err != nil {
				return err
			}
		}
		for _, ext := range msg.Extends {
			if err := w.extend(fqn, ext); err != nil {
				return err
			}
		}
		return nil
	})
}

func (w *walker) enum(scope string, en *ast.EnumNode) error {
	fqn := Qualify(scope, en.Name)
	return w.visit(fqn, en, func() error {
		for _, val := range en.Values {
			if err := w.visit(Qualify(fqn, val.Name), val, nil); err != nil {
				return err
			}
		}
		return nil
	})
}

func (w *walker) extend(scope string, ext *ast.ExtendNode) error {
	return w.visit(scope, ext, func() error {
		for _, fld := range ext.Fields {
			if err := w.visit(Qualify(scope, fld.Name), fld, nil); err != nil {
				return err
			}
		}
		return nil
	})
}

func (w *walker) service(scope string, svc *ast.ServiceNode) error {
	fqn := Qualify(scope, svc.Name)
	return w.visit(fqn, svc, func() error {
		for _, mtd := range svc.Methods {
			if err := w.visit(Qualify(fqn, mtd.Name), mtd, nil); err != nil {
				return err
			}
		}
		return nil
	})
}
