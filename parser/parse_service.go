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

package parser

import "github.com/protopool/protopool/ast"

func (p *parser) parseService() *ast.ServiceNode {
	p.expect("service")
	name := p.expectName()
	svc := &ast.ServiceNode{Name: name.text, Pos: name.pos}
	p.expect("{")
	for !p.accept("}") {
		switch {
		case p.accept(";"):
		case p.tok.kind == tokEOF:
			p.unexpected(`"}"`)
		case p.tok.is("option") && (p.peek().isName() || p.peek().is("(")):
			svc.Options = append(svc.Options, p.parseOptionStatement())
		case p.tok.is("rpc"):
			svc.Methods = append(svc.Methods, p.parseRPC())
		default:
			p.unexpected(`"rpc" or "option"`)
		}
	}
	return svc
}

func (p *parser) parseRPC() *ast.RPCNode {
	p.expect("rpc")
	name := p.expectName()
	rpc := &ast.RPCNode{Name: name.text, Pos: name.pos}

	rpc.ClientStreaming, rpc.InputType, rpc.InputPos = p.parseRPCType()
	p.expect("returns")
	rpc.ServerStreaming, rpc.OutputType, rpc.OutputPos = p.parseRPCType()

	if p.accept(";") {
		return rpc
	}
	p.expect("{")
	for !p.accept("}") {
		switch {
		case p.accept(";"):
		case p.tok.is("option"):
			rpc.Options = append(rpc.Options, p.parseOptionStatement())
		default:
			p.unexpected(`"option" or "}"`)
		}
	}
	return rpc
}

// parseRPCType parses "(" ["stream"] TypeName ")".
func (p *parser) parseRPCType() (bool, string, ast.SourcePos) {
	p.expect("(")
	stream := false
	if p.tok.is("stream") {
		// "stream" may also be the name of the type
		if next := p.peek(); next.isName() || next.is(".") {
			p.advance()
			stream = true
		}
	}
	name, pos := p.typeName()
	p.expect(")")
	return stream, name, pos
}
