package main

import (
	"encoding/json"
	"fmt"

	"lunir/internal/ast"
)

// astStatementDoc is the CLI's own minimalist JSON encoding of a Statement
// tree for `lunir compile`'s *.ast.json input — not part of the core
// library (spec.md ships no AST serialization format), and deliberately
// shallow: it exists to exercise CompilationJob.Tree's wiring, not to
// round-trip an arbitrary tree. Kind is one of "return" or "block"; Body
// nests further statements under "block".
type astStatementDoc struct {
	Kind string            `json:"kind"`
	Body []astStatementDoc `json:"body,omitempty"`
}

func (d astStatementDoc) toStatement() (ast.Statement, error) {
	switch d.Kind {
	case "return":
		return &ast.StatReturn{}, nil
	case "block":
		body := make([]ast.Statement, 0, len(d.Body))
		for _, child := range d.Body {
			stmt, err := child.toStatement()
			if err != nil {
				return nil, err
			}
			body = append(body, stmt)
		}
		return &ast.StatBlock{Body: body}, nil
	default:
		return nil, fmt.Errorf("unsupported statement kind %q in .ast.json document", d.Kind)
	}
}

// decodeASTDocument parses raw as an astStatementDoc tree and lowers it to
// a real ast.Statement.
func decodeASTDocument(raw []byte) (ast.Statement, error) {
	var doc astStatementDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse .ast.json: %w", err)
	}
	return doc.toStatement()
}
