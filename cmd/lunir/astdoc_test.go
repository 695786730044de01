package main

import (
	"testing"

	"lunir/internal/ast"
)

func TestDecodeASTDocumentBlockOfReturns(t *testing.T) {
	doc := []byte(`{"kind":"block","body":[{"kind":"return"},{"kind":"return"}]}`)
	stmt, err := decodeASTDocument(doc)
	if err != nil {
		t.Fatalf("decodeASTDocument returned error: %v", err)
	}
	block, ok := stmt.(*ast.StatBlock)
	if !ok {
		t.Fatalf("expected *ast.StatBlock, got %T", stmt)
	}
	if len(block.Body) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(block.Body))
	}
	for _, s := range block.Body {
		if _, ok := s.(*ast.StatReturn); !ok {
			t.Fatalf("expected *ast.StatReturn, got %T", s)
		}
	}
}

func TestDecodeASTDocumentRejectsUnknownKind(t *testing.T) {
	if _, err := decodeASTDocument([]byte(`{"kind":"bogus"}`)); err == nil {
		t.Fatal("expected an error for an unsupported statement kind")
	}
}
