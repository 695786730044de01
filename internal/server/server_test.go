package server

import (
	"encoding/json"
	"strings"
	"testing"

	"lunir/internal/il"
	"lunir/internal/reconstructor"
)

// stubBody is the only shape this test's Decoder understands: a constant
// string plus the two instructions that assign it to a global.
type stubBody struct {
	Name string `json:"name"`
}

func stubDecoder(body json.RawMessage) (*il.Function, []il.Instruction, error) {
	var b stubBody
	if err := json.Unmarshal(body, &b); err != nil {
		return nil, nil, err
	}
	function := &il.Function{
		MaxStackSize: 1,
		Constants:    []il.Constant{il.ConstantString{Value: b.Name}},
	}
	instructions := []il.Instruction{
		il.Load{Dest: 0, Src: il.Immediate{Value: 1}},
		il.SetGlobal{Src: 0, Constant: 0},
	}
	return function, instructions, nil
}

func TestHandleOneProducesSource(t *testing.T) {
	s := New(":0", stubDecoder)

	body, err := json.Marshal(stubBody{Name: "x"})
	if err != nil {
		t.Fatalf("marshal stub body: %v", err)
	}

	resp := s.handleOne(DecompileRequest{Body: body})
	if resp.Error != "" {
		t.Fatalf("unexpected error: %s", resp.Error)
	}
	if !strings.Contains(resp.Source, "x = 1") {
		t.Fatalf("expected source to contain assignment, got %q", resp.Source)
	}
}

func TestHandleOneReportsDecodeFailure(t *testing.T) {
	s := New(":0", stubDecoder)

	resp := s.handleOne(DecompileRequest{Body: json.RawMessage(`not json`)})
	if resp.Error == "" {
		t.Fatal("expected a decode error, got none")
	}
	if resp.Source != "" {
		t.Fatalf("expected empty source on error, got %q", resp.Source)
	}
}

func TestHandleOneAppliesCustomSettings(t *testing.T) {
	s := New(":0", stubDecoder)

	body, err := json.Marshal(stubBody{Name: "x"})
	if err != nil {
		t.Fatalf("marshal stub body: %v", err)
	}

	resp := s.handleOne(DecompileRequest{Body: body})
	if resp.Error != "" {
		t.Fatalf("unexpected error: %s", resp.Error)
	}
	baseline := resp.Source

	settings := reconstructor.NoHeaderSettings()
	resp = s.handleOne(DecompileRequest{Body: body, Settings: &settings})
	if resp.Error != "" {
		t.Fatalf("unexpected error: %s", resp.Error)
	}
	if resp.Source == baseline {
		t.Fatal("expected suppressing the header to change the rendered source")
	}
	if strings.Contains(resp.Source, "Decompiled with LUNIR") {
		t.Fatalf("expected no attribution header, got %q", resp.Source)
	}
}
