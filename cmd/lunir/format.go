package main

import (
	"encoding/json"
	"fmt"

	"lunir/internal/errors"
	"lunir/internal/il"
	"lunir/internal/server"
)

// Format is the closed set of bytecode dialects LUNIR's core is specified
// against. No concrete reader/writer ships for any of them (spec Non-goals:
// no bytecode parsers/serializers) — the CLI registers only diagnostic stub
// adapters below, demonstrating the job-wiring path without pretending to
// understand real Lua/Luau bytecode.
type Format string

const (
	LuaP   Format = "LuaP"
	LuaQ   Format = "LuaQ"
	LuaR   Format = "LuaR"
	LuaS   Format = "LuaS"
	LuaT   Format = "LuaT"
	LuauV1 Format = "LuauV1"
	LuauV2 Format = "LuauV2"
	LuauV3 Format = "LuauV3"
)

var knownFormats = []Format{LuaP, LuaQ, LuaR, LuaS, LuaT, LuauV1, LuauV2, LuauV3}

func isKnownFormat(tag string) bool {
	for _, f := range knownFormats {
		if string(f) == tag {
			return true
		}
	}
	return false
}

// stubDecoder is the diagnostic adapter every format tag resolves to: it
// always fails with a message explaining why, rather than silently
// fabricating an empty chunk. It satisfies server.Decoder so `lunir
// decompile` and `lunir serve` exercise the identical decode seam.
func stubDecoder(format Format) server.Decoder {
	return func(raw json.RawMessage) (*il.Function, []il.Instruction, error) {
		return nil, nil, errors.Newf(errors.Unimplemented,
			"no concrete bytecode reader is registered for format %q; LUNIR's core ships no format adapters by design (see spec Non-goals) — wire a real one in before using this subcommand against live bytecode", format)
	}
}

func decoderFor(tag string) (server.Decoder, error) {
	if !isKnownFormat(tag) {
		return nil, fmt.Errorf("unknown format %q (known: %v)", tag, knownFormats)
	}
	return stubDecoder(Format(tag)), nil
}
