// Package server exposes LUNIR's decompile pipeline as a long-running
// WebSocket service: a client opens one connection and streams requests
// (an IL function plus instruction sequence) in, receiving reconstructed
// Lua source text back. This supplements spec.md's core library surface
// (§6 explicitly scopes the core to "no CLI surface, no environment
// variables, no persisted state layout", which binds the library, not an
// optional driver around it) and is grounded on the teacher's own
// internal/network/websocket.go and websocket_server.go: the same
// Upgrader-plus-per-connection-read-loop shape, repurposed to frame
// DecompileRequest/DecompileResponse JSON instead of sentra's raw text
// messages.
package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"

	"lunir/internal/diagnostics"
	"lunir/internal/il"
	"lunir/internal/pipeline"
	"lunir/internal/reconstructor"
)

// DecompileRequest is one unit of work sent over the socket: an opaque,
// format-specific Body (il.Instruction and il.Constant are closed
// interfaces encoding/json cannot unmarshal on its own, and LUNIR ships no
// concrete format adapter — spec §1 Non-goals — so decoding Body is the
// Decoder's job, not this package's), plus the reconstructor settings to
// format the result with.
type DecompileRequest struct {
	Body     json.RawMessage         `json:"body"`
	Settings *reconstructor.Settings `json:"settings,omitempty"`
}

// DecompileResponse carries either the reconstructed source or an error
// message back to the client.
type DecompileResponse struct {
	Source string `json:"source,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Decoder turns a request's opaque Body into the function metadata and
// instruction sequence the pipeline needs. Callers supply one appropriate
// to the bytecode dialect they're fronting; Server has no default.
type Decoder func(body json.RawMessage) (*il.Function, []il.Instruction, error)

// Server upgrades HTTP connections to WebSocket and services decompile
// requests against a shared Decompiler, mirroring the teacher's
// WebSocketServer (one Upgrader, one handler, one *http.Server) adapted to
// a single well-known protocol instead of a dynamically registered one.
type Server struct {
	addr       string
	upgrader   websocket.Upgrader
	decompiler *pipeline.Decompiler
	decode     Decoder
	log        *diagnostics.Logger
	httpServer *http.Server
}

// New returns a Server listening on addr once Serve is called. decode
// turns each request's opaque Body into function metadata and instructions.
func New(addr string, decode Decoder) *Server {
	return &Server{
		addr:       addr,
		decompiler: pipeline.NewDecompiler(),
		decode:     decode,
		log:        diagnostics.Default("lunir-serve"),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Serve blocks, running the HTTP server until it errors or is shut down.
func (s *Server) Serve() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/decompile", s.handleDecompile)
	s.httpServer = &http.Server{Addr: s.addr, Handler: mux}
	s.log.Printf("listening on %s", s.addr)
	return s.httpServer.ListenAndServe()
}

// Close shuts the HTTP server down.
func (s *Server) Close() error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Close()
}

func (s *Server) handleDecompile(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Errorf("upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	for {
		var req DecompileRequest
		if err := conn.ReadJSON(&req); err != nil {
			return
		}

		resp := s.handleOne(req)
		if err := conn.WriteJSON(resp); err != nil {
			s.log.Errorf("write failed: %v", err)
			return
		}
	}
}

func (s *Server) handleOne(req DecompileRequest) DecompileResponse {
	function, instructions, err := s.decode(req.Body)
	if err != nil {
		return DecompileResponse{Error: fmt.Sprintf("decoding body: %v", err)}
	}

	settings := reconstructor.DefaultSettings()
	if req.Settings != nil {
		settings = *req.Settings
	}
	visitor := reconstructor.NewWithSettings(settings)

	chunk := il.New(instructions)

	source, err := s.decompiler.CreateJob().
		Chunk(function, chunk).
		Reconstructor(visitor).
		Run()
	if err != nil {
		return DecompileResponse{Error: err.Error()}
	}
	return DecompileResponse{Source: source}
}
