package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
)

const protocolVersion = "2024-11-05"

// JSON-RPC error codes.
const (
	codeInvalidParams  = -32602
	codeMethodNotFound = -32601
	codeToolError      = -32000
)

type rpcRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// notification reports whether the request expects no response.
func (r rpcRequest) notification() bool { return len(r.ID) == 0 }

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type capability struct {
	ListChanged bool `json:"listChanged"`
}

type initializeResult struct {
	ProtocolVersion string                `json:"protocolVersion"`
	ServerInfo      any                   `json:"serverInfo"`
	Capabilities    map[string]capability `json:"capabilities"`
}

type toolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	InputSchema any    `json:"inputSchema"`
}

type textContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type resourceInfo struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description"`
	MimeType    string `json:"mimeType"`
}

type resourceContents struct {
	URI      string `json:"uri"`
	MimeType string `json:"mimeType"`
	Text     string `json:"text"`
}

type callParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

type readParams struct {
	URI string `json:"uri"`
}

// Run serves line-delimited JSON-RPC on stdin and stdout until the input
// ends or ctx is cancelled. Malformed lines and notifications get no reply.
func (s *Server) Run(ctx context.Context, stdin io.Reader, stdout io.Writer) error {
	if stdin == nil || stdout == nil {
		return errors.New("stdin and stdout must not be nil")
	}

	reader := bufio.NewReader(stdin)
	encoder := json.NewEncoder(stdout)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		line, err := reader.ReadBytes('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		eof := err != nil

		var req rpcRequest
		if json.Unmarshal(line, &req) == nil && !req.notification() {
			if err := encoder.Encode(s.dispatch(ctx, req)); err != nil {
				return err
			}
		}
		if eof {
			return nil
		}
	}
}

func (s *Server) dispatch(ctx context.Context, req rpcRequest) rpcResponse {
	result, rerr := s.call(ctx, req)
	resp := rpcResponse{JSONRPC: "2.0", ID: req.ID, Error: rerr}
	if rerr == nil {
		resp.Result = result
	}
	return resp
}

func (s *Server) call(ctx context.Context, req rpcRequest) (any, *rpcError) {
	switch req.Method {
	case "initialize":
		return initializeResult{
			ProtocolVersion: protocolVersion,
			ServerInfo:      s.info,
			Capabilities: map[string]capability{
				"tools":     {},
				"resources": {},
			},
		}, nil

	case "ping":
		return struct{}{}, nil

	case "tools/list":
		tools := s.ListTools()
		out := make([]toolInfo, len(tools))
		for i, t := range tools {
			out[i] = toolInfo{Name: t.Name, Description: t.Description, InputSchema: t.InputSchema}
		}
		return map[string]any{"tools": out}, nil

	case "tools/call":
		var p callParams
		if err := decodeParams(req.Params, &p); err != nil {
			return nil, err
		}
		text, err := s.CallTool(ctx, p.Name, p.Arguments)
		if err != nil {
			return nil, &rpcError{Code: codeToolError, Message: err.Error()}
		}
		return map[string]any{"content": []textContent{{Type: "text", Text: text}}}, nil

	case "resources/list":
		resources := s.ListResources()
		out := make([]resourceInfo, len(resources))
		for i, r := range resources {
			out[i] = resourceInfo(r)
		}
		return map[string]any{"resources": out}, nil

	case "resources/read":
		var p readParams
		if err := decodeParams(req.Params, &p); err != nil {
			return nil, err
		}
		text, err := s.ReadResource(ctx, p.URI)
		if err != nil {
			return nil, &rpcError{Code: codeToolError, Message: err.Error()}
		}
		return map[string]any{"contents": []resourceContents{{
			URI:      p.URI,
			MimeType: s.mimeType(p.URI),
			Text:     text,
		}}}, nil

	default:
		return nil, &rpcError{Code: codeMethodNotFound, Message: "Method not found: " + req.Method}
	}
}

func decodeParams(raw json.RawMessage, v any) *rpcError {
	if len(raw) == 0 || json.Unmarshal(raw, v) != nil {
		return &rpcError{Code: codeInvalidParams, Message: "Invalid params"}
	}
	return nil
}

func (s *Server) mimeType(uri string) string {
	for _, r := range s.ListResources() {
		if r.URI == uri {
			return r.MimeType
		}
	}
	return "text/plain"
}
