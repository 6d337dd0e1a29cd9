// Package provider implements the C3 provider gateway: a synchronous
// callTool(name, args, timeout) -> string contract over an MCP stdio
// subprocess, plus an optional Redis-backed decorator for short-lived
// payload caching.
package provider

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/gilby125/go-home-router/pkg/logger"
)

// ToolCaller is the gateway contract spec.md §4.3 requires: a
// synchronous-to-the-caller tool call plus a running flag. Implementations
// must tolerate long tail latency and must honor timeout by returning an
// error, never by blocking past it.
type ToolCaller interface {
	CallTool(ctx context.Context, name string, args map[string]any, timeout time.Duration) (string, error)
	Running() bool
}

// MCPGateway is a ToolCaller backed by one MCP subprocess launched over
// stdio. A single gateway instance is scoped to one provider (flight or
// train): construct one of each.
type MCPGateway struct {
	name string
	cmd  *client.StdioMCPClient
	log  *logger.Logger

	mu      sync.RWMutex
	running bool
}

// NewMCPGateway launches command as an MCP stdio subprocess and
// initializes the session. command[0] is the executable, the rest are
// arguments.
func NewMCPGateway(ctx context.Context, name string, command []string, log *logger.Logger) (*MCPGateway, error) {
	if len(command) == 0 {
		return nil, fmt.Errorf("provider %s: empty command", name)
	}

	c, err := client.NewStdioMCPClient(command[0], nil, command[1:]...)
	if err != nil {
		return nil, fmt.Errorf("provider %s: launch: %w", name, err)
	}

	initCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{Name: "go-home-router", Version: "1.0.0"}

	if _, err := c.Initialize(initCtx, initReq); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("provider %s: initialize: %w", name, err)
	}

	g := &MCPGateway{name: name, cmd: c, log: log, running: true}
	return g, nil
}

// CallTool invokes a named tool with the given arguments, bounded by
// timeout. The reply is flattened to its first text content block,
// matching the teacher's mcp-go server which always replies with
// mcp.NewToolResultText/NewToolResultError style single-block text.
func (g *MCPGateway) CallTool(ctx context.Context, name string, args map[string]any, timeout time.Duration) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args

	result, err := g.cmd.CallTool(callCtx, req)
	if err != nil {
		g.markDown()
		return "", fmt.Errorf("provider %s: call %s: %w", g.name, name, err)
	}

	text, err := firstText(result)
	if err != nil {
		return "", fmt.Errorf("provider %s: call %s: %w", g.name, name, err)
	}
	if result.IsError {
		return "", fmt.Errorf("provider %s: call %s: tool reported error: %s", g.name, name, text)
	}
	return text, nil
}

func firstText(result *mcp.CallToolResult) (string, error) {
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text, nil
		}
	}
	return "", fmt.Errorf("no text content in reply")
}

// Running reports whether the underlying subprocess session is believed
// alive. A failed CallTool marks the gateway down; it never
// auto-recovers, matching spec.md's "running: bool" contract member.
func (g *MCPGateway) Running() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.running
}

func (g *MCPGateway) markDown() {
	g.mu.Lock()
	g.running = false
	g.mu.Unlock()
}

// Close terminates the subprocess.
func (g *MCPGateway) Close() error {
	g.markDown()
	return g.cmd.Close()
}
