//go:build tools
// +build tools

// Package tools documents development tool dependencies.
// These tools are installed globally via `go install` and are not tracked in go.mod
// since they are development tools, not runtime dependencies.
package tools

// Development tools (install via `go install`):
//
// Air - Live reload while editing handlers; templates and static files are
// already re-read from disk when DEV=true.
//   Install: go install github.com/air-verse/air@v1.63.0
//   Version: v1.63.0 (pinned 2025-01-01)
//   Run:     DEV=true air --build.cmd "go build -o ./tmp/web ./cmd/expensetracker" --build.bin ./tmp/web
//   Docs: https://github.com/air-verse/air
//
// mockgen - Regenerates internal/mocks from the ports package.
//   Run:     go generate ./internal/mocks
//   Docs: https://github.com/uber-go/mock
