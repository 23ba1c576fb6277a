//go:build tools

// Package taskmarket pins the code generators run by go generate, so that
// mockgen resolves to the version recorded in go.mod.
package taskmarket

import (
	_ "go.uber.org/mock/mockgen"
)
