// Package shared holds helpers used across packages that belong to no single
// layer. Its testutil subpackage captures slog output for assertions.
package shared
