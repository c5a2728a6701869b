package ingest

import (
	"bytes"
	"testing"
)

// BuildWorkbook exposes buildWorkbook to external test packages.
func BuildWorkbook(t *testing.T, rows [][]any) *bytes.Reader {
	return buildWorkbook(t, rows)
}
