package knowledge

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// Parse decodes a YAML knowledge table and validates it.
// Unknown fields are rejected so typos in a localized table surface early.
func Parse(data []byte) (*Table, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var table Table
	if err := dec.Decode(&table); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: document is empty", ErrInvalidTable)
		}
		return nil, fmt.Errorf("failed to decode knowledge table: %w", err)
	}
	if err := table.Validate(); err != nil {
		return nil, err
	}
	return &table, nil
}

// LoadFile reads and validates a YAML knowledge table from disk.
func LoadFile(path string) (*Table, error) {
	slog.Debug("Loading knowledge table", "path", path)

	data, err := os.ReadFile(path)
	if err != nil {
		slog.Error("Failed to read knowledge table", "error", err, "path", path)
		return nil, fmt.Errorf("failed to read knowledge table %s: %w", path, err)
	}

	table, err := Parse(data)
	if err != nil {
		slog.Error("Failed to parse knowledge table", "error", err, "path", path)
		return nil, fmt.Errorf("knowledge table %s: %w", path, err)
	}

	slog.Info("Knowledge table loaded", "path", path, "rules", len(table.Rules), "quick_actions", len(table.QuickActions))
	return table, nil
}

// Marshal encodes a table as YAML, in the same layout Parse accepts.
func Marshal(t *Table) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(t); err != nil {
		return nil, fmt.Errorf("failed to encode knowledge table: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode knowledge table: %w", err)
	}
	return buf.Bytes(), nil
}
