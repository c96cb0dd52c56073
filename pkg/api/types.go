package api

import (
	"github.com/ssargent/wowformats/pkg/dbc"
	"github.com/ssargent/wowformats/pkg/layout"
	"github.com/ssargent/wowformats/pkg/version"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ServerConfig holds configuration for the API server
type ServerConfig struct {
	Addr    string
	APIKey  string // empty disables authentication
	Version version.Version
}

// TableSummary is one entry of the table listing.
type TableSummary struct {
	Name       string     `json:"name"`
	Rows       int        `json:"rows"`
	RecordSize int        `json:"record_size"`
	FieldCount int        `json:"field_count"`
	Header     dbc.Header `json:"header"`
}

// FieldInfo describes a field's physical placement.
type FieldInfo struct {
	Name   string `json:"name"`
	Kind   string `json:"kind"`
	Offset int    `json:"offset"`
	Size   int    `json:"size"`
	Count  int    `json:"count"`
	Column int    `json:"column"`
	Table  string `json:"foreign_table,omitempty"`
	Enum   string `json:"enum,omitempty"`
}

// LayoutResponse is the resolved layout of a table.
type LayoutResponse struct {
	Table      string          `json:"table"`
	Version    version.Version `json:"version"`
	Size       int             `json:"size"`
	FieldCount int             `json:"field_count"`
	Fields     []FieldInfo     `json:"fields"`
}

// RowResponse is one decoded record.
type RowResponse struct {
	Table  string         `json:"table"`
	Index  int            `json:"index"`
	Values map[string]any `json:"values"`
}

func newLayoutResponse(l *layout.Layout) LayoutResponse {
	fields := make([]FieldInfo, len(l.Fields))
	for i, f := range l.Fields {
		info := FieldInfo{
			Name:   f.Name,
			Kind:   f.Kind.String(),
			Offset: f.Offset,
			Size:   f.Size,
			Count:  f.Count,
			Column: f.Column,
		}
		if f.ForeignKey != nil {
			info.Table = f.ForeignKey.Table
		}
		if f.Enum != nil {
			info.Enum = f.Enum.Name
		}
		fields[i] = info
	}
	return LayoutResponse{
		Table:      l.Schema.Table,
		Version:    l.Version,
		Size:       l.Size,
		FieldCount: l.FieldCount,
		Fields:     fields,
	}
}
