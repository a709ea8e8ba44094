// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package output

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tidwall/gjson"

	"github.com/staranto/condadoc/internal/attrs"
)

func TestBuildFilters(t *testing.T) {
	tests := []struct {
		name      string
		spec      string
		delimiter string
		want      []Filter
		wantCount int
	}{
		{
			name:      "empty spec",
			spec:      "",
			wantCount: 0,
		},
		{
			name:      "single exact match filter",
			spec:      "name=numpy",
			wantCount: 1,
			want: []Filter{
				{Key: "name", Operand: "=", Target: "numpy", Negate: false},
			},
		},
		{
			name:      "prefix match filter",
			spec:      "name^lib",
			wantCount: 1,
			want: []Filter{
				{Key: "name", Operand: "^", Target: "lib", Negate: false},
			},
		},
		{
			name:      "negated exact match",
			spec:      "channel!=defaults",
			wantCount: 1,
			want: []Filter{
				{Key: "channel", Operand: "=", Target: "defaults", Negate: true},
			},
		},
		{
			name:      "negated prefix match",
			spec:      "name!^lib",
			wantCount: 1,
			want: []Filter{
				{Key: "name", Operand: "^", Target: "lib", Negate: true},
			},
		},
		{
			name:      "multiple filters",
			spec:      "name=numpy,channel^conda",
			wantCount: 2,
			want: []Filter{
				{Key: "name", Operand: "=", Target: "numpy", Negate: false},
				{Key: "channel", Operand: "^", Target: "conda", Negate: false},
			},
		},
		{
			name:      "greater than",
			spec:      "version>1.20",
			wantCount: 1,
			want: []Filter{
				{Key: "version", Operand: ">", Target: "1.20", Negate: false},
			},
		},
		{
			name:      "contains operand",
			spec:      "name@py",
			wantCount: 1,
			want: []Filter{
				{Key: "name", Operand: "@", Target: "py", Negate: false},
			},
		},
		{
			name:      "regex operand",
			spec:      "build/^py31.*",
			wantCount: 1,
			want: []Filter{
				{Key: "build", Operand: "/", Target: "^py31.*", Negate: false},
			},
		},
		{
			name:      "invalid filter skipped",
			spec:      "name=numpy,bogus-spec,channel^conda",
			wantCount: 2,
			want: []Filter{
				{Key: "name", Operand: "=", Target: "numpy", Negate: false},
				{Key: "channel", Operand: "^", Target: "conda", Negate: false},
			},
		},
		{
			name:      "custom delimiter",
			spec:      "name=numpy|channel^conda",
			delimiter: "|",
			wantCount: 2,
			want: []Filter{
				{Key: "name", Operand: "=", Target: "numpy", Negate: false},
				{Key: "channel", Operand: "^", Target: "conda", Negate: false},
			},
		},
		{
			name:      "key with dots",
			spec:      "hash.md5=abc123",
			wantCount: 1,
			want: []Filter{
				{Key: "hash.md5", Operand: "=", Target: "abc123", Negate: false},
			},
		},
		{
			name:      "empty target",
			spec:      "build=",
			wantCount: 1,
			want: []Filter{
				{Key: "build", Operand: "=", Target: "", Negate: false},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.delimiter != "" {
				t.Setenv("CONDADOC_FILTER_DELIM", tt.delimiter)
			}

			got := BuildFilters(tt.spec)
			assert.Len(t, got, tt.wantCount)
			if tt.want != nil {
				for i, filter := range tt.want {
					assert.Equal(t, filter.Key, got[i].Key)
					assert.Equal(t, filter.Operand, got[i].Operand)
					assert.Equal(t, filter.Target, got[i].Target)
					assert.Equal(t, filter.Negate, got[i].Negate)
				}
			}
		})
	}
}

func TestCheckStringOperand(t *testing.T) {
	tests := []struct {
		name   string
		value  string
		filter Filter
		want   bool
	}{
		{
			name:   "exact match true",
			value:  "numpy",
			filter: Filter{Operand: "=", Target: "numpy", Negate: false},
			want:   true,
		},
		{
			name:   "exact match false",
			value:  "numpy",
			filter: Filter{Operand: "=", Target: "pandas", Negate: false},
			want:   false,
		},
		{
			name:   "negated exact match true",
			value:  "numpy",
			filter: Filter{Operand: "=", Target: "pandas", Negate: true},
			want:   true,
		},
		{
			name:   "negated exact match false",
			value:  "numpy",
			filter: Filter{Operand: "=", Target: "numpy", Negate: true},
			want:   false,
		},
		{
			name:   "prefix match true",
			value:  "libblas",
			filter: Filter{Operand: "^", Target: "lib", Negate: false},
			want:   true,
		},
		{
			name:   "prefix match false",
			value:  "numpy",
			filter: Filter{Operand: "^", Target: "lib", Negate: false},
			want:   false,
		},
		{
			name:   "case insensitive match true",
			value:  "NUMPY",
			filter: Filter{Operand: "~", Target: "numpy", Negate: false},
			want:   true,
		},
		{
			name:   "case insensitive match false",
			value:  "numpy-base",
			filter: Filter{Operand: "~", Target: "numpy", Negate: false},
			want:   false,
		},
		{
			name:   "contains true",
			value:  "numpy-base",
			filter: Filter{Operand: "@", Target: "numpy", Negate: false},
			want:   true,
		},
		{
			name:   "contains false",
			value:  "pandas",
			filter: Filter{Operand: "@", Target: "numpy", Negate: false},
			want:   false,
		},
		{
			name:   "negated contains true",
			value:  "pandas",
			filter: Filter{Operand: "@", Target: "numpy", Negate: true},
			want:   true,
		},
		{
			name:   "regex match true",
			value:  "py311_h123_0",
			filter: Filter{Operand: "/", Target: "^py\\d+_.*_\\d+$", Negate: false},
			want:   true,
		},
		{
			name:   "regex match false",
			value:  "h123_0",
			filter: Filter{Operand: "/", Target: "^py.*", Negate: false},
			want:   false,
		},
		{
			name:   "negated regex match",
			value:  "h123_0",
			filter: Filter{Operand: "/", Target: "^py.*", Negate: true},
			want:   true,
		},
		{
			name:   "greater than string true",
			value:  "zlib",
			filter: Filter{Operand: ">", Target: "numpy", Negate: false},
			want:   true,
		},
		{
			name:   "less than string true",
			value:  "numpy",
			filter: Filter{Operand: "<", Target: "zlib", Negate: false},
			want:   true,
		},
		{
			name:   "invalid regex",
			value:  "numpy",
			filter: Filter{Operand: "/", Target: "[invalid", Negate: false},
			want:   false,
		},
		{
			name:   "unsupported operand",
			value:  "numpy",
			filter: Filter{Operand: "?", Target: "numpy", Negate: false},
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := checkStringOperand(tt.value, tt.filter)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCheckNumericOperand(t *testing.T) {
	tests := []struct {
		name   string
		value  float64
		filter Filter
		want   bool
	}{
		{
			name:   "exact match true",
			value:  42,
			filter: Filter{Operand: "=", Target: "42", Negate: false},
			want:   true,
		},
		{
			name:   "exact match false",
			value:  42,
			filter: Filter{Operand: "=", Target: "40", Negate: false},
			want:   false,
		},
		{
			name:   "negated equal true",
			value:  42,
			filter: Filter{Operand: "=", Target: "40", Negate: true},
			want:   true,
		},
		{
			name:   "greater than true",
			value:  50,
			filter: Filter{Operand: ">", Target: "42", Negate: false},
			want:   true,
		},
		{
			name:   "less than true",
			value:  42,
			filter: Filter{Operand: "<", Target: "50", Negate: false},
			want:   true,
		},
		{
			name:   "float value with integer target",
			value:  42.5,
			filter: Filter{Operand: ">", Target: "42", Negate: false},
			want:   true,
		},
		{
			name:   "invalid target",
			value:  42,
			filter: Filter{Operand: "=", Target: "invalid", Negate: false},
			want:   false,
		},
		{
			name:   "unsupported operand",
			value:  42,
			filter: Filter{Operand: "^", Target: "42", Negate: false},
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := checkNumericOperand(tt.value, tt.filter)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCheckContainsOperand(t *testing.T) {
	tests := []struct {
		name   string
		value  interface{}
		filter Filter
		want   bool
	}{
		{
			name:   "slice contains true",
			value:  []any{"conda-forge", "defaults"},
			filter: Filter{Operand: "@", Target: "defaults", Negate: false},
			want:   true,
		},
		{
			name:   "slice contains false",
			value:  []any{"conda-forge", "defaults"},
			filter: Filter{Operand: "@", Target: "bioconda", Negate: false},
			want:   false,
		},
		{
			name:   "slice not contains true",
			value:  []any{"conda-forge", "defaults"},
			filter: Filter{Operand: "@", Target: "bioconda", Negate: true},
			want:   true,
		},
		{
			name:   "map key exists true",
			value:  map[string]any{"md5": "abc", "sha256": "def"},
			filter: Filter{Operand: "@", Target: "md5", Negate: false},
			want:   true,
		},
		{
			name:   "map key exists false",
			value:  map[string]any{"md5": "abc"},
			filter: Filter{Operand: "@", Target: "sha256", Negate: false},
			want:   false,
		},
		{
			name:   "map key not exists true",
			value:  map[string]any{"md5": "abc"},
			filter: Filter{Operand: "@", Target: "sha256", Negate: true},
			want:   true,
		},
		{
			name:   "unsupported type",
			value:  123,
			filter: Filter{Operand: "@", Target: "md5", Negate: false},
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := checkContainsOperand(tt.value, tt.filter)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToFloat64(t *testing.T) {
	tests := []struct {
		name   string
		value  interface{}
		want   float64
		wantOk bool
	}{
		{name: "float64", value: 42.5, want: 42.5, wantOk: true},
		{name: "float32", value: float32(42.5), want: 42.5, wantOk: true},
		{name: "int", value: 42, want: 42, wantOk: true},
		{name: "int64", value: int64(42), want: 42, wantOk: true},
		{name: "uint32", value: uint32(42), want: 42, wantOk: true},
		{name: "string", value: "42", want: 0, wantOk: false},
		{name: "nil", value: nil, want: 0, wantOk: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := toFloat64(tt.value)
			assert.Equal(t, tt.wantOk, ok)
			if ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestApplyFilters(t *testing.T) {
	testData := `
	{
		"name": "numpy",
		"version": "1.26.4",
		"build": "py311h64a7726_0",
		"channel": "conda-forge",
		"size": 7500000,
		"depends": ["libblas", "python"],
		"hash": {"md5": "abc123"},
		"license": null
	}
	`

	attrList := attrs.AttrList{
		{Key: "name", OutputKey: "name", Include: true},
		{Key: "version", OutputKey: "version", Include: true},
		{Key: "channel", OutputKey: "channel", Include: true},
		{Key: "size", OutputKey: "size", Include: true},
		{Key: "license", OutputKey: "license", Include: true},
		{Key: "hash", OutputKey: "hash", Include: true},
		{Key: "depends", OutputKey: "depends", Include: true},
	}

	tests := []struct {
		name    string
		filters []Filter
		want    bool
	}{
		{
			name:    "no filters",
			filters: []Filter{},
			want:    true,
		},
		{
			name: "single filter match",
			filters: []Filter{
				{Key: "name", Operand: "=", Target: "numpy", Negate: false},
			},
			want: true,
		},
		{
			name: "single filter no match",
			filters: []Filter{
				{Key: "name", Operand: "=", Target: "pandas", Negate: false},
			},
			want: false,
		},
		{
			name: "multiple filters all match",
			filters: []Filter{
				{Key: "name", Operand: "=", Target: "numpy", Negate: false},
				{Key: "channel", Operand: "^", Target: "conda", Negate: false},
			},
			want: true,
		},
		{
			name: "multiple filters one fails",
			filters: []Filter{
				{Key: "name", Operand: "=", Target: "numpy", Negate: false},
				{Key: "channel", Operand: "^", Target: "bio", Negate: false},
			},
			want: false,
		},
		{
			name: "reserved filter ignored",
			filters: []Filter{
				{Key: "_reserved", Operand: "=", Target: "value", Negate: false},
			},
			want: true,
		},
		{
			name: "missing attribute key continues",
			filters: []Filter{
				{Key: "nonexistent", Operand: "=", Target: "value", Negate: false},
			},
			want: true,
		},
		{
			name: "numeric comparison",
			filters: []Filter{
				{Key: "size", Operand: ">", Target: "1000000", Negate: false},
			},
			want: true,
		},
		{
			name: "null value filter fails",
			filters: []Filter{
				{Key: "license", Operand: "=", Target: "BSD", Negate: false},
			},
			want: false,
		},
		{
			name: "map value with contains operator",
			filters: []Filter{
				{Key: "hash", Operand: "@", Target: "md5", Negate: false},
			},
			want: true,
		},
		{
			name: "array value with equals operator passes",
			filters: []Filter{
				{Key: "depends", Operand: "=", Target: "libblas", Negate: false},
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := gjson.Parse(testData)
			got := applyFilters(result, attrList, tt.filters)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilterDataset(t *testing.T) {
	testData := `
	[
		{
			"name": "libblas",
			"version": "3.9.0",
			"channel": "conda-forge"
		},
		{
			"name": "numpy",
			"version": "1.26.4",
			"channel": "defaults"
		},
		{
			"name": "libzlib",
			"version": "1.2.13",
			"channel": "conda-forge"
		}
	]
	`

	attrList := attrs.AttrList{
		{Key: "name", OutputKey: "name", Include: true},
		{Key: "channel", OutputKey: "channel", Include: true},
	}

	tests := []struct {
		name      string
		spec      string
		wantCount int
		wantNames []string
	}{
		{
			name:      "no filters",
			spec:      "",
			wantCount: 3,
			wantNames: []string{"libblas", "numpy", "libzlib"},
		},
		{
			name:      "prefix filter",
			spec:      "name^lib",
			wantCount: 2,
			wantNames: []string{"libblas", "libzlib"},
		},
		{
			name:      "exact match filter",
			spec:      "name=numpy",
			wantCount: 1,
			wantNames: []string{"numpy"},
		},
		{
			name:      "no matches",
			spec:      "name=nonexistent",
			wantCount: 0,
		},
		{
			name:      "multiple filters",
			spec:      "name^lib,channel=conda-forge,name@blas",
			wantCount: 1,
			wantNames: []string{"libblas"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidates := gjson.Parse(testData)
			got := FilterDataset(candidates, attrList, tt.spec)
			assert.Len(t, got, tt.wantCount)
			for i, expected := range tt.wantNames {
				assert.Equal(t, expected, got[i]["name"])
			}
		})
	}
}
