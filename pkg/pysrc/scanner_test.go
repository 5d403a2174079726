package pysrc

import (
	"errors"
	"reflect"
	"testing"
)

func TestFindImports(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   []string
	}{
		{
			name:   "plain import",
			source: "import numpy\n",
			want:   []string{"numpy"},
		},
		{
			name:   "dotted import keeps root",
			source: "import matplotlib.pyplot\n",
			want:   []string{"matplotlib"},
		},
		{
			name:   "import with alias",
			source: "import numpy as np\n",
			want:   []string{"numpy"},
		},
		{
			name:   "multiple modules one statement",
			source: "import os, numpy as np, pandas\n",
			want:   []string{"os", "numpy", "pandas"},
		},
		{
			name:   "from import",
			source: "from sklearn.linear_model import LinearRegression\n",
			want:   []string{"sklearn"},
		},
		{
			name:   "from import parenthesized list",
			source: "from collections import (\n    OrderedDict,\n    defaultdict,\n)\n",
			want:   []string{"collections"},
		},
		{
			name:   "relative import skipped",
			source: "from . import helpers\nfrom .models import User\n",
			want:   nil,
		},
		{
			name:   "duplicates collapse in order",
			source: "import numpy\nfrom numpy import array\nimport pandas\n",
			want:   []string{"numpy", "pandas"},
		},
		{
			name:   "indented imports ignored",
			source: "def f():\n    import requests\n    return requests\n",
			want:   nil,
		},
		{
			name:   "import in comment ignored",
			source: "# import numpy\nx = 1\n",
			want:   nil,
		},
		{
			name:   "import in string ignored",
			source: "s = 'import numpy'\nd = \"\"\"\nimport pandas\n\"\"\"\n",
			want:   nil,
		},
		{
			name:   "backslash continuation",
			source: "import numpy, \\\n    pandas\n",
			want:   []string{"numpy", "pandas"},
		},
		{
			name:   "import after other statements",
			source: "x = [1, 2]\nimport requests\nprint(x)\n",
			want:   []string{"requests"},
		},
		{
			name:   "semicolon separated imports",
			source: "import os; import numpy\n",
			want:   []string{"os", "numpy"},
		},
		{
			name:   "semicolon after assignment",
			source: "x = 1; from PIL import Image; y = 2\n",
			want:   []string{"PIL"},
		},
		{
			name:   "empty source",
			source: "",
			want:   nil,
		},
		{
			name:   "no trailing newline",
			source: "import yaml",
			want:   []string{"yaml"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FindImports(tt.source)
			if err != nil {
				t.Fatalf("FindImports() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FindImports() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFindImportsSyntaxErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"unterminated string", "s = 'oops\nimport numpy\n"},
		{"unterminated triple string", "s = \"\"\"oops\nimport numpy\n"},
		{"unmatched closing bracket", "x = 1)\n"},
		{"unclosed bracket", "x = (1, 2\n"},
		{"bare import", "import\n"},
		{"bad module name", "import 2fast\n"},
		{"malformed alias", "import numpy as\n"},
		{"from without import", "from numpy\n"},
		{"trailing continuation", "import numpy, \\"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FindImports(tt.source)
			var synErr *SyntaxError
			if !errors.As(err, &synErr) {
				t.Fatalf("FindImports() error = %v, want *SyntaxError", err)
			}
			if synErr.Line <= 0 {
				t.Errorf("SyntaxError.Line = %d, want positive", synErr.Line)
			}
		})
	}
}

func TestSyntaxErrorMessage(t *testing.T) {
	_, err := FindImports("s = 'oops\n")
	if err == nil {
		t.Fatal("expected error")
	}
	want := "syntax error at line 1: unterminated string literal"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
