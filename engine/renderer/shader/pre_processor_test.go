package shader

import (
	"strings"
	"testing"
)

func TestPreProcessorPassthrough(t *testing.T) {
	src := "fn main() {\n  let x = 1.0;\n}"
	got, err := NewPreProcessor(nil).Process(src)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if got != src {
		t.Errorf("source without directives changed:\n%s", got)
	}
}

func TestPreProcessorDefineSubstitution(t *testing.T) {
	src := "#define RADIUS 6\nconst r = RADIUS;\nconst r2 = RADIUS2;"
	got, err := NewPreProcessor(nil).Process(src)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if !strings.Contains(got, "const r = 6;") {
		t.Errorf("RADIUS not substituted:\n%s", got)
	}
	// RADIUS2 is a different identifier and must not be touched.
	if !strings.Contains(got, "const r2 = RADIUS2;") {
		t.Errorf("substitution crossed a word boundary:\n%s", got)
	}
	if strings.Contains(got, "#define") {
		t.Errorf("directive line leaked into output:\n%s", got)
	}
}

func TestPreProcessorConditionals(t *testing.T) {
	tests := []struct {
		name        string
		defines     map[string]string
		source      string
		wantPresent []string
		wantAbsent  []string
	}{
		{
			name:        "if taken",
			defines:     map[string]string{"HORIZONTAL": "1"},
			source:      "#if HORIZONTAL\nlet d = vec2f(1, 0);\n#else\nlet d = vec2f(0, 1);\n#endif",
			wantPresent: []string{"vec2f(1, 0)"},
			wantAbsent:  []string{"vec2f(0, 1)"},
		},
		{
			name:        "else taken when undefined",
			defines:     nil,
			source:      "#if HORIZONTAL\nlet d = vec2f(1, 0);\n#else\nlet d = vec2f(0, 1);\n#endif",
			wantPresent: []string{"vec2f(0, 1)"},
			wantAbsent:  []string{"vec2f(1, 0)"},
		},
		{
			name:        "zero value is false",
			defines:     map[string]string{"HORIZONTAL": "0"},
			source:      "#if HORIZONTAL\na\n#else\nb\n#endif",
			wantPresent: []string{"b"},
			wantAbsent:  []string{"a"},
		},
		{
			name:        "valueless define is true",
			defines:     nil,
			source:      "#define NEAR_FIELD\n#if NEAR_FIELD\nkeep\n#endif",
			wantPresent: []string{"keep"},
		},
		{
			name:        "nested conditionals",
			defines:     map[string]string{"OUTER": "1"},
			source:      "#if OUTER\n#if INNER\nx\n#else\ny\n#endif\n#endif",
			wantPresent: []string{"y"},
			wantAbsent:  []string{"x"},
		},
		{
			name:       "inactive branch suppresses defines",
			defines:    nil,
			source:     "#if MISSING\n#define FOO bar\n#endif\nFOO",
			wantAbsent: []string{"bar"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewPreProcessor(tt.defines).Process(tt.source)
			if err != nil {
				t.Fatalf("Process: %v", err)
			}
			for _, want := range tt.wantPresent {
				if !strings.Contains(got, want) {
					t.Errorf("output missing %q:\n%s", want, got)
				}
			}
			for _, absent := range tt.wantAbsent {
				if strings.Contains(got, absent) {
					t.Errorf("output contains %q:\n%s", absent, got)
				}
			}
		})
	}
}

func TestPreProcessorErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"endif without if", "#endif"},
		{"else without if", "#else"},
		{"duplicate else", "#if A\n#else\n#else\n#endif"},
		{"unterminated if", "#if A\nx"},
		{"unknown directive", "#pragma once"},
		{"invalid define name", "#define 1BAD x"},
		{"invalid if condition", "#if 2+2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewPreProcessor(nil).Process(tt.source); err == nil {
				t.Error("Process succeeded, want error")
			}
		})
	}
}
