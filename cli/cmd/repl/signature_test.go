package repl

import (
	"slices"
	"strings"
	"testing"
)

func TestDetectFunctionCall(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		cursor     int
		wantName   string
		wantIndex  int
		wantInCall bool
	}{
		{name: "no_call", input: "L", cursor: 1},
		{name: "open_paren", input: "sqrt(", cursor: 5, wantName: "sqrt", wantInCall: true},
		{name: "first_arg", input: "atan2(y", cursor: 7, wantName: "atan2", wantInCall: true},
		{name: "second_arg", input: "atan2(y,", cursor: 8, wantName: "atan2", wantIndex: 1, wantInCall: true},
		{name: "second_arg_value", input: "atan2(y, x", cursor: 10, wantName: "atan2", wantIndex: 1, wantInCall: true},
		{name: "closed_call", input: "sqrt(2)", cursor: 7},
		{name: "after_closed_call", input: "sqrt(2) + ", cursor: 10},
		{name: "nested_inner", input: "atan2(sin(a", cursor: 11, wantName: "sin", wantInCall: true},
		{name: "nested_after_inner", input: "atan2(sin(a), ", cursor: 14, wantName: "atan2", wantIndex: 1, wantInCall: true},
		{name: "nested_commas_ignored", input: "sqrt(atan2(a, b) + ", cursor: 19, wantName: "sqrt", wantInCall: true},
		{name: "grouping_paren", input: "(a + ", cursor: 5},
		{name: "cursor_inside", input: "atan2(y, x)", cursor: 7, wantName: "atan2", wantInCall: true},
		{name: "with_space_before_paren", input: "sin (", cursor: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := detectFunctionCall(tt.input, tt.cursor)

			if got.name != tt.wantName {
				t.Errorf("expected name %q, got %q", tt.wantName, got.name)
			}

			if got.argIndex != tt.wantIndex {
				t.Errorf("expected argIndex %d, got %d", tt.wantIndex, got.argIndex)
			}

			if got.inCall != tt.wantInCall {
				t.Errorf("expected inCall %v, got %v", tt.wantInCall, got.inCall)
			}
		})
	}
}

func TestGetSignature(t *testing.T) {
	tests := []struct {
		name       string
		wantSig    string
		wantParams []string
	}{
		{"sin", "sin(x)", []string{"x"}},
		{"sqrt", "sqrt(x)", []string{"x"}},
		{"atan2", "atan2(y, x)", []string{"y", "x"}},
		{"L", "", nil},
		{"", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig, params := getSignature(tt.name)
			if sig != tt.wantSig {
				t.Errorf("expected signature %q, got %q", tt.wantSig, sig)
			}

			if !slices.Equal(params, tt.wantParams) {
				t.Errorf("expected params %v, got %v", tt.wantParams, params)
			}
		})
	}
}

// TestFunctionParams_Complete ensures every function has a signature.
func TestFunctionParams_Complete(t *testing.T) {
	for name := range functionParams {
		if !isFunction(name) {
			t.Errorf("signature for %q which is not a function", name)
		}
	}

	for _, name := range []string{"sin", "cos", "tan", "asin", "acos", "atan2", "sqrt"} {
		if _, ok := functionParams[name]; !ok {
			t.Errorf("missing signature for %q", name)
		}
	}
}

func TestRenderSignatureHint(t *testing.T) {
	tests := []struct {
		name      string
		signature string
		params    []string
		argIndex  int
		want      string
	}{
		{name: "empty", want: ""},
		{name: "unary", signature: "sqrt(x)", params: []string{"x"}, want: "sqrt(x)"},
		{name: "binary_first", signature: "atan2(y, x)", params: []string{"y", "x"}, want: "atan2(y, x)"},
		{name: "binary_second", signature: "atan2(y, x)", params: []string{"y", "x"}, argIndex: 1, want: "atan2(y, x)"},
		{name: "excess_arg", signature: "sin(x)", params: []string{"x"}, argIndex: 3, want: "sin(x)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := renderSignatureHint(tt.signature, tt.params, tt.argIndex)

			// Strip styling; the plain text must be the signature.
			if plain := stripANSI(got); plain != tt.want {
				t.Errorf("expected %q, got %q", tt.want, plain)
			}
		})
	}
}

// stripANSI removes SGR escape sequences.
func stripANSI(s string) string {
	var b strings.Builder

	for i := 0; i < len(s); i++ {
		if s[i] == '\x1b' {
			for i < len(s) && s[i] != 'm' {
				i++
			}

			continue
		}

		b.WriteByte(s[i])
	}

	return b.String()
}
