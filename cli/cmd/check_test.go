package cmd

import (
	"bytes"
	"errors"
	"testing"
)

func TestCheckRun(t *testing.T) {
	tests := []struct {
		name     string
		expr     []string
		failFast bool
		sources  bool
		want     string
		wantErr  error
	}{
		{
			name:    "manifest_checks",
			sources: true,
			want:    "ok    N == 3\nok    abs(area - 2.25) < 1e-12\n",
		},
		{
			name:    "extra_checks",
			sources: true,
			expr:    []string{"L < 1", "area > L"},
			want: "ok    N == 3\nok    abs(area - 2.25) < 1e-12\n" +
				"FAIL  L < 1\nok    area > L\n",
			wantErr: ErrChecksFailed,
		},
		{
			name:     "fail_fast",
			sources:  true,
			expr:     []string{"L < 1", "area > L"},
			failFast: true,
			want: "ok    N == 3\nok    abs(area - 2.25) < 1e-12\n" +
				"FAIL  L < 1\n",
			wantErr: ErrChecksFailed,
		},
		{
			name:    "no_checks",
			wantErr: ErrNoChecks,
		},
		{
			name: "without_sources",
			expr: []string{"1 + 1 == 2"},
			want: "ok    1 + 1 == 2\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			ctx := sessionContext(t, &buf, Settings{})
			if tt.sources {
				ctx = beamContext(t, &buf)
			}

			err := (&Check{Expr: tt.expr, FailFast: tt.failFast}).Run(ctx)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}

			if got := buf.String(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
