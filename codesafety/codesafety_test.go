package codesafety_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/reviewboard/diffchunk"
	"github.com/reviewboard/diffchunk/codesafety"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrojanSource_Check(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		lines []string
		want  []string
	}{
		{name: "plain ascii", lines: []string{"return x + 1"}},
		{name: "non-latin text", lines: []string{"msg := \"שלום\""}},
		{name: "right-to-left override", lines: []string{"if admin \u202e{ }"}, want: []string{"bidi"}},
		{name: "isolate", lines: []string{"x \u2066y\u2069"}, want: []string{"bidi"}},
		{name: "zero width space", lines: []string{"us\u200ber"}, want: []string{"zws"}},
		{name: "byte order mark", lines: []string{"\ufeffpackage main"}, want: []string{"zws"}},
		{
			name:  "both across lines, reported once",
			lines: []string{"a\u202eb\u202e", "c\u200dd"},
			want:  []string{"bidi", "zws"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := codesafety.TrojanSource{}.Check(tt.lines)

			assert.Equal(t, tt.want, got.Warnings)
			assert.Empty(t, got.Errors)
		})
	}
}

type stubChecker struct {
	id     string
	result diffchunk.CodeSafetyResult
	seen   *[][]string
	panics bool
}

func (s stubChecker) ID() string { return s.id }

func (s stubChecker) Check(lines []string) diffchunk.CodeSafetyResult {
	if s.panics {
		panic("checker bug")
	}
	if s.seen != nil {
		*s.seen = append(*s.seen, lines)
	}
	return s.result
}

func TestRegistry_Check(t *testing.T) {
	t.Parallel()

	t.Run("runs every checker on non-empty sides", func(t *testing.T) {
		t.Parallel()

		var seen [][]string
		r := codesafety.NewRegistry(nil,
			stubChecker{id: "a", seen: &seen},
			stubChecker{id: "b", result: diffchunk.CodeSafetyResult{Errors: []string{"bad"}}},
		)

		findings := r.Check("", "new")

		assert.Equal(t, []diffchunk.CodeSafetyFinding{
			{CheckerID: "a"},
			{CheckerID: "b", Result: diffchunk.CodeSafetyResult{Errors: []string{"bad"}}},
		}, findings)
		assert.Equal(t, [][]string{{"new"}}, seen)
	})

	t.Run("logs a failing checker", func(t *testing.T) {
		t.Parallel()

		var logs bytes.Buffer
		r := codesafety.NewRegistry(slog.New(slog.NewTextHandler(&logs, nil)),
			stubChecker{id: "broken", panics: true},
			stubChecker{id: "ok", result: diffchunk.CodeSafetyResult{Warnings: []string{"w"}}},
		)

		findings := r.Check("x", "y")

		assert.Equal(t, []diffchunk.CodeSafetyFinding{
			{CheckerID: "broken"},
			{CheckerID: "ok", Result: diffchunk.CodeSafetyResult{Warnings: []string{"w"}}},
		}, findings)
		assert.Contains(t, logs.String(), "code safety checker failed")
		assert.Contains(t, logs.String(), "checker=broken")
	})

	t.Run("empty row", func(t *testing.T) {
		t.Parallel()

		assert.Nil(t, codesafety.Default(nil).Check("", ""))
	})

	t.Run("default registry finds trojan source", func(t *testing.T) {
		t.Parallel()

		findings := codesafety.Default(nil).Check("ok", "n\u200bo")

		assert.Equal(t, []diffchunk.CodeSafetyFinding{{
			CheckerID: "trojan_source",
			Result:    diffchunk.CodeSafetyResult{Warnings: []string{"zws"}},
		}}, findings)
	})
}

func TestRegistry_Enable(t *testing.T) {
	t.Parallel()

	t.Run("restricts checkers", func(t *testing.T) {
		t.Parallel()

		r := codesafety.NewRegistry(nil, stubChecker{id: "a"}, stubChecker{id: "b"})
		require.NoError(t, r.Enable("b"))

		findings := r.Check("x", "y")

		require.Len(t, findings, 1)
		assert.Equal(t, "b", findings[0].CheckerID)
	})

	t.Run("no ids enables all", func(t *testing.T) {
		t.Parallel()

		r := codesafety.NewRegistry(nil, stubChecker{id: "a"}, stubChecker{id: "b"})
		require.NoError(t, r.Enable("a"))
		require.NoError(t, r.Enable())

		assert.Len(t, r.Check("x", ""), 2)
	})

	t.Run("unknown id", func(t *testing.T) {
		t.Parallel()

		err := codesafety.Default(nil).Enable("nope")

		assert.ErrorIs(t, err, codesafety.ErrUnknownChecker)
	})

	t.Run("get", func(t *testing.T) {
		t.Parallel()

		c, ok := codesafety.Default(nil).Get("trojan_source")
		require.True(t, ok)
		assert.Equal(t, "trojan_source", c.ID())

		_, ok = codesafety.Default(nil).Get("missing")
		assert.False(t, ok)
	})
}
