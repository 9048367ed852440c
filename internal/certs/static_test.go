package certs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietdv277/gatecert/pkg/provider"
)

func TestParseEndDate(t *testing.T) {
	tests := []struct {
		input   string
		want    time.Time
		wantErr bool
	}{
		{input: "notAfter=Mar  4 12:00:00 2027 GMT", want: time.Date(2027, time.March, 4, 0, 0, 0, 0, time.UTC)},
		{input: "notAfter=Dec 31 23:59:59 2026 GMT\n", want: time.Date(2026, time.December, 31, 0, 0, 0, 0, time.UTC)},
		{input: "Jan 15 08:00:00 2028 GMT", want: time.Date(2028, time.January, 15, 0, 0, 0, 0, time.UTC)},
		{input: "notAfter=", wantErr: true},
		{input: "notAfter=Foo  4 12:00:00 2027 GMT", wantErr: true},
		{input: "notAfter=Mar xx 12:00:00 2027 GMT", wantErr: true},
		{input: "notAfter=Mar  4 12:00:00 year GMT", wantErr: true},
		{input: "notAfter=Feb 30 12:00:00 2027 GMT", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseEndDate(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, provider.ErrParse)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDate(t *testing.T) {
	want := time.Date(2026, time.November, 1, 0, 0, 0, 0, time.UTC)

	for _, input := range []string{"2026-11-01", "2026-11-01T18:30:00Z", "notAfter=Nov  1 18:30:00 2026 GMT"} {
		got, err := ParseDate(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	_, err := ParseDate("soon")
	assert.ErrorIs(t, err, provider.ErrParse)
}

func TestStaticSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "certs.yaml")
	content := `a.example.com: 2026-11-01
b.example.com: "notAfter=Jan  5 00:00:00 2027 GMT"
c.example.com: next tuesday
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	source, err := LoadStaticSource(path)
	require.NoError(t, err)

	got, err := source.Expiration(context.Background(), "a.example.com")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.November, 1, 0, 0, 0, 0, time.UTC), got)

	got, err = source.Expiration(context.Background(), "b.example.com")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2027, time.January, 5, 0, 0, 0, 0, time.UTC), got)

	_, err = source.Expiration(context.Background(), "c.example.com")
	assert.ErrorIs(t, err, provider.ErrParse)

	_, err = source.Expiration(context.Background(), "missing.example.com")
	assert.ErrorIs(t, err, provider.ErrConnection)
}

func TestLoadStaticSourceMissingFile(t *testing.T) {
	_, err := LoadStaticSource(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
