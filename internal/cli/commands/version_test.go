package commands

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewVersionCommand(t *testing.T) {
	tests := []struct {
		name    string
		version string
		commit  string
		built   string
		wantOut []string
	}{
		{
			name:    "release version",
			version: "0.1.0",
			commit:  "3f2a9c1",
			built:   "2024-05-01",
			wantOut: []string{"docsite v0.1.0", "commit 3f2a9c1, built 2024-05-01", "HTML documents"},
		},
		{
			name:    "dev version",
			version: "dev",
			commit:  "unknown",
			built:   "unknown",
			wantOut: []string{"docsite vdev", "commit unknown, built unknown"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := NewVersionCommand(tt.version, tt.commit, tt.built)
			buf := new(bytes.Buffer)
			cmd.SetOut(buf)
			cmd.SetErr(buf)
			cmd.SetArgs([]string{})

			require.NoError(t, cmd.Execute())
			for _, want := range tt.wantOut {
				assert.Contains(t, buf.String(), want)
			}
		})
	}
}

func TestVersionCommandMetadata(t *testing.T) {
	cmd := NewVersionCommand("test", "abc", "today")

	assert.Equal(t, "version", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)
}
