package main

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")

	err := writeOutput(path, func(w io.Writer) error {
		_, err := io.WriteString(w, "date,employee_id\n")
		return err
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "date,employee_id\n", string(data))
}

func TestWriteOutputErrors(t *testing.T) {
	dir := t.TempDir()
	failed := errors.New("write failed")

	tests := []struct {
		name  string
		write func(io.Writer) error
		check func(t *testing.T, err error)
	}{
		{
			name:  "write error wins",
			write: func(io.Writer) error { return failed },
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, failed)
			},
		},
		{
			name: "close error reported",
			write: func(w io.Writer) error {
				return w.(*os.File).Close()
			},
			check: func(t *testing.T, err error) {
				require.Error(t, err)
				assert.ErrorIs(t, err, os.ErrClosed)
				assert.Contains(t, err.Error(), "close ")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := writeOutput(filepath.Join(dir, tt.name+".svg"), tt.write)
			tt.check(t, err)
		})
	}

	err := writeOutput(filepath.Join(dir, "missing", "out.svg"), func(io.Writer) error { return nil })
	assert.Error(t, err)
}
