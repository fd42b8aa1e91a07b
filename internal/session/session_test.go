// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/dacolabs/buildergen/internal/config"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name       string
		dir        string // relative to testdata, empty means use t.TempDir()
		wantErr    error
		wantMode   string // only checked if wantErr is nil
		wantConfig bool   // whether a config file was found
	}{
		{
			name:     "no config file",
			dir:      "",
			wantMode: config.ModeTyped,
		},
		{
			name:    "invalid config",
			dir:     "testdata/invalid-config",
			wantErr: ErrInvalidConfig,
		},
		{
			name:    "invalid mode",
			dir:     "testdata/bad-mode",
			wantErr: ErrInvalidConfig,
		},
		{
			name:       "valid",
			dir:        "testdata/valid",
			wantMode:   config.ModeChecked,
			wantConfig: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var testDir string
			if tt.dir == "" {
				testDir = t.TempDir()
			} else {
				var err error
				testDir, err = filepath.Abs(tt.dir)
				require.NoError(t, err)
			}

			ctx, err := Load(context.Background(), testDir)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			sess := From(ctx)
			require.NotNil(t, sess)
			assert.Equal(t, tt.wantMode, sess.Config.Mode)
			assert.Equal(t, "valid", filepath.Base(sess.Dir))
	assert.Equal(t, config.ModeChecked, sess.Config.Mode)
			assert.Equal(t, tt.wantConfig, sess.ConfigPath != "")
		})
	}
}

func TestContext_Resolve(t *testing.T) {
	sess := &Context{Dir: "/work"}
	assert.Equal(t, filepath.Join("/work", "models/user.go"), sess.Resolve("models/user.go"))
	assert.Equal(t, "/abs/user.go", sess.Resolve("/abs/user.go"))
	assert.Equal(t, "", sess.Resolve(""))
}

func TestFrom_NoContextStored(t *testing.T) {
	assert.Nil(t, From(context.Background()))
}

func TestLoadCommand(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	assert.Nil(t, FromCommand(cmd))

	sess, err := LoadCommand(cmd, "testdata/valid")
	require.NoError(t, err)
	assert.Same(t, sess, FromCommand(cmd))
	assert.Equal(t, config.ModeChecked, sess.Config.Mode)
	require.Len(t, sess.Config.Inputs, 1)
}

func TestLoadCommand_WorkingDirectory(t *testing.T) {
	testDir, err := filepath.Abs("testdata/valid")
	require.NoError(t, err)

	origDir, _ := os.Getwd()
	defer func() { _ = os.Chdir(origDir) }()
	require.NoError(t, os.Chdir(testDir))

	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	sess, err := LoadCommand(cmd, "")
	require.NoError(t, err)
	assert.Equal(t, "valid", filepath.Base(sess.Dir))
	assert.Equal(t, config.ModeChecked, sess.Config.Mode)
}

func TestLoadCommand_InvalidConfig(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())

	_, err := LoadCommand(cmd, "testdata/bad-mode")
	require.ErrorIs(t, err, ErrInvalidConfig)
	assert.Nil(t, FromCommand(cmd))
}

func TestRequireFromCommand(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())

	_, err := RequireFromCommand(cmd)
	assert.EqualError(t, err, "project context not loaded")

	ctx, err := Load(context.Background(), t.TempDir())
	require.NoError(t, err)
	cmd.SetContext(ctx)

	sess, err := RequireFromCommand(cmd)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultSuffix, sess.Config.Suffix)
}
