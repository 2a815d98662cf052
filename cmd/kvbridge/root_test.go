/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suparena/kvbridge"
	"github.com/suparena/kvbridge/config"
	kverrors "github.com/suparena/kvbridge/errors"
	"github.com/suparena/kvbridge/kvstore"
	"github.com/suparena/kvbridge/kvstore/memory"
)

const testSchema = `
components:
  schemas:
    User:
      type: object
      properties:
        email:
          type: string
          x-kv-index: true
        age:
          type: integer
        prefs:
          type: object
    Comment:
      x-kv-foreign-keys: [userId]
      properties:
        body:
          type: string
`

// keepOpen survives the disconnect at the end of every command.
type keepOpen struct {
	kvstore.Store
}

func (keepOpen) Close() error { return nil }

type harness struct {
	t      *testing.T
	store  *memory.Store
	schema string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	t.Setenv(config.EnvBackend, "memory")
	path := filepath.Join(t.TempDir(), "schema.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testSchema), 0o600))
	return &harness{t: t, store: memory.New(), schema: path}
}

func (h *harness) cmd(args ...string) *cobra.Command {
	cmd := newRootCmd(func(ctx context.Context, cfg *config.Config) (kvstore.Store, error) {
		return keepOpen{h.store}, nil
	})
	cmd.SetArgs(append(args, "--schema", h.schema))
	return cmd
}

func assertCmdOutput(t *testing.T, cmd *cobra.Command, output string) {
	t.Helper()
	buf := bytes.NewBufferString("")
	cmd.SetOut(buf)
	err := cmd.Execute()
	assert.Equal(t, output, buf.String())
	require.NoError(t, err)
}

func TestRecordCommands(t *testing.T) {
	h := newHarness(t)

	assertCmdOutput(t, h.cmd("create", "User", "email=a@x.com", "age=31", `prefs={"theme":"dark"}`), "{\"id\":1}\n")
	assertCmdOutput(t, h.cmd("create", "User", "email=b@x.com", "age=27"), "{\"id\":2}\n")

	assertCmdOutput(t, h.cmd("find", "User", "1"),
		"{\"age\":31,\"email\":\"a@x.com\",\"id\":1,\"prefs\":{\"theme\":\"dark\"}}\n")
	assertCmdOutput(t, h.cmd("find", "User", "9"), "null\n")

	assertCmdOutput(t, h.cmd("all", "User", "email=b@x.com"), "[{\"age\":27,\"email\":\"b@x.com\",\"id\":2}]\n")
	assertCmdOutput(t, h.cmd("all", "User", "--match", "email=^a@"),
		"[{\"age\":31,\"email\":\"a@x.com\",\"id\":1,\"prefs\":{\"theme\":\"dark\"}}]\n")
	assertCmdOutput(t, h.cmd("all", "User", "age=99"), "[]\n")

	assertCmdOutput(t, h.cmd("update", "User", "2", "email=c@x.com"), "")
	assertCmdOutput(t, h.cmd("all", "User", "email=b@x.com"), "[{\"age\":27,\"email\":\"c@x.com\",\"id\":2}]\n")
	assertCmdOutput(t, h.cmd("index", "User", "email", "b@x.com"), "[\"User:2\"]\n")

	assertCmdOutput(t, h.cmd("count", "User"), "{\"count\":2}\n")
	assertCmdOutput(t, h.cmd("destroy", "User", "1"), "")
	assertCmdOutput(t, h.cmd("count", "User"), "{\"count\":1}\n")
	assertCmdOutput(t, h.cmd("destroy-all", "User"), "")
	assertCmdOutput(t, h.cmd("count", "User"), "{\"count\":0}\n")
	assertCmdOutput(t, h.cmd("index", "User", "email", "nobody"), "[]\n")
}

func TestForeignKeyFromSchema(t *testing.T) {
	h := newHarness(t)

	assertCmdOutput(t, h.cmd("create", "Comment", "body=hi", "userId=4"), "{\"id\":1}\n")
	assertCmdOutput(t, h.cmd("index", "Comment", "userId", "4"), "[\"Comment:1\"]\n")
	assertCmdOutput(t, h.cmd("find", "Comment", "1"), "{\"body\":\"hi\",\"id\":1,\"userId\":4}\n")
}

func TestCommandErrors(t *testing.T) {
	h := newHarness(t)

	err := h.cmd("create", "Ghost", "name=boo").Execute()
	assert.True(t, kverrors.IsNotFound(err), "got %v", err)

	err = h.cmd("create", "User", "novalue").Execute()
	assert.ErrorContains(t, err, "expected FIELD=VALUE")

	err = h.cmd("find", "User", "abc").Execute()
	assert.ErrorContains(t, err, `invalid id "abc"`)

	err = h.cmd("all", "User", "--match", "email=(").Execute()
	assert.ErrorContains(t, err, "--match email")

	err = h.cmd("create", "User", "prefs={").Execute()
	assert.ErrorContains(t, err, `field "prefs"`)

	h.store.FailOn("sadd", assert.AnError)
	buf := bytes.NewBufferString("")
	cmd := h.cmd("create", "User", "email=z@x.com")
	cmd.SetOut(buf)
	err = cmd.Execute()
	assert.True(t, kverrors.IsIndexUpdateError(err), "got %v", err)
	assert.Equal(t, "{\"id\":1}\n", buf.String(), "the id is printed even when indexing fails")
}

func TestSchemaErrors(t *testing.T) {
	h := newHarness(t)
	cmd := newRootCmd(func(ctx context.Context, cfg *config.Config) (kvstore.Store, error) {
		return keepOpen{h.store}, nil
	})
	cmd.SetArgs([]string{"count", "User", "--schema", filepath.Join(t.TempDir(), "missing.yaml")})
	assert.Error(t, cmd.Execute())
}

func TestEnvFile(t *testing.T) {
	t.Setenv(config.EnvBackend, "")
	os.Unsetenv(config.EnvBackend)
	path := filepath.Join(t.TempDir(), "kv.env")
	require.NoError(t, os.WriteFile(path, []byte("KVBRIDGE_BACKEND=memory\n"), 0o600))

	var got config.Backend
	cmd := newRootCmd(func(ctx context.Context, cfg *config.Config) (kvstore.Store, error) {
		got = cfg.Backend
		return memory.New(), nil
	})
	cmd.SetArgs([]string{"count", "User", "--env-file", path})
	cmd.SetOut(bytes.NewBufferString(""))
	require.NoError(t, cmd.Execute())
	assert.Equal(t, config.BackendMemory, got)
}

func TestVersionCmd(t *testing.T) {
	cmd := newRootCmd(nil)
	cmd.SetArgs([]string{"version"})
	info := kvbridge.GetVersionInfo()
	assertCmdOutput(t, cmd, "kvbridge version "+info.Version+"\nGit commit: "+info.GitCommit+
		"\nBuild date: "+info.BuildDate+"\nGo version: "+info.GoVersion+"\n")
}
