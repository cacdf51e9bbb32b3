package cli

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/listq/internal/config"
	"github.com/roach88/listq/internal/testutil"
)

func TestServe_ServesUntilCancelled(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	db := filepath.Join(t.TempDir(), "blog.db")
	_, err := executeSeed(t, "text", fixturesPath, "--schema", schemaDir, "--db", db)
	require.NoError(t, err)

	ready := make(chan net.Addr, 1)
	opts := &ServeOptions{
		RootOptions: &RootOptions{Format: "text"},
		IDGenerator: testutil.NewFixedIDGenerator("req-serve"),
		Ready:       func(addr net.Addr) { ready <- addr },
	}
	cmd := newServeCommand(opts)
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--schema", schemaDir, "--db", db, "--addr", "127.0.0.1:0"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- cmd.ExecuteContext(ctx) }()

	var addr net.Addr
	select {
	case addr = <-ready:
	case err := <-done:
		t.Fatalf("serve exited early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not start")
	}

	resp, err := http.Get("http://" + addr.String() + "/users?sort=-id&perPage=1")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "req-serve", resp.Header.Get("X-Request-Id"))
	assert.Contains(t, string(body), `"id":"3"`)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
	assert.Contains(t, out.String(), "Listening on http://127.0.0.1:")
}

func TestResolveConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "listq.yaml")
	require.NoError(t, os.WriteFile(path, []byte("addr: 0.0.0.0:9000\ndatabase: file.db\nper_page: 20\n"), 0644))

	tests := []struct {
		name string
		args []string
		want func(*config.Config)
	}{
		{
			name: "defaults",
			want: func(c *config.Config) {},
		},
		{
			name: "file",
			args: []string{"--config", path},
			want: func(c *config.Config) {
				c.Addr = "0.0.0.0:9000"
				c.Database = "file.db"
				c.PerPage = 20
			},
		},
		{
			name: "flags override file",
			args: []string{"--config", path, "--db", "flag.db", "--schema", "s"},
			want: func(c *config.Config) {
				c.Addr = "0.0.0.0:9000"
				c.Database = "flag.db"
				c.SchemaDir = "s"
				c.PerPage = 20
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := &ServeOptions{RootOptions: &RootOptions{}}
			cmd := newServeCommand(opts)
			require.NoError(t, cmd.ParseFlags(tt.args))

			got, err := resolveConfig(opts, cmd)
			require.NoError(t, err)

			want := config.Default()
			tt.want(&want)
			assert.Equal(t, want, got)
		})
	}
}

func TestResolveConfig_Errors(t *testing.T) {
	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("per_pag: 3\n"), 0644))

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"missing file", []string{"--config", "/nonexistent.yaml"}, "failed to read config file"},
		{"unknown key", []string{"--config", bad}, "failed to parse config"},
		{"empty flag", []string{"--addr", ""}, "addr is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := &ServeOptions{RootOptions: &RootOptions{}}
			cmd := newServeCommand(opts)
			require.NoError(t, cmd.ParseFlags(tt.args))

			_, err := resolveConfig(opts, cmd)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestServe_MissingSchema(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	cmd := NewServeCommand(&RootOptions{Format: "text"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--schema", "/nonexistent", "--db", filepath.Join(t.TempDir(), "x.db")})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "failed to load schema")
}

func TestConfigureLogging_VerboseForcesDebug(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	stderr := &bytes.Buffer{}
	cmd := NewServeCommand(&RootOptions{})
	cmd.SetErr(stderr)

	require.NoError(t, configureLogging(&RootOptions{Verbose: true}, config.Log{Level: "error", Format: "json"}, cmd))
	slog.Debug("probe", "k", "v")

	assert.Contains(t, stderr.String(), `"msg":"probe"`)
}
