package cmd

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventmgt/config"
)

func TestRootCommandTree(t *testing.T) {
	tests := []struct {
		path      []string
		wantFlags []string
	}{
		{path: []string{"serve"}, wantFlags: []string{"migrate", "with-worker"}},
		{path: []string{"migrate"}},
		{path: []string{"worker"}},
		{path: []string{"cleanup"}, wantFlags: []string{"delete"}},
		{path: []string{"admin", "create"}, wantFlags: []string{"email", "name", "password"}},
	}

	for _, tt := range tests {
		t.Run(tt.path[len(tt.path)-1], func(t *testing.T) {
			cmd, rest, err := rootCmd.Find(tt.path)
			require.NoError(t, err)
			assert.Empty(t, rest)
			assert.Equal(t, tt.path[len(tt.path)-1], cmd.Name())
			assert.NotNil(t, cmd.RunE)
			for _, name := range tt.wantFlags {
				assert.NotNil(t, cmd.Flags().Lookup(name), "flag %s", name)
			}
		})
	}
}

func TestCleanupDeleteDefaultsToFalse(t *testing.T) {
	cmd := newCleanupCmd()
	remove, err := cmd.Flags().GetBool("delete")
	require.NoError(t, err)
	assert.False(t, remove)
}

func TestAdminCreateRequiresFlags(t *testing.T) {
	cmd := newAdminCreateCmd()
	for _, name := range []string{"email", "password"} {
		flag := cmd.Flags().Lookup(name)
		require.NotNil(t, flag)
		assert.Equal(t, []string{"true"}, flag.Annotations["cobra_annotation_bash_completion_one_required_flag"], name)
	}
	assert.Nil(t, cmd.Flags().Lookup("name").Annotations)
}

func TestRunServer_ShutsDownOnCancel(t *testing.T) {
	cfg = &config.Config{Environment: "test", NotificationTransport: "inline"}
	logger = slog.New(slog.NewTextHandler(io.Discard, nil))

	ctx, cancel := context.WithCancel(context.Background())
	srv := &http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler()}

	done := make(chan error, 1)
	go func() { done <- runServer(ctx, srv) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
