//go:build integration

package trust_test

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	botapp "github.com/aussiebroadwan/tasker/internal/bot/app"
	"github.com/aussiebroadwan/tasker/pkg/botsig"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// startRedis runs a throwaway Redis and returns its URL.
func startRedis(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	return fmt.Sprintf("redis://%s:%s/0", host, port.Port())
}

// TestReplayAcrossReplicas replays one signed request against a second API
// replica. Both share Redis, so the nonce is already spent.
func TestReplayAcrossReplicas(t *testing.T) {
	redisURL := startRedis(t)
	dir := t.TempDir()

	cfg := apiConfig(dir)
	cfg.RedisURL = redisURL
	first := startAPIWith(t, cfg)
	second := startAPIWith(t, cfg)

	botCfg := botConfig(first.URL)
	botCfg.RedisURL = redisURL
	bot, err := botapp.New(t.Context(), botCfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = bot.Close() })

	token, err := bot.Manager.EnsureAccessToken(t.Context())
	require.NoError(t, err)

	signer, err := botsig.NewSigner([]byte(sharedSecret))
	require.NoError(t, err)
	headers, err := signer.Sign(http.MethodGet, "/api/whoami", nil)
	require.NoError(t, err)

	send := func(base string) int {
		req, err := http.NewRequest(http.MethodGet, base+"/api/whoami", nil)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
		headers.Apply(req.Header)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		return resp.StatusCode
	}

	require.Equal(t, http.StatusOK, send(first.URL))
	require.Equal(t, http.StatusUnauthorized, send(second.URL))
}

// TestBotReplicasOverRedis shares one Redis token cache between bot
// processes with the distributed lock on.
func TestBotReplicasOverRedis(t *testing.T) {
	redisURL := startRedis(t)
	a := startAPI(t)

	cfg := botConfig(a.URL)
	cfg.RedisURL = redisURL
	cfg.DistributedLock = true

	var wg sync.WaitGroup
	errs := make(chan error, 12)
	for range 3 {
		bot, err := botapp.New(t.Context(), cfg)
		require.NoError(t, err)
		t.Cleanup(func() { _ = bot.Close() })

		for range 4 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := bot.Session.WhoAmI(context.Background())
				errs <- err
			}()
		}
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	require.EqualValues(t, 1, a.logins.Load())
}
