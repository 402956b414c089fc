package botsig_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/tasker/pkg/botsig"
	"github.com/aussiebroadwan/tasker/pkg/kvstore"
	"github.com/stretchr/testify/require"
)

func TestTransportSignsRequests(t *testing.T) {
	v, err := botsig.NewVerifier(testSecret, kvstore.NewMemory())
	require.NoError(t, err)

	results := make(chan error, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		results <- v.VerifyRequest(r)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := &http.Client{
		Timeout:   5 * time.Second,
		Transport: &botsig.Transport{Signer: newSigner(t)},
	}

	t.Run("post with body", func(t *testing.T) {
		resp, err := client.Post(srv.URL+"/api/link/confirm", "application/json",
			strings.NewReader(`{"external_id":"42","code":"deadbeef","chat_id":42}`))
		require.NoError(t, err)
		resp.Body.Close()
		require.NoError(t, <-results)
	})

	t.Run("get with query", func(t *testing.T) {
		resp, err := client.Get(srv.URL + "/api/whoami?verbose=1")
		require.NoError(t, err)
		resp.Body.Close()
		require.NoError(t, <-results)
	})
}
