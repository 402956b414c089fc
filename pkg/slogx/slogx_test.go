package slogx_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aussiebroadwan/tasker/pkg/idx"
	"github.com/aussiebroadwan/tasker/pkg/slogx"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	require.Equal(t, slog.LevelDebug, slogx.ParseLevel("DEBUG"))
	require.Equal(t, slog.LevelWarn, slogx.ParseLevel("warning"))
	require.Equal(t, slog.LevelError, slogx.ParseLevel(" error "))
	require.Equal(t, slog.LevelInfo, slogx.ParseLevel("bogus"))
}

func TestNewRedactsCredentials(t *testing.T) {
	var buf bytes.Buffer
	logger := slogx.New(slogx.Config{Service: "test", Output: &buf})
	t.Cleanup(func() { slog.SetDefault(slog.New(slog.DiscardHandler)) })

	logger.Info("login", "username", "bot_service", "password", "hunter2", "refresh_token", "abc", "X-Bot-Signature", "deadbeef")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "bot_service", line["username"])
	require.Equal(t, slogx.Redacted, line["password"])
	require.Equal(t, slogx.Redacted, line["refresh_token"])
	require.Equal(t, slogx.Redacted, line["X-Bot-Signature"])
	require.Equal(t, "test", line["service"])
}

func TestHTTPMiddleware(t *testing.T) {
	tests := []struct {
		name      string
		reqID     string
		status    int
		keepID    bool
		wantLevel string
	}{
		{"ulid request id is kept", idx.New().String(), http.StatusOK, true, "INFO"},
		{"foreign request id is replaced", "req-1\nfake=1", http.StatusOK, false, "INFO"},
		{"unauthorized logs at warn", "", http.StatusUnauthorized, false, "WARN"},
		{"server error logs at error", "", http.StatusBadGateway, false, "ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			base := slog.New(slog.NewJSONHandler(&buf, nil))

			var sawLogger bool
			h := slogx.HTTPMiddleware(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				sawLogger = slogx.FromContext(r.Context()) != slog.Default()
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte("hello"))
			}))

			req := httptest.NewRequest(http.MethodGet, "/livez", nil)
			if tt.reqID != "" {
				req.Header.Set(slogx.HeaderRequestID, tt.reqID)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			require.True(t, sawLogger)
			got := rec.Header().Get(slogx.HeaderRequestID)
			require.True(t, idx.ID(got).Valid())
			if tt.keepID {
				require.Equal(t, tt.reqID, got)
			}

			var line map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
			require.Equal(t, "http_request", line["msg"])
			require.Equal(t, got, line["req_id"])
			require.Equal(t, tt.wantLevel, line["level"])
			require.EqualValues(t, tt.status, line["status"])
			require.EqualValues(t, 5, line["bytes"])
		})
	}
}
