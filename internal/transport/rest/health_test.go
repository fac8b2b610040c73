package rest

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MiltonKlun/TickSnap/internal/domain"
)

type fakePinger struct{ err error }

func (f *fakePinger) Ping(ctx context.Context) error { return f.err }

func newTestServer(pinger *fakePinger) *httptest.Server {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return httptest.NewServer(NewHandler(pinger, log).InitRouter())
}

func TestHealth(t *testing.T) {
	ts := newTestServer(&fakePinger{})
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHealthLedger(t *testing.T) {
	t.Run("up", func(t *testing.T) {
		ts := newTestServer(&fakePinger{})
		defer ts.Close()

		resp, err := http.Get(ts.URL + "/health/ledger")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("down", func(t *testing.T) {
		ts := newTestServer(&fakePinger{err: domain.ErrConnection})
		defer ts.Close()

		resp, err := http.Get(ts.URL + "/health/ledger")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	})
}
