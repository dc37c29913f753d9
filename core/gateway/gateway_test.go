package gateway_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kawacukennedy/AgriCredit-Africa-sub000/core/gateway"
	"github.com/kawacukennedy/AgriCredit-Africa-sub000/core/ussd"
)

type stubDispatcher struct {
	last ussd.Callback
	resp string
}

func (s *stubDispatcher) Dispatch(_ context.Context, cb ussd.Callback) string {
	s.last = cb
	return s.resp
}

func newTestServer(t *testing.T, opts ...gateway.Option) (*httptest.Server, *stubDispatcher) {
	t.Helper()
	dispatcher := &stubDispatcher{resp: "CON Welcome"}
	svc, err := gateway.New(dispatcher, opts...)
	require.NoError(t, err)

	e := echo.New()
	svc.Register(e)

	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return srv, dispatcher
}

func postCallback(t *testing.T, srv *httptest.Server, form url.Values) *http.Response {
	t.Helper()
	resp, err := http.Post(srv.URL+"/ussd/callback", "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestCallbackHandler(t *testing.T) {
	t.Parallel()

	t.Run("maps form fields onto the callback", func(t *testing.T) {
		t.Parallel()
		srv, dispatcher := newTestServer(t)

		resp := postCallback(t, srv, url.Values{
			"sessionId":   {"ATUid_123"},
			"phoneNumber": {"+254700000001"},
			"serviceCode": {"*384*96#"},
			"text":        {"1*2*3"},
		})
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		body := make([]byte, 64)
		n, _ := resp.Body.Read(body)
		assert.Equal(t, "CON Welcome", string(body[:n]))

		assert.Equal(t, "ATUid_123", dispatcher.last.SessionID)
		assert.Equal(t, "+254700000001", dispatcher.last.PhoneNumber)
		assert.Equal(t, "*384*96#", dispatcher.last.ServiceCode)
		assert.Equal(t, "1*2*3", dispatcher.last.Text)
	})

	t.Run("missing identifiers rejected", func(t *testing.T) {
		t.Parallel()
		srv, _ := newTestServer(t)
		resp := postCallback(t, srv, url.Values{"text": {"1"}})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestHealthzHandler(t *testing.T) {
	t.Parallel()

	t.Run("liveness without checks", func(t *testing.T) {
		t.Parallel()
		srv, _ := newTestServer(t)
		resp, err := http.Get(srv.URL + "/healthz")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("ready when all checks pass", func(t *testing.T) {
		t.Parallel()
		srv, _ := newTestServer(t, gateway.WithReadinessChecks(
			func(context.Context) error { return nil },
		))
		resp, err := http.Get(srv.URL + "/healthz")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("unavailable when a check fails", func(t *testing.T) {
		t.Parallel()
		srv, _ := newTestServer(t, gateway.WithReadinessChecks(
			func(context.Context) error { return nil },
			func(context.Context) error { return errors.New("redis down") },
		))
		resp, err := http.Get(srv.URL + "/healthz")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	})
}

func TestNewRequiresDispatcher(t *testing.T) {
	t.Parallel()
	_, err := gateway.New(nil)
	assert.Error(t, err)
}
