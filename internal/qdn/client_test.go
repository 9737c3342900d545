package qdn_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/qdn-tickets/ticket-service/internal/config"
	"github.com/qdn-tickets/ticket-service/internal/domain"
	"github.com/qdn-tickets/ticket-service/internal/qdn"
	"github.com/qdn-tickets/ticket-service/internal/service"
)

const ticketJSON = `{
  "appname": "qwiki",
  "app_referrer": "/",
  "ticket_type": "comment",
  "first_submitted_by": "edbob",
  "first_submitted": 1713488031344,
  "subject": "just saying hi",
  "description": "Nothing important, just testing this out.",
  "version": 1
}`

func newTestClient(t *testing.T, handler http.HandlerFunc, fetchMetadata bool) *qdn.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := qdn.NewClient(config.QDNConfig{
		BaseURL:        server.URL,
		APIKey:         "secret-key",
		TimeoutSeconds: 5,
		FetchMetadata:  fetchMetadata,
	}, nil)
	require.NoError(t, err)
	return client
}

func TestClient_FetchResourceObject(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/arbitrary/DOCUMENT/qwiki/APPQC_qwiki_1", r.URL.Path)
		require.Equal(t, "secret-key", r.Header.Get("X-API-KEY"))
		_, _ = w.Write([]byte(ticketJSON))
	}, false)

	res, err := client.FetchResourceObject(context.Background(), qdn.DocumentRef("qwiki", "APPQC_qwiki_1"))
	require.NoError(t, err)
	require.Equal(t, "qwiki", res.Document.AppName)
	require.Equal(t, domain.TicketTypeComment, res.Document.TicketType)
	require.Equal(t, domain.SchemaVersion(1), res.Document.Version)
	require.Equal(t, int64(1713488031344), res.Document.FirstSubmitted)
	require.Nil(t, res.Created)
}

func TestClient_FetchResourceObject_EscapesPath(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/arbitrary/DOCUMENT/Q%20Wiki/APPQC_x", r.URL.EscapedPath())
		_, _ = w.Write([]byte(ticketJSON))
	}, false)

	_, err := client.FetchResourceObject(context.Background(), qdn.DocumentRef("Q Wiki", "APPQC_x"))
	require.NoError(t, err)
}

func TestClient_FetchResourceObject_NotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":1401,"message":"file not found"}`))
	}, false)

	_, err := client.FetchResourceObject(context.Background(), qdn.DocumentRef("qwiki", "APPQCX_qwiki_1"))
	require.Error(t, err)
	require.True(t, qdn.IsNotFound(err))
	require.ErrorIs(t, err, qdn.ErrNotFound)
}

func TestClient_FetchResourceObject_ServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	}, false)

	_, err := client.FetchResourceObject(context.Background(), qdn.DocumentRef("qwiki", "APPQC_qwiki_1"))
	require.Error(t, err)
	require.False(t, qdn.IsNotFound(err))

	var storeErr *qdn.StoreError
	require.True(t, errors.As(err, &storeErr))
	require.Equal(t, qdn.KindFailure, storeErr.Kind)
	require.Equal(t, http.StatusInternalServerError, storeErr.StatusCode)
}

func TestClient_FetchResourceObject_MalformedBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}, false)

	_, err := client.FetchResourceObject(context.Background(), qdn.DocumentRef("qwiki", "APPQC_qwiki_1"))
	require.Error(t, err)
	require.False(t, qdn.IsNotFound(err))
}

const futureTicketJSON = `{"first_submitted":"2024-04-19T00:00:00Z","status":{"code":"accepted"},"version":2}`

func TestClient_FetchResourceObject_FutureVersionNotDecoded(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(futureTicketJSON))
	}, false)

	res, err := client.FetchResourceObject(context.Background(), qdn.DocumentRef("qwiki", "APPQCX_qwiki_1"))
	require.NoError(t, err)
	require.Equal(t, domain.Document{Version: 2}, res.Document)
}

func TestClient_ResolverIgnoresFutureVersionConfirmation(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/arbitrary/DOCUMENT/qwiki/APPQC_qwiki_1":
			_, _ = w.Write([]byte(ticketJSON))
		case "/arbitrary/DOCUMENT/qwiki/APPQCX_qwiki_1":
			_, _ = w.Write([]byte(futureTicketJSON))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}, false)

	resolver := service.NewTicketResolver(service.TicketResolverDependencies{Store: client})
	ticket, err := resolver.Resolve(context.Background(), "qwiki", "APPQC_qwiki_1")
	require.NoError(t, err)
	require.Equal(t, "APPQC_qwiki_1", ticket.QDNIdentifier)
	require.Equal(t, domain.TicketStatusUnconfirmed, ticket.Status)
	require.Equal(t, int64(1713488031344), ticket.FirstSubmitted)
}

func TestClient_FetchResourceObject_WithMetadata(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/arbitrary/resources/search":
			require.Equal(t, "DOCUMENT", r.URL.Query().Get("service"))
			require.Equal(t, "true", r.URL.Query().Get("exactmatchnames"))
			_, _ = w.Write([]byte(`[{"name":"qwiki","identifier":"APPQC_qwiki_1","created":1713488031344,"updated":1713488099999}]`))
		default:
			_, _ = w.Write([]byte(ticketJSON))
		}
	}, true)

	res, err := client.FetchResourceObject(context.Background(), qdn.DocumentRef("qwiki", "APPQC_qwiki_1"))
	require.NoError(t, err)
	require.NotNil(t, res.Created)
	require.NotNil(t, res.Updated)
	require.Equal(t, int64(1713488031344), *res.Created)
	require.Equal(t, int64(1713488099999), *res.Updated)
}

func TestClient_FetchResourceObject_MetadataFailureIgnored(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/arbitrary/resources/search" {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(ticketJSON))
	}, true)

	res, err := client.FetchResourceObject(context.Background(), qdn.DocumentRef("qwiki", "APPQC_qwiki_1"))
	require.NoError(t, err)
	require.Nil(t, res.Created)
	require.Nil(t, res.Updated)
}

func TestClient_Ping(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/admin/status", r.URL.Path)
		_, _ = w.Write([]byte(`{"isSynchronizing":false}`))
	}, false)

	require.NoError(t, client.Ping(context.Background()))
}

func TestNewClient_RequiresBaseURL(t *testing.T) {
	_, err := qdn.NewClient(config.QDNConfig{}, nil)
	require.Error(t, err)
}
