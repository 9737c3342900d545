package qdn

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/qdn-tickets/ticket-service/internal/domain"
)

func TestStoreError_Kinds(t *testing.T) {
	ref := DocumentRef("qwiki", "APPQC_qwiki_1")

	notFound := fmt.Errorf("fetch original: %w", NotFound(ref))
	require.True(t, IsNotFound(notFound))

	cause := errors.New("connection refused")
	failure := fmt.Errorf("fetch original: %w", Failure(ref, 0, cause))
	require.False(t, IsNotFound(failure))
	require.ErrorIs(t, failure, cause)

	var storeErr *StoreError
	require.True(t, errors.As(failure, &storeErr))
	require.Equal(t, KindFailure, storeErr.Kind)
	require.Equal(t, "failure", storeErr.Kind.String())
}

func TestStoreError_MessageDoesNotDriveKind(t *testing.T) {
	ref := DocumentRef("qwiki", "APPQC_qwiki_1")
	err := Failure(ref, 502, errors.New("Error: 404 not found"))
	require.False(t, IsNotFound(err))
	require.Contains(t, err.Error(), "(502)")
}

func TestDecodeResource_Invalid(t *testing.T) {
	_, err := DecodeResource(DocumentRef("qwiki", "x"), []byte("{"))
	require.Error(t, err)
	require.False(t, IsNotFound(err))
}

func TestDecodeResource_OtherVersionsAreNotDecoded(t *testing.T) {
	ref := DocumentRef("qwiki", "APPQCX_qwiki_1")

	cases := map[string]struct {
		body    string
		version domain.SchemaVersion
	}{
		"changed field types": {`{"first_submitted":"2024-04-19T00:00:00Z","status":{"code":"accepted"},"version":2}`, 2},
		"not an object":       {`[1,2,3]`, 0},
		"version as string":   {`{"appname":"qwiki","version":"1"}`, 0},
		"no version":          {`{"appname":"qwiki"}`, 0},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			res, err := DecodeResource(ref, []byte(tc.body))
			require.NoError(t, err)
			require.Equal(t, domain.Document{Version: tc.version}, res.Document)
		})
	}
}

func TestDecodeResource_SupportedVersion(t *testing.T) {
	res, err := DecodeResource(DocumentRef("qwiki", "APPQC_qwiki_1"), []byte(`{"appname":"qwiki","status":"closed","version":1}`))
	require.NoError(t, err)
	require.Equal(t, "qwiki", res.Document.AppName)
	require.Equal(t, domain.TicketStatusClosed, res.Document.Status)

	_, err = DecodeResource(DocumentRef("qwiki", "APPQC_qwiki_1"), []byte(`{"first_submitted":"yesterday","version":1}`))
	require.Error(t, err)
	require.False(t, IsNotFound(err))
}
