package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/qdn-tickets/ticket-service/internal/api/dto"
	"github.com/qdn-tickets/ticket-service/internal/domain"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"APP_CONFIG_PATH", "APP_ENV", "AUTH_JWT_SECRET", "QDN_SOURCE", "QDN_BASE_URL", "POSTGRES_DSN", "SQLITE_PATH", "REDIS_DB"} {
		t.Setenv(key, "")
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestImportThenResolve(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	db := filepath.Join(dir, "mirror.db")
	original := writeFile(t, dir, "original.json",
		`{"appname":"qwiki","ticket_type":"bug-report","subject":"crash","version":1,"submitted":1713488031344}`)
	accepted := writeFile(t, dir, "accepted.json",
		`{"appname":"qwiki","ticket_type":"bug-report","subject":"crash","version":1,"status":"accepted"}`)

	ctx := context.Background()
	var out bytes.Buffer
	require.NoError(t, run(ctx, []string{"import", "--sqlite", db, "--name", "alice", "--identifier", "APPQC_qwiki_7", "--file", original}, nil, &out))
	require.NoError(t, run(ctx, []string{"import", "--sqlite", db, "--name", "qwiki", "--identifier", "APPQCX_qwiki_7", "--file", accepted, "--updated", "1713488099999"}, nil, &out))
	require.Contains(t, out.String(), "DOCUMENT/alice/APPQC_qwiki_7")

	out.Reset()
	require.NoError(t, run(ctx, []string{"resolve", "--source", "sqlite", "--sqlite", db, "--name", "alice", "--identifier", "APPQC_qwiki_7"}, nil, &out))

	var ticket dto.TicketResponse
	require.NoError(t, json.Unmarshal(out.Bytes(), &ticket))
	require.Equal(t, "qwiki", ticket.QDNName)
	require.Equal(t, "APPQCX_qwiki_7", ticket.QDNIdentifier)
	require.Equal(t, domain.TicketStatusAccepted, ticket.Status)
	require.Equal(t, "green", ticket.Style.BackgroundColor)
	require.NotNil(t, ticket.QDNUpdated)
	require.Equal(t, int64(1713488099999), *ticket.QDNUpdated)
}

func TestImportFromStdin(t *testing.T) {
	clearEnv(t)
	db := filepath.Join(t.TempDir(), "mirror.db")
	ctx := context.Background()

	body := `{"appname":"qwiki","subject":"piped","version":1,"status":"closed"}`
	var out bytes.Buffer
	require.NoError(t, run(ctx, []string{"import", "--sqlite", db, "--name", "qwiki", "--identifier", "ticket_9", "--file", "-"}, strings.NewReader(body), &out))

	out.Reset()
	require.NoError(t, run(ctx, []string{"resolve", "--source", "sqlite", "--sqlite", db, "--name", "qwiki", "--identifier", "ticket_9"}, nil, &out))

	var ticket dto.TicketResponse
	require.NoError(t, json.Unmarshal(out.Bytes(), &ticket))
	require.Equal(t, "piped", ticket.Subject)
	require.Equal(t, domain.TicketStatusClosed, ticket.Status)
	require.Equal(t, "gray", ticket.Style.BackgroundColor)
}

func TestResolve_NotFoundExitCode(t *testing.T) {
	clearEnv(t)
	db := filepath.Join(t.TempDir(), "mirror.db")

	err := run(context.Background(), []string{"resolve", "--source", "sqlite", "--sqlite", db, "--name", "alice", "--identifier", "APPQC_none"}, nil, &bytes.Buffer{})
	require.Error(t, err)

	var exitErr *exitError
	require.True(t, errors.As(err, &exitErr))
	require.Equal(t, exitNotFound, exitErr.ExitCode())
}

func TestResolve_RequiresCoordinates(t *testing.T) {
	clearEnv(t)

	err := run(context.Background(), []string{"resolve", "--name", "alice"}, nil, &bytes.Buffer{})
	require.ErrorContains(t, err, "--identifier")
}

func TestImport_RejectsInvalidJSON(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	bad := writeFile(t, dir, "bad.json", "{not json")

	err := run(context.Background(), []string{"import", "--sqlite", filepath.Join(dir, "m.db"), "--name", "a", "--identifier", "b", "--file", bad}, nil, &bytes.Buffer{})
	require.Error(t, err)
}

func TestHashPassword(t *testing.T) {
	clearEnv(t)
	var out bytes.Buffer

	require.NoError(t, run(context.Background(), []string{"hash-password", "--cost", "4"}, strings.NewReader("s3cret\n"), &out))
	hash := strings.TrimSpace(out.String())
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret")))
}

func TestUnknownCommand(t *testing.T) {
	clearEnv(t)
	require.ErrorContains(t, run(context.Background(), []string{"serve"}, nil, &bytes.Buffer{}), "unknown command")
}
