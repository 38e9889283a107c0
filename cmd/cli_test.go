package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionPrintsVersion(t *testing.T) {
	stdout, _, err := executeCLI(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.NotEmpty(t, strings.TrimSpace(stdout))
}

func TestUnknownCommandIsRejected(t *testing.T) {
	_, _, err := executeCLI(t, t.TempDir(), "pair")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command \"pair\"")
}

func TestStatusWithoutSessionRecord(t *testing.T) {
	stdout, _, err := executeCLI(t, t.TempDir(), "status")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Chatline Session Status")
	assert.Contains(t, stdout, "account: clinic-main")
	assert.Contains(t, stdout, "disconnected")
}

func TestStatusShowsPersistedSessionRecord(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, writeSessionFixture(home))

	stdout, _, err := executeCLI(t, home, "status")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Front Desk (clinic-main)")
	assert.Contains(t, stdout, "last paired:")
	assert.Contains(t, stdout, "last ready:")
}

func TestStatusJSONOutputRedactsCredentials(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, writeSessionFixture(home))

	stdout, _, err := executeCLI(t, home, "status", "--json")
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(stdout)))
	assert.Contains(t, stdout, "\"State\": \"disconnected\"")
	assert.Contains(t, stdout, "\"Label\": \"Front Desk\"")
	assert.Contains(t, stdout, "\"Credentials\": null")
}

func TestConfigFileRedirectsSessionsPath(t *testing.T) {
	home := t.TempDir()
	configDir := filepath.Join(home, ".chatline")
	require.NoError(t, os.MkdirAll(configDir, 0o755))

	customPath := filepath.Join(home, "elsewhere", "records.toml")
	config := "[sessions]\npath = '" + customPath + "'\n"
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.toml"), []byte(config), 0o644))

	sessions := `version = 1

[[sessions]]
account_id = 'clinic-main'
label = 'Back Office'
`
	require.NoError(t, os.MkdirAll(filepath.Dir(customPath), 0o755))
	require.NoError(t, os.WriteFile(customPath, []byte(sessions), 0o600))

	stdout, _, err := executeCLI(t, home, "status")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Back Office (clinic-main)")
}

func TestResetRequiresConfirmation(t *testing.T) {
	_, _, err := executeCLI(t, t.TempDir(), "reset")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--yes")
}

func TestResetClearsStoredCredentials(t *testing.T) {
	home := t.TempDir()
	credPath := filepath.Join(home, ".chatline", "credentials", "clinic-main.cred")
	require.NoError(t, os.MkdirAll(filepath.Dir(credPath), 0o700))
	require.NoError(t, os.WriteFile(credPath, []byte("blob"), 0o600))

	stdout, _, err := executeCLI(t, home, "reset", "--yes")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Session cleared.")

	_, err = os.Stat(credPath)
	assert.True(t, os.IsNotExist(err))
}

func TestSendRequiresRecipientAndMessage(t *testing.T) {
	_, _, err := executeCLI(t, t.TempDir(), "send")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag(s)")
}

func TestSendDeliversThroughGateway(t *testing.T) {
	server := newFakeGateway(t)
	defer server.Close()
	t.Setenv("CHATLINE_GATEWAY_URL", "ws"+strings.TrimPrefix(server.URL, "http"))

	stdout, _, err := executeCLI(t, t.TempDir(),
		"send",
		"--to", "+41 79 123 45 67",
		"--message", "Reminder: checkup tomorrow at 9:00",
		"--wait", "5s",
	)
	require.NoError(t, err)
	assert.Contains(t, stdout, "delivered")
}

func TestSendJSONOutput(t *testing.T) {
	server := newFakeGateway(t)
	defer server.Close()
	t.Setenv("CHATLINE_GATEWAY_URL", "ws"+strings.TrimPrefix(server.URL, "http"))

	stdout, _, err := executeCLI(t, t.TempDir(),
		"send",
		"--to", "+41791234567",
		"--message", "Reminder",
		"--wait", "5s",
		"--json",
	)
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(stdout)))
	assert.Contains(t, stdout, "\"Kind\": \"delivered\"")
	assert.Contains(t, stdout, "\"Attempts\": 1")
}

func executeCLI(t *testing.T, home string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", home)
	t.Setenv("CHATLINE_ACCOUNT_ID", "clinic-main")

	root := newRootCmd()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func writeSessionFixture(home string) error {
	configDir := filepath.Join(home, ".chatline")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return err
	}

	sessions := `version = 1

[[sessions]]
account_id = 'clinic-main'
label = 'Front Desk'
address = '+41791112233'
last_paired_at = '2026-08-28T10:00:00Z'
last_ready_at = '2026-08-30T08:30:00Z'
`

	return os.WriteFile(filepath.Join(configDir, "sessions.toml"), []byte(sessions), 0o644)
}

// newFakeGateway opens the session immediately after hello and acks every
// send frame.
func newFakeGateway(t *testing.T) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer func() { _ = ws.Close() }()

		var hello map[string]any
		if err := ws.ReadJSON(&hello); err != nil {
			return
		}
		if err := ws.WriteJSON(map[string]any{"type": "open"}); err != nil {
			return
		}

		for {
			var f map[string]any
			if err := ws.ReadJSON(&f); err != nil {
				return
			}
			if f["type"] == "send" {
				if err := ws.WriteJSON(map[string]any{"type": "ack", "id": f["id"]}); err != nil {
					return
				}
			}
		}
	}))
}
