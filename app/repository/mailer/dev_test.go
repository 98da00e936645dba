package mailer

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDevDispatcher_Send(t *testing.T) {
	t.Run("writes body and envelope to the outbox", func(t *testing.T) {
		dir := t.TempDir()
		d := NewDevDispatcher(dir)

		err := d.Send(context.Background(), "admin@example.com", "Low Stock Alert: Widget", "<h2>Low Stock Alert</h2>")
		require.NoError(t, err)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Len(t, entries, 2)

		var htmlPath, jsonPath string
		for _, entry := range entries {
			switch filepath.Ext(entry.Name()) {
			case ".html":
				htmlPath = filepath.Join(dir, entry.Name())
			case ".json":
				jsonPath = filepath.Join(dir, entry.Name())
			}
		}
		require.NotEmpty(t, htmlPath)
		require.NotEmpty(t, jsonPath)

		body, err := os.ReadFile(htmlPath)
		require.NoError(t, err)
		assert.Equal(t, "<h2>Low Stock Alert</h2>", string(body))

		raw, err := os.ReadFile(jsonPath)
		require.NoError(t, err)
		var envelope struct {
			Timestamp string `json:"timestamp"`
			To        string `json:"to"`
			Subject   string `json:"subject"`
		}
		require.NoError(t, json.Unmarshal(raw, &envelope))
		assert.Equal(t, "admin@example.com", envelope.To)
		assert.Equal(t, "Low Stock Alert: Widget", envelope.Subject)
		assert.NotEmpty(t, envelope.Timestamp)
	})

	t.Run("sanitizes the subject in filenames", func(t *testing.T) {
		dir := t.TempDir()
		d := NewDevDispatcher(dir)

		err := d.Send(context.Background(), "admin@example.com", `Alert: "Widget" <v2>/EU`, "body")
		require.NoError(t, err)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		for _, entry := range entries {
			assert.Contains(t, entry.Name(), "Alert___Widget___v2__EU")
			assert.True(t, strings.HasSuffix(entry.Name(), ".html") || strings.HasSuffix(entry.Name(), ".json"))
		}
	})

	t.Run("creates the outbox directory on demand", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "outbox")
		d := NewDevDispatcher(dir)

		err := d.Send(context.Background(), "admin@example.com", "subject", "body")
		require.NoError(t, err)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 2)
	})
}
