package decode

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang.org/x/text/encoding/charmap"
)

func TestSniffUTF8Passthrough(t *testing.T) {
	text := "<bpmn:task id=\"t1\" name=\"Создать заказ\"/>"

	assert.Equal(t, text, Sniff([]byte(text)))
}

func TestSniffWindows1251Fallback(t *testing.T) {
	text := "Проверить статус заказа и подтвердить оплату клиента"

	encoded, err := charmap.Windows1251.NewEncoder().String(text)
	require.NoError(t, err)
	require.NotEqual(t, text, encoded)

	assert.Equal(t, text, Sniff([]byte(encoded)))
}

func TestSniffKeepsNearlyValidUTF8(t *testing.T) {
	// A handful of stray bytes stays within the replacement budget, so the
	// original bytes are returned unchanged.
	data := append([]byte("openapi: 3.0.0\n"), 0xff, 0xfe)

	assert.Equal(t, string(data), Sniff(data))
}

func TestSniffEmpty(t *testing.T) {
	assert.Equal(t, "", Sniff(nil))
}

func TestSniffFile(t *testing.T) {
	text := "Сценарий интеграционного тестирования процессов и все его шаги"

	encoded, err := charmap.Windows1251.NewEncoder().String(text)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "scenario.txt")
	require.NoError(t, os.WriteFile(path, []byte(encoded), 0o644))

	decoded, err := SniffFile(path)
	require.NoError(t, err)
	assert.Equal(t, text, decoded)

	_, err = SniffFile(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}
