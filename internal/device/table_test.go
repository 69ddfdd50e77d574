package device

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTable = `
slots:
  - name: mailslot0
    slot: 0
    description: default mailbox
  - name: telemetry
    slot: 1
`

func TestParseTable(t *testing.T) {
	table, err := ParseTable([]byte(sampleTable))
	require.NoError(t, err)

	slot, ok := table.Resolve("mailslot0")
	assert.True(t, ok)
	assert.Equal(t, uint32(0), slot)

	slot, ok = table.Resolve("telemetry")
	assert.True(t, ok)
	assert.Equal(t, uint32(1), slot)

	_, ok = table.Resolve("missing")
	assert.False(t, ok)

	defs := table.Slots()
	require.Len(t, defs, 2)
	assert.Equal(t, "default mailbox", defs[0].Description)
}

func TestParseTableInvalidYAML(t *testing.T) {
	_, err := ParseTable([]byte("slots: [not: {valid"))
	assert.Error(t, err)
}

func TestNewTableDuplicates(t *testing.T) {
	_, err := NewTable([]SlotDef{
		{Name: "a", Slot: 0},
		{Name: "a", Slot: 1},
	})
	assert.ErrorContains(t, err, "duplicate slot name")

	_, err = NewTable([]SlotDef{
		{Name: "a", Slot: 0},
		{Name: "b", Slot: 0},
	})
	assert.ErrorContains(t, err, "declared twice")

	_, err = NewTable([]SlotDef{{Slot: 2}})
	assert.ErrorContains(t, err, "no name")
}

func TestLoadTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "devices.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleTable), 0o644))

	table, err := LoadTable(path)
	require.NoError(t, err)

	slot, ok := table.Resolve("telemetry")
	assert.True(t, ok)
	assert.Equal(t, uint32(1), slot)
}

func TestLoadTableMissingFile(t *testing.T) {
	_, err := LoadTable(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
