package device

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// SlotDef declares one device instance in the table.
type SlotDef struct {
	Name        string `yaml:"name" json:"name"`
	Slot        uint32 `yaml:"slot" json:"slot"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// Table maps slot names to slot ids. It is built once at startup and
// read-only afterwards.
type Table struct {
	defs   []SlotDef
	byName map[string]uint32
}

// NewTable builds a table from slot definitions. Duplicate names or
// duplicate slot ids are rejected.
func NewTable(defs []SlotDef) (*Table, error) {
	byName := make(map[string]uint32, len(defs))
	bySlot := make(map[uint32]string, len(defs))

	for _, def := range defs {
		if def.Name == "" {
			return nil, fmt.Errorf("slot %d has no name", def.Slot)
		}
		if _, dup := byName[def.Name]; dup {
			return nil, fmt.Errorf("duplicate slot name: %s", def.Name)
		}
		if prev, dup := bySlot[def.Slot]; dup {
			return nil, fmt.Errorf("slot %d declared twice (%s, %s)", def.Slot, prev, def.Name)
		}
		byName[def.Name] = def.Slot
		bySlot[def.Slot] = def.Name
	}

	return &Table{defs: defs, byName: byName}, nil
}

// LoadTable reads a YAML device table from path.
//
// Format:
//
//	slots:
//	  - name: mailslot0
//	    slot: 0
//	    description: default mailbox
func LoadTable(path string) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read device table: %w", err)
	}
	return ParseTable(raw)
}

// ParseTable builds a table from YAML bytes.
func ParseTable(raw []byte) (*Table, error) {
	var doc struct {
		Slots []SlotDef `yaml:"slots"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse device table: %w", err)
	}
	return NewTable(doc.Slots)
}

// Resolve returns the slot id for a name.
func (t *Table) Resolve(name string) (uint32, bool) {
	slot, ok := t.byName[name]
	return slot, ok
}

// Slots returns the declared slot definitions.
func (t *Table) Slots() []SlotDef {
	out := make([]SlotDef, len(t.defs))
	copy(out, t.defs)
	return out
}
