package ui

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConsole_PlainOutput(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf, true)

	c.Processing("rugs/slide_001")
	c.Skipped("rugs/slide_002", "specs.json exists")
	c.Success("rugs/slide_001", "6 fields")
	c.Warning("rugs/slide_003", "File is empty")
	c.Error("rugs/slide_004", errors.New("disk full"))

	assert.Equal(t,
		"→ Processing rugs/slide_001\n"+
			"- Skipped rugs/slide_002: specs.json exists\n"+
			"✓ rugs/slide_001: 6 fields\n"+
			"⚠ rugs/slide_003: File is empty\n"+
			"✗ rugs/slide_004: disk full\n",
		buf.String())
}

func TestConsole_Summary(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf, true)
	c.Summary("Extraction Summary", Stat{"Processed", 3}, Stat{"Failed", 1})

	assert.Equal(t, "\nExtraction Summary\n==================\n  Processed:  3\n  Failed:     1\n", buf.String())
}
