package log

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestMemoryLoggerSequencing(t *testing.T) {
	l := NewMemoryLogger()
	l.Log(NewTurnEvent(1))
	l.Log(NewHPChangeEvent(1, 0, 1, 30, 29, "attack"))
	l.Log(NewTurnEvent(2))

	require.Len(t, l.Events(), 3)
	assert.Equal(t, 3, l.LastEvent().Seq)
	assert.Len(t, l.EventsOfType(EventTurnStart), 2)

	since := l.Since(1)
	require.Len(t, since, 2)
	assert.Equal(t, EventHPChange, since[0].Type)
	assert.Equal(t, 1, since[0].Amount)
	assert.Nil(t, l.Since(3))
}

func TestTextLoggerFormatsLines(t *testing.T) {
	var buf bytes.Buffer
	l := NewTextLogger(&buf)
	l.Log(NewTurnEvent(1))
	l.Log(NewHPChangeEvent(1, 2, 0, 30, 26, "Basic Attack"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "T1  match   | === Turn 1 ===", lines[0])
	assert.Equal(t, "T1  lane 3  | P1 HP: 30 → 26 (Basic Attack)", lines[1])
	assert.Len(t, l.Events(), 2)
}

func TestZapLoggerMirrorsEvents(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := NewZapLogger(zap.New(core))

	l.Log(NewDefendAbsorbEvent(3, 1, 1, "Basic Defend", 3, 0))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "Basic Defend absorbs 3 (0 left)", entry.Message)
	ctx := entry.ContextMap()
	assert.Equal(t, "DefendAbsorb", ctx["type"])
	assert.EqualValues(t, 1, ctx["lane"])
	assert.EqualValues(t, 3, ctx["amount"])
	assert.EqualValues(t, 1, ctx["seq"])
	assert.Len(t, l.Events(), 1)
}

func TestEventTypeString(t *testing.T) {
	assert.Equal(t, "AfflictionNegated", EventAfflictionNegated.String())
	assert.Equal(t, "Unknown", EventType(99).String())
}
