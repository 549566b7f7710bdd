package log

import "go.uber.org/zap"

// ZapLogger records events in memory and mirrors each one as a structured
// zap entry. Used by the CLIs when machine-readable output is wanted.
type ZapLogger struct {
	MemoryLogger
	z *zap.Logger
}

func NewZapLogger(z *zap.Logger) *ZapLogger {
	if z == nil {
		z = zap.NewNop()
	}
	return &ZapLogger{z: z}
}

func (l *ZapLogger) Log(event GameEvent) {
	l.MemoryLogger.Log(event)
	e := l.MemoryLogger.LastEvent()

	fields := []zap.Field{
		zap.Int("seq", e.Seq),
		zap.Int("turn", e.Turn),
		zap.String("type", e.Type.String()),
		zap.Int("side", e.Side),
	}
	if e.Lane != NoLane {
		fields = append(fields, zap.Int("lane", e.Lane))
	}
	if e.Ability != "" {
		fields = append(fields, zap.String("ability", e.Ability))
	}
	if e.Amount != 0 {
		fields = append(fields, zap.Int("amount", e.Amount))
	}
	l.z.Info(e.Details, fields...)
}
