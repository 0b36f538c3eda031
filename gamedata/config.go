package gamedata

import "log/slog"

// LoadConfig controls the ambient behavior shared by every C4/C5/C6
// loader: a logger for load-time diagnostics, and a Debug flag that
// retains each file's raw parsed tree on the resulting domain object, the
// way repparser.Config.Debug retains raw section bytes so a bad replay
// can be inspected without re-parsing it.
type LoadConfig struct {
	Logger *slog.Logger
	Debug  bool
}
