package gesture

import (
	"log/slog"

	"github.com/OpenTraceLab/OpenTraceMap/internal/logger"
	"github.com/OpenTraceLab/OpenTraceMap/pkg/rotation"
)

// Feedback shows the user that a drag is rotating the map. How it looks is
// up to the host.
type Feedback interface {
	ShowRotation(edge rotation.Edge, strength float64)
	HideRotation()
}

// NopFeedback ignores every call.
type NopFeedback struct{}

func (NopFeedback) ShowRotation(rotation.Edge, float64) {}
func (NopFeedback) HideRotation()                       {}

// SetLogger routes gesture diagnostics to l. nil silences them again.
func SetLogger(l *slog.Logger) { logger.Set(l) }
