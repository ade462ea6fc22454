package cli

import (
	"time"

	"github.com/valter-silva-au/homework-tracker/internal/observability"
	"github.com/valter-silva-au/homework-tracker/internal/storage"
	"go.uber.org/zap"
)

// Service instances, set during app initialization in app.go.
var (
	BasePath    string
	Store       storage.TaskStore
	Viewer      TaskViewer
	Logger      *zap.Logger
	EventLog    observability.EventLog
	MetricsCalc observability.MetricsCalculator

	// Now stamps new tasks.
	Now = time.Now
)
