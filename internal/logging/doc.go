// Package logging provides structured logging for triage.
//
// This package wraps Go's log/slog to emit JSON lines. Every scheduler run
// gets a child logger tagged with a run ID so the events of one script or
// plan execution can be filtered out of a shared log file.
//
// # Thread Safety
//
// [Logger] and [RotatingWriter] are safe for concurrent use. Child loggers
// created via With* methods share the parent's writer.
//
// # Basic Usage
//
//	logger, err := logging.NewLogger("/var/log/triage", "INFO", logging.DefaultRotationConfig())
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
//	runLogger := logger.WithRun(runID).WithComponent("scheduler")
//	runLogger.Info("task resolved", "task_id", "build", "urgency", 10)
//
// Output:
//
//	{"time":"...","level":"INFO","msg":"task resolved","run_id":"...","component":"scheduler","task_id":"build","urgency":10}
//
// # Log Rotation
//
// When a directory is given, logs go to triage.log inside it through a
// [RotatingWriter]. Once a write would exceed MaxSizeMB the file is renamed
// to triage.log.1, older backups shift up, and anything past MaxBackups is
// deleted.
package logging
