// Package logging provides structured logging capabilities for the workflow engine.
//
// # Overview
//
// A Logger wraps a log/slog logger. New builds one from a Config; each
// With* method returns a new Logger that carries one more field and
// leaves its receiver unchanged.
//
// # Log Levels
//
// Config.Level is one of "debug", "info", "warn" (or "warning") and
// "error"; any other value selects "info".
//
// # Basic Usage
//
//	import "github.com/webauto/engine/pkg/logging"
//
//	logger := logging.New(logging.Config{
//	    Level:  "info",
//	    Output: os.Stdout,
//	})
//
//	logger.WithWorkflowID("wf-123").
//	    WithField("node_count", 42).
//	    Info("Workflow started")
//
//	logger.WithNodeID("node-5").WithError(err).Error("Execution failed")
//
// Debug, Info, Warn and Error take a message only; Debugf, Infof, Warnf
// and Errorf format their arguments with fmt.Sprintf. Fatal and Fatalf
// log at error level and then exit the process.
//
// # Structured Fields
//
//	logger.WithWorkflowID(id)    // workflow_id
//	logger.WithExecutionID(id)   // execution_id
//	logger.WithNodeID(id)        // node_id
//	logger.WithNodeType(t)       // node_type, the types.ActionType string
//	logger.WithField(key, value) // one custom field
//	logger.WithFields(fields)    // several custom fields from a map
//	logger.WithError(err)        // error
//
// # Output Formats
//
// JSON (Pretty false, the default), one object per line:
//
//	{"time":"2024-01-15T10:30:00Z","level":"INFO","msg":"Workflow started","workflow_id":"wf-123","execution_id":"exec-456"}
//
// Text (Pretty true):
//
//	time=2024-01-15T10:30:00Z level=INFO msg="Workflow started" workflow_id=wf-123 execution_id=exec-456
//
// # Configuration
//
//	config := logging.Config{
//	    Level:         "debug",   // minimum level to log
//	    Output:        os.Stdout, // where to write logs; nil means os.Stdout
//	    Pretty:        false,     // text instead of JSON
//	    IncludeCaller: true,      // include the source file:line
//	}
//
// DefaultConfig returns level "info", os.Stdout, JSON output and no
// caller information.
//
// # Context Integration
//
// WithContext stores the logger in a context; FromContext returns it,
// or a new logger built from DefaultConfig when the context holds none:
//
//	ctx = logger.WithContext(ctx)
//	logging.FromContext(ctx).Info("Node executing")
//
// GetSlogLogger returns the underlying *slog.Logger.
//
// # Best Practices
//
//   - Use structured fields instead of string formatting
//   - Include execution context (workflow_id, node_id, etc.)
//   - Log at appropriate levels (avoid debug in production)
//   - Add timing information for performance analysis
//   - Include error context (not just error message)
//   - Use consistent field names across the codebase
//
// # Thread Safety
//
// All logger operations are thread-safe and can be used concurrently
// from multiple goroutines without additional synchronization.
//
// # Testing
//
// For testing, use a logger with a buffer:
//
//	buf := &bytes.Buffer{}
//	logger := logging.New(logging.Config{
//	    Level:  "info",
//	    Output: buf,
//	})
//
//	logger.Info("expected message")
//	assert.Contains(t, buf.String(), "expected message")
package logging
