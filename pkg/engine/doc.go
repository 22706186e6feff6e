// Package engine is the scheduler/executor (component G).
//
// # Basic usage
//
//	eng := engine.New(reg, cfg, nil, nil)
//	exec, err := eng.Start(executionID, workflow, nil, nil)
//	<-exec.Done()
//	record := exec.Record()
//
// # Execution state machine
//
// Each Execution moves pending → running ↔ paused → {completed,
// failed, cancelled}. Pause/Resume gate the node loop between steps;
// Cancel always wins over a concurrent pause, resume, or user_input
// response, because it cancels the context those operations already
// select on.
package engine
