// Package stream implements the streaming channel (component H): a
// full-duplex, execution_id-keyed message channel between the engine
// and a connected client, carrying outbound progress events and
// inbound control messages over a gorilla/websocket connection.
//
// Grounded on pkg/server's handler-wiring style (a Hub mirrors the
// teacher's process-wide registry pattern: mutex-guarded map, one
// entry per execution) and on github.com/gorilla/websocket, the
// transport library carried into the dependency pack by
// goadesign-goa-ai. Delivery is best-effort and non-blocking: a full
// outbound buffer drops its oldest queued message rather than stall
// the node walk, and a send after the channel has closed is silently
// dropped.
package stream
