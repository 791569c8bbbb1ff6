package server

import "sync/atomic"

// telemetryCounters aggregates broadcast volume so /diagnostics can report
// load without locking the hub.
type telemetryCounters struct {
	broadcastMessages  atomic.Uint64
	broadcastBytes     atomic.Uint64
	broadcastEntities  atomic.Uint64
	lastBroadcastBytes atomic.Uint64
	lastTickMicros     atomic.Uint64
	droppedWrites      atomic.Uint64
	connectedPlayers   atomic.Int64
}

func (t *telemetryCounters) SetConnectedPlayers(n int) {
	t.connectedPlayers.Store(int64(n))
}

func (t *telemetryCounters) RecordBroadcast(bytes, entities, fanout int) {
	t.broadcastMessages.Add(uint64(fanout))
	t.broadcastBytes.Add(uint64(bytes * fanout))
	t.broadcastEntities.Add(uint64(entities))
	t.lastBroadcastBytes.Store(uint64(bytes))
}

func (t *telemetryCounters) RecordTick(micros int64) {
	t.lastTickMicros.Store(uint64(micros))
}

func (t *telemetryCounters) RecordDroppedWrite() {
	t.droppedWrites.Add(1)
}

// TelemetrySnapshot is the JSON shape served by /diagnostics.
type TelemetrySnapshot struct {
	BroadcastMessages  uint64 `json:"broadcast_messages"`
	BroadcastBytes     uint64 `json:"broadcast_bytes"`
	BroadcastEntities  uint64 `json:"broadcast_entities"`
	LastBroadcastBytes uint64 `json:"last_broadcast_bytes"`
	LastTickMicros     uint64 `json:"last_tick_micros"`
	DroppedWrites      uint64 `json:"dropped_writes"`
	ConnectedPlayers   int64  `json:"connected_players"`
}

func (t *telemetryCounters) Snapshot() TelemetrySnapshot {
	return TelemetrySnapshot{
		BroadcastMessages:  t.broadcastMessages.Load(),
		BroadcastBytes:     t.broadcastBytes.Load(),
		BroadcastEntities:  t.broadcastEntities.Load(),
		LastBroadcastBytes: t.lastBroadcastBytes.Load(),
		LastTickMicros:     t.lastTickMicros.Load(),
		DroppedWrites:      t.droppedWrites.Load(),
		ConnectedPlayers:   t.connectedPlayers.Load(),
	}
}
