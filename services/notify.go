package services

import (
	"context"
	"log/slog"

	"github.com/Dosada05/bracket-system/brackets"
	"github.com/google/uuid"
)

// Broadcaster pushes live updates to everyone watching a tournament.
// *brackets.Hub implements it.
type Broadcaster interface {
	BroadcastToRoom(roomID string, message interface{})
}

// SnapshotPublisher stores a copy of a generated bracket outside the database.
type SnapshotPublisher interface {
	Publish(ctx context.Context, tournamentID uuid.UUID, payload interface{}) (string, error)
}

// MetricsRecorder receives bracket and scoring counters. *metrics.Metrics implements it.
type MetricsRecorder interface {
	BracketGenerated(matches int)
	ResultRecorded(advanced bool, cascaded int)
}

func broadcastTournament(b Broadcaster, tournamentID uuid.UUID, messageType string, payload interface{}) {
	if b == nil {
		return
	}
	room := brackets.RoomForTournament(tournamentID)
	b.BroadcastToRoom(room, brackets.WebSocketMessage{
		Type:    messageType,
		Payload: payload,
		RoomID:  room,
	})
}

func discardLogger(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.New(slog.DiscardHandler)
}
