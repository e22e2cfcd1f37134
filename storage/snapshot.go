package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultSnapshotRetention is how many timestamped snapshots are kept per tournament.
const DefaultSnapshotRetention = 5

// SnapshotPublisher stores JSON copies of a tournament's bracket in object storage.
// Older timestamped copies beyond the retention are deleted after each publish.
type SnapshotPublisher struct {
	uploader FileUploader
	now      func() time.Time
	retain   int

	mu      sync.Mutex
	history map[uuid.UUID][]string
}

func NewSnapshotPublisher(uploader FileUploader) *SnapshotPublisher {
	return &SnapshotPublisher{
		uploader: uploader,
		now:      time.Now,
		retain:   DefaultSnapshotRetention,
		history:  make(map[uuid.UUID][]string),
	}
}

// SnapshotKey is the object key of a timestamped snapshot.
func SnapshotKey(tournamentID uuid.UUID, at time.Time) string {
	return fmt.Sprintf("brackets/%s/%s.json", tournamentID, at.UTC().Format("20060102T150405Z"))
}

// LatestSnapshotKey always points at the most recent snapshot.
func LatestSnapshotKey(tournamentID uuid.UUID) string {
	return fmt.Sprintf("brackets/%s/latest.json", tournamentID)
}

// Publish uploads payload twice: under a timestamped key and under latest.json.
// It returns the public URL of the timestamped copy.
func (p *SnapshotPublisher) Publish(ctx context.Context, tournamentID uuid.UUID, payload interface{}) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal bracket snapshot: %w", err)
	}

	key := SnapshotKey(tournamentID, p.now())
	res, err := p.uploader.Upload(ctx, key, "application/json", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	if _, err := p.uploader.Upload(ctx, LatestSnapshotKey(tournamentID), "application/json", bytes.NewReader(body)); err != nil {
		return "", err
	}
	if err := p.prune(ctx, tournamentID, key); err != nil {
		return res.Location, fmt.Errorf("failed to prune old bracket snapshots: %w", err)
	}
	return res.Location, nil
}

// prune records key and deletes the oldest timestamped snapshots beyond the retention.
// Keys that fail to delete stay queued and are retried on the next publish.
func (p *SnapshotPublisher) prune(ctx context.Context, tournamentID uuid.UUID, key string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	keys := p.history[tournamentID]
	if len(keys) == 0 || keys[len(keys)-1] != key {
		keys = append(keys, key)
	}

	var firstErr error
	for len(keys) > p.retain {
		if err := p.uploader.Delete(ctx, keys[0]); err != nil {
			firstErr = err
			break
		}
		keys = keys[1:]
	}
	p.history[tournamentID] = keys
	return firstErr
}
