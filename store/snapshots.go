package store

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/rustyeddy/papertrade/snapshot"
)

type snapshotDocument struct {
	Snapshots snapshot.Series `json:"snapshots"`
}

// SnapshotFile keeps the daily snapshot series at Path.
type SnapshotFile struct {
	Path   string
	Logger *zap.Logger
}

func (s *SnapshotFile) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

// Load reads the series. Missing or malformed files yield an empty series.
func (s *SnapshotFile) Load() (snapshot.Series, error) {
	b, err := readFile(s.Path)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return snapshot.Series{}, nil
	}

	var doc snapshotDocument
	if err := json.Unmarshal(b, &doc); err != nil {
		err = fmt.Errorf("%w: %s: %v", ErrMalformedDocument, s.Path, err)
		s.logger().Error("snapshot document malformed, starting empty series", zap.Error(err))
		return snapshot.Series{}, nil
	}
	if doc.Snapshots == nil {
		return snapshot.Series{}, nil
	}
	for date, snap := range doc.Snapshots {
		if snap.Date == "" {
			snap.Date = date
			doc.Snapshots[date] = snap
		}
	}
	return doc.Snapshots, nil
}

// Save rewrites the whole series.
func (s *SnapshotFile) Save(series snapshot.Series) error {
	if err := writeJSON(s.Path, snapshotDocument{Snapshots: series}); err != nil {
		s.logger().Error("save snapshots failed", zap.String("path", s.Path), zap.Error(err))
		return err
	}
	return nil
}
