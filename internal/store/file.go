package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Harshitk-cp/arbiter/internal/domain"
	"github.com/google/uuid"
)

// snapshotTimeFormat is the timestamp component of snapshot file
// names. Nanosecond precision keeps names unique across sweep
// combinations started within the same second.
const snapshotTimeFormat = "20060102T150405.000000000"

// FileSnapshotStore writes one JSON document per save point into a
// directory, named by timestamp plus run identity. Files are opened
// create-exclusive so an existing snapshot is never silently
// overwritten.
type FileSnapshotStore struct {
	dir string
}

func NewFileSnapshotStore(dir string) (*FileSnapshotStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create snapshot directory: %w", err)
	}
	return &FileSnapshotStore{dir: dir}, nil
}

// Save writes the snapshot and returns the file name. Returns
// ErrSnapshotExists if the path is already taken.
func (s *FileSnapshotStore) Save(ctx context.Context, snap *domain.RunSnapshot) (string, error) {
	name := fmt.Sprintf("%s_%s_epoch%03d.json",
		snap.CreatedAt.UTC().Format(snapshotTimeFormat),
		snap.RunID, snap.Epoch)

	f, err := os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return "", fmt.Errorf("%w: %s", ErrSnapshotExists, name)
		}
		return "", fmt.Errorf("create snapshot file: %w", err)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		f.Close()
		return "", fmt.Errorf("encode snapshot: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return "", fmt.Errorf("write snapshot: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close snapshot: %w", err)
	}
	return name, nil
}

// List returns the saved snapshots, newest first.
func (s *FileSnapshotStore) List(ctx context.Context) ([]domain.SnapshotInfo, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read snapshot directory: %w", err)
	}

	var infos []domain.SnapshotInfo
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		info := domain.SnapshotInfo{Name: e.Name()}
		if ts, runID, epoch, ok := parseSnapshotName(e.Name()); ok {
			info.CreatedAt = ts
			info.RunID = runID.String()
			info.Epoch = epoch
		} else {
			// Foreign file dropped into the directory; fall back to
			// the file's modification time.
			fi, err := e.Info()
			if err != nil {
				continue
			}
			info.CreatedAt = fi.ModTime().UTC()
		}
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].CreatedAt.After(infos[j].CreatedAt)
	})
	return infos, nil
}

// parseSnapshotName recovers the timestamp, run ID and epoch that Save
// encoded into a snapshot file name.
func parseSnapshotName(name string) (time.Time, uuid.UUID, int, bool) {
	parts := strings.Split(strings.TrimSuffix(name, ".json"), "_")
	if len(parts) != 3 || !strings.HasPrefix(parts[2], "epoch") {
		return time.Time{}, uuid.UUID{}, 0, false
	}
	ts, err := time.Parse(snapshotTimeFormat, parts[0])
	if err != nil {
		return time.Time{}, uuid.UUID{}, 0, false
	}
	runID, err := uuid.Parse(parts[1])
	if err != nil {
		return time.Time{}, uuid.UUID{}, 0, false
	}
	epoch, err := strconv.Atoi(strings.TrimPrefix(parts[2], "epoch"))
	if err != nil {
		return time.Time{}, uuid.UUID{}, 0, false
	}
	return ts, runID, epoch, true
}

// Get loads one snapshot by file name.
func (s *FileSnapshotStore) Get(ctx context.Context, name string) (*domain.RunSnapshot, error) {
	if name != filepath.Base(name) || !strings.HasSuffix(name, ".json") {
		return nil, ErrNotFound
	}
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	var snap domain.RunSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", name, err)
	}
	return &snap, nil
}
