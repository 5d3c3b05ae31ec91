package inventory

import (
	"encoding/gob"
	"fmt"
	"os"
	"time"
)

// snapshot is the gob-encoded on-disk form of a parsed dataset, written by
// `server load` so later starts can skip re-parsing the spreadsheet.
type snapshot struct {
	Source   string
	LoadedAt time.Time
	Records  []Record
}

// SaveSnapshot serializes the dataset to a gob file at path.
func SaveSnapshot(ds *Dataset, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create snapshot file: %w", err)
	}
	defer f.Close()

	snap := snapshot{Source: ds.Source, LoadedAt: ds.LoadedAt, Records: ds.Records}
	if err := gob.NewEncoder(f).Encode(snap); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot reads a gob snapshot. Normalized forms are recomputed after
// decode: the cache is always re-derivable from the part number and the
// snapshot is never trusted as an independent source of truth for it.
func LoadSnapshot(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot file: %w", err)
	}
	defer f.Close()

	var snap snapshot
	if err := gob.NewDecoder(f).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	for i := range snap.Records {
		snap.Records[i].Normalized = Normalize(snap.Records[i].PartNumber)
	}
	return &Dataset{Source: snap.Source, LoadedAt: snap.LoadedAt, Records: snap.Records}, nil
}
