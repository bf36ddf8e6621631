package health

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/hengadev/persistx"
	"github.com/hengadev/persistx/internal/fileio"
)

const markerName = ".persistx-writecheck"

// DirectoryCheck verifies that records can be written to dir. A directory
// that does not exist yet is healthy since the first save creates it.
func DirectoryCheck(dir string) *Check {
	return &Check{
		Name:     "directory",
		Critical: true,
		Timeout:  5 * time.Second,
		Run: func(ctx context.Context) (Status, string, error) {
			info, err := os.Stat(dir)
			if errors.Is(err, os.ErrNotExist) {
				return StatusHealthy, dir + " (created on first save)", nil
			}
			if err != nil {
				return StatusUnhealthy, dir, err
			}
			if !info.IsDir() {
				return StatusUnhealthy, dir, fmt.Errorf("%s is not a directory", dir)
			}

			marker := filepath.Join(dir, markerName)
			if err := fileio.WriteFile(marker, []byte("ok"), 0o600); err != nil {
				return StatusUnhealthy, dir, fmt.Errorf("not writable: %w", err)
			}
			if err := os.Remove(marker); err != nil {
				return StatusDegraded, dir, fmt.Errorf("check file left behind: %w", err)
			}
			return StatusHealthy, dir + " writable", nil
		},
	}
}

// SerializerCheck round-trips a sample value through s.
func SerializerCheck(s persistx.Serializer) *Check {
	return &Check{
		Name:     "serializer",
		Critical: true,
		Timeout:  5 * time.Second,
		Run: func(ctx context.Context) (Status, string, error) {
			want := map[string]any{"check": "ok", "at": time.Now().UTC().Format(time.RFC3339)}
			text, err := s.Serialize(want)
			if err != nil {
				return StatusUnhealthy, "", err
			}
			var got map[string]any
			if err := s.Deserialize(text, &got); err != nil {
				return StatusUnhealthy, "", err
			}
			if !reflect.DeepEqual(want, got) {
				return StatusUnhealthy, "", errors.New("round trip changed the value")
			}
			return StatusHealthy, "round trip ok", nil
		},
	}
}

// RecordsCheck decodes every record in svc as generic JSON. Unreadable
// records make the result degraded and are named in the message.
func RecordsCheck(svc *persistx.Service) *Check {
	return &Check{
		Name: "records",
		Run: func(ctx context.Context) (Status, string, error) {
			names, err := svc.List()
			if err != nil {
				return StatusUnhealthy, "", err
			}

			var bad []string
			for _, name := range names {
				if err := ctx.Err(); err != nil {
					return StatusUnknown, "", err
				}
				var doc json.RawMessage
				if err := svc.Load(name, &doc); err != nil {
					bad = append(bad, name)
				}
			}

			if len(bad) > 0 {
				return StatusDegraded, fmt.Sprintf("%d of %d unreadable: %s", len(bad), len(names), strings.Join(bad, ", ")), nil
			}
			return StatusHealthy, fmt.Sprintf("%d readable", len(names)), nil
		},
	}
}
