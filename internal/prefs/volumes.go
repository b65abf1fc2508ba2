package prefs

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/jask/playerhooks/internal/database/repository"
)

const volumesFile = "volumes.json"

func volumesPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	dir = filepath.Join(dir, "playerhooks")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(dir, volumesFile), nil
}

// SaveVolumes writes a snapshot of guild volumes next to the config.
func SaveVolumes(vols []repository.GuildVolume) error {
	path, err := volumesPath()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(vols, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// LoadVolumes reads the snapshot. A missing file is not an error.
func LoadVolumes() ([]repository.GuildVolume, error) {
	path, err := volumesPath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var vols []repository.GuildVolume
	if err := json.Unmarshal(data, &vols); err != nil {
		return nil, err
	}
	return vols, nil
}
