// Package benchconfig handles loading and saving the workstation bench
// tooling's settings (cmd/kbsim, cmd/kbviz, cmd/hidbridge,
// cmd/traystatus) — the per-developer preferences for exercising the
// core layout engine before flashing real firmware.
//
// The load/save technique is lifted directly from the teacher's
// internal/config/config.go: os.UserConfigDir, a sync.RWMutex-guarded
// struct, and an atomic write-temp-then-rename save.
package benchconfig

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Config holds the bench tooling's persisted settings.
type Config struct {
	mu sync.RWMutex

	KeymapPath  string `json:"keymap_path"`  // TOML bench keymap, empty = built-in default
	BridgeVID   uint16 `json:"bridge_vid"`    // hidbridge USB vendor ID to open
	BridgePID   uint16 `json:"bridge_pid"`    // hidbridge USB product ID to open
	TickHz      int    `json:"tick_hz"`       // hidbridge tick rate (kbsim/kbviz use fixed periods)
	ShowTray    bool   `json:"show_tray"`     // launch traystatus alongside the bench
	AutoReplay  bool   `json:"auto_replay"`   // replay-on-start preference; persisted only, no bench tool reads it
}

// DefaultConfig returns the bench tooling's default settings.
func DefaultConfig() *Config {
	return &Config{
		TickHz:   1000,
		ShowTray: true,
	}
}

// Dir returns the OS-appropriate config directory for the bench tools.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("user config dir: %w", err)
	}
	return filepath.Join(base, "kbfw"), nil
}

// Path returns the full path to the bench config file.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "bench.json"), nil
}

// Load reads the bench config from disk. If the file doesn't exist, it
// creates a default config and saves it.
func Load() (*Config, error) {
	p, err := Path()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(p)
	if os.IsNotExist(err) {
		cfg := DefaultConfig()
		if saveErr := cfg.Save(); saveErr != nil {
			return nil, fmt.Errorf("create default bench config: %w", saveErr)
		}
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read bench config: %w", err)
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse bench config: %w", err)
	}
	return cfg, nil
}

// Save writes the config to disk atomically (write temp, rename).
func (c *Config) Save() error {
	c.mu.RLock()
	data, err := json.MarshalIndent(c, "", "  ")
	c.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("marshal bench config: %w", err)
	}

	p, err := Path()
	if err != nil {
		return err
	}

	dir := filepath.Dir(p)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create bench config dir: %w", err)
	}

	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp bench config: %w", err)
	}
	if err := os.Rename(tmp, p); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename bench config: %w", err)
	}
	return nil
}

// SetKeymapPath updates the bench keymap path and saves to disk.
func (c *Config) SetKeymapPath(p string) error {
	c.mu.Lock()
	c.KeymapPath = p
	c.mu.Unlock()
	return c.Save()
}

// GetKeymapPath returns the current bench keymap path.
func (c *Config) GetKeymapPath() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.KeymapPath
}

// defaultTickHz is the scan rate substituted for a non-positive
// TickHz — a hand-edited or JSON-round-tripped bench.json can carry
// 0 or a negative value even though DefaultConfig never produces one.
const defaultTickHz = 1000

// GetTickHz returns the configured simulated scan rate, never
// non-positive: a persisted 0 (or a stray negative value) falls back
// to defaultTickHz instead of being handed to a caller that will
// divide by it.
func (c *Config) GetTickHz() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.TickHz <= 0 {
		return defaultTickHz
	}
	return c.TickHz
}

// SetBridgeTarget updates the USB VID/PID the hidbridge should open
// and saves to disk.
func (c *Config) SetBridgeTarget(vid, pid uint16) error {
	c.mu.Lock()
	c.BridgeVID, c.BridgePID = vid, pid
	c.mu.Unlock()
	return c.Save()
}

// GetBridgeTarget returns the configured USB VID/PID.
func (c *Config) GetBridgeTarget() (vid, pid uint16) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.BridgeVID, c.BridgePID
}
