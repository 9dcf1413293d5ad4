package runtimepath

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// NiriSocketEnv names the variable niri exports with its IPC socket path.
const NiriSocketEnv = "NIRI_SOCKET"

// HyprlandSignatureEnv names the variable identifying the running Hyprland
// instance.
const HyprlandSignatureEnv = "HYPRLAND_INSTANCE_SIGNATURE"

var (
	ErrNoHyprlandInstance = errors.New(HyprlandSignatureEnv + " is not set")
	ErrNoNiriSocket       = errors.New(NiriSocketEnv + " is not set")
)

// Dir returns the runtime directory used for sockets. Priority:
// 1) XDG_RUNTIME_DIR (if set)
// 2) /run/user/<uid> (if present)
// 3) /tmp/limbo-runtime-<uid> (created)
func Dir() (string, error) {
	if runtimeDir := os.Getenv("XDG_RUNTIME_DIR"); runtimeDir != "" {
		return runtimeDir, nil
	}

	uid := os.Getuid()
	runUserDir := fmt.Sprintf("/run/user/%d", uid)
	if info, err := os.Stat(runUserDir); err == nil && info.IsDir() {
		return runUserDir, nil
	}

	tmpDir := fmt.Sprintf("/tmp/limbo-runtime-%d", uid)
	if err := os.MkdirAll(tmpDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create runtime dir: %w", err)
	}
	return tmpDir, nil
}

// SocketPath returns the limbo control socket path.
func SocketPath() (string, error) {
	runtimeDir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(runtimeDir, "limbo.sock"), nil
}

// HyprlandDir returns the socket directory of the running Hyprland instance.
func HyprlandDir() (string, error) {
	sig := os.Getenv(HyprlandSignatureEnv)
	if sig == "" {
		return "", ErrNoHyprlandInstance
	}
	runtimeDir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(runtimeDir, "hypr", sig), nil
}

// NiriSocket returns the niri IPC socket path.
func NiriSocket() (string, error) {
	path := os.Getenv(NiriSocketEnv)
	if path == "" {
		return "", ErrNoNiriSocket
	}
	return path, nil
}
