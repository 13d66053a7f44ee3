package staging

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
)

// LocksDir holds per-output advisory lock files inside the work directory.
const LocksDir = "locks"

// LockPath returns the lock file guarding renders to output. Renders of the
// same output path share a lock; nothing is written next to the output.
func LockPath(workDir, output string) string {
	if abs, err := filepath.Abs(output); err == nil {
		output = abs
	}
	sum := sha256.Sum256([]byte(filepath.Clean(output)))
	return filepath.Join(workDir, LocksDir, hex.EncodeToString(sum[:8])+".lock")
}
