package state

import (
	"os"
	"time"
)

// newLocalEnv creates a new LocalEnv instance with default values
func newLocalEnv() *LocalEnv {
	return &LocalEnv{
		start:  time.Now(),
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
	}
}
