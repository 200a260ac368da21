package utils

import (
	"os"
	"testing"
)

func TestMain(m *testing.M) {
	// config.Load refuses to run without a JWT secret; set one before any
	// test touches the config singleton.
	os.Setenv("JWT_SECRET", "unit-test-secret")
	os.Exit(m.Run())
}
