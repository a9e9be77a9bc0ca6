package app

import (
	"os"
	"testing"

	"chat_backend_service/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.SetNewNop()
	os.Exit(m.Run())
}
