package main

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	grpc_logging "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/tentcards/internal/config"
)

func TestNewLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, &config.Logging{Level: "warn", Format: "json"})

	logger.Info("dropped")
	logger.Warn("kept", "monster", "goblin")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "kept", line["msg"])
	assert.Equal(t, "goblin", line["monster"])
}

func TestGRPCLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, &config.Logging{Level: "info", Format: "text"})

	l := grpcLogger(logger)
	l.Log(context.Background(), grpc_logging.LevelDebug, "hidden")
	l.Log(context.Background(), grpc_logging.LevelError, "shown", "grpc.code", "Internal")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "level=ERROR")
	assert.Contains(t, buf.String(), "grpc.code=Internal")
}
