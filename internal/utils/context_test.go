// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTraceIDCtxKey(t *testing.T) {
	assert.Equal(t, "traceID", TraceIDCtxKey.String())
}

func TestGetTraceIDFromContext(t *testing.T) {
	ctx := context.WithValue(context.Background(), TraceIDCtxKey, "abc")
	traceID, ok := GetTraceIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "abc", traceID)

	_, ok = GetTraceIDFromContext(context.Background())
	assert.False(t, ok)

	_, ok = GetTraceIDFromContext(context.WithValue(context.Background(), TraceIDCtxKey, 42))
	assert.False(t, ok)
}
