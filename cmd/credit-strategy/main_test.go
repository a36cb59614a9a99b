package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	apperrors "github.com/noah-isme/credit-strategy/pkg/errors"
)

func TestReportFailureAuthorizationHint(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)

	err := reportFailure(zap.New(core), "credit scan rejected", apperrors.ErrAuthorization)
	require.Error(t, err)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "credit scan rejected", entries[0].Message)
	assert.Equal(t, apperrors.ErrAuthorization.Code, entries[0].ContextMap()["code"])
	assert.Contains(t, entries[1].Message, "session cookie")
}

func TestReportFailureTransientHint(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)

	err := reportFailure(zap.New(core), "module fetch failed", apperrors.ErrTransient)
	require.Error(t, err)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, apperrors.ErrTransient.Code, entries[0].ContextMap()["code"])
	assert.Contains(t, entries[1].Message, "after retries")
}

func TestReportFailureGenericNoHint(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)

	err := reportFailure(zap.New(core), "render", errors.New("boom"))
	require.Error(t, err)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, apperrors.ErrInternal.Code, entries[0].ContextMap()["code"])
}
