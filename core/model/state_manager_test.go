package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	scierrors "github.com/YuminosukeSato/statlearn/pkg/errors"
)

func TestStateManagerLifecycle(t *testing.T) {
	s := NewStateManager()
	assert.False(t, s.IsFitted())

	err := s.RequireFitted("EM", "DistParams")
	require.Error(t, err)
	var nf *scierrors.NotFittedError
	require.True(t, scierrors.As(err, &nf))
	assert.Equal(t, "EM", nf.ModelName)
	assert.Equal(t, "DistParams", nf.Method)

	s.SetDimensions(3, 100)
	s.SetFitted()
	assert.NoError(t, s.RequireFitted("EM", "DistParams"))
	assert.Equal(t, ModelState{Fitted: true, NFeatures: 3, NSamples: 100}, s.GetState())

	s.Reset()
	assert.False(t, s.IsFitted())
	f, n := s.GetDimensions()
	assert.Zero(t, f)
	assert.Zero(t, n)
}

func TestStateManagerRequireFeatures(t *testing.T) {
	s := NewStateManager()
	s.SetDimensions(2, 10)

	assert.NoError(t, s.RequireFeatures("Predict", 2))

	err := s.RequireFeatures("Predict", 5)
	var de *scierrors.DimensionError
	require.True(t, scierrors.As(err, &de))
	assert.Equal(t, 2, de.Expected)
	assert.Equal(t, 5, de.Got)
	assert.Equal(t, 1, de.Axis)
}
