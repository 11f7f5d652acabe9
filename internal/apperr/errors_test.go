package apperr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNotFound(t *testing.T) {
	err := NotFound(KindWager)

	assert.True(t, IsNotFound(err, KindWager))
	assert.True(t, IsNotFound(err, ""))
	assert.False(t, IsNotFound(err, KindOutcome))
	assert.False(t, IsNotFound(errors.New("boom"), KindWager))
}

func TestIsNotFound_Wrapped(t *testing.T) {
	err := Unexpected("settling", NotFound(KindOutcome))

	assert.True(t, IsNotFound(err, KindOutcome))
	assert.False(t, IsNotFound(err, KindWager))
}

func TestIsConflict(t *testing.T) {
	assert.True(t, IsConflict(Conflict("already placed")))
	assert.True(t, IsConflict(Unexpected("placing", Conflict("already placed"))))
	assert.False(t, IsConflict(errors.New("boom")))
}

func TestIsValidation(t *testing.T) {
	assert.True(t, IsValidation(Validation("empty title")))
	assert.False(t, IsValidation(Conflict("x")))
}

func TestInsufficientBalanceSurvivesWrapping(t *testing.T) {
	err := Unexpected("placing bet", ErrInsufficientBalance)
	assert.ErrorIs(t, err, ErrInsufficientBalance)
}
