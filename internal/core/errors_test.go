package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransitionError_Matching(t *testing.T) {
	tests := []struct {
		kind     ErrorKind
		sentinel error
		noTrans  bool
		message  string
	}{
		{KindNoValidTransition, ErrNoValidTransition, true, "no valid transition from state 'A' for event 'go'"},
		{KindConditionFailed, ErrConditionFailed, true, "transition from state 'A' for event 'go' was rejected by guards"},
		{KindTimeout, ErrTimeout, false, "state 'A' timed out (event 'go')"},
		{KindAsync, ErrAsync, false, "async action from state 'A' for event 'go' failed"},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			err := fmt.Errorf("wrapped: %w", &TransitionError{Kind: tt.kind, From: "A", Event: "go"})

			assert.ErrorIs(t, err, tt.sentinel)
			assert.Equal(t, tt.noTrans, IsNoTransition(err))
			assert.Equal(t, "wrapped: "+tt.message, err.Error())

			kind, ok := KindOf(err)
			assert.True(t, ok)
			assert.Equal(t, tt.kind, kind)
		})
	}
}

func TestTransitionError_UnwrapsCause(t *testing.T) {
	cause := errors.New("boom")
	err := &TransitionError{Kind: KindAsync, From: "A", Event: "go", Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrAsync)
	assert.Equal(t, "async action from state 'A' for event 'go' failed: boom", err.Error())
}

func TestKindOf_ForeignError(t *testing.T) {
	_, ok := KindOf(errors.New("other"))
	assert.False(t, ok)
}
