package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_KindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{name: "not_found", err: NotFound("Book %s not found", "1"), want: KindNotFound},
		{name: "bad_request", err: BadRequest("nope"), want: KindBadRequest},
		{name: "internal", err: Internal("upstream broke", errors.New("timeout")), want: KindInternal},
		{name: "validation", err: Validation("field required"), want: KindValidation},
		{name: "wrapped", err: fmt.Errorf("context: %w", NotFound("gone")), want: KindNotFound},
		{name: "untyped", err: errors.New("plain"), want: KindUnknown},
		{name: "nil", err: nil, want: KindUnknown},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, KindOf(tc.err))
		})
	}
}

func Test_ErrorMessageAndCause(t *testing.T) {
	cause := errors.New("timeout")
	err := Internal("upstream broke", cause)

	assert.Equal(t, "upstream broke: timeout", err.Error())
	assert.ErrorIs(t, err, cause)

	assert.Equal(t, "Book 1 not found", NotFound("Book %s not found", "1").Error())
}
