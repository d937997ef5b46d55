package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		kind Kind
		want int
	}{
		{KindNotFound, http.StatusNotFound},
		{KindValidation, http.StatusBadRequest},
		{KindBadRequest, http.StatusBadRequest},
		{KindConflict, http.StatusConflict},
		{KindPrecondition, http.StatusUnprocessableEntity},
		{KindExhausted, http.StatusServiceUnavailable},
		{KindInternal, http.StatusInternalServerError},
		{KindUnknown, http.StatusBadRequest},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, New(tc.kind, "x").HTTPStatus(), "kind %d", tc.kind)
	}
}

func TestSentinelMatchesDerivedCopies(t *testing.T) {
	sentinel := Precondition("cannot be valid and impossible")

	derived := sentinel.WithOp("e164.search").WithDetails(map[string]string{"region": "US"})
	wrapped := fmt.Errorf("outer: %w", derived)

	assert.True(t, errors.Is(wrapped, sentinel))
	assert.Empty(t, sentinel.Op, "WithOp must not mutate the sentinel")
	assert.Nil(t, sentinel.Details, "WithDetails must not mutate the sentinel")
	assert.Equal(t, "e164.search: cannot be valid and impossible", derived.Error())
}

func TestSentinelsWithDifferentMessagesDoNotMatch(t *testing.T) {
	assert.False(t, errors.Is(NotFound("a"), NotFound("b")))
	assert.False(t, errors.Is(NotFound("a"), Validation("a")))
}

func TestWrapUnwraps(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(KindInternal, "failed to enqueue", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "failed to enqueue: connection refused", err.Error())
}

func TestGetKind(t *testing.T) {
	err := fmt.Errorf("search: %w", Exhausted("gave up"))

	require.Equal(t, KindExhausted, GetKind(err))
	assert.True(t, Is(err, KindExhausted))
	assert.Equal(t, KindUnknown, GetKind(errors.New("plain")))
	assert.Equal(t, KindUnknown, GetKind(nil))
}
