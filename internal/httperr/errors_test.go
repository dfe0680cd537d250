package httperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, KindValidation.Status())
	assert.Equal(t, http.StatusBadRequest, KindConflict.Status())
	assert.Equal(t, http.StatusNotFound, KindNotFound.Status())
	assert.Equal(t, http.StatusServiceUnavailable, KindUnavailable.Status())
	assert.Equal(t, http.StatusBadGateway, KindBadGateway.Status())
	assert.Equal(t, http.StatusInternalServerError, KindStorage.Status())
}

func TestKindOfWrapped(t *testing.T) {
	base := New(KindConflict, "insufficient stock for product 42")
	wrapped := fmt.Errorf("deducting stock: %w", base)

	assert.Equal(t, KindConflict, KindOf(wrapped))
	assert.Equal(t, http.StatusBadRequest, StatusOf(wrapped))
	assert.True(t, IsKind(wrapped, KindConflict))
	assert.False(t, IsKind(wrapped, KindNotFound))
}

func TestKindOfUnclassified(t *testing.T) {
	err := errors.New("connection refused")
	assert.Equal(t, KindStorage, KindOf(err))
	assert.Equal(t, http.StatusInternalServerError, StatusOf(err))
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("pq: deadlock detected")
	err := Wrap(KindStorage, cause, "failed to deduct stock")

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "failed to deduct stock")
	assert.Contains(t, err.Error(), "deadlock")
}
