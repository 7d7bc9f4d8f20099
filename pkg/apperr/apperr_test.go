package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/priyamehta/aarohi/pkg/apperr"
	"github.com/stretchr/testify/assert"
)

func TestKindSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("catalog: create: %w", apperr.Conflict("sku taken"))

	assert.True(t, apperr.IsConflict(err))
	assert.Equal(t, http.StatusConflict, apperr.HTTPStatus(err))
}

func TestUnclassifiedIsInternal(t *testing.T) {
	err := errors.New("connection reset")

	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
	assert.Equal(t, http.StatusInternalServerError, apperr.HTTPStatus(err))
}

func TestStatusMapping(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, apperr.HTTPStatus(apperr.Invalid("bad")))
	assert.Equal(t, http.StatusNotFound, apperr.HTTPStatus(apperr.NotFound("gone")))
	assert.Equal(t, http.StatusConflict, apperr.HTTPStatus(apperr.Conflict("dup")))
}
