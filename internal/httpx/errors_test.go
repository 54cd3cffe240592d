package httpx

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindStatusMapping(t *testing.T) {
	cases := map[Kind]int{
		KindValidation:   http.StatusBadRequest,
		KindConflict:     http.StatusBadRequest,
		KindNotFound:     http.StatusNotFound,
		KindUnauthorized: http.StatusUnauthorized,
		KindForbidden:    http.StatusForbidden,
		KindUpstream:     http.StatusInternalServerError,
		KindInternal:     http.StatusInternalServerError,
	}

	for kind, want := range cases {
		assert.Equal(t, want, kind.HTTPStatus())
	}
}

func TestErrorWrapping(t *testing.T) {
	inner := assert.AnError
	err := Upstream("mail delivery failed", inner)

	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "mail delivery failed")
}
