package fault_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/redpwn/powupload/internal/fault"
)

func TestWrappedErrors(t *testing.T) {
	err := fmt.Errorf("get challenge: status 502: %w", fault.ErrChallengeFetchFailed)
	assert.True(t, errors.Is(err, fault.ErrChallengeFetchFailed))
	assert.False(t, errors.Is(err, fault.ErrUploadFailed))

	var p fault.ProcessError
	assert.True(t, errors.As(err, &p))
	assert.Equal(t, "challenge fetch failed", p.Error())

	var nf fault.NotFoundError
	assert.True(t, errors.As(fmt.Errorf("x.png: %w", fault.ErrFileNotFound), &nf))
}
