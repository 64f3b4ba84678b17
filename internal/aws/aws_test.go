package aws

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_getProfile(t *testing.T) {
	t.Setenv("AWS_PROFILE", "")
	assert.Equal(t, "default", getProfile())

	t.Setenv("AWS_PROFILE", "trading")
	assert.Equal(t, "trading", getProfile())
}
