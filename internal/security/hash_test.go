package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashEmail_Normalization(t *testing.T) {
	a := HashEmail("User@Example.COM")
	b := HashEmail("  user@example.com  ")
	c := HashEmail("other@example.com")

	assert.Equal(t, a, b, "case and whitespace variants must collide")
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64) // hex sha-256
}

func TestHashIP_Stable(t *testing.T) {
	assert.Equal(t, HashIP("203.0.113.7"), HashIP("203.0.113.7"))
	assert.NotEqual(t, HashIP("203.0.113.7"), HashIP("203.0.113.8"))
}
