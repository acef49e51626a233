package storage

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTicketKeyFormat(t *testing.T) {
	now := time.Unix(1700000000, 0)
	key := TicketKey("abc-123", now)
	assert.Equal(t, "tickets/abc-123-1700000000.pdf", key)
}

func TestTicketKeysDifferAcrossGenerations(t *testing.T) {
	a := TicketKey("r1", time.Unix(100, 0))
	b := TicketKey("r1", time.Unix(101, 0))
	assert.NotEqual(t, a, b)
}

func TestSignatureKey(t *testing.T) {
	key := SignatureKey(".png")
	assert.True(t, strings.HasPrefix(key, SignaturePrefix))
	assert.True(t, strings.HasSuffix(key, ".png"))
	assert.Regexp(t, regexp.MustCompile(`^signatures/[0-9a-f-]{36}\.png$`), key)
}
