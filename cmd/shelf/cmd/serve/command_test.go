package serve

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agentstation/shelf/internal/appcontext"
)

func TestServeRejectsInvalidConfig(t *testing.T) {
	// config.Default has no source URL.
	cmd := NewCommand(&appcontext.Mock{})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(nil)
	assert.Error(t, cmd.ExecuteContext(context.Background()))
}

func TestServeFlags(t *testing.T) {
	cmd := NewCommand(&appcontext.Mock{})
	for _, name := range []string{"host", "port", "prefix", "cors", "cors-origins", "cache-ttl"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), name)
	}
}
