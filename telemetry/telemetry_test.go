package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetupWithoutEndpointIsNoop(t *testing.T) {
	shutdown := Setup("test", "", false)
	assert.NoError(t, shutdown(context.Background()))
}
