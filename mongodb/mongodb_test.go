package mongodb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptions_Validate(t *testing.T) {
	opts := NewDefaultOptions("main", "mongodb://localhost:27017")
	require.NoError(t, opts.Validate())

	opts = NewDefaultOptions("", "mongodb://localhost:27017")
	assert.Error(t, opts.Validate())

	opts = NewDefaultOptions("main", "")
	assert.Error(t, opts.Validate())
}

func TestBuilder_DuplicateClient(t *testing.T) {
	builder := NewBuilder()
	builder.Add("main", "mongodb://localhost:27017", nil)
	builder.Add("main", "mongodb://localhost:27017", nil)

	_, err := builder.Build(nil)
	assert.Error(t, err)
}

func TestBuilder_InvalidConfiguration(t *testing.T) {
	builder := NewBuilder()
	builder.Add("main", "", nil)

	_, err := builder.Build(nil)
	assert.Error(t, err)
}

func TestFactory_GetMissing(t *testing.T) {
	factory := NewMongoFactory()
	_, err := factory.Get("absent")
	assert.Error(t, err)
	require.NoError(t, factory.Close())
}
