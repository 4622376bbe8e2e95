package eventstore_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/lending-tracker-go/eventstore"
)

func Test_GetConsistencyLevel(t *testing.T) {
	ctx := context.Background()

	assert.Equal(t, eventstore.StrongConsistency, eventstore.GetConsistencyLevel(ctx), "strong is the default")
	assert.Equal(t, eventstore.EventualConsistency, eventstore.GetConsistencyLevel(eventstore.WithEventualConsistency(ctx)))
	assert.Equal(t, eventstore.StrongConsistency, eventstore.GetConsistencyLevel(
		eventstore.WithStrongConsistency(eventstore.WithEventualConsistency(ctx)),
	))
}

func Test_ConsistencyLevel_String(t *testing.T) {
	assert.Equal(t, "strong", eventstore.StrongConsistency.String())
	assert.Equal(t, "eventual", eventstore.EventualConsistency.String())
	assert.Equal(t, "unknown", eventstore.ConsistencyLevel(42).String())
}
