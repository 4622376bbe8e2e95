package shell

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/lending-tracker-go/core"
	"github.com/AntonStoeckl/lending-tracker-go/eventstore"
)

func Test_DomainEventsFrom_RestoresEveryLendingEvent(t *testing.T) {
	// arrange
	now := time.Now()
	book := core.BuildBook("The Hobbit", core.BuildPerson("J.R.R.", "Tolkien"))
	member := core.BuildPerson("Ada", "Lovelace")

	domainEvents := core.DomainEvents{
		core.BuildBookAddedToCatalog(book, now),
		core.BuildMemberAdded(member, now),
		core.BuildBookBorrowed(book.ID, member, now),
		core.BuildBorrowingBookFailed(book.ID, member, "already borrowed", now),
		core.BuildBookReturned(book.ID, member, now),
		core.BuildReturningBookFailed(book.ID, "not borrowed", now),
	}

	storableEvents := make(eventstore.StorableEvents, 0, len(domainEvents))
	for _, domainEvent := range domainEvents {
		storableEvent, err := StorableEventFrom(domainEvent, BuildInitialEventMetadata())
		require.NoError(t, err)
		storableEvents = append(storableEvents, storableEvent)
	}

	// act
	restored, err := DomainEventsFrom(storableEvents)

	// assert
	require.NoError(t, err)
	require.Len(t, restored, len(domainEvents))

	for i := range domainEvents {
		assert.Equal(t, domainEvents[i].EventType(), storableEvents[i].EventType)
		assert.Equal(t, domainEvents[i].EventType(), restored[i].EventType())
		assert.True(t, domainEvents[i].HasOccurredAt().Equal(restored[i].HasOccurredAt()))
	}

	borrowed, ok := restored[2].(core.BookBorrowed)
	require.True(t, ok)
	assert.Equal(t, book.ID.String(), borrowed.BookID)
	assert.Equal(t, "Ada", borrowed.MemberFirstName)
	assert.Equal(t, "Lovelace", borrowed.MemberLastName)
}

func Test_StorableEventFrom_UsesEventTypeAsDiscriminator(t *testing.T) {
	event := core.BuildMemberAdded(core.BuildPerson("Grace", "Hopper"), time.Now())

	storableEvent, err := StorableEventWithEmptyMetadataFrom(event)

	require.NoError(t, err)
	assert.Equal(t, core.MemberAddedEventType, storableEvent.EventType)
	assert.JSONEq(t, "{}", string(storableEvent.MetadataJSON))
	assert.Contains(t, string(storableEvent.PayloadJSON), `"MemberFirstName":"Grace"`)
}

func Test_DomainEventFrom_UnknownEventType(t *testing.T) {
	storableEvent, err := eventstore.BuildStorableEventWithEmptyMetadata("BookLost", time.Now(), []byte(`{}`))
	require.NoError(t, err)

	domainEvent, err := DomainEventFrom(storableEvent)

	assert.Nil(t, domainEvent)
	assert.ErrorIs(t, err, ErrMappingToDomainEventFailed)
	assert.ErrorIs(t, err, ErrMappingToDomainEventUnknownEventType)
}

func Test_DomainEventsFrom_FailsOnPayloadOfWrongShape(t *testing.T) {
	storableEvent, err := eventstore.BuildStorableEventWithEmptyMetadata(
		core.BookBorrowedEventType,
		time.Now(),
		[]byte(`{"BookID": 42}`),
	)
	require.NoError(t, err)

	domainEvents, err := DomainEventsFrom(eventstore.StorableEvents{storableEvent})

	assert.Nil(t, domainEvents)
	assert.ErrorIs(t, err, ErrMappingToDomainEventFailed)
}

func Test_EventMetadata_RoundTrip(t *testing.T) {
	// arrange
	messageID, causationID, correlationID := uuid.New(), uuid.New(), uuid.New()
	metadata := BuildEventMetadata(messageID, causationID, correlationID)
	event := core.BuildMemberAdded(core.BuildPerson("Alan", "Turing"), time.Now())

	storableEvent, err := StorableEventFrom(event, metadata)
	require.NoError(t, err)

	// act
	restored, err := EventMetadataFrom(storableEvent)

	// assert
	require.NoError(t, err)
	assert.Equal(t, messageID.String(), restored.MessageID)
	assert.Equal(t, causationID.String(), restored.CausationID)
	assert.Equal(t, correlationID.String(), restored.CorrelationID)
}

func Test_BuildInitialEventMetadata_StartsCausationChain(t *testing.T) {
	metadata := BuildInitialEventMetadata()

	assert.NotEmpty(t, metadata.MessageID)
	assert.Equal(t, metadata.MessageID, metadata.CausationID)
	assert.Equal(t, metadata.MessageID, metadata.CorrelationID)
}

func Test_EventMetadataFrom_FailsOnMetadataOfWrongShape(t *testing.T) {
	storableEvent, err := eventstore.BuildStorableEvent(
		core.MemberAddedEventType,
		time.Now(),
		[]byte(`{}`),
		[]byte(`{"MessageID": 1}`),
	)
	require.NoError(t, err)

	_, err = EventMetadataFrom(storableEvent)

	assert.ErrorIs(t, err, ErrMappingToEventMetadataFailed)
}
