package services

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/mowlid/portfolio-backend/natsserver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestHub(t *testing.T) *ChangeHub {
	t.Helper()

	ns, err := natsserver.New(natsserver.Config{Port: -1})
	require.NoError(t, err)
	t.Cleanup(ns.Shutdown)

	hub := NewChangeHub(ns)
	go hub.Run()
	return hub
}

func waitForMessage(t *testing.T, client *ChangeClient) changeMessage {
	t.Helper()

	select {
	case raw := <-client.send:
		var msg changeMessage
		require.NoError(t, json.Unmarshal(raw, &msg))
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for change message")
		return changeMessage{}
	}
}

func TestNotifyChangeReachesSubscriber(t *testing.T) {
	hub := setupTestHub(t)
	client := NewChangeClient(hub, nil, "test-addr")
	hub.Register(client)

	require.NoError(t, hub.Subscribe(client, "services"))

	hub.NotifyChange("services", "insert", 42)

	msg := waitForMessage(t, client)
	assert.Equal(t, "change", msg.Type)
	assert.Equal(t, "services", msg.Table)

	var event ChangeEvent
	require.NoError(t, json.Unmarshal(msg.Data, &event))
	assert.Equal(t, "services", event.Table)
	assert.Equal(t, "insert", event.Action)
	assert.Equal(t, int64(42), event.ID)
}

func TestSubscribeUnknownTable(t *testing.T) {
	hub := setupTestHub(t)
	client := NewChangeClient(hub, nil, "test-addr")
	hub.Register(client)

	err := hub.Subscribe(client, "secrets")
	assert.Error(t, err)
}

func TestUnsubscribeDropsIdleSubscription(t *testing.T) {
	hub := setupTestHub(t)
	client := NewChangeClient(hub, nil, "test-addr")
	hub.Register(client)

	require.NoError(t, hub.Subscribe(client, "orders"))
	assert.Equal(t, 1, hub.Stats().Subscriptions)

	hub.Unsubscribe(client, "orders")
	assert.Equal(t, 0, hub.Stats().Subscriptions)

	// The client stops tracking the table too
	client.tablesMu.RLock()
	_, watching := client.tables["orders"]
	client.tablesMu.RUnlock()
	assert.False(t, watching)
}

func TestStatsCountPublishedEvents(t *testing.T) {
	hub := setupTestHub(t)
	assert.Equal(t, uint64(0), hub.Stats().EventsPublished)

	hub.NotifyChange("services", "insert", 1)
	hub.NotifyChange("projects", "delete", 2)

	stats := hub.Stats()
	assert.Equal(t, uint64(2), stats.EventsPublished)
	assert.Equal(t, uint64(0), stats.EventsDropped)
}

func TestClientsDoNotCrossTables(t *testing.T) {
	hub := setupTestHub(t)
	ordersClient := NewChangeClient(hub, nil, "orders-addr")
	contactsClient := NewChangeClient(hub, nil, "contacts-addr")
	hub.Register(ordersClient)
	hub.Register(contactsClient)

	require.NoError(t, hub.Subscribe(ordersClient, "orders"))
	require.NoError(t, hub.Subscribe(contactsClient, "contacts"))

	hub.NotifyChange("orders", "update", 7)

	msg := waitForMessage(t, ordersClient)
	assert.Equal(t, "orders", msg.Table)

	select {
	case <-contactsClient.send:
		t.Fatal("contacts client received an orders event")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestNotifyChangeNilHub(t *testing.T) {
	var hub *ChangeHub
	// Must not panic when the hub is not wired up
	hub.NotifyChange("services", "insert", 1)
}
