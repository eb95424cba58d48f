package broker

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"

	"github.com/ukydev/property-maintenance/internal/events"
	"github.com/ukydev/property-maintenance/internal/models"
	"github.com/ukydev/property-maintenance/internal/store"
)

// Topic layout. Inbound topics drive store mutations; event topics carry
// every store event back out for dashboards and integrations.
const (
	TopicCreate = "maintenance/inbound/create"
	TopicUpdate = "maintenance/inbound/update"
	TopicAssign = "maintenance/inbound/assign"

	TopicRequestAdded   = "maintenance/events/request_added"
	TopicRequestUpdated = "maintenance/events/request_updated"
	TopicChatCreated    = "maintenance/events/chat_created"
)

// publisher is the slice of mqtt.Client the outbound path needs.
type publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// Bridge connects the store to an MQTT broker: inbound messages become store
// operations, store events become outbound messages.
type Bridge struct {
	client mqtt.Client
	pub    publisher
	store  *store.Store
	unsubs []func()
}

// New creates a bridge for the given broker URL. Connect must be called
// before the bridge carries traffic.
func New(brokerURL, clientID string, s *store.Store) *Bridge {
	opts := mqtt.NewClientOptions().
		AddBroker(brokerURL).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second)

	opts.OnConnectionLost = func(_ mqtt.Client, err error) {
		log.WithError(err).Warn("MQTT connection lost")
	}

	b := &Bridge{store: s}
	b.client = mqtt.NewClient(opts)
	b.pub = b.client
	return b
}

// Connect establishes the broker session and subscribes the inbound topics.
func (b *Bridge) Connect() error {
	if token := b.client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("mqtt connect: %w", token.Error())
	}

	subs := map[string]mqtt.MessageHandler{
		TopicCreate: b.handleCreate,
		TopicUpdate: b.handleUpdate,
		TopicAssign: b.handleAssign,
	}
	for topic, handler := range subs {
		if token := b.client.Subscribe(topic, 1, handler); token.Wait() && token.Error() != nil {
			return fmt.Errorf("mqtt subscribe %s: %w", topic, token.Error())
		}
	}

	log.Info("Connected to MQTT broker")
	return nil
}

// Start attaches the outbound path to the store's event bus.
func (b *Bridge) Start() {
	bus := b.store.Events()
	b.unsubs = append(b.unsubs,
		bus.Subscribe(events.EventRequestAdded, func(e events.Event) {
			b.publishJSON(TopicRequestAdded, e.Request)
		}),
		bus.Subscribe(events.EventRequestUpdated, func(e events.Event) {
			b.publishJSON(TopicRequestUpdated, e.Request)
		}),
		bus.Subscribe(events.EventChatCreated, func(e events.Event) {
			b.publishJSON(TopicChatCreated, e.Chat)
		}),
	)
}

// Stop detaches from the bus and closes the broker session.
func (b *Bridge) Stop() {
	for _, unsub := range b.unsubs {
		unsub()
	}
	b.unsubs = nil
	if b.client.IsConnected() {
		b.client.Disconnect(250)
	}
}

func (b *Bridge) publishJSON(topic string, v interface{}) {
	payload, err := json.Marshal(v)
	if err != nil {
		log.WithError(err).WithField("topic", topic).Error("Failed to encode event payload")
		return
	}
	b.pub.Publish(topic, 1, false, payload)
}

func (b *Bridge) handleCreate(_ mqtt.Client, msg mqtt.Message) {
	var draft models.RequestDraft
	if err := json.Unmarshal(msg.Payload(), &draft); err != nil {
		log.WithError(err).WithField("topic", msg.Topic()).Error("Invalid create payload")
		return
	}

	id, err := b.store.Add(draft)
	if err != nil {
		log.WithError(err).WithField("topic", msg.Topic()).Error("Failed to create request")
		return
	}
	log.WithFields(log.Fields{
		"request_id": id,
		"property":   draft.Property,
	}).Info("Request created via MQTT")
}

func (b *Bridge) handleUpdate(_ mqtt.Client, msg mqtt.Message) {
	var update struct {
		ID    string              `json:"id"`
		Patch models.RequestPatch `json:"patch"`
	}
	if err := json.Unmarshal(msg.Payload(), &update); err != nil {
		log.WithError(err).WithField("topic", msg.Topic()).Error("Invalid update payload")
		return
	}

	if err := b.store.Update(update.ID, update.Patch); err != nil {
		log.WithError(err).WithField("request_id", update.ID).Error("Failed to update request")
		return
	}
	log.WithField("request_id", update.ID).Info("Request updated via MQTT")
}

func (b *Bridge) handleAssign(_ mqtt.Client, msg mqtt.Message) {
	var assign struct {
		RequestID string `json:"request_id"`
		VendorID  string `json:"vendor_id"`
	}
	if err := json.Unmarshal(msg.Payload(), &assign); err != nil {
		log.WithError(err).WithField("topic", msg.Topic()).Error("Invalid assign payload")
		return
	}

	if err := b.store.AssignVendor(assign.RequestID, assign.VendorID); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"request_id": assign.RequestID,
			"vendor_id":  assign.VendorID,
		}).Error("Failed to assign vendor")
		return
	}
	log.WithFields(log.Fields{
		"request_id": assign.RequestID,
		"vendor_id":  assign.VendorID,
	}).Info("Vendor assigned via MQTT")
}
