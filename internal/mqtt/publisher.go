package mqtt

import (
	"errors"
	"fmt"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"chargepanel/internal/command"
	"chargepanel/internal/models"
)

// ErrNotConfigured is returned when a publish is attempted before the broker
// settings record carries a broker URL.
var ErrNotConfigured = errors.New("mqtt: broker settings not configured")

const (
	defaultClientID   = "chargepanel"
	connectTimeout    = 5 * time.Second
	publishTimeout    = 5 * time.Second
	disconnectQuiesce = 250 // milliseconds, per paho Disconnect contract
)

// Publisher owns the persistent broker connection. Settings are replaceable at
// runtime through the panel; Configure swaps the underlying client.
type Publisher struct {
	mu       sync.Mutex
	client   paho.Client
	settings models.BrokerSettings
	logger   *zap.Logger
}

// NewPublisher builds an unconfigured publisher.
func NewPublisher(logger *zap.Logger) *Publisher {
	return &Publisher{logger: logger}
}

// Configure replaces the broker settings, dropping any existing connection.
// An incomplete record leaves the publisher unconfigured without error;
// publishing then fails fast.
func (p *Publisher) Configure(settings models.BrokerSettings) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.client != nil {
		p.client.Disconnect(disconnectQuiesce)
		p.client = nil
	}
	p.settings = settings

	if !settings.Configured() {
		p.logger.Info("mqtt publisher left unconfigured")
		return nil
	}

	clientID := settings.ClientID
	if clientID == "" {
		clientID = defaultClientID
	}

	opts := paho.NewClientOptions()
	opts.AddBroker(settings.BrokerURL)
	opts.SetClientID(clientID)
	opts.SetUsername(settings.Username)
	opts.SetPassword(settings.Password)
	opts.SetConnectRetry(true)
	opts.OnConnect = func(paho.Client) {
		p.logger.Info("mqtt broker connected", zap.String("broker", settings.BrokerURL))
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		p.logger.Warn("mqtt broker connection lost", zap.Error(err))
	}

	client := paho.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		// Connection keeps retrying in the background; publishes fail until up.
		p.logger.Warn("mqtt broker connect still pending", zap.String("broker", settings.BrokerURL))
	} else if token.Error() != nil {
		client.Disconnect(disconnectQuiesce)
		return fmt.Errorf("mqtt: connect: %w", token.Error())
	}

	p.client = client
	return nil
}

// Publish sends one formatted command at the station's QoS. Fails fast with
// ErrNotConfigured when no broker settings are present.
func (p *Publisher) Publish(cmd command.Command) error {
	p.mu.Lock()
	client := p.client
	p.mu.Unlock()

	if client == nil {
		return ErrNotConfigured
	}

	token := client.Publish(cmd.Topic, byte(cmd.QoS), false, cmd.Payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("mqtt: publish to %s timed out", cmd.Topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt: publish to %s: %w", cmd.Topic, err)
	}
	return nil
}

// Close drops the broker connection.
func (p *Publisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.client != nil {
		p.client.Disconnect(disconnectQuiesce)
		p.client = nil
	}
}
