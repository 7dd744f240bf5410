package connection

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

var DefaultConfig = Config{
	Host:              "127.0.0.1",
	User:              "guest",
	Password:          "guest",
	Vhost:             "/",
	Port:              5672,
	ConnectionName:    "go-amqp",
	ReconnectRetry:    10,
	Channels:          100,
	ReconnectInterval: 1 * time.Second,
	FrameSize:         8192,
}

type (
	Connection struct {
		cancel                  context.CancelFunc
		conn                    atomic.Pointer[amqp091.Connection]
		state                   atomic.Int32
		config                  *Config
		onBeforeConnectionReady OnReconnectingFunc
		onConnectionReady       OnConnectionReady
		onError                 OnErrorFunc
		once                    func()
	}

	Config struct {
		Host              string        `json:"host,omitempty" mapstructure:"host" yaml:"host"`
		User              string        `json:"user,omitempty" mapstructure:"user" yaml:"user"`
		Password          string        `json:"password,omitempty" mapstructure:"password" yaml:"password"`
		Vhost             string        `json:"vhost,omitempty" mapstructure:"vhost" yaml:"vhost"`
		ConnectionName    string        `json:"connection_name,omitempty" mapstructure:"connection_name" yaml:"connection_name"`
		Port              int           `json:"port,omitempty" mapstructure:"port" yaml:"port"`
		ReconnectRetry    int           `json:"reconnect_retry,omitempty" mapstructure:"reconnect_retry" yaml:"reconnect_retry"`
		Channels          uint16        `json:"channels,omitempty" mapstructure:"channels" yaml:"channels"`
		FrameSize         int           `json:"frame_size,omitempty" mapstructure:"frame_size" yaml:"frame_size"`
		ReconnectInterval time.Duration `json:"reconnect_interval,omitempty" mapstructure:"reconnect_interval" yaml:"reconnect_interval"`
	}
)

// URI returns the AMQP URI for the config. The vhost travels in
// amqp091.Config, so it is not part of the URI.
func (c Config) URI() string {
	u := url.URL{
		Scheme: "amqp",
		User:   url.UserPassword(c.User, c.Password),
		Host:   net.JoinHostPort(c.Host, strconv.FormatInt(int64(c.Port), 10)),
	}

	return u.String()
}

func (c Config) Validate() error {
	switch {
	case c.Host == "":
		return fmt.Errorf("%w: host is required", ErrInvalidConfig)
	case c.Port <= 0 || c.Port > 65535:
		return fmt.Errorf("%w: port %d is out of range", ErrInvalidConfig, c.Port)
	case c.ReconnectRetry < 0:
		return fmt.Errorf("%w: reconnect_retry must not be negative", ErrInvalidConfig)
	case c.ReconnectRetry > 0 && c.ReconnectInterval <= 0:
		return fmt.Errorf("%w: reconnect_interval is required when retrying", ErrInvalidConfig)
	}

	return nil
}

func New(ctx context.Context, config Config, events Events) (*Connection, error) {
	if events.OnConnectionReady == nil {
		return nil, ErrOnConnectionReady
	}

	ctx, cancel := context.WithCancel(ctx)

	c := &Connection{
		config:                  &config,
		cancel:                  cancel,
		onBeforeConnectionReady: events.OnBeforeConnectionReady,
		onConnectionReady:       events.OnConnectionReady,
		onError:                 events.OnError,
	}

	c.once = sync.OnceFunc(func() {
		c.setState(StateClosing)
		c.cancel()
		c.connectionDispose()
	})

	if err := c.reconnect(ctx); err != nil {
		c.once()
		return nil, err
	}

	return c, nil
}

func (c *Connection) reconnect(ctx context.Context) error {
	c.setState(StateConnecting)
	connect := c.connect()

	err := connect(ctx)
	if err == nil {
		return nil
	}

	timer := time.NewTimer(c.config.ReconnectInterval)
	defer timer.Stop()

	for i := 0; i < c.config.ReconnectRetry; i++ {
		select {
		case <-timer.C:
			if err = connect(ctx); err == nil {
				return nil
			}

			timer.Reset(c.config.ReconnectInterval)
		case <-ctx.Done():
			c.setState(StateDisconnected)
			return ctx.Err()
		}
	}

	c.setState(StateDisconnected)

	return errors.Join(ErrRetriesExhausted, err)
}

func (c *Connection) hasChannelClosed(err error) bool {
	return errors.Is(err, amqp091.ErrClosed) && !c.conn.Load().IsClosed()
}

func (c *Connection) IsClosed() bool {
	conn := c.conn.Load()
	return conn != nil && conn.IsClosed()
}

// State reports the lifecycle state of the connection.
func (c *Connection) State() State {
	return c.getState()
}

// RawConnection returns the current underlying connection. It changes
// after every reconnect.
func (c *Connection) RawConnection() *amqp091.Connection {
	return c.conn.Load()
}

func (c *Connection) getState() State {
	return State(c.state.Load())
}

func (c *Connection) setState(s State) {
	for {
		current := c.state.Load()
		if State(current) == StateClosing {
			return
		}

		if c.state.CompareAndSwap(current, int32(s)) {
			return
		}
	}
}

func (c *Connection) handleReconnect(ctx context.Context, connection *amqp091.Connection) {
	notifyClose := connection.NotifyClose(make(chan *amqp091.Error, 1))
	notifyBlocked := connection.NotifyBlocked(make(chan amqp091.Blocking, 1))

	for {
		select {
		case <-ctx.Done():
			return
		case blocking, ok := <-notifyBlocked:
			if !ok {
				notifyBlocked = nil
				continue
			}

			if blocking.Active {
				c.setState(StateBlocked)
				c.emit(&BlockedError{Reason: blocking.Reason})
			} else {
				c.setState(StateConnected)
			}
		case amqpErr, ok := <-notifyClose:
			if !ok {
				return
			}

			if c.hasChannelClosed(amqpErr) {
				continue
			}

			c.connectionDispose()

			if err := c.reconnect(ctx); err != nil {
				c.emit(err)
				return
			}
		}
	}
}

func (c *Connection) connect() func(ctx context.Context) error {
	connectionURI := c.config.URI()

	properties := amqp091.NewConnectionProperties()
	properties.SetClientConnectionName(c.config.ConnectionName)
	if err := properties.Validate(); err != nil {
		panic("Invalid connection properties: " + err.Error())
	}

	return func(ctx context.Context) error {
		c.connectionDispose()

		config := amqp091.Config{
			SASL:       nil,
			Vhost:      c.config.Vhost,
			ChannelMax: c.config.Channels,
			FrameSize:  c.config.FrameSize,
			Heartbeat:  3 * time.Second,
			Properties: properties,
			Dial:       amqp091.DefaultDial(c.config.ReconnectInterval),
		}

		if c.onBeforeConnectionReady != nil {
			if err := c.onBeforeConnectionReady(ctx); err != nil {
				c.emit(&OnBeforeConnectError{Inner: err})
				return err
			}
		}

		conn, err := amqp091.DialConfig(connectionURI, config)
		if err != nil {
			c.emit(&ConnectInitError{Inner: err})
			return err
		}

		c.conn.Store(conn)

		go c.handleReconnect(ctx, conn)

		if err = c.onConnectionReady(ctx, conn); err != nil {
			c.emit(&ConnectInitError{Inner: err})
			return err
		}

		c.setState(StateConnected)

		return nil
	}
}

func (c *Connection) emit(err error) {
	if c.onError != nil {
		c.onError(err)
	}
}

func (c *Connection) connectionDispose() {
	conn := c.conn.Load()

	if conn == nil || conn.IsClosed() {
		return
	}

	if err := conn.Close(); err != nil {
		c.emit(&OnConnectionCloseError{Inner: err})
	}
}

func (c *Connection) Close() error {
	c.once()

	return nil
}
