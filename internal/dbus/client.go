package dbus

import (
	"context"
	"fmt"

	"github.com/godbus/dbus/v5"
)

// Client calls a running hudd over the session bus.
type Client struct {
	conn *dbus.Conn
	obj  dbus.BusObject
}

// Connect opens a private session bus connection to hudd.
func Connect() (*Client, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}
	return &Client{
		conn: conn,
		obj:  conn.Object(BusName, Path),
	}, nil
}

// Close closes the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Running reports whether hudd currently owns its bus name.
func (c *Client) Running(ctx context.Context) bool {
	var has bool
	err := c.conn.BusObject().CallWithContext(ctx, "org.freedesktop.DBus.NameHasOwner", 0, BusName).Store(&has)
	return err == nil && has
}

// Send adds a notification. See Server.Send for the meaning of seconds.
func (c *Client) Send(ctx context.Context, message, color string, seconds float64) (string, error) {
	var id string
	if err := c.call(ctx, "Send", message, color, seconds).Store(&id); err != nil {
		return "", fmt.Errorf("failed to send notification: %w", err)
	}
	return id, nil
}

// SendPermanent adds a notification that never expires.
func (c *Client) SendPermanent(ctx context.Context, message, color string) (string, error) {
	var id string
	if err := c.call(ctx, "SendPermanent", message, color).Store(&id); err != nil {
		return "", fmt.Errorf("failed to send notification: %w", err)
	}
	return id, nil
}

// ClearAll removes every notification.
func (c *Client) ClearAll(ctx context.Context) error {
	return c.clear(ctx, "ClearAll")
}

// ClearOldest removes the oldest notification.
func (c *Client) ClearOldest(ctx context.Context) error {
	return c.clear(ctx, "ClearOldest")
}

// ClearNewest removes the newest notification.
func (c *Client) ClearNewest(ctx context.Context) error {
	return c.clear(ctx, "ClearNewest")
}

// Count returns the number of active notifications.
func (c *Client) Count(ctx context.Context) (int, error) {
	var count uint32
	if err := c.call(ctx, "GetCount").Store(&count); err != nil {
		return 0, fmt.Errorf("failed to get count: %w", err)
	}
	return int(count), nil
}

// HasNotifications reports whether anything is displayed.
func (c *Client) HasNotifications(ctx context.Context) (bool, error) {
	var active bool
	if err := c.call(ctx, "HasNotifications").Store(&active); err != nil {
		return false, fmt.Errorf("failed to query notifications: %w", err)
	}
	return active, nil
}

// Get returns the notification with the given full ID.
func (c *Client) Get(ctx context.Context, id string) (Item, bool, error) {
	var item Item
	var found bool
	if err := c.call(ctx, "Get", id).Store(&item, &found); err != nil {
		return Item{}, false, fmt.Errorf("failed to get notification: %w", err)
	}
	return item, found, nil
}

// List returns the active notifications, oldest first.
func (c *Client) List(ctx context.Context) ([]Item, error) {
	var items []Item
	if err := c.call(ctx, "List").Store(&items); err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return items, nil
}

// WatchChanged calls fn with the new count every time hudd emits Changed,
// until ctx is cancelled.
func (c *Client) WatchChanged(ctx context.Context, fn func(count int)) error {
	if err := c.conn.AddMatchSignalContext(ctx,
		dbus.WithMatchObjectPath(Path),
		dbus.WithMatchInterface(Interface),
		dbus.WithMatchMember("Changed"),
	); err != nil {
		return fmt.Errorf("failed to subscribe to Changed: %w", err)
	}

	ch := make(chan *dbus.Signal, 16)
	c.conn.Signal(ch)
	defer c.conn.RemoveSignal(ch)

	for {
		select {
		case <-ctx.Done():
			return nil
		case sig, ok := <-ch:
			if !ok {
				return nil
			}
			if sig.Name != Interface+".Changed" || len(sig.Body) != 1 {
				continue
			}
			if count, ok := sig.Body[0].(uint32); ok {
				fn(int(count))
			}
		}
	}
}

func (c *Client) call(ctx context.Context, method string, args ...any) *dbus.Call {
	return c.obj.CallWithContext(ctx, Interface+"."+method, 0, args...)
}

func (c *Client) clear(ctx context.Context, method string) error {
	if err := c.call(ctx, method).Err; err != nil {
		return fmt.Errorf("failed to call %s: %w", method, err)
	}
	return nil
}
