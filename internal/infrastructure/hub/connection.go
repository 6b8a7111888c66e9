package hub

import (
	"crypto/rand"
	"errors"
	"fmt"
	"sync"
)

// DefaultMailboxSize bounds the per-connection outbound queue when no
// explicit capacity is configured.
const DefaultMailboxSize = 256

var (
	// ErrConnectionClosed is returned by Enqueue after the connection
	// has been closed.
	ErrConnectionClosed = errors.New("connection is closed")

	// ErrMailboxFull is returned when a consumer stalled long enough for
	// its mailbox to fill. The connection is closed as a side effect:
	// real-time envelopes are not worth unbounded memory, and directed
	// recipients still have the durable notification store.
	ErrMailboxFull = errors.New("mailbox is full")
)

// Kind discriminates the two disjoint address spaces a connection can
// belong to.
type Kind int

const (
	// KindRoom is an anonymous connection scoped to one mission room.
	KindRoom Kind = iota
	// KindUser is an authenticated connection owned by one brawler.
	KindUser
)

func (k Kind) String() string {
	if k == KindUser {
		return "user"
	}
	return "room"
}

// Connection is one live duplex channel with its bounded outbound
// mailbox. The mailbox channel being closed is the sole signal that ends
// the owning session's write loop.
type Connection struct {
	id        string
	kind      Kind
	missionID int64
	brawlerID int64

	mu      sync.Mutex
	closed  bool
	mailbox chan *Envelope
}

// NewRoomConnection creates a connection addressed by mission room.
func NewRoomConnection(missionID int64, mailboxSize int) *Connection {
	return newConnection(KindRoom, missionID, 0, mailboxSize)
}

// NewUserConnection creates a connection addressed by brawler identity.
func NewUserConnection(brawlerID int64, mailboxSize int) *Connection {
	return newConnection(KindUser, 0, brawlerID, mailboxSize)
}

func newConnection(kind Kind, missionID, brawlerID int64, mailboxSize int) *Connection {
	if mailboxSize <= 0 {
		mailboxSize = DefaultMailboxSize
	}
	return &Connection{
		id:        generateConnectionID(),
		kind:      kind,
		missionID: missionID,
		brawlerID: brawlerID,
		mailbox:   make(chan *Envelope, mailboxSize),
	}
}

// ID returns the process-lifetime unique connection identifier.
func (c *Connection) ID() string { return c.id }

// Kind returns the connection's address space.
func (c *Connection) Kind() Kind { return c.kind }

// MissionID returns the room key; zero for user connections.
func (c *Connection) MissionID() int64 { return c.missionID }

// BrawlerID returns the owner key; zero for room connections.
func (c *Connection) BrawlerID() int64 { return c.brawlerID }

// Enqueue appends an envelope to the mailbox without blocking. When the
// mailbox is full the connection is closed and ErrMailboxFull returned;
// the caller is expected to deregister it.
func (c *Connection) Enqueue(env *Envelope) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrConnectionClosed
	}

	select {
	case c.mailbox <- env:
		return nil
	default:
		c.closed = true
		close(c.mailbox)
		return ErrMailboxFull
	}
}

// Close terminates the connection and its write loop. Idempotent.
func (c *Connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	c.closed = true
	close(c.mailbox)
	return nil
}

// IsClosed reports whether the connection has been closed.
func (c *Connection) IsClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Mailbox exposes the outbound queue to the session's write loop. The
// channel is closed exactly once, by Close or the overflow policy.
func (c *Connection) Mailbox() <-chan *Envelope {
	return c.mailbox
}

// generateConnectionID generates a unique connection ID.
func generateConnectionID() string {
	b := make([]byte, 8)
	rand.Read(b)
	return fmt.Sprintf("conn-%x", b)
}
