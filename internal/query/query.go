// Package query is the boundary to the TeamSpeak ServerQuery protocol.
// Framing, request/response correlation, authentication and the
// notification stream are owned by the go-ts3 client; this package exposes
// the narrow surface the rest of the daemon needs: issue a command, read
// the resulting records, and consume pushed events.
package query

import "context"

// Command is one ServerQuery command with its parameters and options.
type Command struct {
	Name    string
	Args    []Arg
	Options []string
}

// Arg is a single key=value command parameter.
type Arg struct {
	Key   string
	Value string
}

// NewArg builds a command parameter.
func NewArg(key, value string) Arg {
	return Arg{Key: key, Value: value}
}

// Command builders keep call sites compact.

// Cmd builds a command from alternating key/value pairs.
func Cmd(name string, kv ...string) Command {
	c := Command{Name: name}
	for i := 0; i+1 < len(kv); i += 2 {
		c.Args = append(c.Args, Arg{Key: kv[i], Value: kv[i+1]})
	}

	return c
}

// WithOptions returns a copy of the command with the given -options added.
func (c Command) WithOptions(options ...string) Command {
	c.Options = append(c.Options, options...)
	return c
}

// WithArg returns a copy of the command with one more parameter.
func (c Command) WithArg(key, value string) Command {
	c.Args = append(c.Args, Arg{Key: key, Value: value})
	return c
}

// Commander is the command surface of a connection, handed out by the
// session registry. It carries no lifecycle rights.
type Commander interface {
	// Do executes a command with proper argument escaping and returns the
	// parsed response records.
	Do(cmd Command) ([]Record, error)

	// Raw executes a pre-rendered command line. It exists as the fallback
	// path for commands where the structured form is rejected.
	Raw(line string) ([]Record, error)
}

// Conn is one live ServerQuery connection. The session registry owns the
// handle exclusively; everything else reaches it through a read-only lookup.
type Conn interface {
	Commander

	// Events returns the stream of server-pushed notifications. The channel
	// is closed when the connection dies or is closed.
	Events() <-chan Event

	// Close tears the connection down. Safe to call more than once.
	Close() error
}

// Target describes how to reach and authenticate to one server.
type Target struct {
	Host       string
	QueryPort  int
	ServerPort int
	Username   string
	Password   string
	Nickname   string
}

// Dialer opens ServerQuery connections. It performs the full connect
// sequence: TCP dial, login, virtual server selection, nickname update and
// event category registration.
type Dialer interface {
	Dial(ctx context.Context, target Target) (Conn, error)
}
