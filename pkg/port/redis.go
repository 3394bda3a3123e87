package port

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nobletooth/dlist/pkg/keyspace"
	"github.com/nobletooth/dlist/pkg/list"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/tidwall/redcon"
)

const RedisOk = "OK"

var (
	address = flag.String("address", ":6380", "The ip:port to listen on for Redis protocol.")

	commandsMetric = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "redis_commands_total",
		Help: "Total number of handled Redis commands.",
	}, []string{"command", "status" /* ok | error */})

	// knownCommands bounds the command label; anything else is recorded as unknownCommand.
	knownCommands = map[string]struct{}{
		"PING": {}, "QUIT": {}, "LPUSH": {}, "RPUSH": {}, "SLINSERT": {}, "LPOP": {}, "RPOP": {}, "LFIRST": {},
		"LLAST": {}, "LLEN": {}, "LREM": {}, "LITEMS": {}, "LRITEMS": {}, "TYPE": {}, "DEL": {}, "KEYS": {},
	}
)

const unknownCommand = "unknown"

// commandLabel returns the metric label of the given client supplied command name.
func commandLabel(command string) string {
	command = strings.ToUpper(command)
	if _, ok := knownCommands[command]; !ok {
		return unknownCommand
	}
	return command
}

// redisCommand represents a Redis command with its arguments.
type redisCommand struct {
	command string
	args    []string
}

// redisOutput conforms to a real Redis server output on non pub / sub commands.
type redisOutput struct {
	closeConnection bool     // Closes the connection if true.
	writeNil        bool     // Writes a nil value if true.
	err             *string  // Error to return if set.
	writeInt        *int     // Writes an integer value if set.
	writeBulk       *string  // Writes a bulk string if set.
	writeArray      []string // Writes an array of bulk strings if non-nil.
	writeString     string   // Writes a simple string otherwise.
}

func closeRedisConnection(msg string) redisOutput {
	return redisOutput{writeString: msg, closeConnection: true}
}

func writeRedisNil() redisOutput {
	return redisOutput{writeNil: true}
}

func writeRedisInt(i int) redisOutput {
	return redisOutput{writeInt: &i}
}

func writeRedisString(s string) redisOutput {
	return redisOutput{writeString: s}
}

func writeRedisBulk(s string) redisOutput {
	return redisOutput{writeBulk: &s}
}

func writeRedisArray(values []string) redisOutput {
	if values == nil {
		values = []string{}
	}
	return redisOutput{writeArray: values}
}

// writeRedisError maps keyspace errors to Redis error prefixes.
func writeRedisError(err error) redisOutput {
	prefix := "ERR "
	if errors.Is(err, keyspace.ErrWrongKind) || errors.Is(err, list.ErrUnsupportedOperation) {
		prefix = "WRONGTYPE "
	}
	msg := prefix + err.Error()
	return redisOutput{err: &msg}
}

func wrongArgCount(command string) redisOutput {
	return writeRedisError(fmt.Errorf("wrong number of arguments for '%s' command", strings.ToLower(command)))
}

// writeTo writes the output to the given connection.
func (ro redisOutput) writeTo(conn redcon.Conn) {
	switch {
	case ro.err != nil:
		conn.WriteError(*ro.err)
	case ro.writeNil:
		conn.WriteNull()
	case ro.writeInt != nil:
		conn.WriteInt(*ro.writeInt)
	case ro.writeBulk != nil:
		conn.WriteBulkString(*ro.writeBulk)
	case ro.writeArray != nil:
		conn.WriteArray(len(ro.writeArray))
		for _, value := range ro.writeArray {
			conn.WriteBulkString(value)
		}
	default:
		conn.WriteString(ro.writeString)
	}
}

type redisHandler struct {
	lists *keyspace.Keyspace
}

// newRedisHandler creates a new redisHandler.
func newRedisHandler(lists *keyspace.Keyspace) (*redisHandler, error) {
	if lists == nil {
		return nil, errors.New("expected a non-nil keyspace")
	}
	return &redisHandler{lists: lists}, nil
}

// handleOutput reads a single value, translating a missing key to a Redis nil.
func handleOutput(value string, err error) redisOutput {
	if errors.Is(err, keyspace.ErrKeyNotFound) {
		return writeRedisNil()
	} else if err != nil {
		return writeRedisError(err)
	}
	return writeRedisBulk(value)
}

// handleLength reports the length after an insertion.
func handleLength(length int, err error) redisOutput {
	if err != nil {
		return writeRedisError(err)
	}
	return writeRedisInt(length)
}

func (rh *redisHandler) handle(cmd redisCommand) redisOutput {
	command := strings.ToUpper(cmd.command)
	switch command {
	case "PING":
		return writeRedisString("PONG")
	case "QUIT":
		return closeRedisConnection(RedisOk)
	case "LPUSH", "RPUSH", "SLINSERT":
		if len(cmd.args) < 2 {
			return wrongArgCount(command)
		}
		key, values := cmd.args[0], cmd.args[1:]
		switch command {
		case "LPUSH":
			return handleLength(rh.lists.PushFront(key, values...))
		case "RPUSH":
			return handleLength(rh.lists.PushBack(key, values...))
		default:
			return handleLength(rh.lists.Insert(key, values...))
		}
	case "LPOP", "RPOP", "LFIRST", "LLAST":
		if len(cmd.args) != 1 {
			return wrongArgCount(command)
		}
		key := cmd.args[0]
		switch command {
		case "LPOP":
			return handleOutput(rh.lists.PopFront(key))
		case "RPOP":
			return handleOutput(rh.lists.PopBack(key))
		case "LFIRST":
			return handleOutput(rh.lists.First(key))
		default:
			return handleOutput(rh.lists.Last(key))
		}
	case "LLEN":
		if len(cmd.args) != 1 {
			return wrongArgCount(command)
		}
		return writeRedisInt(rh.lists.Len(cmd.args[0]))
	case "LREM":
		if len(cmd.args) != 2 {
			return wrongArgCount(command)
		}
		if rh.lists.Remove(cmd.args[0], cmd.args[1]) {
			return writeRedisInt(1)
		}
		return writeRedisInt(0)
	case "LITEMS":
		if len(cmd.args) != 1 {
			return wrongArgCount(command)
		}
		return writeRedisArray(rh.lists.Items(cmd.args[0]))
	case "LRITEMS":
		if len(cmd.args) != 1 {
			return wrongArgCount(command)
		}
		values, err := rh.lists.ReverseItems(cmd.args[0])
		if err != nil {
			return writeRedisError(err)
		}
		return writeRedisArray(values)
	case "TYPE":
		if len(cmd.args) != 1 {
			return wrongArgCount(command)
		}
		return writeRedisString(rh.lists.Kind(cmd.args[0]).String())
	case "DEL":
		if len(cmd.args) < 1 {
			return wrongArgCount(command)
		}
		return writeRedisInt(rh.lists.Delete(cmd.args...))
	case "KEYS":
		if len(cmd.args) != 1 {
			return wrongArgCount(command)
		}
		keys, err := rh.lists.Keys(cmd.args[0])
		if err != nil {
			return writeRedisError(err)
		}
		return writeRedisArray(keys)
	default:
		return writeRedisError(fmt.Errorf("unknown command '%s'", cmd.command))
	}
}

// execute handles `cmd` and records its outcome.
func (rh *redisHandler) execute(cmd redisCommand) redisOutput {
	output := rh.handle(cmd)
	status := "ok"
	if output.err != nil {
		status = "error"
	}
	commandsMetric.WithLabelValues(commandLabel(cmd.command), status).Inc()
	return output
}

// serve handles a single connection command.
func (rh *redisHandler) serve(conn redcon.Conn, cmd redcon.Command) {
	// Convert redcon.Command to redisCommand.
	command := redisCommand{command: string(cmd.Args[0]), args: make([]string, len(cmd.Args)-1)}
	for i := 1; i < len(cmd.Args); i++ {
		command.args[i-1] = string(cmd.Args[i])
	}
	output := rh.execute(command)
	output.writeTo(conn)
	if output.closeConnection {
		if err := conn.Close(); err != nil {
			slog.Error("Failed to close connection.", "error", err)
		}
	}
}

// RunRedisServer serves the given keyspace over the Redis protocol until `ctx` is cancelled.
func RunRedisServer(ctx context.Context, lists *keyspace.Keyspace) error {
	if *address == "" {
		return errors.New("expected a non-empty --address flag")
	}

	redisHandler, err := newRedisHandler(lists)
	if err != nil {
		return fmt.Errorf("failed to create a new redis handler: %w", err)
	}

	redisServer := redcon.NewServerNetwork("tcp" /*net*/, *address,
		/*handler*/ redisHandler.serve,
		/*accept*/ func(conn redcon.Conn) bool {
			slog.Debug("Accepted connection.", "remote", conn.RemoteAddr())
			return true // Accept all connections.
		},
		/*close*/ func(conn redcon.Conn, err error) {
			if err != nil {
				slog.Debug("Connection closed with error.", "remote", conn.RemoteAddr(), "error", err)
			}
		})

	serverErrSignal := make(chan error, 1)
	go func() {
		if err := redisServer.ListenAndServe(); err != nil {
			serverErrSignal <- err
		}
		close(serverErrSignal)
	}()
	slog.Info("Serving lists over the Redis protocol.", "address", *address)

	select {
	case <-ctx.Done():
		if err := redisServer.Close(); err != nil {
			return fmt.Errorf("failed to close redis server: %w", err)
		}
	case err, ok := <-serverErrSignal:
		if !ok {
			return errors.New("redis server stopped unexpectedly")
		}
		return fmt.Errorf("redis server stopped unexpectedly: %w", err)
	}

	return nil // Exited with no errors.
}
