// fwdsend dials a routerd hub as a throwaway node and emits one encoded
// ForwardRequest. Deployment smoke-testing only.
package main

import (
	"flag"
	"fmt"
	"net/url"
	"os"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/azsu/crossfwd/internal/config"
	"github.com/azsu/crossfwd/internal/wire"
)

func main() {
	hubURL := flag.String("hub", "ws://localhost:9190/channel", "routerd channel endpoint")
	channel := flag.String("channel", config.DefaultChannel, "logical channel id")
	target := flag.String("target", "all", "target server, or all / proxy")
	command := flag.String("command", "", "command text to forward")
	executor := flag.String("executor", "CONSOLE", "executor name")
	executorUUID := flag.String("uuid", "CONSOLE", "executor uuid")
	console := flag.Bool("console", true, "execute as console")
	flag.Parse()

	if *command == "" {
		fmt.Fprintln(os.Stderr, "fwdsend: -command is required")
		os.Exit(2)
	}
	if err := run(*hubURL, *channel, wire.ForwardRequest{
		TargetServer:     *target,
		Command:          *command,
		ExecutorName:     *executor,
		ExecutorUUID:     *executorUUID,
		ExecuteAsConsole: *console,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "fwdsend: %v\n", err)
		os.Exit(1)
	}
}

func run(hubURL, channel string, req wire.ForwardRequest) error {
	payload, err := wire.EncodeRequest(req)
	if err != nil {
		return err
	}

	u, err := url.Parse(hubURL)
	if err != nil {
		return fmt.Errorf("bad hub url: %w", err)
	}
	q := u.Query()
	q.Set("node", "fwdsend-"+uuid.NewString()[:8])
	q.Set("channel", channel)
	u.RawQuery = q.Encode()

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := conn.WriteMessage(websocket.BinaryMessage, payload); err != nil {
		return err
	}
	return conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
