package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tycho-bear/tic-tac-toe/internal/protocol"
)

// lobbyProbeTimeout bounds the whole join-and-read exchange
const lobbyProbeTimeout = 5 * time.Second

func newLobbyCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "lobby",
		Short: "Show who is waiting in the lobby",
		Long: `Connects to the game websocket, joins under a temporary name, and
prints the lobby roster the server reports back. The temporary player leaves
again as soon as the roster arrives.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := client.DialGame()
			if err != nil {
				return err
			}
			defer func() { _ = conn.Close() }()

			if name == "" {
				name = fmt.Sprintf("tttctl-%d", time.Now().UnixNano()%100000)
			}

			if err := conn.Send(protocol.TypeJoin, protocol.JoinPayload{Name: name}); err != nil {
				return err
			}
			if _, err := conn.WaitFor(lobbyProbeTimeout, protocol.TypeJoinSuccess); err != nil {
				return err
			}

			env, err := conn.WaitFor(lobbyProbeTimeout, protocol.TypeUserList)
			if err != nil {
				return err
			}

			var list protocol.UserListPayload
			if err := json.Unmarshal(env.Payload, &list); err != nil {
				return fmt.Errorf("failed to decode user list: %w", err)
			}

			// Filter out the probe's own temporary name
			users := make([]string, 0, len(list.Users))
			for _, u := range list.Users {
				if u != name {
					users = append(users, u)
				}
			}

			out := NewOutput(cfg.Output)
			out.Print(LobbyUsers{Users: users})
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Temporary name to join with (default: generated)")

	return cmd
}
