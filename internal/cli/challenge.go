package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tycho-bear/tic-tac-toe/internal/protocol"
)

// challengeWaitTimeout covers the target player thinking it over
const challengeWaitTimeout = 30 * time.Second

func newChallengeCmd() *cobra.Command {
	var (
		name         string
		boardSize    int
		winCondition int
	)

	cmd := &cobra.Command{
		Use:   "challenge <target>",
		Short: "Challenge a lobby player and report their answer",
		Long: `Connects to the game websocket, joins under the given name, challenges
the target player, and waits for them to accept or decline. On accept the
command reports the game id and leaves the match immediately.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := args[0]

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

			if err := conn.Send(protocol.TypeChallenge, protocol.ChallengePayload{
				Target:       target,
				BoardSize:    boardSize,
				WinCondition: winCondition,
			}); err != nil {
				return err
			}

			env, err := conn.WaitFor(challengeWaitTimeout,
				protocol.TypeGameStart, protocol.TypeChallengeDeclined)
			if err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			outcome := ChallengeOutcome{Target: target}
			if env.Type == protocol.TypeGameStart {
				var start protocol.GameStartPayload
				if err := json.Unmarshal(env.Payload, &start); err != nil {
					return fmt.Errorf("failed to decode game start: %w", err)
				}
				outcome.Accepted = true
				outcome.GameID = start.GameID
			}
			out.Print(outcome)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Name to join with (default: generated)")
	cmd.Flags().IntVar(&boardSize, "size", 3, "Board size")
	cmd.Flags().IntVar(&winCondition, "win", 3, "Run length needed to win")

	return cmd
}
