package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tycho-bear/tic-tac-toe/internal/model"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]any{"error": err.Error()})
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case HealthResult:
		fmt.Printf("Status: %s\n", v.Status)
	case ResultList:
		o.printResults(v)
	case model.PlayerTally:
		o.printTally(v)
	case LobbyUsers:
		o.printLobby(v)
	case ChallengeOutcome:
		o.printChallenge(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

// ResultList response type
type ResultList struct {
	Results []model.MatchResult `json:"results"`
}

// LobbyUsers is the current lobby roster
type LobbyUsers struct {
	Users []string `json:"users"`
}

// ChallengeOutcome reports how a challenge probe ended
type ChallengeOutcome struct {
	Target   string `json:"target"`
	Accepted bool   `json:"accepted"`
	GameID   string `json:"gameId,omitempty"`
}

func (o *Output) printResults(list ResultList) {
	if len(list.Results) == 0 {
		fmt.Println("No recorded matches")
		return
	}
	for _, r := range list.Results {
		outcome := fmt.Sprintf("%s won", r.Winner)
		if r.Draw {
			outcome = "draw"
		}
		fmt.Printf("%s  %s vs %s  %dx%d (win %d)  %s  %s\n",
			r.GameID, r.Player1, r.Player2,
			r.BoardSize, r.BoardSize, r.WinCondition,
			outcome, r.FinishedAt.Format("2006-01-02 15:04:05"))
	}
}

func (o *Output) printTally(t model.PlayerTally) {
	fmt.Printf("Player: %s\n", t.Player)
	fmt.Printf("Wins: %d\n", t.Wins)
	fmt.Printf("Losses: %d\n", t.Losses)
	fmt.Printf("Draws: %d\n", t.Draws)
}

func (o *Output) printChallenge(c ChallengeOutcome) {
	if c.Accepted {
		fmt.Printf("%s accepted (game %s)\n", c.Target, c.GameID)
	} else {
		fmt.Printf("%s declined\n", c.Target)
	}
}

func (o *Output) printLobby(l LobbyUsers) {
	if len(l.Users) == 0 {
		fmt.Println("Lobby is empty")
		return
	}
	fmt.Printf("Lobby (%d):\n", len(l.Users))
	for _, u := range l.Users {
		fmt.Printf("  - %s\n", u)
	}
}
