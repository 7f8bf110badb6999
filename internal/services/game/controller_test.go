package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/tycho-bear/tic-tac-toe/internal/dependencies/mocks"
	"github.com/tycho-bear/tic-tac-toe/internal/model"
	"github.com/tycho-bear/tic-tac-toe/internal/testutil"
)

const (
	p1 = model.PlayerID("p_alice")
	p2 = model.PlayerID("p_bob")
	p3 = model.PlayerID("p_carol")
)

type ControllerSuite struct {
	suite.Suite
	clock      *mocks.MockClock
	random     *mocks.MockRandom
	controller *Controller
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.random.QueueString("GAME0001", "GAME0002", "GAME0003")
	s.controller = New(s.clock, s.random, testutil.NopLogger())
}

// playOut applies a sequence of (player, cell) moves, requiring each to
// succeed, and returns the final outcome.
func (s *ControllerSuite) playOut(moves ...any) *MoveOutcome {
	var outcome *MoveOutcome
	for i := 0; i < len(moves); i += 2 {
		var err error
		outcome, err = s.controller.ApplyMove(moves[i].(model.PlayerID), moves[i+1].(int))
		s.Require().NoError(err)
	}
	return outcome
}

// Create tests

func (s *ControllerSuite) TestCreateInitializesGame() {
	g := s.controller.Create(p1, p2, 3, 3)

	s.Equal(model.GameID("GAME0001"), g.ID)
	s.Equal(p1, g.Player1)
	s.Equal(p2, g.Player2)
	s.Len(g.Board, 9)
	s.Equal(p1, g.CurrentTurn)
	s.Equal(model.GameStatusActive, g.Status)
	s.False(g.Over())
}

func (s *ControllerSuite) TestCreateIndexesBothPlayers() {
	g := s.controller.Create(p1, p2, 3, 3)

	found, ok := s.controller.FindByPlayer(p1)
	s.Require().True(ok)
	s.Equal(g.ID, found.ID)

	found, ok = s.controller.FindByPlayer(p2)
	s.Require().True(ok)
	s.Equal(g.ID, found.ID)
}

// ApplyMove tests

func (s *ControllerSuite) TestApplyMovePlacesSymbolAndFlipsTurn() {
	s.controller.Create(p1, p2, 3, 3)

	outcome, err := s.controller.ApplyMove(p1, 4)
	s.Require().NoError(err)

	s.Equal(model.SymbolX, outcome.Game.Board[4])
	s.Equal(p2, outcome.Game.CurrentTurn)
	s.False(outcome.Terminal)
}

func (s *ControllerSuite) TestApplyMoveRejectsPlayerNotInGame() {
	s.controller.Create(p1, p2, 3, 3)

	_, err := s.controller.ApplyMove(p3, 0)
	s.ErrorIs(err, model.ErrNotInGame)
}

func (s *ControllerSuite) TestApplyMoveRejectsOutOfTurn() {
	s.controller.Create(p1, p2, 3, 3)

	_, err := s.controller.ApplyMove(p2, 0)
	s.ErrorIs(err, model.ErrNotYourTurn)
}

func (s *ControllerSuite) TestApplyMoveRejectsOccupiedCell() {
	s.controller.Create(p1, p2, 3, 3)
	s.playOut(p1, 4)

	_, err := s.controller.ApplyMove(p2, 4)
	s.ErrorIs(err, model.ErrInvalidCell)
}

func (s *ControllerSuite) TestApplyMoveRejectsCellOutOfRange() {
	s.controller.Create(p1, p2, 3, 3)

	_, err := s.controller.ApplyMove(p1, 9)
	s.ErrorIs(err, model.ErrInvalidCell)

	_, err = s.controller.ApplyMove(p1, -1)
	s.ErrorIs(err, model.ErrInvalidCell)
}

func (s *ControllerSuite) TestApplyMoveRejectedMoveLeavesStateUntouched() {
	s.controller.Create(p1, p2, 3, 3)

	_, err := s.controller.ApplyMove(p2, 0)
	s.Require().ErrorIs(err, model.ErrNotYourTurn)

	g, _ := s.controller.FindByPlayer(p1)
	s.Equal(p1, g.CurrentTurn)
	s.Equal(model.SymbolNone, g.Board[0])
}

func (s *ControllerSuite) TestApplyMoveDetectsWin() {
	s.controller.Create(p1, p2, 3, 3)

	// X takes the top row, O plays along the middle
	outcome := s.playOut(p1, 0, p2, 3, p1, 1, p2, 4, p1, 2)

	s.True(outcome.Terminal)
	s.False(outcome.Draw)
	s.Equal(model.SymbolX, outcome.Winner)
	s.Equal(model.GameStatusWon, outcome.Game.Status)
	s.True(outcome.Game.Over())
}

func (s *ControllerSuite) TestApplyMoveDetectsDraw() {
	s.controller.Create(p1, p2, 3, 3)

	// X O X / X O O / O X X: full board, no run
	outcome := s.playOut(
		p1, 0, p2, 1, p1, 2,
		p2, 4, p1, 3, p2, 5,
		p1, 7, p2, 6, p1, 8,
	)

	s.True(outcome.Terminal)
	s.True(outcome.Draw)
	s.Equal(model.SymbolNone, outcome.Winner)
	s.Equal(model.GameStatusDraw, outcome.Game.Status)
}

func (s *ControllerSuite) TestApplyMoveRejectedAfterGameOver() {
	s.controller.Create(p1, p2, 3, 3)
	s.playOut(p1, 0, p2, 3, p1, 1, p2, 4, p1, 2)

	// p2 would be next by rotation, but the game is over
	_, err := s.controller.ApplyMove(p2, 5)
	s.ErrorIs(err, model.ErrGameAlreadyOver)
}

func (s *ControllerSuite) TestFinishedGameStaysResident() {
	g := s.controller.Create(p1, p2, 3, 3)
	s.playOut(p1, 0, p2, 3, p1, 1, p2, 4, p1, 2)

	found, ok := s.controller.FindByPlayer(p2)
	s.Require().True(ok)
	s.Equal(g.ID, found.ID)
	s.True(found.Over())
}

func (s *ControllerSuite) TestWinOnLargerGeometry() {
	s.controller.Create(p1, p2, 5, 4)

	// X builds four down column 1; O scatters on row 4
	outcome := s.playOut(
		p1, 1, p2, 20,
		p1, 6, p2, 21,
		p1, 11, p2, 22,
		p1, 16,
	)

	s.True(outcome.Terminal)
	s.Equal(model.SymbolX, outcome.Winner)
}

// Rematch tests

func (s *ControllerSuite) finishGame() {
	s.playOut(p1, 0, p2, 3, p1, 1, p2, 4, p1, 2)
}

func (s *ControllerSuite) TestOfferRematchRequiresFinishedGame() {
	s.controller.Create(p1, p2, 3, 3)

	_, _, err := s.controller.OfferRematch(p1)
	s.ErrorIs(err, model.ErrGameNotOver)
}

func (s *ControllerSuite) TestOfferRematchRequiresGame() {
	_, _, err := s.controller.OfferRematch(p1)
	s.ErrorIs(err, model.ErrNotInGame)
}

func (s *ControllerSuite) TestOfferRematchRecordsOfferAndReturnsOpponent() {
	s.controller.Create(p1, p2, 3, 3)
	s.finishGame()

	g, opponent, err := s.controller.OfferRematch(p2)
	s.Require().NoError(err)

	s.Equal(p1, opponent)
	s.True(g.Rematch.Offered)
	s.Equal(p2, g.Rematch.OfferedBy)
}

func (s *ControllerSuite) TestAcceptRematchStartsFreshGame() {
	s.controller.Create(p1, p2, 5, 4)
	s.playOut(
		p1, 1, p2, 20,
		p1, 6, p2, 21,
		p1, 11, p2, 22,
		p1, 16,
	)
	_, _, err := s.controller.OfferRematch(p2)
	s.Require().NoError(err)

	g, err := s.controller.AcceptRematch(p1, p2)
	s.Require().NoError(err)

	s.Equal(model.GameID("GAME0002"), g.ID)
	s.Equal(p1, g.Player1)
	s.Equal(p2, g.Player2)
	s.Equal(5, g.BoardSize)
	s.Equal(4, g.WinCondition)
	s.Equal(p1, g.CurrentTurn)
	s.False(g.Rematch.Offered)
	for _, cell := range g.Board {
		s.Equal(model.SymbolNone, cell)
	}
}

func (s *ControllerSuite) TestAcceptRematchReplacesOldGame() {
	old := s.controller.Create(p1, p2, 3, 3)
	s.finishGame()
	_, _, _ = s.controller.OfferRematch(p1)

	g, err := s.controller.AcceptRematch(p2, p1)
	s.Require().NoError(err)

	found, ok := s.controller.FindByPlayer(p1)
	s.Require().True(ok)
	s.Equal(g.ID, found.ID)
	s.NotEqual(old.ID, found.ID)
}

func (s *ControllerSuite) TestAcceptRematchWithoutOffer() {
	s.controller.Create(p1, p2, 3, 3)
	s.finishGame()

	_, err := s.controller.AcceptRematch(p2, p1)
	s.ErrorIs(err, model.ErrNoRematchOffer)
}

func (s *ControllerSuite) TestAcceptRematchRejectsWrongOfferer() {
	s.controller.Create(p1, p2, 3, 3)
	s.finishGame()
	_, _, _ = s.controller.OfferRematch(p1)

	_, err := s.controller.AcceptRematch(p2, p2)
	s.ErrorIs(err, model.ErrNoRematchOffer)
}

func (s *ControllerSuite) TestOffererCannotAcceptOwnOffer() {
	s.controller.Create(p1, p2, 3, 3)
	s.finishGame()
	_, _, _ = s.controller.OfferRematch(p1)

	_, err := s.controller.AcceptRematch(p1, p1)
	s.ErrorIs(err, model.ErrNoRematchOffer)
}

// Remove tests

func (s *ControllerSuite) TestRemoveTearsDownGameForBothPlayers() {
	g := s.controller.Create(p1, p2, 3, 3)

	removed, opponent, ok := s.controller.Remove(p1)
	s.Require().True(ok)
	s.Equal(g.ID, removed.ID)
	s.Equal(p2, opponent)

	_, ok = s.controller.FindByPlayer(p1)
	s.False(ok)
	_, ok = s.controller.FindByPlayer(p2)
	s.False(ok)
}

func (s *ControllerSuite) TestRemoveWithoutGame() {
	_, _, ok := s.controller.Remove(p1)
	s.False(ok)
}
