package challenge

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/tycho-bear/tic-tac-toe/internal/dependencies/mocks"
	"github.com/tycho-bear/tic-tac-toe/internal/model"
	"github.com/tycho-bear/tic-tac-toe/internal/services/registry"
	"github.com/tycho-bear/tic-tac-toe/internal/testutil"
)

type BrokerSuite struct {
	suite.Suite
	clock    *mocks.MockClock
	registry *registry.Service
	broker   *Broker

	alice *model.Player
	bob   *model.Player
}

func TestBrokerSuite(t *testing.T) {
	suite.Run(t, new(BrokerSuite))
}

func (s *BrokerSuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.registry = registry.New(s.clock, testutil.NopLogger())
	s.broker = New(s.registry, s.clock, testutil.NopLogger())

	var err error
	s.alice, err = s.registry.Register("conn-alice", "Alice")
	s.Require().NoError(err)
	s.bob, err = s.registry.Register("conn-bob", "Bob")
	s.Require().NoError(err)
}

// Offer tests

func (s *BrokerSuite) TestOfferSucceeds() {
	offer, target, err := s.broker.Offer(s.alice, "Bob", 3, 3)
	s.Require().NoError(err)

	s.Equal(s.alice.ID, offer.Challenger)
	s.Equal(s.bob.ID, offer.Target)
	s.Equal(3, offer.BoardSize)
	s.Equal(3, offer.WinCondition)
	s.Equal(s.bob.ID, target.ID)
}

func (s *BrokerSuite) TestOfferResolvesTargetCaseInsensitively() {
	_, target, err := s.broker.Offer(s.alice, "bob", 3, 3)
	s.Require().NoError(err)
	s.Equal(s.bob.ID, target.ID)
}

func (s *BrokerSuite) TestOfferRejectsBoardSizeOutOfBounds() {
	_, _, err := s.broker.Offer(s.alice, "Bob", 2, 3)
	s.ErrorIs(err, model.ErrInvalidGeometry)

	_, _, err = s.broker.Offer(s.alice, "Bob", 11, 3)
	s.ErrorIs(err, model.ErrInvalidGeometry)
}

func (s *BrokerSuite) TestOfferRejectsWinConditionOutOfBounds() {
	_, _, err := s.broker.Offer(s.alice, "Bob", 5, 2)
	s.ErrorIs(err, model.ErrInvalidGeometry)

	_, _, err = s.broker.Offer(s.alice, "Bob", 5, 6)
	s.ErrorIs(err, model.ErrInvalidGeometry)
}

func (s *BrokerSuite) TestOfferAllowsWinConditionEqualToBoardSize() {
	_, _, err := s.broker.Offer(s.alice, "Bob", 5, 5)
	s.NoError(err)
}

func (s *BrokerSuite) TestOfferRejectsUnknownTarget() {
	_, _, err := s.broker.Offer(s.alice, "Nobody", 3, 3)
	s.ErrorIs(err, model.ErrTargetNotFound)
}

func (s *BrokerSuite) TestOfferRejectsSelfChallenge() {
	_, _, err := s.broker.Offer(s.alice, "Alice", 3, 3)
	s.ErrorIs(err, model.ErrSelfChallenge)
}

func (s *BrokerSuite) TestOfferRejectsInGameTarget() {
	s.registry.SetStatus(s.bob.ID, model.StatusInGame)

	_, _, err := s.broker.Offer(s.alice, "Bob", 3, 3)
	s.ErrorIs(err, model.ErrTargetNotAvailable)
}

func (s *BrokerSuite) TestOfferReplacesPriorOffer() {
	carol, err := s.registry.Register("conn-carol", "Carol")
	s.Require().NoError(err)

	_, _, err = s.broker.Offer(s.alice, "Bob", 3, 3)
	s.Require().NoError(err)
	_, _, err = s.broker.Offer(s.alice, "Carol", 5, 4)
	s.Require().NoError(err)

	// The Bob-directed offer is gone
	_, ok := s.broker.ConsumeFor(s.alice.ID, s.bob.ID)
	s.False(ok)

	offer, ok := s.broker.ConsumeFor(s.alice.ID, carol.ID)
	s.Require().True(ok)
	s.Equal(5, offer.BoardSize)
	s.Equal(4, offer.WinCondition)
}

// ConsumeFor tests

func (s *BrokerSuite) TestConsumeForRemovesOffer() {
	_, _, err := s.broker.Offer(s.alice, "Bob", 3, 3)
	s.Require().NoError(err)

	offer, ok := s.broker.ConsumeFor(s.alice.ID, s.bob.ID)
	s.Require().True(ok)
	s.Equal(s.alice.ID, offer.Challenger)

	_, ok = s.broker.ConsumeFor(s.alice.ID, s.bob.ID)
	s.False(ok)
}

func (s *BrokerSuite) TestConsumeForRejectsWrongTarget() {
	carol, err := s.registry.Register("conn-carol", "Carol")
	s.Require().NoError(err)

	_, _, err = s.broker.Offer(s.alice, "Bob", 3, 3)
	s.Require().NoError(err)

	// Carol cannot consume an offer addressed to Bob, and the offer
	// survives the attempt
	_, ok := s.broker.ConsumeFor(s.alice.ID, carol.ID)
	s.False(ok)

	_, ok = s.broker.ConsumeFor(s.alice.ID, s.bob.ID)
	s.True(ok)
}

func (s *BrokerSuite) TestConsumeForWithoutOffer() {
	_, ok := s.broker.ConsumeFor(s.alice.ID, s.bob.ID)
	s.False(ok)
}

// Cancel tests

func (s *BrokerSuite) TestCancelDropsOffer() {
	_, _, err := s.broker.Offer(s.alice, "Bob", 3, 3)
	s.Require().NoError(err)

	s.broker.Cancel(s.alice.ID)

	_, ok := s.broker.ConsumeFor(s.alice.ID, s.bob.ID)
	s.False(ok)
}

func (s *BrokerSuite) TestCancelWithoutOfferIsNoop() {
	s.broker.Cancel(s.alice.ID)
}
