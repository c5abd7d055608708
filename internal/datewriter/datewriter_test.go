package datewriter_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/assurrussa/chicagotime/internal/datewriter"
	"github.com/assurrussa/chicagotime/internal/locale"
	"github.com/assurrussa/chicagotime/internal/sink/mocks"
)

type fixedClock time.Time

func (c fixedClock) Now() time.Time { return time.Time(c) }

type TodaySuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	out     *mocks.MockOutput
	chicago *time.Location
}

func TestTodaySuite(t *testing.T) {
	suite.Run(t, new(TodaySuite))
}

func (s *TodaySuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.out = mocks.NewMockOutput(s.ctrl)
	s.chicago = time.FixedZone("CDT", -5*60*60)
}

func (s *TodaySuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *TodaySuite) TestWritesShortDateInLocation() {
	// 02:30 UTC on the 18th is still the 17th in Chicago.
	clock := fixedClock(time.Date(2026, time.October, 18, 2, 30, 0, 0, time.UTC))
	s.out.EXPECT().Write("10/17/2026").Return(nil)

	w := datewriter.NewToday(s.out,
		datewriter.WithClock(clock),
		datewriter.WithLocation(s.chicago),
		datewriter.WithFormatter(locale.ShortDate(locale.Default)),
	)
	s.Require().NoError(w.WriteDate())
}

func (s *TodaySuite) TestUTCTodayDiffersFromLocal() {
	clock := fixedClock(time.Date(2026, time.October, 18, 2, 30, 0, 0, time.UTC))
	s.out.EXPECT().Write("2026-10-18").Return(nil)

	w := datewriter.NewToday(s.out, datewriter.WithClock(clock), datewriter.WithLocation(time.UTC))
	s.Require().NoError(w.WriteDate())
}

func (s *TodaySuite) TestDefaultsToISOFormat() {
	clock := fixedClock(time.Date(2026, time.January, 2, 12, 0, 0, 0, time.UTC))
	s.out.EXPECT().Write("2026-01-02").Return(nil)

	w := datewriter.NewToday(s.out, datewriter.WithClock(clock), datewriter.WithLocation(time.UTC), datewriter.WithFormatter(nil))
	s.Require().NoError(w.WriteDate())
}

func (s *TodaySuite) TestPropagatesSinkError() {
	errSink := errors.New("sink down")
	s.out.EXPECT().Write(gomock.Any()).Return(errSink)

	w := datewriter.NewToday(s.out)
	s.Require().ErrorIs(w.WriteDate(), errSink)
}

func (s *TodaySuite) TestSystemClockIsCurrent() {
	before := time.Now()
	got := datewriter.SystemClock{}.Now()
	s.False(got.Before(before))
}
