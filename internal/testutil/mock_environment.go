package testutil

import (
	"github.com/stretchr/testify/mock"

	"github.com/hupe1980/wumpusmesh/core"
)

// MockEnvironment is a scripted core.Environment.
type MockEnvironment struct{ mock.Mock }

var _ core.Environment = (*MockEnvironment)(nil)

// NewMockEnvironment returns a mock for a width x height world that accepts
// one registration as agent 0 and emits no events. Further expectations are
// added with On.
func NewMockEnvironment(width, height int) *MockEnvironment {
	m := &MockEnvironment{}
	m.On("Width").Return(width).Maybe()
	m.On("Height").Return(height).Maybe()
	m.On("RegisterAgent").Return(0, nil).Once()
	m.On("Events", 0).Return(make(chan core.AgentAnnouncement)).Maybe()
	return m
}

func (m *MockEnvironment) Width() int  { return m.Called().Int(0) }
func (m *MockEnvironment) Height() int { return m.Called().Int(0) }

func (m *MockEnvironment) RegisterAgent() (int, error) {
	args := m.Called()
	return args.Int(0), args.Error(1)
}

func (m *MockEnvironment) Perceive(id int) core.Percept {
	return m.Called(id).Get(0).(core.Percept)
}

func (m *MockEnvironment) Move(id int, d core.Direction) bool {
	return m.Called(id, d).Bool(0)
}

func (m *MockEnvironment) Grab(id int) bool { return m.Called(id).Bool(0) }

func (m *MockEnvironment) Drop(id int) bool { return m.Called(id).Bool(0) }

func (m *MockEnvironment) AnnounceSelf(id, x, y int) { m.Called(id, x, y) }

func (m *MockEnvironment) Events(id int) <-chan core.AgentAnnouncement {
	switch ch := m.Called(id).Get(0).(type) {
	case chan core.AgentAnnouncement:
		return ch
	case <-chan core.AgentAnnouncement:
		return ch
	default:
		return nil
	}
}
