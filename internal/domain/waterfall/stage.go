package waterfall

import (
	"errors"
	"fmt"
)

var ErrInvalidStageTransition = errors.New("invalid distribution stage transition")

// Stage is the progress of one distribution request.
type Stage string

const (
	StageRequested    Stage = "REQUESTED"
	StageDebtComputed Stage = "DEBT_COMPUTED"
	StageAllocated    Stage = "ALLOCATED"
	StagePersisted    Stage = "PERSISTED"
)

var nextStage = map[Stage]Stage{
	StageRequested:    StageDebtComputed,
	StageDebtComputed: StageAllocated,
	StageAllocated:    StagePersisted,
}

// StageMachine walks REQUESTED → DEBT_COMPUTED → ALLOCATED → PERSISTED.
// Stages cannot be skipped or revisited; a retry starts over at REQUESTED.
type StageMachine struct{ cur Stage }

func NewStageMachine() *StageMachine { return &StageMachine{cur: StageRequested} }

func (m *StageMachine) Current() Stage { return m.cur }

func (m *StageMachine) Advance(to Stage) error {
	if nextStage[m.cur] != to {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidStageTransition, m.cur, to)
	}
	m.cur = to
	return nil
}
