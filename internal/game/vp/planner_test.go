package vp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/skirmish/internal/game/board"
	"github.com/cory-johannsen/skirmish/internal/game/session"
)

// seqSource returns scripted values, wrapping when exhausted.
type seqSource struct {
	vals []int
	i    int
}

func (s *seqSource) Intn(n int) int {
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return v % n
}

// openStepDirs marks all four neighbors of pos enterable.
func openStepDirs(pos board.Position) map[board.Direction]board.Position {
	dirs := make(map[board.Direction]board.Position, 4)
	for _, dir := range board.Directions {
		dirs[dir] = dir.Apply(pos)
	}
	return dirs
}

func offensiveState() *worldState {
	pos := board.Position{X: 2, Y: 2}
	return &worldState{
		Mode:     session.ModeClassic,
		Style:    session.StyleOffensive,
		SelfID:   "vp1",
		SelfPos:  pos,
		Movement: 3,
		Actions:  1,
		StepDirs: openStepDirs(pos),
	}
}

func TestPlanOffensive_AttacksAdjacentEnemy(t *testing.T) {
	ws := offensiveState()
	ws.Enemies = []enemyState{
		{ID: "far", Pos: board.Position{X: 7, Y: 7}},
		{ID: "near", Pos: board.Position{X: 2, Y: 1}},
	}
	agent := &agentState{PlayerID: "vp1"}

	d := plan(ws, agent, &seqSource{vals: []int{0}})

	// With an action and an adjacent enemy the command is always an
	// attack, never a move.
	assert.Equal(t, decideAttack, d.Kind)
	assert.Equal(t, "near", d.TargetID)
	assert.Equal(t, board.Position{X: 2, Y: 1}, d.Pos)
	assert.Equal(t, goalHunt, agent.Goal)
}

func TestPlanOffensive_SanctuaryWhenNoAdjacentEnemy(t *testing.T) {
	ws := offensiveState()
	ws.Enemies = []enemyState{{ID: "far", Pos: board.Position{X: 7, Y: 7}}}
	ws.AdjacentSanctuaries = []sanctuaryState{
		{ID: "heal-1", Pos: board.Position{X: 3, Y: 2}, Kind: board.ObjectHealSanctuary},
	}
	agent := &agentState{PlayerID: "vp1"}

	d := plan(ws, agent, &seqSource{vals: []int{0}})
	assert.Equal(t, decideSanctuary, d.Kind)
	assert.Equal(t, board.Position{X: 3, Y: 2}, d.Pos)
}

func TestPlanOffensive_AdvancesOnNearestEnemy(t *testing.T) {
	ws := offensiveState()
	ws.Actions = 0
	ws.Enemies = []enemyState{
		{ID: "far", Pos: board.Position{X: 7, Y: 7}},
		{ID: "near", Pos: board.Position{X: 2, Y: 5}},
	}
	agent := &agentState{PlayerID: "vp1"}

	d := plan(ws, agent, &seqSource{vals: []int{0}})
	assert.Equal(t, decideMoveToward, d.Kind)
	assert.Equal(t, "near", d.TargetID)
	assert.Equal(t, "near", agent.TargetID, "target persisted for later steps")
}

func TestPlanOffensive_KeepsPersistedTargetWhileAlive(t *testing.T) {
	ws := offensiveState()
	ws.Actions = 0
	ws.Enemies = []enemyState{
		{ID: "near", Pos: board.Position{X: 2, Y: 5}},
		{ID: "marked", Pos: board.Position{X: 7, Y: 7}},
	}
	agent := &agentState{PlayerID: "vp1", TargetID: "marked"}

	d := plan(ws, agent, &seqSource{vals: []int{0}})
	assert.Equal(t, "marked", d.TargetID, "a living target is not abandoned")

	// Once the target dies, the nearest living enemy replaces it.
	ws.Enemies = ws.Enemies[:1]
	d = plan(ws, agent, &seqSource{vals: []int{0}})
	assert.Equal(t, "near", d.TargetID)
	assert.Equal(t, "near", agent.TargetID)
}

func TestPlanOffensive_EndsTurnWhenNothingToDo(t *testing.T) {
	ws := offensiveState()
	ws.Actions = 0
	ws.Movement = 0
	ws.Enemies = []enemyState{{ID: "far", Pos: board.Position{X: 7, Y: 7}}}
	agent := &agentState{PlayerID: "vp1"}

	d := plan(ws, agent, &seqSource{vals: []int{0}})
	assert.Equal(t, decideEndTurn, d.Kind)
	assert.Equal(t, goalIdle, agent.Goal)
}

func TestPlan_WaitsDuringCombat(t *testing.T) {
	ws := offensiveState()
	ws.InCombat = true
	agent := &agentState{PlayerID: "vp1"}

	d := plan(ws, agent, &seqSource{vals: []int{0}})
	assert.Equal(t, decideWait, d.Kind)
}

func TestPlanDefensive_SanctuaryFirst(t *testing.T) {
	ws := offensiveState()
	ws.Style = session.StyleDefensive
	ws.Enemies = []enemyState{{ID: "near", Pos: board.Position{X: 2, Y: 1}}}
	ws.AdjacentSanctuaries = []sanctuaryState{
		{ID: "heal-1", Pos: board.Position{X: 3, Y: 2}, Kind: board.ObjectHealSanctuary},
	}
	agent := &agentState{PlayerID: "vp1"}

	d := plan(ws, agent, &seqSource{vals: []int{0}})
	assert.Equal(t, decideSanctuary, d.Kind, "sanctuary outranks retreat")
}

func TestPlanDefensive_RetreatsFromCloseEnemy(t *testing.T) {
	ws := offensiveState()
	ws.Style = session.StyleDefensive
	ws.Enemies = []enemyState{{ID: "near", Pos: board.Position{X: 2, Y: 0}}}
	agent := &agentState{PlayerID: "vp1"}

	d := plan(ws, agent, &seqSource{vals: []int{0}})
	require.Equal(t, decideMoveDir, d.Kind)

	// Down maximizes the minimum distance to the enemy above.
	assert.Equal(t, board.DirDown, d.Dir)
	assert.Equal(t, goalFlee, agent.Goal)
}

func TestPlanDefensive_WandersWhenSafe(t *testing.T) {
	ws := offensiveState()
	ws.Style = session.StyleDefensive
	ws.Enemies = []enemyState{{ID: "far", Pos: board.Position{X: 7, Y: 7}}}
	agent := &agentState{PlayerID: "vp1"}

	d := plan(ws, agent, &seqSource{vals: []int{1}})
	require.Equal(t, decideMoveDir, d.Kind)
	assert.Equal(t, board.DirDown, d.Dir, "second of the open directions")
	assert.Equal(t, goalWander, agent.Goal)
}

func TestPlanDefensive_EndsTurnWhenBoxedIn(t *testing.T) {
	ws := offensiveState()
	ws.Style = session.StyleDefensive
	ws.StepDirs = nil
	ws.Enemies = []enemyState{{ID: "near", Pos: board.Position{X: 2, Y: 0}}}
	agent := &agentState{PlayerID: "vp1"}

	d := plan(ws, agent, &seqSource{vals: []int{0}})
	assert.Equal(t, decideEndTurn, d.Kind)
}

func ctfState(style session.VirtualStyle) *worldState {
	ws := offensiveState()
	ws.Mode = session.ModeCaptureTheFlag
	ws.Style = style
	ws.StartPos = board.Position{X: 0, Y: 4}
	return ws
}

func TestPlanCTF_CarrierHeadsHome(t *testing.T) {
	ws := ctfState(session.StyleOffensive)
	ws.CarryingFlag = true
	ws.SelfPos = board.Position{X: 0, Y: 3} // adjacent to the start point
	ws.StepDirs = openStepDirs(ws.SelfPos)
	ws.Enemies = []enemyState{{ID: "e1", Pos: board.Position{X: 7, Y: 7}}}
	agent := &agentState{PlayerID: "vp1"}

	// Adjacent is not home: the carrier moves rather than ending the turn.
	d := plan(ws, agent, &seqSource{vals: []int{0}})
	require.Equal(t, decideMoveToward, d.Kind)
	assert.Equal(t, ws.StartPos, d.Pos)
	assert.Equal(t, goalCarryHome, agent.Goal)

	// Standing exactly on it: return.
	ws.SelfPos = ws.StartPos
	d = plan(ws, agent, &seqSource{vals: []int{0}})
	assert.Equal(t, decideReturnFlag, d.Kind)
}

func TestPlanCTF_ChasesEnemyCarrier(t *testing.T) {
	ws := ctfState(session.StyleOffensive)
	ws.Enemies = []enemyState{
		{ID: "e1", Pos: board.Position{X: 7, Y: 7}},
		{ID: "carrier", Pos: board.Position{X: 2, Y: 5}, CarryingFlag: true},
	}
	agent := &agentState{PlayerID: "vp1"}

	d := plan(ws, agent, &seqSource{vals: []int{0}})
	require.Equal(t, decideMoveToward, d.Kind)
	assert.Equal(t, "carrier", d.TargetID)
	assert.Equal(t, goalChaseCarrier, agent.Goal)

	// Adjacent carrier with an action available: attack.
	ws.Enemies[1].Pos = board.Position{X: 2, Y: 1}
	d = plan(ws, agent, &seqSource{vals: []int{0}})
	assert.Equal(t, decideAttack, d.Kind)
	assert.Equal(t, "carrier", d.TargetID)
}

func TestPlanCTF_FetchesFlag(t *testing.T) {
	ws := ctfState(session.StyleOffensive)
	ws.FlagPos = board.Position{X: 4, Y: 0}
	ws.FlagOnLand = true
	agent := &agentState{PlayerID: "vp1"}

	d := plan(ws, agent, &seqSource{vals: []int{0}})
	require.Equal(t, decideMoveToward, d.Kind)
	assert.Equal(t, ws.FlagPos, d.Pos)
	assert.Equal(t, goalFetchFlag, agent.Goal)

	// Standing on the flag: pick it up.
	ws.SelfPos = ws.FlagPos
	d = plan(ws, agent, &seqSource{vals: []int{0}})
	assert.Equal(t, decidePickUpFlag, d.Kind)
}

func TestPlanCTF_DefensiveGuardsFlag(t *testing.T) {
	ws := ctfState(session.StyleDefensive)
	ws.FlagPos = board.Position{X: 4, Y: 2}
	ws.FlagOnLand = true
	agent := &agentState{PlayerID: "vp1"}

	d := plan(ws, agent, &seqSource{vals: []int{0}})
	require.Equal(t, decideMoveToward, d.Kind, "closes on the flag to guard it")

	// Adjacent to the flag is the guard post; it never takes the flag.
	ws.SelfPos = board.Position{X: 3, Y: 2}
	d = plan(ws, agent, &seqSource{vals: []int{0}})
	assert.Equal(t, decideEndTurn, d.Kind)
	assert.Equal(t, goalIdle, agent.Goal)
}
