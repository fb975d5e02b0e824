package impulse

// Profile records per-phase timings for the last step, in milliseconds.
type Profile struct {
	Step          float64
	Collide       float64
	Solve         float64
	SolveInit     float64
	SolveVelocity float64
	SolvePosition float64
	Broadphase    float64
	SolveTOI      float64
}

// StepConf configures a single simulation step.
type StepConf struct {
	// Dt is the time step, in seconds. Zero performs a static solve.
	Dt float64

	VelocityIterations int
	PositionIterations int

	// WarmStarting applies the accumulated impulses of the previous step
	// before iterating.
	WarmStarting bool

	// BlockSolve solves two-point contact constraints as a coupled 2x2 system.
	BlockSolve bool

	// ContinuousPhysics runs the time of impact sub-stepping pass.
	ContinuousPhysics bool

	// SubStepping resolves at most one TOI event per step, for debugging.
	SubStepping bool
}

// DefaultStepConf returns the step settings most simulations want.
func DefaultStepConf(dt float64) StepConf {
	return StepConf{
		Dt:                 dt,
		VelocityIterations: 8,
		PositionIterations: 3,
		WarmStarting:       true,
		BlockSolve:         true,
		ContinuousPhysics:  true,
	}
}

// timeStep is the internal per-step state derived from a StepConf.
type timeStep struct {
	dt                 float64 // time step
	invDt              float64 // inverse time step (0 if dt == 0)
	dtRatio            float64 // dt * inv_dt0
	velocityIterations int
	positionIterations int
	warmStarting       bool
	blockSolve         bool
}

// position is the solver working state for a body center and angle.
type position struct {
	c Vec2
	a float64
}

// velocity is the solver working state for a body linear and angular velocity.
type velocity struct {
	v Vec2
	w float64
}

// solverData bundles the step and the working arrays shared by the island and
// the constraint solvers.
type solverData struct {
	step       timeStep
	positions  []position
	velocities []velocity
}
