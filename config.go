package impulse

import "math"

const (
	maxFloat = math.MaxFloat64
	epsilon  = 2.2204460492503131e-16
	pi       = math.Pi
)

// Hard limits. These size fixed arrays and must not change at runtime.
const (
	// The maximum number of contact points between two convex shapes.
	maxManifoldPoints = 2

	// The maximum number of vertices on a convex polygon.
	maxPolygonVertices = 8
)

// Config carries every tuning value used by collision and constraint solving.
// A World captures one Config at construction and threads it, unchanged, into
// every collision, TOI and solver call. Mutating tuning values mid-simulation
// is not supported.
type Config struct {
	// A small length used as a collision and constraint tolerance. Usually it
	// is chosen to be numerically significant, but visually insignificant.
	LinearSlop float64

	// A small angle used as a collision and constraint tolerance, in radians.
	AngularSlop float64

	// The radius of the polygon/edge shape skin. Making this smaller means
	// polygons will have an insufficient buffer for continuous collision.
	// Making it larger may create artifacts for vertex collision.
	PolygonRadius float64

	// Fattening applied to AABBs in the dynamic tree. This allows proxies to
	// move by small amounts without triggering a tree adjustment.
	AABBExtension float64

	// A dimensionless multiplier applied to predicted proxy displacement.
	AABBMultiplier float64

	// Maximum number of sub-steps per contact in continuous physics.
	MaxSubSteps int

	// Maximum number of contacts handled when solving a TOI impact.
	MaxTOIContacts int

	// A velocity threshold for elastic collisions. Any collision with a
	// relative linear velocity below this threshold is treated as inelastic.
	VelocityThreshold float64

	// The maximum linear position correction used when solving constraints.
	MaxLinearCorrection float64

	// The maximum angular position correction used when solving constraints.
	MaxAngularCorrection float64

	// The maximum linear translation of a body per step.
	MaxTranslation float64

	// The maximum angular rotation of a body per step.
	MaxRotation float64

	// Scale factor controlling how fast overlap is resolved. Values close to
	// 1 often lead to overshoot.
	Baumgarte    float64
	TOIBaumgarte float64

	// The time that a body must be still before it will go to sleep.
	TimeToSleep float64

	// A body cannot sleep if its linear velocity is above this tolerance.
	LinearSleepTolerance float64

	// A body cannot sleep if its angular velocity is above this tolerance.
	AngularSleepTolerance float64
}

// DefaultConfig returns the stock tuning values. These suit worlds sized in
// meters with bodies between roughly 0.1 and 10 units.
func DefaultConfig() Config {
	const linearSlop = 0.005
	return Config{
		LinearSlop:            linearSlop,
		AngularSlop:           2.0 / 180.0 * pi,
		PolygonRadius:         2.0 * linearSlop,
		AABBExtension:         0.1,
		AABBMultiplier:        2.0,
		MaxSubSteps:           8,
		MaxTOIContacts:        32,
		VelocityThreshold:     1.0,
		MaxLinearCorrection:   0.2,
		MaxAngularCorrection:  8.0 / 180.0 * pi,
		MaxTranslation:        2.0,
		MaxRotation:           0.5 * pi,
		Baumgarte:             0.2,
		TOIBaumgarte:          0.75,
		TimeToSleep:           0.5,
		LinearSleepTolerance:  0.01,
		AngularSleepTolerance: 2.0 / 180.0 * pi,
	}
}

// assert reports caller misuse. The checked preconditions are documented in
// DESIGN.md; they run in all builds.
func assert(cond bool) {
	if !cond {
		panic("impulse: assertion failed")
	}
}
