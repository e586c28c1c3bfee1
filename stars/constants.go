package stars

// Tuning constants. The aggregation is sensitive to their exact magnitudes.
const (
	objectRadius     = 64
	normalizedRadius = 52

	// SectionLength is the width in ms of one strain section.
	SectionLength = 400

	difficultyMultiplier = 0.0675

	// stackDistance is the proximity in osu!pixels under which objects stack.
	stackDistance = 3
	// stackOffsetFactor scales stack height by object scale into a position offset.
	stackOffsetFactor = -6.4

	minDeltaTime = 50

	legacyLastTickOffset = 36
	followCircleFactor   = 3

	smallCircleThreshold = 30
	performanceFloorBase = 100_000
	starRatingThreshold  = 0.00001
)

// AllObjects evaluates the whole map rather than a partial play.
const AllObjects = -1
