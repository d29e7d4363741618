package config

// Settings is the full cabinet configuration. A session reads it once at
// start and treats it as immutable.
type Settings struct {
	Difficulty string           `yaml:"difficulty"` // easy | medium | hard | expert | custom
	Seed       uint64           `yaml:"seed"`       // 0 draws from crypto/rand
	Game       GameSettings     `yaml:"game"`
	Cabinet    CabinetSettings  `yaml:"cabinet"`
	Claw       ClawSettings     `yaml:"claw"`
	Sequence   SequenceSettings `yaml:"sequence"`
	Backend    BackendSettings  `yaml:"backend"`
	Spawner    SpawnerSettings  `yaml:"spawner"`
	Prizes     []PrizeSettings  `yaml:"prizes"`
}

// Vec is a point in cabinet space (Y up).
type Vec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

// Box is an axis-aligned volume.
type Box struct {
	Min Vec `yaml:"min"`
	Max Vec `yaml:"max"`
}

// Rect is an X/Z rectangle.
type Rect struct {
	MinX float64 `yaml:"min_x"`
	MaxX float64 `yaml:"max_x"`
	MinZ float64 `yaml:"min_z"`
	MaxZ float64 `yaml:"max_z"`
}

type GameSettings struct {
	PrizesToWin int     `yaml:"prizes_to_win"`
	TimeLimit   float64 `yaml:"time_limit"` // Seconds
	FixedStep   float64 `yaml:"fixed_step"` // Physics step in seconds
}

type CabinetSettings struct {
	Walls    Box     `yaml:"walls"` // Prize field; Min.Y is the floor
	Chute    Rect    `yaml:"chute"`
	ChuteTop float64 `yaml:"chute_top"`
	CellSize float64 `yaml:"cell_size"` // Broad-phase cell edge, 0 = default
}

type ClawSettings struct {
	Origin          Vec     `yaml:"origin"` // Y is the anchor height
	Bounds          Rect    `yaml:"bounds"`
	MoveSpeed       float64 `yaml:"move_speed"`
	MinCableLength  float64 `yaml:"min_cable_length"`
	MaxDropDistance float64 `yaml:"max_drop_distance"`
	GrabOffset      float64 `yaml:"grab_offset"`
	GrabPolicy      string  `yaml:"grab_policy"` // first | nearest
	OpenAngle       float64 `yaml:"open_angle"`
	GripSpeed       float64 `yaml:"grip_speed"` // Degrees per second, 0 = instant
}

type SequenceSettings struct {
	DropSpeed       float64 `yaml:"drop_speed"`
	LiftSpeed       float64 `yaml:"lift_speed"`
	GrabDelay       float64 `yaml:"grab_delay"`
	GripSettle      float64 `yaml:"grip_settle"`
	Cooldown        float64 `yaml:"cooldown"`
	GrabRadius      float64 `yaml:"grab_radius"`
	GripStrength    float64 `yaml:"grip_strength"`
	ReturnTolerance float64 `yaml:"return_tolerance"`
}

type BackendSettings struct {
	Kind        string  `yaml:"kind"` // rigid | spring | tween
	Drag        float64 `yaml:"drag"`
	Stiffness   float64 `yaml:"stiffness"`
	Damping     float64 `yaml:"damping"`
	FollowSpeed float64 `yaml:"follow_speed"`
}

type SpawnerSettings struct {
	Interval        float64 `yaml:"interval"`
	InitialCount    int     `yaml:"initial_count"`
	PoolSizePerType int     `yaml:"pool_size_per_type"`
	MaxPerType      int     `yaml:"max_per_type"` // 0 = unbounded
	WeightConstant  float64 `yaml:"weight_constant"`
	Area            *Box    `yaml:"area,omitempty"`
	Points          []Vec   `yaml:"points,omitempty"`
}

type PrizeSettings struct {
	Key        string  `yaml:"key"`
	Name       string  `yaml:"name"`
	Score      int     `yaml:"score"`
	BaseRadius float64 `yaml:"base_radius"`
	Scenery    bool    `yaml:"scenery,omitempty"` // Collides but can never be grabbed
}
