package maze

// EntityKind tells which visual stands in for the controlled entity.
type EntityKind int

const (
	KindPlaceholder EntityKind = iota // Cylinder shown until (or instead of) the character
	KindCharacter                     // Imported character model
)

func (k EntityKind) String() string {
	if k == KindCharacter {
		return "character"
	}
	return "placeholder"
}

// Entity is the renderable attached to the pose. Movement and collision never
// depend on it; only the resting height and the drawing hints do.
type Entity struct {
	Kind       EntityKind `json:"kind"`
	Name       string     `json:"name"`
	BaseHeight float64    `json:"base_height"` // Y of the pose while this entity is attached
	Scale      float64    `json:"scale"`
	Glyph      string     `json:"glyph"`
	Color      string     `json:"color"` // hex, "#rrggbb"
	Animations []string   `json:"animations,omitempty"` // clips found in the model
	Animation  string     `json:"animation,omitempty"`  // clip playing on a loop
}

// Placeholder returns the blue cylinder used while the character loads
// and permanently if loading fails.
func Placeholder() Entity {
	return Entity{
		Kind:       KindPlaceholder,
		Name:       "placeholder",
		BaseHeight: 1,
		Scale:      1,
		Glyph:      "●",
		Color:      "#0080ff",
	}
}

// Character returns a loaded-character entity with the scene's default placement.
func Character(name string) Entity {
	return Entity{
		Kind:       KindCharacter,
		Name:       name,
		BaseHeight: 1.5,
		Scale:      3,
		Glyph:      "◆",
		Color:      "#cccccc",
	}
}

func (e Entity) clone() Entity {
	cp := e
	if e.Animations != nil {
		cp.Animations = append([]string(nil), e.Animations...)
	}
	return cp
}
