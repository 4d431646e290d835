package animation

// PointerMove records a pointer position given in surface pixel coordinates.
// The ring moves opposite to the pointer and by Parallax of its travel.
func (s *State) PointerMove(clientX, clientY float64) {
	s.Raw = s.parallax(Vec2{X: clientX, Y: clientY})
}

// TouchMove records the first active touch point. An empty touch list leaves
// the raw position untouched.
func (s *State) TouchMove(touches []Vec2) {
	if len(touches) == 0 {
		return
	}
	s.Raw = s.parallax(touches[0])
}

func (s *State) parallax(p Vec2) Vec2 {
	c := s.Center()
	k := s.tuning.Parallax
	return Vec2{
		X: c.X - (p.X-c.X)*k,
		Y: c.Y - (p.Y-c.Y)*k,
	}
}
