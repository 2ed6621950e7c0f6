package particle

import "github.com/davemc0/particle/pdomain"

// SourceState holds the domains and scalars a newly created particle draws
// its attributes from: everything except position, which Source/Vertex
// take directly. Every domain field accepts either a literal point (sugar
// for a zero-measure pdomain.Point) or a full Domain.
type SourceState struct {
	UpDom      pdomain.Domain
	VelDom     pdomain.Domain
	RVelDom    pdomain.Domain
	VertexBDom pdomain.Domain
	SizeDom    pdomain.Domain
	ColorDom   pdomain.Domain
	AlphaDom   pdomain.Domain

	Data uint32

	AgeMean  float32
	AgeSigma float32
	Mass     float32

	// VertexBTracksPos, when true, copies PosB from the newly sampled Pos
	// instead of drawing from VertexBDom.
	VertexBTracksPos bool
}

// NewSourceState returns a SourceState with the documented defaults: up
// (0,1,0), zero velocity, rotational velocity and B vertex, unit size,
// white color, alpha 1, mass 1, zero age and data, and PosB tracking Pos.
func NewSourceState() SourceState {
	var s SourceState
	s.Reset()
	return s
}

// Reset restores every field to its documented default.
func (s *SourceState) Reset() {
	zero := pdomain.NewPoint(Vec3{})
	s.UpDom = pdomain.NewPoint(Vec3{0, 1, 0})
	s.VelDom = zero
	s.RVelDom = zero
	s.VertexBDom = zero
	s.SizeDom = pdomain.NewPoint(Vec3{1, 1, 1})
	s.ColorDom = pdomain.NewPoint(Vec3{1, 1, 1})
	s.AlphaDom = pdomain.NewPoint(Vec3{1, 0, 0})
	s.Data = 0
	s.AgeMean = 0
	s.AgeSigma = 0
	s.Mass = 1
	s.VertexBTracksPos = true
}

// UpPoint, VelPoint, etc. are the literal-point convenience setters; they
// promote p to pdomain.NewPoint(p). The *Domain setters below cover the
// general case.
func (s *SourceState) UpPoint(p Vec3) *SourceState      { s.UpDom = pdomain.NewPoint(p); return s }
func (s *SourceState) VelPoint(p Vec3) *SourceState     { s.VelDom = pdomain.NewPoint(p); return s }
func (s *SourceState) RVelPoint(p Vec3) *SourceState    { s.RVelDom = pdomain.NewPoint(p); return s }
func (s *SourceState) VertexBPoint(p Vec3) *SourceState { s.VertexBDom = pdomain.NewPoint(p); return s }
func (s *SourceState) SizePoint(p Vec3) *SourceState    { s.SizeDom = pdomain.NewPoint(p); return s }
func (s *SourceState) ColorPoint(p Vec3) *SourceState   { s.ColorDom = pdomain.NewPoint(p); return s }
func (s *SourceState) AlphaPoint(a float32) *SourceState {
	s.AlphaDom = pdomain.NewPoint(Vec3{a, 0, 0})
	return s
}

func (s *SourceState) Up(d pdomain.Domain) *SourceState { s.UpDom = d; return s }
func (s *SourceState) VelDomain(d pdomain.Domain) *SourceState {
	s.VelDom = d
	return s
}
func (s *SourceState) RVelDomain(d pdomain.Domain) *SourceState {
	s.RVelDom = d
	return s
}
func (s *SourceState) VertexB(d pdomain.Domain) *SourceState {
	s.VertexBDom = d
	s.VertexBTracksPos = false
	return s
}
func (s *SourceState) VertexBTracks(tracks bool) *SourceState {
	s.VertexBTracksPos = tracks
	return s
}
func (s *SourceState) SizeDomain(d pdomain.Domain) *SourceState  { s.SizeDom = d; return s }
func (s *SourceState) ColorDomain(d pdomain.Domain) *SourceState { s.ColorDom = d; return s }
func (s *SourceState) AlphaDomain(d pdomain.Domain) *SourceState { s.AlphaDom = d; return s }
func (s *SourceState) StartingAge(mean, sigma float32) *SourceState {
	s.AgeMean, s.AgeSigma = mean, sigma
	return s
}
func (s *SourceState) SetMass(m float32) *SourceState { s.Mass = m; return s }
func (s *SourceState) SetData(d uint32) *SourceState  { s.Data = d; return s }
