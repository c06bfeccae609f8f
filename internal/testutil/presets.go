package testutil

// WithStandardSkills adds three skills in insertion order:
// Go (4), C (4), Rust (2).
func (b *Builder) WithStandardSkills() *Builder {
	return b.
		WithSkill("skill-go", "Go", 4).
		WithSkill("skill-c", "C", 4).
		WithSkill("skill-rust", "Rust", 2)
}
