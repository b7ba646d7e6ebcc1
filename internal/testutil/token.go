package testutil

// FixedTokenGenerator returns the same run token on every call.
//
// Reports stamped with a fixed token are byte-identical across runs,
// which is what golden-file comparison needs. Production runs use the
// UUIDv7 generator in the harness package instead.
//
// Stateless and safe for concurrent use.
type FixedTokenGenerator struct {
	token string
}

// NewFixedTokenGenerator creates a generator for the given token.
// An empty token falls back to "test-run-default".
func NewFixedTokenGenerator(token string) *FixedTokenGenerator {
	if token == "" {
		token = "test-run-default"
	}
	return &FixedTokenGenerator{token: token}
}

// Generate returns the fixed run token.
//
// Implements harness.TokenGenerator.
func (g *FixedTokenGenerator) Generate() string {
	return g.token
}
