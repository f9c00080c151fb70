package identifier

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/google/uuid"

	constant "github.com/Dhruv-9623/Bank-Hub/constant"
)

// DefaultMaxAttempts bounds candidate generation. The expected number of
// attempts is space/(space-used); with a 10-digit numeric space this stays
// near 1 for any realistic occupancy, so hitting the bound signals a
// near-saturated namespace rather than bad luck.
const DefaultMaxAttempts = 50

// ExistsFunc reports whether a candidate identifier is already in use.
type ExistsFunc func(ctx context.Context, candidate string) (bool, error)

// CandidateFunc produces one random candidate identifier.
type CandidateFunc func() string

// Generator draws candidates for one namespace until a free one is found.
type Generator struct {
	namespace   string
	candidate   CandidateFunc
	maxAttempts int
}

// Option configures a Generator.
type Option func(*Generator)

// WithMaxAttempts overrides the attempt budget. Non-positive values are
// ignored.
func WithMaxAttempts(attempts int) Option {
	return func(g *Generator) {
		if attempts > 0 {
			g.maxAttempts = attempts
		}
	}
}

// New creates a Generator for the given namespace and candidate factory.
func New(namespace string, candidate CandidateFunc, opts ...Option) *Generator {
	g := &Generator{
		namespace:   namespace,
		candidate:   candidate,
		maxAttempts: DefaultMaxAttempts,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}

	return g
}

// Generate returns a candidate identifier that exists reports as free.
// It fails with constant.ErrGenerationExhausted once the attempt budget is
// spent, never looping unboundedly in a saturated namespace.
func (g *Generator) Generate(ctx context.Context, exists ExistsFunc) (string, error) {
	for attempt := 0; attempt < g.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("generate %s: %w", g.namespace, err)
		}

		candidate := g.candidate()

		inUse, err := exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("check %s candidate: %w", g.namespace, err)
		}

		if !inUse {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("%s after %d attempts: %w", g.namespace, g.maxAttempts, constant.ErrGenerationExhausted)
}

// AccountNumber produces candidates of the form ACC + 10 random digits.
func AccountNumber() string {
	return constant.AccountNumberPrefix + randomDigits(10)
}

// TransactionID produces candidates of the form TXN + 10 uppercase hex
// characters drawn from a fresh UUID.
func TransactionID() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")

	return constant.TransactionIDPrefix + strings.ToUpper(raw[:10])
}

// ReferenceNumber produces a human-facing reference of the form REF + 12
// digits. References are cosmetic and intentionally not collision-checked,
// unlike account numbers and transaction ids.
func ReferenceNumber() string {
	return constant.ReferenceNumberPrefix + randomDigits(12)
}

var ten = big.NewInt(10)

func randomDigits(n int) string {
	var b strings.Builder

	b.Grow(n)

	for i := 0; i < n; i++ {
		digit, err := rand.Int(rand.Reader, ten)
		if err != nil {
			// crypto/rand is broken; degrade to a fixed digit rather than
			// blocking identifier generation.
			b.WriteByte('0')
			continue
		}

		b.WriteByte(byte('0' + digit.Int64()))
	}

	return b.String()
}
