// Package policy holds the pluggable minting policy: per-call mint
// limits, the per-verse price, and text length bounds. Policies are
// declared in CUE and validated against an embedded schema, so a bad
// policy file is rejected at load time with a position-carrying error
// instead of surfacing as ledger misbehavior later.
//
// The pricing rule itself stays out of the ledger: the ledger asks
// Price(count) and compares against the attached payment, nothing
// more. Swapping free minting for priced minting is a policy file
// edit, not a code change.
package policy

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

//go:embed schema.cue
var schemaCUE string

// Policy is a validated, concrete ledger policy.
type Policy struct {
	MaxPerMint    int   `json:"maxPerMint"`
	PricePerVerse int64 `json:"pricePerVerse"`
	MaxTitleLen   int   `json:"maxTitleLen"`
	MaxVerseLen   int   `json:"maxVerseLen"`
}

// Default returns the shipped policy: free minting, at most 10 verses
// per call, title and verse bounds sized to the rendered canvas.
func Default() Policy {
	return Policy{
		MaxPerMint:    10,
		PricePerVerse: 0,
		MaxTitleLen:   120,
		MaxVerseLen:   560,
	}
}

// Price returns the required payment for minting count verses.
func (p Policy) Price(count int) int64 {
	return int64(count) * p.PricePerVerse
}

// LoadError is a policy loading failure, carrying the CUE source
// position when one is available.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error codes for policy loading.
const (
	ErrCodeNotFound   = "POLICY_NOT_FOUND"
	ErrCodeSyntax     = "POLICY_SYNTAX"
	ErrCodeInvalid    = "POLICY_INVALID"
	ErrCodeIncomplete = "POLICY_INCOMPLETE"
)

// Load reads a CUE policy file, unifies it with the embedded schema,
// and decodes the result. The file must make every #Policy field
// concrete; open constraints are rejected.
func Load(path string) (Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Policy{}, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("policy file not found: %s", path)}
		}
		return Policy{}, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error reading policy file: %v", err)}
	}

	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return Policy{}, &LoadError{Code: ErrCodeSyntax, Message: fmt.Sprintf("embedded schema: %v", err)}
	}

	file := ctx.CompileBytes(data, cue.Filename(path))
	if err := file.Err(); err != nil {
		pos := token.NoPos
		if positions := cueerrors.Positions(err); len(positions) > 0 {
			pos = positions[0]
		}
		return Policy{}, &LoadError{Code: ErrCodeSyntax, Message: cueerrors.Details(err, nil), Pos: pos}
	}

	unified := schema.Unify(file)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		pos := token.NoPos
		if positions := cueerrors.Positions(err); len(positions) > 0 {
			pos = positions[0]
		}
		return Policy{}, &LoadError{Code: ErrCodeInvalid, Message: cueerrors.Details(err, nil), Pos: pos}
	}

	var p Policy
	if err := unified.LookupPath(cue.ParsePath("policy")).Decode(&p); err != nil {
		return Policy{}, &LoadError{Code: ErrCodeIncomplete, Message: fmt.Sprintf("decode policy: %v", err)}
	}
	return p, nil
}

// LoadOrDefault loads a policy file when path is non-empty, otherwise
// returns the shipped default.
func LoadOrDefault(path string) (Policy, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}
