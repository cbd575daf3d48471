package ledger

import (
	"errors"
	"fmt"

	"github.com/corvid-labs/stanza/internal/asset"
)

// Code categorizes a rejected ledger call.
type Code string

const (
	// Validation failures.
	CodeInvalidQuantity  Code = "INVALID_QUANTITY"
	CodeEmptyText        Code = "EMPTY_TEXT"
	CodeTextTooLong      Code = "TEXT_TOO_LONG"
	CodeEmptyPoem        Code = "EMPTY_POEM"
	CodeEmptyTitle       Code = "EMPTY_TITLE"
	CodeTitleTooLong     Code = "TITLE_TOO_LONG"
	CodeDuplicateVerse   Code = "DUPLICATE_VERSE"
	CodeInvalidRecipient Code = "INVALID_RECIPIENT"
	CodeInvalidComposer  Code = "INVALID_COMPOSER"

	// Authorization failures.
	CodeNotOwner      Code = "NOT_OWNER"
	CodeNotComposer   Code = "NOT_COMPOSER"
	CodeNotAuthority  Code = "NOT_AUTHORITY"
	CodeVerseNotOwned Code = "VERSE_NOT_OWNED"

	// State conflicts.
	CodeAlreadyAuthored    Code = "ALREADY_AUTHORED"
	CodeVerseLocked        Code = "VERSE_LOCKED"
	CodeNotAuthored        Code = "NOT_AUTHORED"
	CodeAlreadyLocked      Code = "ALREADY_LOCKED"
	CodeVerseNotAuthored   Code = "VERSE_NOT_AUTHORED"
	CodeVerseAlreadyLocked Code = "VERSE_ALREADY_LOCKED"
	CodeWiringSealed       Code = "WIRING_SEALED"

	// Missing assets.
	CodeNotFound Code = "NOT_FOUND"

	// Payment failures.
	CodePaymentRequired Code = "PAYMENT_REQUIRED"
)

// Class groups codes into the coarse error taxonomy callers branch on.
type Class string

const (
	ClassValidation    Class = "validation"
	ClassAuthorization Class = "authorization"
	ClassStateConflict Class = "state_conflict"
	ClassNotFound      Class = "not_found"
	ClassPayment       Class = "payment"
)

// Class returns the taxonomy class for a code.
func (c Code) Class() Class {
	switch c {
	case CodeInvalidQuantity, CodeEmptyText, CodeTextTooLong, CodeEmptyPoem,
		CodeEmptyTitle, CodeTitleTooLong, CodeDuplicateVerse,
		CodeInvalidRecipient, CodeInvalidComposer:
		return ClassValidation
	case CodeNotOwner, CodeNotComposer, CodeNotAuthority, CodeVerseNotOwned:
		return ClassAuthorization
	case CodeAlreadyAuthored, CodeVerseLocked, CodeNotAuthored, CodeAlreadyLocked,
		CodeVerseNotAuthored, CodeVerseAlreadyLocked, CodeWiringSealed:
		return ClassStateConflict
	case CodeNotFound:
		return ClassNotFound
	case CodePaymentRequired:
		return ClassPayment
	}
	return ClassValidation
}

// Error is a rejected ledger call. Every rejection is specific: the
// code names the reason and, where one exists, the offending asset.
// The ledger never surfaces a generic failure.
type Error struct {
	Code    Code
	Message string
	Verse   asset.VerseID // offending verse, 0 when not applicable
	Poem    asset.PoemID  // offending poem, 0 when not applicable
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Verse != 0:
		return fmt.Sprintf("%s: %s (verse=%d)", e.Code, e.Message, e.Verse)
	case e.Poem != 0:
		return fmt.Sprintf("%s: %s (poem=%d)", e.Code, e.Message, e.Poem)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func verseErr(code Code, id asset.VerseID, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Verse: id}
}

func poemErr(code Code, id asset.PoemID, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Poem: id}
}

func callErr(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// CodeOf extracts the ledger code from an error chain. Returns the
// empty code for non-ledger errors.
func CodeOf(err error) Code {
	var le *Error
	if errors.As(err, &le) {
		return le.Code
	}
	return ""
}

// ClassOf extracts the taxonomy class from an error chain. Returns
// the empty class for non-ledger errors.
func ClassOf(err error) Class {
	var le *Error
	if errors.As(err, &le) {
		return le.Code.Class()
	}
	return ""
}

// IsStateConflict reports whether err is a ledger state conflict.
// Uses errors.As to handle wrapped errors.
func IsStateConflict(err error) bool {
	return ClassOf(err) == ClassStateConflict
}

// IsNotFound reports whether err is a missing-asset rejection.
func IsNotFound(err error) bool {
	return ClassOf(err) == ClassNotFound
}
