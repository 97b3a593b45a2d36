package strictenc

import "errors"

// ErrEnumValueNotKnown is returned when decoding an enum byte that isn't
// one of the type's declared variants. Enums in this wire protocol are
// non-exhaustive on the Rust side but strict Go decoders must still
// reject unknown tags rather than silently accept them.
var ErrEnumValueNotKnown = errors.New("strictenc: enum value not known")
