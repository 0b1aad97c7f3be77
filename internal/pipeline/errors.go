package pipeline

import "errors"

// ErrMissingRequiredField marks a record missing a field the pipeline will
// not default. Only the timestamp falls in this class; fabricating one would
// corrupt every time-derived feature.
var ErrMissingRequiredField = errors.New("missing required field")

// ErrInvalidEnumValue marks a transaction_type or device_type outside the
// known set. Policy: the record is rejected and reported in the batch
// summary; an absent value is treated like the other nullable fields and
// derives flags of 0.
var ErrInvalidEnumValue = errors.New("invalid enum value")
