package cache

import (
	"strconv"

	"math-operations-api/internal/models"
)

// Key identifies a memoized calculation. The exponent only takes part in
// equality when HasExponent is set, so (power, 2, 10) and (power, 2) never
// collide.
type Key struct {
	Operation   models.Operation
	Value       int64
	Exponent    int64
	HasExponent bool
}

// NewKey builds the key for an operation; a nil exponent is omitted.
func NewKey(op models.Operation, value int64, exponent *int64) Key {
	k := Key{Operation: op, Value: value}
	if exponent != nil {
		k.Exponent = *exponent
		k.HasExponent = true
	}
	return k
}

// String renders the key as "op:value" or "op:value:exponent".
func (k Key) String() string {
	s := string(k.Operation) + ":" + strconv.FormatInt(k.Value, 10)
	if k.HasExponent {
		s += ":" + strconv.FormatInt(k.Exponent, 10)
	}
	return s
}
