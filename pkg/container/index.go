package container

import "fmt"

// position translates a 1-based script ordinal into a 0-based host position
// within [0, limit). limit is the element count, or count+1 where the
// caller allows appending.
func position(key any, limit int) (int, error) {
	i, ok := toInt64(key)
	if !ok {
		return 0, fmt.Errorf("%w: ordinal %v is not an integer", ErrKeyType, key)
	}
	if i < 1 || i > int64(limit) {
		return 0, fmt.Errorf("%w: ordinal %d not in 1..%d", ErrOutOfRange, i, limit)
	}
	return int(i - 1), nil
}

// ordinal is the inverse of position.
func ordinal(pos int) int {
	return pos + 1
}
