package update

import (
	"fmt"

	"github.com/danielpatrickdp/selfswitch/internal/state"
)

// #region resolve

// Resolve computes the new switch value. current is only consulted for Toggle.
func Resolve(mode Mode, current bool) (bool, error) {
	switch mode {
	case ModeOn:
		return true, nil
	case ModeOff:
		return false, nil
	case ModeToggle:
		return !current, nil
	}
	return false, fmt.Errorf("%w: %s", ErrInvalidMode, mode)
}

// #endregion resolve

// #region update-function

// Update writes one switch. It reads the store only for Toggle and always
// writes exactly once. An invalid mode fails before the store is touched.
func Update(store state.ReadWriter, key state.Key, mode Mode) (Result, error) {
	if !mode.Valid() {
		return Result{}, fmt.Errorf("update %s: %w: %s", key, ErrInvalidMode, mode)
	}

	res := Result{Key: key, Mode: mode}
	if mode == ModeToggle {
		current, err := store.Value(key)
		if err != nil {
			return Result{}, fmt.Errorf("update %s: %w", key, err)
		}
		res.Read = true
		res.Prev = current
	}

	next, err := Resolve(mode, res.Prev)
	if err != nil {
		return Result{}, err
	}
	if err := store.SetValue(key, next); err != nil {
		return Result{}, fmt.Errorf("update %s: %w", key, err)
	}
	res.Value = next
	return res, nil
}

// #endregion update-function
