package cache

import (
	"reflect"

	"github.com/pkg/errors"
)

// setPointer copies value into the variable dstPtr points to. Reflection
// panics are converted into plain errors so a bad result type surfaces to the
// caller instead of crashing a view.
func setPointer(dstPtr, value interface{}) (err error) {
	defer func() {
		if r := recover(); r != nil {
			switch rerr := r.(type) {
			case error:
				err = rerr
			case string:
				err = errors.New(rerr)
			default:
				err = errors.Errorf("Panic in reflective code: %v", rerr)
			}
		}
	}()

	dstRv := reflect.ValueOf(dstPtr)
	if dstRv.Kind() != reflect.Ptr {
		return errors.New("Result argument must be a pointer")
	}

	valueRv := reflect.ValueOf(value)
	if dstRv.Elem().Type() != valueRv.Type() {
		return errors.Errorf("Cached value of type %v cannot be stored in result of type %v",
			valueRv.Type(), dstRv.Elem().Type())
	}
	dstRv.Elem().Set(valueRv)
	return nil
}
