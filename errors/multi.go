package errors

import "strings"

// Append clubs together all provided errors. Nil values are ignored.
//
// If given error implements unpacker interface, it is flattened. All
// represented errors are included in the final collection. This means there
// is no nesting of multi error instances.
func Append(errs ...error) error {
	var res multiError
	for _, e := range errs {
		if isNilErr(e) {
			continue
		}
		if u, ok := e.(unpacker); ok {
			res = append(res, u.Unpack()...)
		} else {
			res = append(res, e)
		}
	}
	if len(res) == 0 {
		return nil
	}
	return res
}

// multiError represents a group of errors. It is a result of combining
// multiple error instances together.
type multiError []error

var _ unpacker = (multiError)(nil)
var _ coder = (multiError)(nil)

func (errs multiError) Error() string {
	switch len(errs) {
	case 0:
		return "<nil>"
	case 1:
		return errs[0].Error()
	}
	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// ABCICode returns the ABCI code of the first contained error. All contained
// errors are tested in order of their occurrence.
func (errs multiError) ABCICode() uint32 {
	if len(errs) == 0 {
		return SuccessABCICode
	}
	return abciCode(errs[0])
}

// Unpack implements the unpacker interface.
func (errs multiError) Unpack() []error {
	return errs
}

// unpacker is implemented by errors that represent a collection of other
// errors.
type unpacker interface {
	Unpack() []error
}

func isNilErr(err error) bool {
	return errIsNil(err)
}
